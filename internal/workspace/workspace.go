// internal/workspace/workspace.go
package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v4/disk"
)

const dirPrefix = "upscale_"

// Workspace is an ephemeral directory tree owned by exactly one in-flight
// request. It is destroyed exactly once, regardless of how the request ends.
type Workspace struct {
	Root        string
	FramesDir   string // extracted source frames
	UpscaledDir string // engine output frames

	releaseOnce sync.Once
	releaseErr  error
}

// Manager allocates and destroys workspaces under a base directory.
type Manager struct {
	BaseDir      string
	MinFreeBytes uint64 // refuse to acquire below this free-space floor; 0 disables the guard
}

// NewManager returns a manager rooted at baseDir, defaulting to the system
// temp directory.
func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{BaseDir: baseDir}
}

// Acquire creates a uniquely namespaced workspace. Names derive from a
// fresh UUID so concurrent requests never share intermediate directories.
func (m *Manager) Acquire(ctx context.Context) (*Workspace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if m.MinFreeBytes > 0 {
		usage, err := disk.Usage(m.BaseDir)
		if err != nil {
			return nil, fmt.Errorf("check free space in %s: %w", m.BaseDir, err)
		}
		if usage.Free < m.MinFreeBytes {
			return nil, fmt.Errorf("insufficient disk space in %s: %d bytes free, need at least %d",
				m.BaseDir, usage.Free, m.MinFreeBytes)
		}
	}

	root := filepath.Join(m.BaseDir, dirPrefix+uuid.NewString())
	ws := &Workspace{
		Root:        root,
		FramesDir:   filepath.Join(root, "frames"),
		UpscaledDir: filepath.Join(root, "upscaled"),
	}

	for _, dir := range []string{ws.Root, ws.FramesDir, ws.UpscaledDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			_ = os.RemoveAll(root)
			return nil, fmt.Errorf("create workspace directory %s: %w", dir, err)
		}
	}

	return ws, nil
}

// Release recursively deletes the workspace. Safe to call more than once;
// only the first call deletes.
func (m *Manager) Release(ws *Workspace) error {
	if ws == nil {
		return nil
	}
	ws.releaseOnce.Do(func() {
		ws.releaseErr = os.RemoveAll(ws.Root)
	})
	return ws.releaseErr
}
