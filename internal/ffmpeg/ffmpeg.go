// internal/ffmpeg/ffmpeg.go
package ffmpeg

import (
	"bytes"
	"context"
	"os/exec"
)

func IsFFmpegAvailable() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

func IsFFprobeAvailable() bool {
	_, err := exec.LookPath("ffprobe")
	return err == nil
}

// Result holds the outcome of a single external tool invocation.
type Result struct {
	Output string // combined stdout+stderr, kept for diagnostics
	Err    error
}

// Run executes an external tool and captures its combined output. The
// command is bound to ctx, so cancelling the context terminates the
// process. Every pipeline subprocess goes through here.
func Run(ctx context.Context, name string, args ...string) Result {
	cmd := exec.CommandContext(ctx, name, args...)

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	return Result{
		Output: buf.String(),
		Err:    err,
	}
}

// RunOutput executes an external tool and returns its stdout, with stderr
// captured separately so probing tools can emit clean structured output.
func RunOutput(ctx context.Context, name string, args ...string) ([]byte, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	return out, stderr.String(), err
}
