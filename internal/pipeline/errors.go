// internal/pipeline/errors.go
package pipeline

import "fmt"

// ErrorKind classifies pipeline failures. Extraction and AIEngine failures
// are recoverable: the orchestrator falls back once to the traditional
// strategy. Everything else is fatal.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindConfig
	KindProbe
	KindExtraction
	KindAIEngine
	KindScale
	KindReconstruction
	KindWorkspace
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindConfig:
		return "config"
	case KindProbe:
		return "probe"
	case KindExtraction:
		return "extraction"
	case KindAIEngine:
		return "ai-engine"
	case KindScale:
		return "scale"
	case KindReconstruction:
		return "reconstruction"
	case KindWorkspace:
		return "workspace"
	}
	return "unknown"
}

// Recoverable reports whether a failure of this kind triggers the single
// traditional-path fallback.
func (k ErrorKind) Recoverable() bool {
	return k == KindExtraction || k == KindAIEngine
}

// Error is a classified pipeline failure carrying the captured diagnostic
// output of the failing component.
type Error struct {
	Kind  ErrorKind
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error during %s: %v", e.Kind, e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
