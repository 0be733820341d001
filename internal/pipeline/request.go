// internal/pipeline/request.go
package pipeline

import "fmt"

// Method selects the upscaling strategy for a request.
type Method string

const (
	MethodAuto        Method = "auto"
	MethodAI          Method = "ai"
	MethodTraditional Method = "traditional"
	MethodBicubic     Method = "bicubic"
	MethodLanczos     Method = "lanczos"
)

// ParseMethod converts user input into a Method.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodAuto, MethodAI, MethodTraditional, MethodBicubic, MethodLanczos:
		return Method(s), nil
	case "":
		return MethodAuto, nil
	}
	return "", fmt.Errorf("unknown method %q", s)
}

// Resolution is the configured cap on the output's longer edge.
type Resolution string

const (
	Res4K Resolution = "4K"
	Res8K Resolution = "8K"
)

// Cap returns the pixel limit for the longer output dimension.
func (r Resolution) Cap() int {
	switch r {
	case Res8K:
		return 7680
	default:
		return 3840
	}
}

// Request describes one upscaling job. Immutable once created.
type Request struct {
	InputPath     string
	OutputPath    string
	Method        Method
	ScaleFactor   int
	MaxResolution Resolution
}

// Stage identifies where the pipeline currently is. Used for status
// reporting only; never persisted.
type Stage int

const (
	StageProbing Stage = iota
	StageExtracting
	StageUpscaling
	StageReconstructing
	StageCleanup
)

func (s Stage) String() string {
	switch s {
	case StageProbing:
		return "probing"
	case StageExtracting:
		return "extracting"
	case StageUpscaling:
		return "upscaling"
	case StageReconstructing:
		return "reconstructing"
	case StageCleanup:
		return "cleanup"
	}
	return "unknown"
}

// Result reports the outcome of a request. OutputPath is set only on
// success; ErrKind and Diagnostic only on failure.
type Result struct {
	Success    bool
	MethodUsed Method
	OutputPath string
	ErrKind    ErrorKind
	Diagnostic string
	Notes      []string // warnings: downgrades, clamping, fallback
}
