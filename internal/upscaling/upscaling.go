// internal/upscaling/upscaling.go
package upscaling

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/shirou/gopsutil/v4/mem"

	"vidscale/internal/ffmpeg"
)

// DefaultBinary is the neural engine executable looked up on PATH.
const DefaultBinary = "realesrgan-ncnn-vulkan"

// Models maps each supported integer scale factor to the engine model
// identifier selected for it.
var Models = map[int]string{
	2: "realesr-animevideov3-x2",
	3: "realesr-animevideov3-x3",
	4: "realesrgan-x4plus",
}

// MemoryEstimate describes expected memory pressure for a batch run.
type MemoryEstimate struct {
	EstimatedGB     float64
	AvailableGB     float64
	RecommendedSafe bool
}

// Upscaler invokes the neural upscaling engine over a directory of frames.
type Upscaler struct {
	BinPath string
}

// NewUpscaler creates an upscaler bound to binPath, defaulting to
// DefaultBinary on PATH.
func NewUpscaler(binPath string) *Upscaler {
	if binPath == "" {
		binPath = DefaultBinary
	}
	return &Upscaler{BinPath: binPath}
}

// Available reports whether the engine binary can be invoked. Intended to
// be called once at startup; the result is injected into the orchestrator.
func (u *Upscaler) Available() bool {
	_, err := exec.LookPath(u.BinPath)
	return err == nil
}

// SupportedScale reports whether a model exists for the given factor.
func SupportedScale(scale int) bool {
	_, ok := Models[scale]
	return ok
}

// UpscaleFrames runs the engine once in batch mode over every frame in
// inputDir, writing results to outputDir. A missing binary or non-zero
// exit is an error carrying the captured engine output.
func (u *Upscaler) UpscaleFrames(ctx context.Context, inputDir, outputDir string, scale int) error {
	model, ok := Models[scale]
	if !ok {
		return fmt.Errorf("no upscaling model for scale factor %d", scale)
	}
	if !u.Available() {
		return fmt.Errorf("upscaling engine %s not found in PATH", u.BinPath)
	}

	res := ffmpeg.Run(ctx, u.BinPath,
		"-i", inputDir,
		"-o", outputDir,
		"-n", model,
		"-s", fmt.Sprintf("%d", scale),
		"-f", "png",
	)
	if res.Err != nil {
		return fmt.Errorf("upscaling engine failed: %w\n%s", res.Err, res.Output)
	}
	return nil
}

// EstimateMemory estimates memory requirements for upscaling frames of the
// given dimensions. Informational only; the pipeline does not gate on it.
func EstimateMemory(width, height, scale int) (*MemoryEstimate, error) {
	const (
		dtypeSize      = 4   // float32 per channel
		modelMemoryGB  = 2.0 // approximate model footprint
		overheadFactor = 1.5
		safetyMargin   = 0.8 // use at most 80% of available memory
	)

	inputBytes := float64(width * height * 3 * dtypeSize)
	outputBytes := float64((width * scale) * (height * scale) * 3 * dtypeSize)
	totalBytes := (inputBytes + outputBytes + modelMemoryGB*1024*1024*1024) * overheadFactor
	estimatedGB := totalBytes / (1024 * 1024 * 1024)

	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil, fmt.Errorf("read system memory: %w", err)
	}
	availableGB := float64(vm.Available) / (1024 * 1024 * 1024)

	return &MemoryEstimate{
		EstimatedGB:     estimatedGB,
		AvailableGB:     availableGB,
		RecommendedSafe: estimatedGB <= availableGB*safetyMargin,
	}, nil
}
