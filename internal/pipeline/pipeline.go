// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vidscale/internal/frames"
	"vidscale/internal/log"
	"vidscale/internal/probe"
	"vidscale/internal/scaling"
	"vidscale/internal/upscaling"
	"vidscale/internal/workspace"
)

// WorkspaceManager allocates and destroys per-request workspaces.
// *workspace.Manager satisfies it.
type WorkspaceManager interface {
	Acquire(ctx context.Context) (*workspace.Workspace, error)
	Release(ws *workspace.Workspace) error
}

// Stage function signatures, swappable for testing.
type (
	ProbeFunc       func(ctx context.Context, path string) (*probe.Media, error)
	ExtractFunc     func(ctx context.Context, src, dir string) (int, error)
	UpscaleFunc     func(ctx context.Context, inputDir, outputDir string, scale int) error
	ReconstructFunc func(ctx context.Context, frameDir, originalPath, outputPath string, frameRate float64, hasAudio bool) error
	ScaleFunc       func(ctx context.Context, inputPath, outputPath string, targetWidth, targetHeight int, filter string) error
)

// StageFunc receives stage-transition events. Implementations must not
// block; the orchestrator calls it inline between stages.
type StageFunc func(stage Stage, message string)

// Orchestrator sequences the pipeline: probe, strategy selection, staged
// execution with single fallback, atomic output publication, and
// unconditional workspace cleanup.
type Orchestrator struct {
	Workspaces WorkspaceManager

	Probe         ProbeFunc
	Extract       ExtractFunc
	UpscaleFrames UpscaleFunc
	Reconstruct   ReconstructFunc
	Scale         ScaleFunc

	// AIAvailable is the one-time capability probe result, injected at
	// construction. Read-only afterward.
	AIAvailable bool

	// StageTimeout optionally bounds each external invocation. Zero means
	// unbounded; extraction and AI upscaling routinely run for hours on
	// long inputs.
	StageTimeout time.Duration

	OnStage StageFunc
}

// New wires an orchestrator to the real components. aiAvailable is the
// result of the startup capability probe for the neural engine.
func New(ws WorkspaceManager, engine *upscaling.Upscaler, aiAvailable bool) *Orchestrator {
	return &Orchestrator{
		Workspaces:    ws,
		Probe:         probe.Probe,
		Extract:       frames.Extract,
		UpscaleFrames: engine.UpscaleFrames,
		Reconstruct:   frames.Reconstruct,
		Scale:         scaling.Scale,
		AIAvailable:   aiAvailable,
	}
}

// Upscale runs one request through the pipeline and always returns a
// terminal Result; component errors never escape to the caller.
func (o *Orchestrator) Upscale(ctx context.Context, req Request) Result {
	if req.ScaleFactor < 1 {
		return o.failure(KindConfig, StageProbing, req.Method, nil,
			fmt.Errorf("scale factor must be >= 1, got %d", req.ScaleFactor))
	}

	method, note, err := o.resolveMethod(req)
	if err != nil {
		return o.failure(KindConfig, StageProbing, req.Method, nil, err)
	}
	var notes []string
	if note != "" {
		notes = append(notes, note)
		logger := log.WithComponent("pipeline")
		logger.Warn().Str("input", req.InputPath).Msg(note)
	}

	return o.run(ctx, req, method, notes, true)
}

// resolveMethod applies the capability downgrade: ai and auto silently fall
// back to traditional when the engine is unavailable. Not an error.
func (o *Orchestrator) resolveMethod(req Request) (Method, string, error) {
	switch req.Method {
	case MethodAI, MethodAuto, "":
		if !o.AIAvailable {
			return MethodTraditional, "AI engine unavailable, downgrading to traditional scaling", nil
		}
		return MethodAI, "", nil
	case MethodTraditional, MethodBicubic, MethodLanczos:
		return req.Method, "", nil
	}
	return "", "", fmt.Errorf("unknown method %q", req.Method)
}

// run executes the full pipeline once with the given strategy. A
// recoverable failure triggers exactly one fallback, which restarts the
// entire pipeline from probing with a fresh workspace.
func (o *Orchestrator) run(ctx context.Context, req Request, method Method, notes []string, allowFallback bool) Result {
	logger := log.WithComponent("pipeline")

	o.stage(StageProbing, "probing "+filepath.Base(req.InputPath))
	media, err := o.runProbe(ctx, req.InputPath)
	if err != nil {
		// Fatal, and no workspace exists yet to clean.
		return o.failure(KindProbe, StageProbing, method, notes, err)
	}

	capPx := req.MaxResolution.Cap()
	targetW, targetH, clamped := targetResolution(media.Width, media.Height, req.ScaleFactor, capPx)
	if clamped {
		note := fmt.Sprintf("requested %dx scale exceeds %s cap, clamping output to %dx%d",
			req.ScaleFactor, req.MaxResolution, targetW, targetH)
		notes = append(notes, note)
		logger.Warn().
			Int("scale", req.ScaleFactor).
			Int("target_width", targetW).
			Int("target_height", targetH).
			Msg(note)
	}

	aiScale := 0
	if method == MethodAI {
		var ok bool
		aiScale, ok = aiScaleFor(media.Width, media.Height, req.ScaleFactor, capPx)
		if !ok {
			note := fmt.Sprintf("no AI model fits scale factor %d within the %s cap, downgrading to traditional scaling",
				req.ScaleFactor, req.MaxResolution)
			notes = append(notes, note)
			logger.Warn().Msg(note)
			method = MethodTraditional
		} else if aiScale != req.ScaleFactor {
			note := fmt.Sprintf("AI scale reduced from %dx to %dx to honor the %s cap",
				req.ScaleFactor, aiScale, req.MaxResolution)
			notes = append(notes, note)
			logger.Warn().Msg(note)
		}
	}

	result := o.attempt(ctx, req, method, media, targetW, targetH, aiScale, notes)

	if !result.Success && result.ErrKind.Recoverable() && allowFallback {
		note := fmt.Sprintf("%s failed (%s), falling back to traditional scaling", method, result.ErrKind)
		logger.Warn().Str("diagnostic", result.Diagnostic).Msg(note)
		notes = append(notes, note)
		// Full restart from probing on a fresh workspace; no partial resume.
		return o.run(ctx, req, MethodTraditional, notes, false)
	}
	return result
}

// attempt acquires a workspace, executes one strategy against it, and
// releases the workspace on every exit path.
func (o *Orchestrator) attempt(ctx context.Context, req Request, method Method, media *probe.Media, targetW, targetH, aiScale int, notes []string) (result Result) {
	logger := log.WithComponent("pipeline")

	ws, err := o.Workspaces.Acquire(ctx)
	if err != nil {
		return o.failure(KindWorkspace, StageProbing, method, notes, err)
	}
	defer func() {
		o.stage(StageCleanup, "releasing workspace")
		if relErr := o.Workspaces.Release(ws); relErr != nil {
			logger.Warn().Err(relErr).Str("workspace", ws.Root).Msg("workspace release failed")
		}
	}()

	if err := os.MkdirAll(filepath.Dir(req.OutputPath), 0755); err != nil {
		return o.failure(fatalKind(method), StageProbing, method, notes,
			fmt.Errorf("create output directory: %w", err))
	}

	tmpOut := partialPath(req.OutputPath)
	if method == MethodAI {
		result = o.runAI(ctx, req, media, aiScale, ws, tmpOut, notes)
	} else {
		result = o.runTraditional(ctx, req, method, targetW, targetH, tmpOut, notes)
	}

	if !result.Success {
		_ = os.Remove(tmpOut)
		return result
	}

	// Publish atomically: the caller-visible path only ever holds a
	// complete output.
	if err := os.Rename(tmpOut, req.OutputPath); err != nil {
		_ = os.Remove(tmpOut)
		return o.failure(fatalKind(method), StageReconstructing, method, notes,
			fmt.Errorf("publish output: %w", err))
	}

	result.OutputPath = req.OutputPath
	logger.Info().
		Str("output", req.OutputPath).
		Str("method", string(result.MethodUsed)).
		Msg("upscale complete")
	return result
}

// runAI executes extract -> batch upscale -> reconstruct against the
// workspace. Extraction and engine failures are recoverable; a
// reconstruction failure is fatal.
func (o *Orchestrator) runAI(ctx context.Context, req Request, media *probe.Media, aiScale int, ws *workspace.Workspace, tmpOut string, notes []string) Result {
	o.stage(StageExtracting, "extracting frames")
	var frameCount int
	err := o.withTimeout(ctx, func(sctx context.Context) error {
		var err error
		frameCount, err = o.Extract(sctx, req.InputPath, ws.FramesDir)
		return err
	})
	if err != nil {
		return o.failure(KindExtraction, StageExtracting, MethodAI, notes, err)
	}
	logger := log.WithComponent("pipeline")
	logger.Info().Int("frames", frameCount).Msg("frames extracted")

	o.stage(StageUpscaling, fmt.Sprintf("upscaling frames %dx with AI engine", aiScale))
	err = o.withTimeout(ctx, func(sctx context.Context) error {
		return o.UpscaleFrames(sctx, ws.FramesDir, ws.UpscaledDir, aiScale)
	})
	if err != nil {
		return o.failure(KindAIEngine, StageUpscaling, MethodAI, notes, err)
	}

	o.stage(StageReconstructing, "reconstructing video")
	err = o.withTimeout(ctx, func(sctx context.Context) error {
		return o.Reconstruct(sctx, ws.UpscaledDir, req.InputPath, tmpOut, media.FrameRate, media.HasAudio)
	})
	if err != nil {
		return o.failure(KindReconstruction, StageReconstructing, MethodAI, notes, err)
	}

	return Result{Success: true, MethodUsed: MethodAI, Notes: notes}
}

// runTraditional executes the single-pass filter resize. Failures here are
// fatal; no fallback is attempted.
func (o *Orchestrator) runTraditional(ctx context.Context, req Request, method Method, targetW, targetH int, tmpOut string, notes []string) Result {
	o.stage(StageUpscaling, fmt.Sprintf("scaling to %dx%d (%s)", targetW, targetH, filterFor(method)))
	err := o.withTimeout(ctx, func(sctx context.Context) error {
		return o.Scale(sctx, req.InputPath, tmpOut, targetW, targetH, filterFor(method))
	})
	if err != nil {
		return o.failure(KindScale, StageUpscaling, method, notes, err)
	}
	return Result{Success: true, MethodUsed: method, Notes: notes}
}

func (o *Orchestrator) runProbe(ctx context.Context, path string) (media *probe.Media, err error) {
	err = o.withTimeout(ctx, func(sctx context.Context) error {
		media, err = o.Probe(sctx, path)
		return err
	})
	return media, err
}

// withTimeout runs one stage, bounded by StageTimeout when configured and
// checked against cancellation before starting.
func (o *Orchestrator) withTimeout(ctx context.Context, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if o.StageTimeout > 0 {
		sctx, cancel := context.WithTimeout(ctx, o.StageTimeout)
		defer cancel()
		return fn(sctx)
	}
	return fn(ctx)
}

func (o *Orchestrator) stage(s Stage, msg string) {
	logger := log.WithComponent("pipeline")
	logger.Info().Str("stage", s.String()).Msg(msg)
	if o.OnStage != nil {
		o.OnStage(s, msg)
	}
}

func (o *Orchestrator) failure(kind ErrorKind, stage Stage, method Method, notes []string, err error) Result {
	perr := &Error{Kind: kind, Stage: stage, Err: err}
	logger := log.WithComponent("pipeline")
	logger.Error().
		Str("kind", kind.String()).
		Str("stage", stage.String()).
		Err(err).
		Msg("pipeline stage failed")
	return Result{
		MethodUsed: method,
		ErrKind:    kind,
		Diagnostic: perr.Error(),
		Notes:      notes,
	}
}

// targetResolution applies the shared clamp policy: when the requested
// factor would push the longer edge past the cap, the effective scale
// becomes cap / max(w, h) on both dimensions, preserving aspect ratio.
// Dimensions are rounded down to even values for the encoder.
func targetResolution(width, height, scale, capPx int) (int, int, bool) {
	maxDim := width
	if height > maxDim {
		maxDim = height
	}

	eff := float64(scale)
	clamped := false
	if maxDim*scale > capPx {
		eff = float64(capPx) / float64(maxDim)
		clamped = true
	}
	return evenDim(float64(width) * eff), evenDim(float64(height) * eff), clamped
}

// aiScaleFor picks the largest supported integer model scale that keeps
// the longer edge within the cap. ok is false when no model fits.
func aiScaleFor(width, height, scale, capPx int) (int, bool) {
	if !upscaling.SupportedScale(scale) {
		return 0, false
	}
	maxDim := width
	if height > maxDim {
		maxDim = height
	}
	for s := scale; s >= 2; s-- {
		if maxDim*s <= capPx {
			return s, true
		}
	}
	return 0, false
}

func evenDim(v float64) int {
	n := int(math.Round(v))
	if n%2 == 1 {
		n--
	}
	if n < 2 {
		n = 2
	}
	return n
}

func filterFor(method Method) string {
	if method == MethodBicubic {
		return scaling.FilterBicubic
	}
	return scaling.FilterLanczos
}

// fatalKind maps a strategy to the error kind used for its non-recoverable
// publication failures.
func fatalKind(method Method) ErrorKind {
	if method == MethodAI {
		return KindReconstruction
	}
	return KindScale
}

// partialPath returns the temporary output path a strategy writes to
// before atomic publication. It keeps the container extension so ffmpeg
// selects the right muxer.
func partialPath(outputPath string) string {
	ext := filepath.Ext(outputPath)
	base := strings.TrimSuffix(outputPath, ext)
	return base + ".partial" + ext
}
