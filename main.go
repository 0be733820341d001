// main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/manifoldco/promptui"
	"github.com/schollz/progressbar/v3"

	"vidscale/internal/ffmpeg"
	"vidscale/internal/log"
	"vidscale/internal/pipeline"
	"vidscale/internal/probe"
	"vidscale/internal/ui"
	"vidscale/internal/upscaling"
	"vidscale/internal/validation"
	"vidscale/internal/workspace"
)

// Refuse to start a request with less than 1 GiB free in the workspace base.
const minWorkspaceFreeBytes = 1 << 30

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			MarginBottom(1)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)
)

func main() {
	log.Configure(log.Config{})

	fmt.Println(titleStyle.Render("🎬 VidScale"))
	fmt.Println("Upscale video resolution with AI or traditional filters.")

	if !ffmpeg.IsFFmpegAvailable() || !ffmpeg.IsFFprobeAvailable() {
		fmt.Println(errorStyle.Render("❌ ffmpeg/ffprobe not installed or not in PATH"))
		os.Exit(1)
	}

	// One-time capability probe for the neural engine, injected below.
	engine := upscaling.NewUpscaler(os.Getenv("VIDSCALE_ENGINE"))
	aiAvailable := engine.Available()
	if !aiAvailable {
		fmt.Println(warnStyle.Render("⚠ AI engine (" + engine.BinPath + ") not found; AI requests will use traditional scaling"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	inputPath, err := promptInputPath()
	if err != nil {
		exitPromptErr(err)
	}

	media, err := probe.Probe(ctx, inputPath)
	if err != nil {
		fmt.Println(errorStyle.Render(fmt.Sprintf("❌ Cannot read video: %v", err)))
		os.Exit(1)
	}
	ui.DisplayMediaInfo(inputPath, media)

	method, err := promptMethod()
	if err != nil {
		exitPromptErr(err)
	}

	scale, err := promptScaleFactor()
	if err != nil {
		exitPromptErr(err)
	}

	maxRes, err := promptMaxResolution()
	if err != nil {
		exitPromptErr(err)
	}

	outputPath, err := promptOutputPath(inputPath)
	if err != nil {
		exitPromptErr(err)
	}

	if (method == pipeline.MethodAI || method == pipeline.MethodAuto) && aiAvailable {
		showMemoryEstimate(media, scale)
	}

	manager := workspace.NewManager("")
	manager.MinFreeBytes = minWorkspaceFreeBytes
	orch := pipeline.New(manager, engine, aiAvailable)

	bar := progressbar.NewOptions(int(pipeline.StageCleanup)+1,
		progressbar.OptionSetDescription("Starting"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetRenderBlankState(true),
	)
	orch.OnStage = func(stage pipeline.Stage, msg string) {
		bar.Describe(titleCase(stage.String()))
		_ = bar.Set(int(stage) + 1)
	}

	result := orch.Upscale(ctx, pipeline.Request{
		InputPath:     inputPath,
		OutputPath:    outputPath,
		Method:        method,
		ScaleFactor:   scale,
		MaxResolution: maxRes,
	})
	_ = bar.Finish()
	fmt.Println()

	for _, note := range result.Notes {
		fmt.Println(warnStyle.Render("⚠ " + note))
	}

	if !result.Success {
		fmt.Println(errorStyle.Render("❌ Upscaling failed: " + result.Diagnostic))
		os.Exit(1)
	}

	fmt.Println(successStyle.Render("✅ Upscaling completed successfully!"))
	fmt.Printf("Method used: %s\n", result.MethodUsed)
	fmt.Printf("Saved to: %s\n", result.OutputPath)
	if info, err := os.Stat(result.OutputPath); err == nil {
		fmt.Printf("Output size: %s\n", ui.FormatFileSize(info.Size()))
	}
}

func promptInputPath() (string, error) {
	prompt := promptui.Prompt{
		Label:    "📁 Input video path",
		Validate: validation.ValidateInputPath,
	}
	raw, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return filepath.Abs(validation.CleanPath(raw))
}

func promptMethod() (pipeline.Method, error) {
	items := []string{
		"Auto (AI when available)",
		"AI (neural upscaling)",
		"Traditional (lanczos resize)",
		"Bicubic resize",
		"Lanczos resize",
	}
	methods := []pipeline.Method{
		pipeline.MethodAuto,
		pipeline.MethodAI,
		pipeline.MethodTraditional,
		pipeline.MethodBicubic,
		pipeline.MethodLanczos,
	}

	sel := promptui.Select{Label: "🧠 Upscaling method", Items: items}
	idx, _, err := sel.Run()
	if err != nil {
		return "", err
	}
	return methods[idx], nil
}

func promptScaleFactor() (int, error) {
	prompt := promptui.Prompt{
		Label:   "📐 Scale factor (default 2)",
		Default: "2",
		Validate: func(input string) error {
			n, err := strconv.Atoi(strings.TrimSpace(input))
			if err != nil {
				return fmt.Errorf("not a number")
			}
			return validation.ValidateScaleFactor(n)
		},
	}
	raw, err := prompt.Run()
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(raw))
}

func promptMaxResolution() (pipeline.Resolution, error) {
	sel := promptui.Select{
		Label: "🖥  Maximum output resolution",
		Items: []string{"4K (3840px)", "8K (7680px)"},
	}
	idx, _, err := sel.Run()
	if err != nil {
		return "", err
	}
	if idx == 1 {
		return pipeline.Res8K, nil
	}
	return pipeline.Res4K, nil
}

func promptOutputPath(inputPath string) (string, error) {
	ext := filepath.Ext(inputPath)
	defaultOut := strings.TrimSuffix(inputPath, ext) + "_upscaled" + ext

	prompt := promptui.Prompt{
		Label:   "💾 Output path",
		Default: defaultOut,
		Validate: func(input string) error {
			return validation.ValidateOutputPath(input, inputPath)
		},
	}
	raw, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return filepath.Abs(validation.CleanPath(raw))
}

func showMemoryEstimate(media *probe.Media, scale int) {
	estimate, err := upscaling.EstimateMemory(media.Width, media.Height, scale)
	if err != nil {
		return
	}
	if !estimate.RecommendedSafe {
		fmt.Println(warnStyle.Render(fmt.Sprintf(
			"⚠ AI upscaling may need ~%.1f GB memory (%.1f GB available)",
			estimate.EstimatedGB, estimate.AvailableGB)))
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func exitPromptErr(err error) {
	if err == promptui.ErrInterrupt {
		os.Exit(130)
	}
	fmt.Println(errorStyle.Render(fmt.Sprintf("❌ %v", err)))
	os.Exit(1)
}
