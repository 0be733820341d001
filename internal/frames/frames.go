// internal/frames/frames.go
package frames

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "image/png"

	"vidscale/internal/ffmpeg"
	"vidscale/internal/log"
)

// Frame-naming contract between extraction and reconstruction. Frames must
// be numbered sequentially with this exact prefix and zero padding so the
// image2 demuxer reassembles them in original temporal order.
const (
	FramePrefix = "frame_"
	FrameDigits = 6
	FrameExt    = ".png"
)

// Pattern is the printf-style sequence pattern ffmpeg uses on both ends.
func Pattern(dir string) string {
	return filepath.Join(dir, fmt.Sprintf("%s%%0%dd%s", FramePrefix, FrameDigits, FrameExt))
}

// Extract decomposes src into sequentially numbered still images inside
// dir and returns the number of frames written. A non-zero ffmpeg exit or
// an empty result is an error carrying the captured tool output.
func Extract(ctx context.Context, src, dir string) (int, error) {
	res := ffmpeg.Run(ctx, "ffmpeg",
		"-i", src,
		"-qscale:v", "2",
		"-y", Pattern(dir),
	)
	if res.Err != nil {
		return 0, fmt.Errorf("extract frames from %s: %w\n%s", src, res.Err, tail(res.Output))
	}

	count, err := Count(dir)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, fmt.Errorf("no frames extracted from %s\n%s", src, tail(res.Output))
	}
	return count, nil
}

// Count returns how many frames matching the naming contract exist in dir.
func Count(dir string) (int, error) {
	matches, err := filepath.Glob(filepath.Join(dir, FramePrefix+"*"+FrameExt))
	if err != nil {
		return 0, fmt.Errorf("list frames in %s: %w", dir, err)
	}
	return len(matches), nil
}

// Reconstruct encodes the frame sequence in frameDir at frameRate and
// remuxes the original file's audio stream without re-encoding it. The
// output resolution comes directly from the upscaled frames; it is never
// recomputed here.
func Reconstruct(ctx context.Context, frameDir, originalPath, outputPath string, frameRate float64, hasAudio bool) error {
	if w, h, err := firstFrameSize(frameDir); err == nil {
		logger := log.WithComponent("frames")
		logger.Info().
			Int("width", w).
			Int("height", h).
			Msg("reconstructing at frame resolution")
	}

	args := []string{
		"-framerate", formatRate(frameRate),
		"-i", Pattern(frameDir),
	}
	if hasAudio {
		args = append(args,
			"-i", originalPath,
			"-map", "0:v:0",
			"-map", "1:a:0?",
			"-c:a", "copy",
		)
	}
	args = append(args,
		"-c:v", "libx264",
		"-preset", "medium",
		"-crf", "18",
		"-pix_fmt", "yuv420p",
		"-shortest",
		"-y", outputPath,
	)

	res := ffmpeg.Run(ctx, "ffmpeg", args...)
	if res.Err != nil {
		return fmt.Errorf("reconstruct video into %s: %w\n%s", outputPath, res.Err, tail(res.Output))
	}
	return nil
}

// firstFrameSize reads the dimensions of the lowest-numbered frame in dir.
func firstFrameSize(dir string) (int, int, error) {
	matches, err := filepath.Glob(filepath.Join(dir, FramePrefix+"*"+FrameExt))
	if err != nil || len(matches) == 0 {
		return 0, 0, fmt.Errorf("no frames in %s", dir)
	}
	sort.Strings(matches)

	f, err := os.Open(matches[0])
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode frame header %s: %w", matches[0], err)
	}
	return cfg.Width, cfg.Height, nil
}

func formatRate(rate float64) string {
	if rate <= 0 {
		rate = 30
	}
	return strconv.FormatFloat(rate, 'f', -1, 64)
}

// tail trims captured tool output to its last lines for error reporting.
func tail(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) > 20 {
		lines = lines[len(lines)-20:]
	}
	return strings.Join(lines, "\n")
}
