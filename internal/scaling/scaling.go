// internal/scaling/scaling.go
package scaling

import (
	"context"
	"fmt"
	"strings"

	"vidscale/internal/ffmpeg"
)

// Scale filters supported by the traditional path. FilterLanczos is the
// documented default.
const (
	FilterLanczos = "lanczos"
	FilterBicubic = "bicubic"
)

// Scale resizes and re-encodes the video stream of inputPath to exactly
// targetWidth x targetHeight in a single ffmpeg pass, copying the audio
// stream unmodified. Quality preset is fixed: libx264, preset medium,
// CRF 18. A non-zero exit is an error carrying the captured tool output.
func Scale(ctx context.Context, inputPath, outputPath string, targetWidth, targetHeight int, filter string) error {
	if targetWidth <= 0 || targetHeight <= 0 {
		return fmt.Errorf("invalid target resolution %dx%d", targetWidth, targetHeight)
	}
	if filter == "" {
		filter = FilterLanczos
	}

	res := ffmpeg.Run(ctx, "ffmpeg",
		"-i", inputPath,
		"-vf", fmt.Sprintf("scale=%d:%d:flags=%s", targetWidth, targetHeight, filter),
		"-c:v", "libx264",
		"-preset", "medium",
		"-crf", "18",
		"-c:a", "copy",
		"-y", outputPath,
	)
	if res.Err != nil {
		return fmt.Errorf("scale %s to %dx%d: %w\n%s",
			inputPath, targetWidth, targetHeight, res.Err, tail(res.Output))
	}
	return nil
}

func tail(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) > 20 {
		lines = lines[len(lines)-20:]
	}
	return strings.Join(lines, "\n")
}
