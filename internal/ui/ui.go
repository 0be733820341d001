// internal/ui/ui.go
package ui

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"

	"vidscale/internal/probe"
)

var (
	infoStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7C3AED")).
			Padding(1, 2).
			MarginTop(1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#111827"))
)

// DisplayMediaInfo renders the probed source properties.
func DisplayMediaInfo(path string, media *probe.Media) {
	audio := "no"
	if media.HasAudio {
		audio = "yes"
	}

	content := fmt.Sprintf(
		"%s %s\n"+
			"%s %dx%d\n"+
			"%s %s\n"+
			"%s %s",
		labelStyle.Render("File:"), valueStyle.Render(filepath.Base(path)),
		labelStyle.Render("Dimensions:"), media.Width, media.Height,
		labelStyle.Render("Framerate:"), valueStyle.Render(FormatFrameRate(media.FrameRate)),
		labelStyle.Render("Audio:"), valueStyle.Render(audio),
	)

	fmt.Println(infoStyle.Render(content))
}

// FormatFrameRate renders a framerate with trailing zeros trimmed.
func FormatFrameRate(rate float64) string {
	if rate <= 0 {
		return "unknown"
	}
	if rate == float64(int(rate)) {
		return fmt.Sprintf("%d fps", int(rate))
	}
	return fmt.Sprintf("%.2f fps", rate)
}

// FormatFileSize converts bytes to human-readable format.
func FormatFileSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
