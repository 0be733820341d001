// internal/probe/probe.go
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"vidscale/internal/ffmpeg"
)

// Media holds the source properties the pipeline decides on. Derived once
// per request and read-only afterward.
type Media struct {
	Width     int
	Height    int
	FrameRate float64
	HasAudio  bool
}

// Probe runs a single ffprobe JSON call against path and returns the parsed
// result. Fails when the file has no readable video stream or ffprobe
// cannot be invoked.
func Probe(ctx context.Context, path string) (*Media, error) {
	out, stderr, err := ffmpeg.RunOutput(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)
	if err != nil {
		if stderr != "" {
			return nil, fmt.Errorf("ffprobe %q: %v: %s", path, err, strings.TrimSpace(stderr))
		}
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	return ParseJSON(out)
}

// ParseJSON converts raw ffprobe JSON output into a Media. Exported for
// testing without a real ffprobe binary.
func ParseJSON(data []byte) (*Media, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}

	m := &Media{}
	found := false
	for _, s := range raw.Streams {
		switch s.CodecType {
		case "video":
			if !found {
				m.Width = s.Width
				m.Height = s.Height
				m.FrameRate = parseRational(s.AvgFrameRate)
				if m.FrameRate == 0 {
					m.FrameRate = parseRational(s.RFrameRate)
				}
				found = true
			}
		case "audio":
			m.HasAudio = true
		}
	}

	if !found || m.Width <= 0 || m.Height <= 0 {
		return nil, fmt.Errorf("no readable video stream")
	}
	return m, nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeStream struct {
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AvgFrameRate string `json:"avg_frame_rate"`
	RFrameRate   string `json:"r_frame_rate"`
}

// parseRational parses ffprobe frame rates like "30000/1001" or "25/1".
func parseRational(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "0/0" {
		return 0
	}
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0
		}
		return n / d
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
