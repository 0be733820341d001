package scaling

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScaleRejectsInvalidResolution(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"zero width", 0, 1080},
		{"zero height", 1920, 0},
		{"negative", -1280, -720},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Scale(context.Background(), "in.mp4", "out.mp4", tt.w, tt.h, FilterLanczos)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "invalid target resolution")
		})
	}
}

func TestTail(t *testing.T) {
	var lines []string
	for i := 0; i < 30; i++ {
		lines = append(lines, fmt.Sprintf("%d", i))
	}
	out := strings.Split(tail(strings.Join(lines, "\n")), "\n")
	assert.Len(t, out, 20)
	assert.Equal(t, "10", out[0])
}
