package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFrameRate(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{30, "30 fps"},
		{24, "24 fps"},
		{29.97002997002997, "29.97 fps"},
		{23.976023976023978, "23.98 fps"},
		{0, "unknown"},
		{-5, "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFrameRate(tt.rate))
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{5 * 1024 * 1024 * 1024, "5.0 GB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFileSize(tt.bytes))
	}
}
