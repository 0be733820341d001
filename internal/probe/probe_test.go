package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		want    Media
		wantErr bool
	}{
		{
			name: "video with audio",
			json: `{"streams":[
				{"codec_type":"video","width":1920,"height":1080,"avg_frame_rate":"25/1"},
				{"codec_type":"audio"}
			]}`,
			want: Media{Width: 1920, Height: 1080, FrameRate: 25, HasAudio: true},
		},
		{
			name: "video without audio",
			json: `{"streams":[
				{"codec_type":"video","width":1280,"height":720,"avg_frame_rate":"30/1"}
			]}`,
			want: Media{Width: 1280, Height: 720, FrameRate: 30},
		},
		{
			name: "ntsc fractional framerate",
			json: `{"streams":[
				{"codec_type":"video","width":720,"height":480,"avg_frame_rate":"30000/1001"}
			]}`,
			want: Media{Width: 720, Height: 480, FrameRate: 30000.0 / 1001.0},
		},
		{
			name: "falls back to r_frame_rate",
			json: `{"streams":[
				{"codec_type":"video","width":640,"height":360,"avg_frame_rate":"0/0","r_frame_rate":"24/1"}
			]}`,
			want: Media{Width: 640, Height: 360, FrameRate: 24},
		},
		{
			name: "first video stream wins",
			json: `{"streams":[
				{"codec_type":"video","width":1920,"height":1080,"avg_frame_rate":"25/1"},
				{"codec_type":"video","width":640,"height":360,"avg_frame_rate":"10/1"}
			]}`,
			want: Media{Width: 1920, Height: 1080, FrameRate: 25},
		},
		{
			name:    "audio only",
			json:    `{"streams":[{"codec_type":"audio"}]}`,
			wantErr: true,
		},
		{
			name:    "no streams",
			json:    `{"streams":[]}`,
			wantErr: true,
		},
		{
			name:    "zero dimensions",
			json:    `{"streams":[{"codec_type":"video","width":0,"height":0}]}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			json:    `{"streams":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseJSON([]byte(tt.json))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestParseRational(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"25/1", 25},
		{"30000/1001", 30000.0 / 1001.0},
		{"24", 24},
		{"0/0", 0},
		{"", 0},
		{"abc", 0},
		{"25/0", 0},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, parseRational(tt.in), 1e-9, "parseRational(%q)", tt.in)
	}
}
