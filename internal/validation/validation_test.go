package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanPath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain path", "/videos/movie.mp4", "/videos/movie.mp4"},
		{"leading and trailing spaces", "  /videos/movie.mp4  ", "/videos/movie.mp4"},
		{"single quotes", "'/videos/movie.mp4'", "/videos/movie.mp4"},
		{"double quotes", `"/videos/movie.mp4"`, "/videos/movie.mp4"},
		{"quotes and spaces", `  "/videos/my movie.mp4"  `, "/videos/my movie.mp4"},
		{"empty", "", ""},
		{"only spaces", "   ", ""},
		{"unmatched quote kept", `"/videos/movie.mp4`, `"/videos/movie.mp4`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanPath(tt.input))
		})
	}
}

func TestValidateInputPath(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "video.mp4")
	require.NoError(t, os.WriteFile(valid, []byte("data"), 0644))

	empty := filepath.Join(dir, "empty.mkv")
	require.NoError(t, os.WriteFile(empty, nil, 0644))

	text := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(text, []byte("data"), 0644))

	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"valid file", valid, ""},
		{"valid quoted", "'" + valid + "'", ""},
		{"empty path", "", "path cannot be empty"},
		{"parent traversal", "../video.mp4", "cannot contain '..'"},
		{"missing file", filepath.Join(dir, "nope.mp4"), "does not exist"},
		{"empty file", empty, "file is empty"},
		{"unsupported extension", text, "unsupported format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInputPath(tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateInputPathRejectsDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "clips.mp4")
	require.NoError(t, os.Mkdir(dir, 0755))

	err := ValidateInputPath(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory")
}

func TestValidateOutputPath(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.mp4")

	tests := []struct {
		name    string
		output  string
		input   string
		wantErr string
	}{
		{"new file", filepath.Join(dir, "out.mp4"), input, ""},
		{"different container", filepath.Join(dir, "out.mkv"), input, ""},
		{"empty", "", input, "cannot be empty"},
		{"unsupported", filepath.Join(dir, "out.gif"), input, "unsupported output format"},
		{"same as input", input, input, "must differ from input"},
		{"quoted same as input", "'" + input + "'", input, "must differ from input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.output, tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateOutputPathRejectsDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "existing.mp4")
	require.NoError(t, os.Mkdir(dir, 0755))

	err := ValidateOutputPath(dir, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory")
}

func TestValidateScaleFactor(t *testing.T) {
	assert.NoError(t, ValidateScaleFactor(1))
	assert.NoError(t, ValidateScaleFactor(4))
	assert.Error(t, ValidateScaleFactor(0))
	assert.Error(t, ValidateScaleFactor(-2))
}
