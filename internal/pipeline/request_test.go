package pipeline

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    Method
		wantErr bool
	}{
		{"auto", MethodAuto, false},
		{"ai", MethodAI, false},
		{"traditional", MethodTraditional, false},
		{"bicubic", MethodBicubic, false},
		{"lanczos", MethodLanczos, false},
		{"", MethodAuto, false},
		{"AI", "", true},
		{"nearest", "", true},
	}

	for _, tt := range tests {
		got, err := ParseMethod(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestResolutionCap(t *testing.T) {
	assert.Equal(t, 3840, Res4K.Cap())
	assert.Equal(t, 7680, Res8K.Cap())
	assert.Equal(t, 3840, Resolution("").Cap(), "default is 4K")
}

func TestStageString(t *testing.T) {
	stages := map[Stage]string{
		StageProbing:        "probing",
		StageExtracting:     "extracting",
		StageUpscaling:      "upscaling",
		StageReconstructing: "reconstructing",
		StageCleanup:        "cleanup",
		Stage(99):           "unknown",
	}
	for stage, want := range stages {
		assert.Equal(t, want, stage.String())
	}
}

func TestErrorKindRecoverable(t *testing.T) {
	recoverable := map[ErrorKind]bool{
		KindNone:           false,
		KindConfig:         false,
		KindProbe:          false,
		KindExtraction:     true,
		KindAIEngine:       true,
		KindScale:          false,
		KindReconstruction: false,
		KindWorkspace:      false,
	}
	for kind, want := range recoverable {
		assert.Equal(t, want, kind.Recoverable(), "kind %s", kind)
	}
}

func TestErrorWrapping(t *testing.T) {
	cause := fmt.Errorf("exit status 1")
	err := &Error{Kind: KindExtraction, Stage: StageExtracting, Err: cause}

	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "extraction")
}
