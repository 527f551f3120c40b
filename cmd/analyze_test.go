package cmd

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	detect "github.com/bluespot/cli/internal/detect"
	services "github.com/bluespot/cli/internal/services"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func TestParseRect(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    detect.Region
		wantErr bool
	}{
		{
			name:  "valid rect",
			input: "100,200,800,600",
			want:  detect.Region{X: 100, Y: 200, Width: 800, Height: 600},
		},
		{
			name:  "spaces tolerated",
			input: " 0, 0, 1920, 1080 ",
			want:  detect.Region{X: 0, Y: 0, Width: 1920, Height: 1080},
		},
		{
			name:    "too few components",
			input:   "100,200,800",
			wantErr: true,
		},
		{
			name:    "non-numeric",
			input:   "a,b,c,d",
			wantErr: true,
		},
		{
			name:    "zero width rejected",
			input:   "0,0,0,600",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRect(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadImageInput(t *testing.T) {
	writePNG := func(t *testing.T, width, height int) string {
		t.Helper()
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))))
		path := filepath.Join(t.TempDir(), "shot.png")
		require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
		return path
	}

	t.Run("region and screen span the source dimensions", func(t *testing.T) {
		service := services.NewImageService(50)
		path := writePNG(t, 100, 40)

		attachment, region, screen, err := loadImageInput(service, path)
		require.NoError(t, err)

		assert.Equal(t, detect.Region{X: 0, Y: 0, Width: 100, Height: 40}, region)
		assert.Equal(t, detect.Screen{Width: 100, Height: 40}, screen)
		// The attachment itself was downscaled.
		assert.Equal(t, 50, attachment.Width)
	})

	t.Run("unsupported file type is rejected", func(t *testing.T) {
		service := services.NewImageService(0)

		_, _, _, err := loadImageInput(service, "notes.txt")
		assert.ErrorContains(t, err, "unsupported image file")
	})

	t.Run("missing file is an error", func(t *testing.T) {
		service := services.NewImageService(0)

		_, _, _, err := loadImageInput(service, "/nonexistent/shot.png")
		assert.Error(t, err)
	})
}

func TestPrintResult(t *testing.T) {
	result := &services.AnalysisResult{
		Detections: []detect.ScreenDetection{
			{Label: "OK", X: 1050, Y: 850, Appearance: "rounded, bright blue"},
			{Label: "Submit", X: 1919, Y: 1079, Adjusted: true},
		},
		Unmapped:  1,
		EvalCount: 42,
		Duration:  1500 * time.Millisecond,
	}

	var buf bytes.Buffer
	printResult(&buf, result)
	out := buf.String()

	assert.Contains(t, out, `0. "OK" at (1050, 850)`)
	assert.Contains(t, out, "rounded, bright blue")
	assert.Contains(t, out, `1. "Submit" at (1919, 1079) [adjusted]`)
	assert.Contains(t, out, "1 candidate(s) without usable coordinates")
	assert.Contains(t, out, "42 tokens")
}

func TestPrintResult_Empty(t *testing.T) {
	var buf bytes.Buffer
	printResult(&buf, &services.AnalysisResult{})

	assert.Contains(t, buf.String(), "No blue buttons detected")
}
