package services

import (
	"context"
	"fmt"
	"testing"

	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"

	detect "github.com/bluespot/cli/internal/detect"
	vlm "github.com/bluespot/cli/internal/vlm"
)

type fakeModelClient struct {
	records []vlm.GenerateResponse
	err     error

	gotPrompt string
	gotImages []string
}

func (f *fakeModelClient) Generate(_ context.Context, prompt string, images ...string) ([]vlm.GenerateResponse, error) {
	f.gotPrompt = prompt
	f.gotImages = images
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func attachmentFor(region detect.Region) *ImageAttachment {
	return &ImageAttachment{
		Data:   "aW1hZ2U=",
		Width:  region.Width,
		Height: region.Height,
	}
}

func TestAnalyzer_EndToEnd(t *testing.T) {
	region := detect.Region{X: 1000, Y: 800, Width: 200, Height: 150}
	screen := detect.Screen{Width: 1920, Height: 1080}

	client := &fakeModelClient{records: []vlm.GenerateResponse{{
		Response: "BUTTON 1:\nText: \"OK\"\nPosition: (50,50)",
		Done:     true,
	}}}

	result, err := NewAnalyzer(client).Analyze(context.Background(), attachmentFor(region), region, screen)
	require.NoError(t, err)
	require.Len(t, result.Detections, 1)

	det := result.Detections[0]
	assert.Equal(t, "OK", det.Label)
	assert.Equal(t, 1050, det.X)
	assert.Equal(t, 850, det.Y)
	assert.False(t, det.Adjusted)
	assert.False(t, det.OutOfBounds)

	assert.Equal(t, vlm.AnalysisPrompt, client.gotPrompt)
	assert.Equal(t, []string{"aW1hZ2U="}, client.gotImages)
}

func TestAnalyzer_FragmentSelection(t *testing.T) {
	region := detect.Region{X: 0, Y: 0, Width: 100, Height: 100}
	screen := detect.Screen{Width: 1920, Height: 1080}

	t.Run("last done record wins", func(t *testing.T) {
		client := &fakeModelClient{records: []vlm.GenerateResponse{
			{Response: "BUTTON 1:\nText: \"Partial\"\nPosition: (1, 1)", Done: false},
			{Response: "BUTTON 1:\nText: \"Final\"\nPosition: (2, 2)", Done: true},
			{Response: "", Done: true},
		}}

		result, err := NewAnalyzer(client).Analyze(context.Background(), attachmentFor(region), region, screen)
		require.NoError(t, err)
		require.Len(t, result.Detections, 1)
		assert.Equal(t, "Final", result.Detections[0].Label)
		assert.True(t, result.Done)
	})

	t.Run("falls back to last non-empty record", func(t *testing.T) {
		client := &fakeModelClient{records: []vlm.GenerateResponse{
			{Response: "BUTTON 1:\nText: \"First\"\nPosition: (1, 1)", Done: false},
			{Response: "BUTTON 1:\nText: \"Last\"\nPosition: (2, 2)", Done: false},
		}}

		result, err := NewAnalyzer(client).Analyze(context.Background(), attachmentFor(region), region, screen)
		require.NoError(t, err)
		require.Len(t, result.Detections, 1)
		assert.Equal(t, "Last", result.Detections[0].Label)
	})

	t.Run("all-empty payload yields empty result without error", func(t *testing.T) {
		client := &fakeModelClient{records: []vlm.GenerateResponse{{Response: "   ", Done: true}}}

		result, err := NewAnalyzer(client).Analyze(context.Background(), attachmentFor(region), region, screen)
		require.NoError(t, err)
		assert.Empty(t, result.Detections)
	})
}

func TestAnalyzer_RequestFailure(t *testing.T) {
	region := detect.Region{X: 0, Y: 0, Width: 100, Height: 100}
	screen := detect.Screen{Width: 1920, Height: 1080}

	client := &fakeModelClient{err: fmt.Errorf("connection refused")}

	result, err := NewAnalyzer(client).Analyze(context.Background(), attachmentFor(region), region, screen)
	require.Error(t, err)
	assert.Empty(t, result.Detections)
}

func TestAnalyzer_CoordinateMapping(t *testing.T) {
	screen := detect.Screen{Width: 1920, Height: 1080}

	t.Run("mismatched region is adjusted proportionally", func(t *testing.T) {
		// Saved against a wider layout than the current screen.
		region := detect.Region{X: 2000, Y: 200, Width: 400, Height: 400}

		client := &fakeModelClient{records: []vlm.GenerateResponse{{
			Response: "BUTTON 1:\nText: \"Center\"\nPosition: (200, 200)",
			Done:     true,
		}}}

		result, err := NewAnalyzer(client).Analyze(context.Background(), attachmentFor(region), region, screen)
		require.NoError(t, err)
		require.Len(t, result.Detections, 1)

		det := result.Detections[0]
		assert.True(t, det.Adjusted)
		assert.Equal(t, 960, det.X)
		assert.Equal(t, 540, det.Y)
	})

	t.Run("out-of-bounds point without mismatch is reported, not fixed", func(t *testing.T) {
		region := detect.Region{X: 1800, Y: 1000, Width: 100, Height: 50}

		client := &fakeModelClient{records: []vlm.GenerateResponse{{
			// The model hallucinated a position past the region's edge.
			Response: "BUTTON 1:\nText: \"Ghost\"\nPosition: (500, 40)",
			Done:     true,
		}}}

		result, err := NewAnalyzer(client).Analyze(context.Background(), attachmentFor(region), region, screen)
		require.NoError(t, err)
		require.Len(t, result.Detections, 1)

		det := result.Detections[0]
		assert.True(t, det.OutOfBounds)
		assert.False(t, det.Adjusted)
		assert.Equal(t, 2300, det.X)
	})

	t.Run("downscaled attachment coordinates are mapped back", func(t *testing.T) {
		region := detect.Region{X: 100, Y: 100, Width: 200, Height: 150}
		attachment := &ImageAttachment{Data: "aW1hZ2U=", Width: 100, Height: 75}

		client := &fakeModelClient{records: []vlm.GenerateResponse{{
			Response: "BUTTON 1:\nText: \"Scaled\"\nPosition: (50, 25)",
			Done:     true,
		}}}

		result, err := NewAnalyzer(client).Analyze(context.Background(), attachment, region, screen)
		require.NoError(t, err)
		require.Len(t, result.Detections, 1)

		assert.Equal(t, 200, result.Detections[0].X)
		assert.Equal(t, 150, result.Detections[0].Y)
	})

	t.Run("candidates without coordinates are counted, not mapped", func(t *testing.T) {
		region := detect.Region{X: 0, Y: 0, Width: 100, Height: 100}

		client := &fakeModelClient{records: []vlm.GenerateResponse{{
			Response: "BUTTON 1:\nText: \"NoCoords\"\nPosition: unknown\n\nBUTTON 2:\nText: \"Good\"\nPosition: (10, 10)",
			Done:     true,
		}}}

		result, err := NewAnalyzer(client).Analyze(context.Background(), attachmentFor(region), region, screen)
		require.NoError(t, err)
		require.Len(t, result.Detections, 1)
		assert.Equal(t, "Good", result.Detections[0].Label)
		assert.Equal(t, 1, result.Unmapped)
	})
}
