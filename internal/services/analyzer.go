package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	detect "github.com/bluespot/cli/internal/detect"
	logger "github.com/bluespot/cli/internal/logger"
	vlm "github.com/bluespot/cli/internal/vlm"
)

// ModelClient is the boundary to the vision-language model endpoint.
type ModelClient interface {
	Generate(ctx context.Context, prompt string, images ...string) ([]vlm.GenerateResponse, error)
}

// AnalysisResult is the outcome of one analyze-region-for-buttons cycle.
type AnalysisResult struct {
	Detections []detect.ScreenDetection

	// Unmapped counts candidates that carried a label but no parseable
	// coordinates; they are excluded from screen mapping.
	Unmapped int

	RawText   string
	Done      bool
	EvalCount int
	Duration  time.Duration
}

// Analyzer drives one analysis cycle: model request, response parsing and
// coordinate mapping. It issues exactly one request per call and never
// retries; a failed call yields an empty result and the error as diagnostic.
type Analyzer struct {
	client ModelClient
	prompt string
}

// NewAnalyzer creates an analyzer using the stock analysis prompt.
func NewAnalyzer(client ModelClient) *Analyzer {
	return &Analyzer{client: client, prompt: vlm.AnalysisPrompt}
}

// Analyze sends the attachment to the model and maps every parsed candidate
// into absolute screen coordinates. region is where the attachment was
// captured; screen is the current display's bounding rectangle.
func (a *Analyzer) Analyze(ctx context.Context, attachment *ImageAttachment, region detect.Region, screen detect.Screen) (*AnalysisResult, error) {
	records, err := a.client.Generate(ctx, a.prompt, attachment.Data)
	if err != nil {
		return &AnalysisResult{}, fmt.Errorf("analysis request failed: %w", err)
	}

	final, ok := selectFinal(records)
	if !ok {
		logger.Warn("Model payload contained no usable response text")
		return &AnalysisResult{}, nil
	}

	result := &AnalysisResult{
		RawText:   final.Response,
		Done:      final.Done,
		EvalCount: final.EvalCount,
		Duration:  final.Duration(),
	}

	candidates := detect.Parse(final.Response)
	logger.Debug("Parsed model response", "candidates", len(candidates))

	mismatch := detect.NeedsMismatchAdjustment(region, screen)
	if mismatch {
		logger.Warn("Capture region does not fit the current screen, detections will be rescaled proportionally",
			"region_right", region.Right(), "region_bottom", region.Bottom(),
			"screen_width", screen.Width, "screen_height", screen.Height)
	}

	for _, c := range candidates {
		if c.Position == nil {
			result.Unmapped++
			logger.Debug("Candidate has no parseable coordinates, skipping screen mapping", "label", c.Label)
			continue
		}

		p := *c.Position
		// The model reports coordinates in the pixel space of the bitmap it
		// saw. A downscaled attachment has to be mapped back into the
		// capture region's own pixel space before the offset is applied.
		if attachment.Width > 0 && attachment.Width != region.Width {
			p.X = p.X * region.Width / attachment.Width
			p.Y = p.Y * region.Height / attachment.Height
		}

		mapped := detect.ToScreen(p, region)
		det := detect.ScreenDetection{
			Label:      c.Label,
			Appearance: c.Appearance,
			X:          mapped.X,
			Y:          mapped.Y,
		}

		if mismatch {
			adjusted := detect.AdjustToScreen(mapped, region, screen)
			det.Adjusted = adjusted != mapped
			det.X, det.Y = adjusted.X, adjusted.Y
		} else if !screen.Contains(mapped) {
			// No mismatch was detected, so an overflowing point signals a
			// stale or invalid region. Report it instead of fixing it.
			det.OutOfBounds = true
			logger.Warn("Detection falls outside the current screen", "label", c.Label, "x", mapped.X, "y", mapped.Y)
		}

		result.Detections = append(result.Detections, det)
	}

	return result, nil
}

// selectFinal picks the final coherent record out of a possibly chunked
// payload: the last non-empty record whose done flag is set, falling back to
// the last non-empty record seen.
func selectFinal(records []vlm.GenerateResponse) (vlm.GenerateResponse, bool) {
	var fallback vlm.GenerateResponse
	haveFallback := false

	for i := len(records) - 1; i >= 0; i-- {
		if strings.TrimSpace(records[i].Response) == "" {
			continue
		}
		if records[i].Done {
			return records[i], true
		}
		if !haveFallback {
			fallback = records[i]
			haveFallback = true
		}
	}
	return fallback, haveFallback
}
