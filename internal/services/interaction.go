package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	detect "github.com/bluespot/cli/internal/detect"
	display "github.com/bluespot/cli/internal/display"
	logger "github.com/bluespot/cli/internal/logger"
)

// Mouse is the pointer control surface the interaction step needs.
type Mouse interface {
	GetCursorPosition(ctx context.Context) (x, y int, err error)
	MoveMouse(ctx context.Context, x, y int) error
	ClickMouse(ctx context.Context, button display.MouseButton, clicks int) error
}

// Outcome describes what the interaction step ended up doing.
type Outcome int

const (
	OutcomeSkipped Outcome = iota
	OutcomeMoved
	OutcomeClicked
)

// String returns the string representation of an outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeMoved:
		return "moved"
	case OutcomeClicked:
		return "clicked"
	default:
		return "skipped"
	}
}

// InteractionResult reports the performed action and the cursor verification.
type InteractionResult struct {
	Outcome   Outcome
	Detection detect.ScreenDetection

	// CursorDrift is the largest per-axis distance between the intended
	// target and the cursor position observed after the move. Negative when
	// the cursor position could not be read back.
	CursorDrift  int
	DriftWarning bool
}

// InteractionController moves the cursor onto a chosen detection and
// optionally clicks it. A click is always preceded by a countdown window so
// the operator can abandon the action; after the move the actual cursor
// position is read back and compared against the target, since the move
// primitive is external and not guaranteed exact (the cursor can be clamped
// by another window).
type InteractionController struct {
	mouse     Mouse
	countdown time.Duration
	tolerance int
	out       io.Writer
}

// NewInteractionController creates a controller with the given countdown
// window and cursor verification tolerance in pixels.
func NewInteractionController(mouse Mouse, countdown time.Duration, tolerancePx int) *InteractionController {
	return &InteractionController{
		mouse:     mouse,
		countdown: countdown,
		tolerance: tolerancePx,
		out:       os.Stdout,
	}
}

// SetOutput redirects countdown progress output (used in tests).
func (c *InteractionController) SetOutput(w io.Writer) {
	c.out = w
}

// Interact acts on detections[index]: move the cursor there and, when click
// is set, press the left button after the countdown elapses. Cancelling the
// context during the countdown abandons the action with OutcomeSkipped.
func (c *InteractionController) Interact(ctx context.Context, detections []detect.ScreenDetection, index int, click bool) (*InteractionResult, error) {
	if len(detections) == 0 {
		return nil, fmt.Errorf("no detections to interact with")
	}
	if index < 0 || index >= len(detections) {
		return nil, fmt.Errorf("selection %d is out of range (have %d detections)", index, len(detections))
	}

	det := detections[index]

	if click && c.countdown > 0 {
		if err := c.runCountdown(ctx, det); err != nil {
			fmt.Fprintln(c.out, "cancelled")
			return &InteractionResult{Outcome: OutcomeSkipped, Detection: det, CursorDrift: -1}, nil
		}
	}

	if err := c.mouse.MoveMouse(ctx, det.X, det.Y); err != nil {
		return nil, fmt.Errorf("failed to move cursor: %w", err)
	}

	result := &InteractionResult{Outcome: OutcomeMoved, Detection: det, CursorDrift: -1}

	gotX, gotY, err := c.mouse.GetCursorPosition(ctx)
	if err != nil {
		// Not all platforms can read the cursor back; the click still goes
		// ahead, just without verification.
		logger.Debug("Cursor position readback unavailable", "error", err)
	} else {
		result.CursorDrift = maxAbs(gotX-det.X, gotY-det.Y)
		if result.CursorDrift > c.tolerance {
			result.DriftWarning = true
			logger.Warn("Cursor did not land on the intended target",
				"wanted_x", det.X, "wanted_y", det.Y, "got_x", gotX, "got_y", gotY)
		}
	}

	if !click {
		return result, nil
	}

	if err := c.mouse.ClickMouse(ctx, display.MouseButtonLeft, 1); err != nil {
		return result, fmt.Errorf("failed to click: %w", err)
	}

	result.Outcome = OutcomeClicked
	return result, nil
}

// runCountdown prints one tick per second and honors context cancellation.
func (c *InteractionController) runCountdown(ctx context.Context, det detect.ScreenDetection) error {
	seconds := int(c.countdown / time.Second)
	fmt.Fprintf(c.out, "Clicking %q at (%d, %d) in", det.Label, det.X, det.Y)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for i := seconds; i > 0; i-- {
		fmt.Fprintf(c.out, " %d", i)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}

	fmt.Fprintln(c.out)
	return nil
}

func maxAbs(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	if a > b {
		return a
	}
	return b
}
