package wayland

import (
	"bytes"
	"fmt"
	"image/png"
	"os/exec"
	"strconv"

	logger "github.com/bluespot/cli/internal/logger"
)

// Client drives a wlroots-based Wayland compositor through external tools:
// grim for screen capture and ydotool for pointer synthesis. Wayland has no
// stable protocol for either, so shelling out is the portable option.
type Client struct {
	display string
}

// NewClient verifies the required tools are installed.
func NewClient(display string) (*Client, error) {
	if _, err := exec.LookPath("grim"); err != nil {
		return nil, fmt.Errorf("grim is required for Wayland capture: %w", err)
	}
	return &Client{display: display}, nil
}

// Close is a no-op; the client holds no connection.
func (c *Client) Close() {}

// CaptureScreenBytes captures the whole output or a region as PNG bytes.
func (c *Client) CaptureScreenBytes(x, y, width, height int) ([]byte, error) {
	args := []string{"-t", "png"}
	if width > 0 && height > 0 {
		args = append(args, "-g", fmt.Sprintf("%d,%d %dx%d", x, y, width, height))
	}
	args = append(args, "-")

	out, err := exec.Command("grim", args...).Output()
	if err != nil {
		return nil, fmt.Errorf("grim capture failed: %w", err)
	}
	return out, nil
}

// GetScreenDimensions reports the size of the captured output. grim already
// resolves the active output, so a full capture's header carries the answer.
func (c *Client) GetScreenDimensions() (int, int, error) {
	data, err := c.CaptureScreenBytes(0, 0, 0, 0)
	if err != nil {
		return 0, 0, err
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode capture header: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// MoveMouse moves the pointer to absolute coordinates via ydotool.
func (c *Client) MoveMouse(x, y int) error {
	cmd := exec.Command("ydotool", "mousemove", "--absolute", "-x", strconv.Itoa(x), "-y", strconv.Itoa(y))
	if out, err := cmd.CombinedOutput(); err != nil {
		logger.Debug("ydotool mousemove failed", "output", string(out))
		return fmt.Errorf("ydotool mousemove failed: %w", err)
	}
	return nil
}

// ClickMouse synthesizes a press-and-release of the given button.
// ydotool button codes: 0xC0 left, 0xC1 right, 0xC2 middle.
func (c *Client) ClickMouse(button string, clicks int) error {
	var code string
	switch button {
	case "left":
		code = "0xC0"
	case "right":
		code = "0xC1"
	case "middle":
		code = "0xC2"
	default:
		return fmt.Errorf("invalid button: %s (must be 'left', 'middle', or 'right')", button)
	}

	for i := 0; i < clicks; i++ {
		cmd := exec.Command("ydotool", "click", code)
		if out, err := cmd.CombinedOutput(); err != nil {
			logger.Debug("ydotool click failed", "output", string(out))
			return fmt.Errorf("ydotool click failed: %w", err)
		}
	}
	return nil
}
