//go:build darwin

package macos

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	robotgo "github.com/go-vgo/robotgo"
)

// Client provides macOS screen capture and pointer control using RobotGo.
type Client struct {
	screenWidth  int
	screenHeight int
}

// NewClient creates a macOS client and caches the main display size.
func NewClient() *Client {
	width, height := robotgo.GetScreenSize()
	return &Client{screenWidth: width, screenHeight: height}
}

// Close is a no-op; RobotGo holds no persistent connection.
func (c *Client) Close() {}

// GetScreenDimensions returns the main display width and height.
func (c *Client) GetScreenDimensions() (int, int) {
	return c.screenWidth, c.screenHeight
}

// CaptureScreen captures the whole screen or a region.
func (c *Client) CaptureScreen(x, y, width, height int) (image.Image, error) {
	if width == 0 || height == 0 {
		x, y = 0, 0
		width, height = c.screenWidth, c.screenHeight
	}

	bitmap := robotgo.CaptureScreen(x, y, width, height)
	if bitmap == nil {
		return nil, fmt.Errorf("failed to capture screen region %d,%d %dx%d", x, y, width, height)
	}
	defer robotgo.FreeBitmap(bitmap)

	img := robotgo.ToImage(bitmap)
	if img == nil {
		return nil, fmt.Errorf("failed to convert captured bitmap")
	}
	return img, nil
}

// CaptureScreenBytes captures a screenshot and returns it as PNG bytes.
func (c *Client) CaptureScreenBytes(x, y, width, height int) ([]byte, error) {
	img, err := c.CaptureScreen(x, y, width, height)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// GetCursorPosition returns the current cursor position.
func (c *Client) GetCursorPosition() (int, int, error) {
	x, y := robotgo.Location()
	return x, y, nil
}

// MoveMouse moves the cursor to absolute coordinates.
func (c *Client) MoveMouse(x, y int) error {
	robotgo.Move(x, y)
	return nil
}

// ClickMouse performs a click at the current cursor position.
func (c *Client) ClickMouse(button string, clicks int) error {
	switch button {
	case "left", "middle", "right":
	default:
		return fmt.Errorf("invalid button: %s (must be 'left', 'middle', or 'right')", button)
	}

	for i := 0; i < clicks; i++ {
		robotgo.Click(button, false)
	}
	return nil
}
