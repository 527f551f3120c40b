//go:build darwin

package macos

import (
	"context"
	"image"
	"runtime"

	display "github.com/bluespot/cli/internal/display"
)

// Controller adapts Client to the display.DisplayController interface
type Controller struct {
	client *Client
}

var _ display.DisplayController = (*Controller)(nil)

// CaptureScreenBytes captures a screenshot and returns PNG bytes
func (c *Controller) CaptureScreenBytes(ctx context.Context, region *display.Region) ([]byte, error) {
	if region == nil {
		return c.client.CaptureScreenBytes(0, 0, 0, 0)
	}
	return c.client.CaptureScreenBytes(region.X, region.Y, region.Width, region.Height)
}

// CaptureScreen captures a screenshot and returns an image.Image
func (c *Controller) CaptureScreen(ctx context.Context, region *display.Region) (image.Image, error) {
	if region == nil {
		return c.client.CaptureScreen(0, 0, 0, 0)
	}
	return c.client.CaptureScreen(region.X, region.Y, region.Width, region.Height)
}

// GetScreenDimensions returns the screen width and height
func (c *Controller) GetScreenDimensions(ctx context.Context) (width, height int, err error) {
	w, h := c.client.GetScreenDimensions()
	return w, h, nil
}

// GetCursorPosition returns the current cursor position
func (c *Controller) GetCursorPosition(ctx context.Context) (x, y int, err error) {
	return c.client.GetCursorPosition()
}

// MoveMouse moves the cursor to the specified coordinates
func (c *Controller) MoveMouse(ctx context.Context, x, y int) error {
	return c.client.MoveMouse(x, y)
}

// ClickMouse clicks the specified mouse button
func (c *Controller) ClickMouse(ctx context.Context, button display.MouseButton, clicks int) error {
	return c.client.ClickMouse(button.String(), clicks)
}

// Close releases the client
func (c *Controller) Close() error {
	c.client.Close()
	return nil
}

// Provider implements the display.Provider interface for macOS
type Provider struct{}

var _ display.Provider = (*Provider)(nil)

// NewProvider creates a new macOS provider
func NewProvider() *Provider {
	return &Provider{}
}

// GetController creates a new DisplayController. The display argument is
// ignored; RobotGo always targets the main display.
func (p *Provider) GetController(_ string) (display.DisplayController, error) {
	return &Controller{client: NewClient()}, nil
}

// GetDisplayInfo returns information about the macOS platform
func (p *Provider) GetDisplayInfo() display.DisplayInfo {
	return display.DisplayInfo{
		Name:               "macos",
		SupportsRegions:    true,
		SupportsMouse:      true,
		SupportsCursorRead: true,
	}
}

// IsAvailable returns true when running on macOS
func (p *Provider) IsAvailable() bool {
	return runtime.GOOS == "darwin"
}

// Register the macOS provider in the global registry
func init() {
	display.Register(NewProvider())
}
