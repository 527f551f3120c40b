//go:build !darwin

package macos

import (
	"context"
	"fmt"
	"image"

	display "github.com/bluespot/cli/internal/display"
)

// Controller is a stub implementation for non-macOS platforms
type Controller struct{}

var _ display.DisplayController = (*Controller)(nil)

func (c *Controller) CaptureScreenBytes(ctx context.Context, region *display.Region) ([]byte, error) {
	return nil, fmt.Errorf("macOS platform not available on this system")
}

func (c *Controller) CaptureScreen(ctx context.Context, region *display.Region) (image.Image, error) {
	return nil, fmt.Errorf("macOS platform not available on this system")
}

func (c *Controller) GetScreenDimensions(ctx context.Context) (width, height int, err error) {
	return 0, 0, fmt.Errorf("macOS platform not available on this system")
}

func (c *Controller) GetCursorPosition(ctx context.Context) (x, y int, err error) {
	return 0, 0, fmt.Errorf("macOS platform not available on this system")
}

func (c *Controller) MoveMouse(ctx context.Context, x, y int) error {
	return fmt.Errorf("macOS platform not available on this system")
}

func (c *Controller) ClickMouse(ctx context.Context, button display.MouseButton, clicks int) error {
	return fmt.Errorf("macOS platform not available on this system")
}

func (c *Controller) Close() error {
	return nil
}

// Provider is a stub implementation for non-macOS platforms
type Provider struct{}

var _ display.Provider = (*Provider)(nil)

// NewProvider creates a new stub provider
func NewProvider() *Provider {
	return &Provider{}
}

// GetController always fails on non-macOS platforms
func (p *Provider) GetController(_ string) (display.DisplayController, error) {
	return nil, fmt.Errorf("macOS platform not available on this system")
}

// GetDisplayInfo returns information about the macOS platform
func (p *Provider) GetDisplayInfo() display.DisplayInfo {
	return display.DisplayInfo{
		Name: "macos",
	}
}

// IsAvailable returns false on non-macOS platforms
func (p *Provider) IsAvailable() bool {
	return false
}

// Register the stub so name lookups still resolve
func init() {
	display.Register(NewProvider())
}
