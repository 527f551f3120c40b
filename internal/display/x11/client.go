package x11

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"time"

	xgb "github.com/BurntSushi/xgb"
	xproto "github.com/BurntSushi/xgb/xproto"
	xtest "github.com/BurntSushi/xgb/xtest"
	xgbutil "github.com/BurntSushi/xgbutil"
	xgraphics "github.com/BurntSushi/xgbutil/xgraphics"

	logger "github.com/bluespot/cli/internal/logger"
)

// Client wraps an X11 connection and provides screen capture and pointer
// control via the core protocol and the XTEST extension.
type Client struct {
	xu      *xgbutil.XUtil
	conn    *xgb.Conn
	screen  *xproto.ScreenInfo
	display string
}

// NewClient connects to the given X11 display (":0" style).
func NewClient(display string) (*Client, error) {
	// xgbutil writes connection noise directly to stderr; silence it while
	// connecting so it does not pollute the harness output.
	oldStderr := os.Stderr
	devNull, devErr := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if devErr == nil {
		os.Stderr = devNull
	}

	xu, err := xgbutil.NewConnDisplay(display)

	if devErr == nil {
		os.Stderr = oldStderr
		_ = devNull.Close()
	}

	if err != nil {
		logger.Error("Failed to connect to X11 display", "display", display, "error", err)
		return nil, fmt.Errorf("failed to connect to X11 display %s: %w", display, err)
	}

	if err := xtest.Init(xu.Conn()); err != nil {
		logger.Error("Failed to initialize XTEST extension", "error", err)
		return nil, fmt.Errorf("failed to initialize XTEST extension: %w", err)
	}

	return &Client{
		xu:      xu,
		conn:    xu.Conn(),
		screen:  xproto.Setup(xu.Conn()).DefaultScreen(xu.Conn()),
		display: display,
	}, nil
}

// Close closes the X11 connection
func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}

// GetScreenDimensions returns the screen width and height
func (c *Client) GetScreenDimensions() (int, int) {
	return int(c.screen.WidthInPixels), int(c.screen.HeightInPixels)
}

// CaptureScreen captures a screenshot of the entire screen or a region
func (c *Client) CaptureScreen(x, y, width, height int) (image.Image, error) {
	if width == 0 || height == 0 {
		width = int(c.screen.WidthInPixels)
		height = int(c.screen.HeightInPixels)
		x = 0
		y = 0
	}

	root := c.screen.Root

	ximg, err := xgraphics.NewDrawable(c.xu, xproto.Drawable(root))
	if err != nil {
		return nil, fmt.Errorf("failed to create drawable: %w", err)
	}

	subImg := ximg.SubImage(image.Rect(x, y, x+width, y+height))

	return subImg, nil
}

// CaptureScreenBytes captures a screenshot and returns it as PNG bytes
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

// GetCursorPosition returns the current cursor position
func (c *Client) GetCursorPosition() (int, int, error) {
	root := c.screen.Root

	pointer, err := xproto.QueryPointer(c.conn, root).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query pointer: %w", err)
	}

	return int(pointer.RootX), int(pointer.RootY), nil
}

// MoveMouse moves the cursor to the specified absolute coordinates
func (c *Client) MoveMouse(x, y int) error {
	root := c.screen.Root

	err := xproto.WarpPointerChecked(
		c.conn,
		xproto.WindowNone,
		root,
		0, 0,
		0, 0,
		int16(x), int16(y),
	).Check()

	if err != nil {
		return fmt.Errorf("failed to move mouse: %w", err)
	}

	c.conn.Sync()

	return nil
}

// ClickMouse performs a mouse click at the current cursor position
func (c *Client) ClickMouse(button string, clicks int) error {
	root := c.screen.Root

	var buttonCode byte
	switch button {
	case "left":
		buttonCode = 1
	case "middle":
		buttonCode = 2
	case "right":
		buttonCode = 3
	default:
		return fmt.Errorf("invalid button: %s (must be 'left', 'middle', or 'right')", button)
	}

	for i := 0; i < clicks; i++ {
		cookie := xtest.FakeInputChecked(c.conn, xproto.ButtonPress, buttonCode, 0, root, 0, 0, 0)
		if err := cookie.Check(); err != nil {
			return fmt.Errorf("failed to send button press: %w", err)
		}
		time.Sleep(50 * time.Millisecond)

		cookie = xtest.FakeInputChecked(c.conn, xproto.ButtonRelease, buttonCode, 0, root, 0, 0, 0)
		if err := cookie.Check(); err != nil {
			return fmt.Errorf("failed to send button release: %w", err)
		}

		if i < clicks-1 {
			time.Sleep(100 * time.Millisecond)
		}
	}

	c.conn.Sync()
	return nil
}
