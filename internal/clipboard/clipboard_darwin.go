//go:build darwin && !test

package clipboard

import (
	xclipboard "golang.design/x/clipboard"
)

// Init initializes the clipboard
func Init() error {
	return xclipboard.Init()
}

// WriteText writes text to the clipboard
func WriteText(text string) {
	xclipboard.Write(xclipboard.FmtText, []byte(text))
}
