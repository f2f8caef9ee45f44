package export

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// ClipboardWriter places text on a clipboard.
type ClipboardWriter interface {
	WriteAll(text string) error
}

// systemClipboard is the OS clipboard.
type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Clipboard copies code to a clipboard.
type Clipboard struct {
	// Writer is the clipboard backend. Nil means the system clipboard.
	Writer ClipboardWriter
}

// Copy places code on the clipboard. There is no read-back check.
func (c *Clipboard) Copy(code string) error {
	w := c.Writer
	if w == nil {
		if clipboard.Unsupported {
			return fmt.Errorf("copying to clipboard: no clipboard utility available")
		}
		w = systemClipboard{}
	}
	if err := w.WriteAll(code); err != nil {
		return fmt.Errorf("copying to clipboard: %w", err)
	}
	return nil
}
