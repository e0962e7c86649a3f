package clipboard

import (
	"github.com/atotto/clipboard"
)

// Sink receives text destined for the clipboard.
type Sink interface {
	Copy(text string) error
}

// Func adapts a plain function to Sink.
type Func func(text string) error

func (f Func) Copy(text string) error {
	return f(text)
}

// System writes to the OS clipboard (xclip, xsel, wl-copy or pbcopy).
type System struct{}

func (System) Copy(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}
