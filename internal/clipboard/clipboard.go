// Package clipboard copies text to the system clipboard through the terminal
// using OSC 52 escape sequences, which also works over SSH.
package clipboard

import (
	"errors"
	"io"
	"os"

	"github.com/ashutoshmjain/avim/internal/apperr"
	"github.com/aymanbagabas/go-osc52/v2"
)

// Terminal writes OSC 52 sequences to Out.
type Terminal struct {
	Out  io.Writer
	Tmux bool
}

// New returns a Terminal writing to stderr, wrapping sequences for tmux when
// running inside it.
func New() *Terminal {
	return &Terminal{Out: os.Stderr, Tmux: os.Getenv("TMUX") != ""}
}

// SetText places text on the clipboard.
func (t *Terminal) SetText(text string) error {
	if t.Out == nil {
		return apperr.Wrap(apperr.KindClipboardUnavailable, errors.New("no terminal attached"))
	}
	seq := osc52.New(text)
	if t.Tmux {
		seq = seq.Tmux()
	}
	if _, err := seq.WriteTo(t.Out); err != nil {
		return apperr.Wrap(apperr.KindClipboardUnavailable, err)
	}
	return nil
}
