package audio

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

var errNotTerminal = errors.New("output is not a terminal")

// Bell rings the terminal bell. Each Play writes a fresh BEL, so overlapping
// alerts each produce their own sound.
type Bell struct {
	mu  sync.Mutex
	out io.Writer
}

func NewBell(out io.Writer) *Bell {
	return &Bell{out: out}
}

func (b *Bell) Play() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, err := b.out.Write([]byte{'\a'})
	return err
}

// TerminalProbe succeeds only when f is attached to a terminal that can
// render the bell. It writes nothing.
func TerminalProbe(f *os.File) Probe {
	return func() error {
		fd := f.Fd()
		if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
			return nil
		}
		return errNotTerminal
	}
}
