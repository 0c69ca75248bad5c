// Package overlay implements the highlight surface. Frames are rendered to
// PNG files; a click inside the frame is confirmed through a Confirmer.
package overlay

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mj1618/desktop-scenarios/internal/action"
	"github.com/mj1618/desktop-scenarios/internal/logging"
	"github.com/mj1618/desktop-scenarios/internal/platform"
)

// Confirmer blocks until the user confirms or the timeout passes.
type Confirmer interface {
	Confirm(timeout time.Duration) bool
}

// Overlay writes each highlight to Dir and announces it on Out.
type Overlay struct {
	Dir     string
	Confirm Confirmer // nil: clicks are never confirmed
	Out     io.Writer
	Logger  *slog.Logger

	seq atomic.Int64
}

// New returns an overlay writing frames under dir.
func New(dir string, confirm Confirmer, out io.Writer, logger *slog.Logger) *Overlay {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Overlay{Dir: dir, Confirm: confirm, Out: out, Logger: logger}
}

// Show renders the frame and returns its handle.
func (o *Overlay) Show(rect platform.Bounds, style action.Style, message string) (action.Highlight, error) {
	c, err := ParseColor(style.Color)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(o.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create overlay dir: %w", err)
	}
	path := filepath.Join(o.Dir, fmt.Sprintf("highlight-%d-%d.png", os.Getpid(), o.seq.Add(1)))
	if err := WritePNG(path, Render(rect, c, style.Thickness, message)); err != nil {
		return nil, err
	}
	o.Logger.Info("highlight shown", "x", rect.X, "y", rect.Y, "w", rect.Width, "h", rect.Height, "file", path)
	if o.Out != nil {
		fmt.Fprintf(o.Out, "Highlight at (%d,%d) %dx%d: %s\n", rect.X, rect.Y, rect.Width, rect.Height, message)
		if o.Confirm != nil {
			fmt.Fprintln(o.Out, "Press Enter once you have located the highlighted area.")
		}
	}
	return &frame{path: path, confirm: o.Confirm}, nil
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create frame: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode frame: %w", err)
	}
	return f.Close()
}

type frame struct {
	path    string
	confirm Confirmer
	once    sync.Once
	err     error
}

// WaitForClickWithin lasts the full timeout unless confirmed, including
// when the confirmer gives up early on closed input.
func (f *frame) WaitForClickWithin(timeout time.Duration) bool {
	start := time.Now()
	if f.confirm != nil && f.confirm.Confirm(timeout) {
		return true
	}
	if rest := timeout - time.Since(start); rest > 0 {
		time.Sleep(rest)
	}
	return false
}

func (f *frame) Close() error {
	f.once.Do(func() {
		if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
			f.err = fmt.Errorf("remove highlight frame: %w", err)
		}
	})
	return f.err
}
