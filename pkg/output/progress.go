package output

import (
	"io"
	"os"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"
)

// ProgressBar drives an optional terminal progress indicator. It is a
// no-op when the destination is not an interactive terminal, so piped
// or redirected invocations never receive control codes mixed into the
// single required JSON line (spec.md §6).
//
// The bar itself is not started until SetTotal is called: the common
// directory-walk invocation has no usable file count until planning
// completes, and starting a counters/percent template against a total
// of 0 renders nonsense for the whole run.
type ProgressBar struct {
	enabled bool
	w       io.Writer
	bar     *pb.ProgressBar
}

// NewProgressBar prepares a bar that will render to w once its total is
// known. w must be an *os.File for terminal detection to succeed;
// anything else disables the bar for the run.
func NewProgressBar(w io.Writer) *ProgressBar {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return &ProgressBar{}
	}
	return &ProgressBar{enabled: true, w: w}
}

// SetTotal starts the bar against total. Safe to call on a no-op bar.
func (p *ProgressBar) SetTotal(total int) {
	if !p.enabled {
		return
	}
	p.bar = pb.New(total)
	p.bar.SetTemplateString(`{{ counters . }} {{ bar . }} {{ percent . }} {{ etime . }}`)
	p.bar.SetWriter(p.w)
	p.bar.Start()
}

// Increment advances the bar by one file. Safe to call on a no-op bar or
// before SetTotal.
func (p *ProgressBar) Increment() {
	if p.bar != nil {
		p.bar.Increment()
	}
}

// Finish stops the bar, leaving the final state printed.
func (p *ProgressBar) Finish() {
	if p.bar != nil {
		p.bar.Finish()
	}
}
