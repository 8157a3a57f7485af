package output

import (
	"io"
	"os"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"
)

// Progress reports advancement through a known number of steps
type Progress interface {
	Start(label string, total int)
	Increment()
	Finish()
}

// NewProgress returns a progress bar writing to w, or a no-op when disabled
// or when w is not a terminal
func NewProgress(w io.Writer, enabled bool) Progress {
	if !enabled {
		return noopProgress{}
	}
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return noopProgress{}
	}
	return &barProgress{writer: w}
}

type noopProgress struct{}

func (noopProgress) Start(string, int) {}
func (noopProgress) Increment()        {}
func (noopProgress) Finish()           {}

// barProgress renders a cheggaaa/pb bar
type barProgress struct {
	writer io.Writer
	bar    *pb.ProgressBar
}

func (p *barProgress) Start(label string, total int) {
	p.bar = pb.New(total).
		SetTemplate(pb.Simple).
		SetWriter(p.writer).
		Set("prefix", label+" ").
		Start()
}

func (p *barProgress) Increment() {
	if p.bar != nil {
		p.bar.Increment()
	}
}

func (p *barProgress) Finish() {
	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
	}
}
