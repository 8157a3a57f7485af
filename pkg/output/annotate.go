package output

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sdejongh/sheetdiff/pkg/diff"
)

// ColorMode controls when terminal colours are used
type ColorMode string

const (
	// ColorAuto colours output only when writing to a terminal
	ColorAuto ColorMode = "auto"
	// ColorAlways colours output unconditionally
	ColorAlways ColorMode = "always"
	// ColorNever never colours output
	ColorNever ColorMode = "never"
)

// Role identifies what a piece of output text represents
type Role int

const (
	RolePlain Role = iota
	RoleAdded
	RoleRemoved
	RoleHunk
	RoleUnchanged
	RoleChanged
	RoleHeading
	RoleError
	RoleHint
)

// Annotator decorates text for display according to its role
type Annotator interface {
	Paint(role Role, text string) string
}

// PlainAnnotator returns text unchanged
type PlainAnnotator struct{}

// Paint returns text unchanged
func (PlainAnnotator) Paint(_ Role, text string) string {
	return text
}

// ColorAnnotator wraps text in ANSI colour sequences.
// Colours are enabled per instance, independent of color.NoColor.
type ColorAnnotator struct {
	colors map[Role]*color.Color
}

// NewColorAnnotator creates an annotator with the default palette
func NewColorAnnotator() *ColorAnnotator {
	palette := map[Role]color.Attribute{
		RoleAdded:     color.FgGreen,
		RoleRemoved:   color.FgRed,
		RoleHunk:      color.FgBlue,
		RoleUnchanged: color.FgMagenta,
		RoleChanged:   color.FgYellow,
		RoleHeading:   color.FgYellow,
		RoleError:     color.FgRed,
		RoleHint:      color.FgYellow,
	}

	colors := make(map[Role]*color.Color, len(palette))
	for role, attr := range palette {
		c := color.New(attr)
		c.EnableColor()
		colors[role] = c
	}
	return &ColorAnnotator{colors: colors}
}

// Paint colours text for its role; RolePlain text is returned as is
func (a *ColorAnnotator) Paint(role Role, text string) string {
	c, ok := a.colors[role]
	if !ok {
		return text
	}
	return c.Sprint(text)
}

// NewAnnotator selects a colour or plain annotator for out
func NewAnnotator(mode ColorMode, out io.Writer) Annotator {
	switch mode {
	case ColorAlways:
		return NewColorAnnotator()
	case ColorNever:
		return PlainAnnotator{}
	}

	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return PlainAnnotator{}
	}
	if f, ok := out.(*os.File); ok {
		if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
			return NewColorAnnotator()
		}
	}
	return PlainAnnotator{}
}

// RoleFor maps a diff line kind to its display role
func RoleFor(kind diff.Kind) Role {
	switch kind {
	case diff.KindAdded, diff.KindNewHeader:
		return RoleAdded
	case diff.KindRemoved, diff.KindOldHeader:
		return RoleRemoved
	case diff.KindHunk:
		return RoleHunk
	default:
		return RolePlain
	}
}

// AnnotateLine renders a diff line with a's decoration
func AnnotateLine(a Annotator, line diff.Line) string {
	return a.Paint(RoleFor(line.Kind), line.String())
}
