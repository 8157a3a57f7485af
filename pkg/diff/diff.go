// Package diff produces tagged unified diffs between two line sequences.
package diff

import (
	"fmt"
	"iter"

	"github.com/pmezard/go-difflib/difflib"
)

// DefaultContext is the number of unchanged lines shown around each change
const DefaultContext = 3

// Algorithm selects how matching lines are found
type Algorithm string

const (
	// AlgorithmDifflib uses Ratcliff/Obershelp matching, as Python's difflib does
	AlgorithmDifflib Algorithm = "difflib"
	// AlgorithmMyers uses diff-match-patch in line mode
	AlgorithmMyers Algorithm = "myers"
)

// Options controls diff computation and headers
type Options struct {
	FromFile  string
	ToFile    string
	Context   int // negative means DefaultContext
	Algorithm Algorithm
}

// Stats summarises a diff
type Stats struct {
	Added   int
	Removed int
	Hunks   int
}

// Diff is a computed unified diff. Its lines are produced on demand by Lines,
// which can be iterated any number of times.
type Diff struct {
	opts   Options
	a, b   []string
	groups [][]difflib.OpCode
}

// Compute diffs oldLines against newLines
func Compute(oldLines, newLines []string, opts Options) (*Diff, error) {
	if opts.Context < 0 {
		opts.Context = DefaultContext
	}

	var groups [][]difflib.OpCode
	switch opts.Algorithm {
	case AlgorithmDifflib, "":
		groups = difflib.NewMatcher(oldLines, newLines).GetGroupedOpCodes(opts.Context)
	case AlgorithmMyers:
		groups = groupOpCodes(myersOpCodes(oldLines, newLines), opts.Context)
	default:
		return nil, fmt.Errorf("unknown diff algorithm: %s (valid: difflib, myers)", opts.Algorithm)
	}

	return &Diff{
		opts:   opts,
		a:      oldLines,
		b:      newLines,
		groups: groups,
	}, nil
}

// Empty reports whether the diff has no hunks
func (d *Diff) Empty() bool {
	return len(d.groups) == 0
}

// Stats counts added and removed lines and hunks
func (d *Diff) Stats() Stats {
	s := Stats{Hunks: len(d.groups)}
	for _, group := range d.groups {
		for _, c := range group {
			if c.Tag == 'r' || c.Tag == 'd' {
				s.Removed += c.I2 - c.I1
			}
			if c.Tag == 'r' || c.Tag == 'i' {
				s.Added += c.J2 - c.J1
			}
		}
	}
	return s
}

// Lines returns the tagged lines of the diff: both file headers, then every
// hunk header followed by its context, removed and added lines.
func (d *Diff) Lines() iter.Seq[Line] {
	return func(yield func(Line) bool) {
		if d.Empty() {
			return
		}
		if !yield(Line{Kind: KindOldHeader, Text: "--- " + d.opts.FromFile}) {
			return
		}
		if !yield(Line{Kind: KindNewHeader, Text: "+++ " + d.opts.ToFile}) {
			return
		}

		for _, group := range d.groups {
			first, last := group[0], group[len(group)-1]
			header := fmt.Sprintf("@@ -%s +%s @@",
				formatRange(first.I1, last.I2), formatRange(first.J1, last.J2))
			if !yield(Line{Kind: KindHunk, Text: header}) {
				return
			}

			for _, c := range group {
				if c.Tag == 'e' {
					if !emit(yield, KindContext, d.a[c.I1:c.I2]) {
						return
					}
					continue
				}
				if c.Tag == 'r' || c.Tag == 'd' {
					if !emit(yield, KindRemoved, d.a[c.I1:c.I2]) {
						return
					}
				}
				if c.Tag == 'r' || c.Tag == 'i' {
					if !emit(yield, KindAdded, d.b[c.J1:c.J2]) {
						return
					}
				}
			}
		}
	}
}

func emit(yield func(Line) bool, kind Kind, lines []string) bool {
	for _, raw := range lines {
		text, eol := trimEOL(raw)
		if !yield(Line{Kind: kind, Text: text, NoNewline: !eol}) {
			return false
		}
	}
	return true
}

// formatRange renders a hunk range the way unified diff headers expect:
// a single line is "start", an empty range is "start-1,0".
func formatRange(start, stop int) string {
	beginning := start + 1
	length := stop - start
	if length == 1 {
		return fmt.Sprintf("%d", beginning)
	}
	if length == 0 {
		beginning--
	}
	return fmt.Sprintf("%d,%d", beginning, length)
}
