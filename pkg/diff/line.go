package diff

import "iter"

// Kind tags a line of unified diff output
type Kind int

const (
	// KindContext is an unchanged line shown around a change
	KindContext Kind = iota
	// KindAdded is a line present only in the new file
	KindAdded
	// KindRemoved is a line present only in the old file
	KindRemoved
	// KindHunk is a "@@ -a,b +c,d @@" hunk header
	KindHunk
	// KindOldHeader is the "--- old" file header
	KindOldHeader
	// KindNewHeader is the "+++ new" file header
	KindNewHeader
)

var kindNames = map[Kind]string{
	KindContext:   "context",
	KindAdded:     "added",
	KindRemoved:   "removed",
	KindHunk:      "hunk-header",
	KindOldHeader: "old-header",
	KindNewHeader: "new-header",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Line is one tagged line of a unified diff.
// For added, removed and context lines Text is the file content without its
// prefix or line terminator; for every other kind Text is the whole line.
type Line struct {
	Kind Kind
	Text string
	// NoNewline marks the last line of a file that has no trailing newline
	NoNewline bool
}

// String renders the line the way it appears in unified diff output
func (l Line) String() string {
	switch l.Kind {
	case KindAdded:
		return "+" + l.Text
	case KindRemoved:
		return "-" + l.Text
	case KindContext:
		return " " + l.Text
	default:
		return l.Text
	}
}

// Clean drops context lines from seq, keeping everything else in order
func Clean(seq iter.Seq[Line]) iter.Seq[Line] {
	return func(yield func(Line) bool) {
		for line := range seq {
			if line.Kind == KindContext {
				continue
			}
			if !yield(line) {
				return
			}
		}
	}
}
