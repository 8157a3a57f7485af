package diff

import "strings"

// Decode converts raw file bytes to lines for diffing.
// Invalid UTF-8 sequences are dropped silently. Lines keep their terminator
// so that a missing final newline or a CRLF change still counts as a change.
func Decode(data []byte) []string {
	return SplitLines(strings.ToValidUTF8(string(data), ""))
}

// SplitLines splits text after every "\n"
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// trimEOL strips a trailing "\n" and reports whether one was present.
// A preceding "\r" stays part of the line text.
func trimEOL(line string) (string, bool) {
	if strings.HasSuffix(line, "\n") {
		return line[:len(line)-1], true
	}
	return line, false
}
