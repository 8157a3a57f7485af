package output

import (
	"strings"
)

// FormatNames renders a list of file names as "[a.csv, b.csv]"
func FormatNames(names []string) string {
	return "[" + strings.Join(names, ", ") + "]"
}

// FormatMissing renders missing file names, or "None" when nothing is missing
func FormatMissing(missing []string) string {
	if missing == nil {
		return "None"
	}
	return FormatNames(missing)
}
