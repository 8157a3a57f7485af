package diff

import (
	"github.com/pmezard/go-difflib/difflib"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// myersOpCodes computes difflib-style opcodes with diff-match-patch in line mode
func myersOpCodes(a, b []string) []difflib.OpCode {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0

	textA, textB := join(a), join(b)
	charsA, charsB, lineArray := dmp.DiffLinesToChars(textA, textB)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(charsA, charsB, false), lineArray)

	var codes []difflib.OpCode
	i, j := 0, 0
	for k := 0; k < len(diffs); k++ {
		n := len(SplitLines(diffs[k].Text))
		switch diffs[k].Type {
		case diffmatchpatch.DiffEqual:
			codes = appendOp(codes, difflib.OpCode{Tag: 'e', I1: i, I2: i + n, J1: j, J2: j + n})
			i, j = i+n, j+n
		case diffmatchpatch.DiffDelete:
			// A delete immediately followed by an insert is a replacement
			if k+1 < len(diffs) && diffs[k+1].Type == diffmatchpatch.DiffInsert {
				m := len(SplitLines(diffs[k+1].Text))
				codes = appendOp(codes, difflib.OpCode{Tag: 'r', I1: i, I2: i + n, J1: j, J2: j + m})
				i, j = i+n, j+m
				k++
				continue
			}
			codes = appendOp(codes, difflib.OpCode{Tag: 'd', I1: i, I2: i + n, J1: j, J2: j})
			i += n
		case diffmatchpatch.DiffInsert:
			codes = appendOp(codes, difflib.OpCode{Tag: 'i', I1: i, I2: i, J1: j, J2: j + n})
			j += n
		}
	}
	return codes
}

// appendOp merges consecutive opcodes of the same tag
func appendOp(codes []difflib.OpCode, op difflib.OpCode) []difflib.OpCode {
	if op.I1 == op.I2 && op.J1 == op.J2 {
		return codes
	}
	if n := len(codes); n > 0 && codes[n-1].Tag == op.Tag {
		codes[n-1].I2 = op.I2
		codes[n-1].J2 = op.J2
		return codes
	}
	return append(codes, op)
}

// groupOpCodes splits opcodes into hunks with up to n lines of context,
// following the same rules as SequenceMatcher.GetGroupedOpCodes.
func groupOpCodes(codes []difflib.OpCode, n int) [][]difflib.OpCode {
	if len(codes) == 0 {
		return nil
	}
	codes = append([]difflib.OpCode(nil), codes...)

	if c := codes[0]; c.Tag == 'e' {
		codes[0] = difflib.OpCode{Tag: 'e', I1: max(c.I1, c.I2-n), I2: c.I2, J1: max(c.J1, c.J2-n), J2: c.J2}
	}
	if c := codes[len(codes)-1]; c.Tag == 'e' {
		codes[len(codes)-1] = difflib.OpCode{Tag: 'e', I1: c.I1, I2: min(c.I2, c.I1+n), J1: c.J1, J2: min(c.J2, c.J1+n)}
	}

	nn := n + n
	var groups [][]difflib.OpCode
	var group []difflib.OpCode
	for _, c := range codes {
		if c.Tag == 'e' && c.I2-c.I1 > nn {
			group = append(group, difflib.OpCode{Tag: 'e', I1: c.I1, I2: min(c.I2, c.I1+n), J1: c.J1, J2: min(c.J2, c.J1+n)})
			groups = append(groups, group)
			group = nil
			c = difflib.OpCode{Tag: 'e', I1: max(c.I1, c.I2-n), I2: c.I2, J1: max(c.J1, c.J2-n), J2: c.J2}
		}
		group = append(group, c)
	}
	if len(group) > 0 && !(len(group) == 1 && group[0].Tag == 'e') {
		groups = append(groups, group)
	}
	return groups
}

func join(lines []string) string {
	size := 0
	for _, l := range lines {
		size += len(l)
	}
	buf := make([]byte, 0, size)
	for _, l := range lines {
		buf = append(buf, l...)
	}
	return string(buf)
}
