package core

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineOp marks a preview line as kept, added or removed
type LineOp byte

const (
	LineEqual  LineOp = ' '
	LineAdded  LineOp = '+'
	LineRemove LineOp = '-'
)

// DiffLine is one line of a preview
type DiffLine struct {
	Op   LineOp
	Text string
}

func (l DiffLine) String() string {
	return string(l.Op) + l.Text
}

// LineDiff compares before and after line by line. Unchanged lines are included only
// when context > 0, and then only the ones within context lines of a change.
func LineDiff(before, after string, context int) []DiffLine {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var all []DiffLine
	for _, d := range diffs {
		op := LineEqual
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = LineAdded
		case diffmatchpatch.DiffDelete:
			op = LineRemove
		}
		for _, line := range splitLines(d.Text) {
			all = append(all, DiffLine{Op: op, Text: line})
		}
	}
	return withContext(all, context)
}

// splitLines splits on \n, dropping the empty element after a trailing newline and any \r
func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func withContext(all []DiffLine, context int) []DiffLine {
	keep := make([]bool, len(all))
	for i, l := range all {
		if l.Op == LineEqual {
			continue
		}
		lo, hi := max(i-context, 0), min(i+context, len(all)-1)
		for j := lo; j <= hi; j++ {
			keep[j] = true
		}
	}

	var out []DiffLine
	for i, l := range all {
		if keep[i] {
			out = append(out, l)
		}
	}
	return out
}

// HasChanges reports whether a preview contains any added or removed line
func HasChanges(lines []DiffLine) bool {
	for _, l := range lines {
		if l.Op != LineEqual {
			return true
		}
	}
	return false
}
