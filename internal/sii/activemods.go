package sii

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"trucksync/internal/domain"
)

const activeModsKey = "active_mods"

// entry is one parsed `active_mods[i]: "value"` line
type entry struct {
	index int
	value string
	end   int // offset just past the closing quote, relative to the parsed string
}

// parseEntry matches `active_mods[<digits>]`, optional blanks, ':', optional blanks and a
// quoted value at the start of s. The value runs to the last quote on the line.
func parseEntry(s string) (entry, bool) {
	rest, ok := strings.CutPrefix(s, activeModsKey+"[")
	if !ok {
		return entry{}, false
	}
	digits := 0
	for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
		digits++
	}
	if digits == 0 || digits >= len(rest) || rest[digits] != ']' {
		return entry{}, false
	}
	index, err := strconv.Atoi(rest[:digits])
	if err != nil {
		return entry{}, false
	}

	p := skipBlanks(rest, digits+1)
	if p >= len(rest) || rest[p] != ':' {
		return entry{}, false
	}
	p = skipBlanks(rest, p+1)
	if p >= len(rest) || rest[p] != '"' {
		return entry{}, false
	}
	closing := strings.LastIndexByte(rest, '"')
	if closing <= p {
		return entry{}, false
	}

	consumed := len(s) - len(rest)
	return entry{index: index, value: rest[p+1 : closing], end: consumed + closing + 1}, true
}

// countDecl is the span of an `active_mods: <n>` declaration
type countDecl struct {
	keyStart   int
	valueStart int
	valueEnd   int
}

// findCount returns the first `active_mods: <n>` declaration in text. The key must
// open its statement, so the same characters inside a quoted value never match.
func findCount(text string) (countDecl, bool) {
	from := 0
	for {
		i := strings.Index(text[from:], activeModsKey)
		if i < 0 {
			return countDecl{}, false
		}
		key := from + i
		from = key + len(activeModsKey)

		if !startsStatement(text, key) {
			continue
		}
		p := skipBlanks(text, key+len(activeModsKey))
		if p >= len(text) || text[p] != ':' {
			continue
		}
		p = skipBlanks(text, p+1)
		q := p
		for q < len(text) && text[q] >= '0' && text[q] <= '9' {
			q++
		}
		if q == p {
			continue
		}
		return countDecl{keyStart: key, valueStart: p, valueEnd: q}, true
	}
}

// DecodeActiveMods reads every `active_mods[i]: "..."` line in text. A repeated index
// keeps the last value; output follows ascending index and skips gaps. Entries with an
// empty ID are dropped.
func DecodeActiveMods(text string) domain.ModList {
	byIndex := make(map[int]string)
	for _, line := range strings.Split(text, "\n") {
		e, ok := parseEntry(strings.TrimSpace(line))
		if !ok {
			continue
		}
		byIndex[e.index] = e.value
	}

	indices := make([]int, 0, len(byIndex))
	for i := range byIndex {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	mods := make(domain.ModList, 0, len(indices))
	for _, i := range indices {
		m := domain.ParseModEntry(byIndex[i])
		if !m.Valid() {
			continue
		}
		mods = append(mods, m)
	}
	return mods
}

// EntryLine formats a single list entry without indentation
func EntryLine(index int, m domain.ModEntry) string {
	return fmt.Sprintf("%s[%d]: \"%s\"", activeModsKey, index, m.Encode())
}

// CountLine formats the count declaration without indentation
func CountLine(n int) string {
	return fmt.Sprintf("%s: %d", activeModsKey, n)
}

// EncodeActiveMods renders the count line and one entry line per mod, indices renumbered from zero
func EncodeActiveMods(mods domain.ModList) []string {
	lines := make([]string, 0, len(mods)+1)
	lines = append(lines, CountLine(len(mods)))
	for i, m := range mods {
		lines = append(lines, EntryLine(i, m))
	}
	return lines
}

// ReplaceActiveMods rewrites the count declaration in block and swaps the run of entry
// lines directly below it for mods. Everything else in block is kept byte for byte.
// Returns domain.ErrCountLineMissing (and block unchanged) if there is no count line.
func ReplaceActiveMods(block string, mods domain.ModList) (string, error) {
	count, ok := findCount(block)
	if !ok {
		return block, domain.ErrCountLineMissing
	}

	lineStart := strings.LastIndexByte(block[:count.keyStart], '\n') + 1
	indent := " "
	if lead := block[lineStart:count.keyStart]; strings.TrimLeft(lead, " \t") == "" {
		indent = lead
	}

	// The new entries go right before the count line's terminator.
	lineEnd := len(block)
	eol := "\n"
	if nl := strings.IndexByte(block[count.valueEnd:], '\n'); nl >= 0 {
		lineEnd = count.valueEnd + nl
		if lineEnd > count.valueEnd && block[lineEnd-1] == '\r' {
			lineEnd--
			eol = "\r\n"
		}
	} else if strings.Contains(block, "\r\n") {
		eol = "\r\n"
	}
	insertAt := lineEnd

	// A unit closed on the count line (`active_mods: 0 }`) takes the entries
	// before its brace, and the lines below belong to something else.
	closedInline := strings.IndexByte(block[count.valueEnd:lineEnd], '}') >= 0
	if closedInline {
		insertAt = count.valueEnd
	}

	// Walk the contiguous entry lines after the count line.
	regionEnd := insertAt
	firstEntry := true
	for pos := insertAt; !closedInline; {
		nl := strings.IndexByte(block[pos:], '\n')
		if nl < 0 {
			break
		}
		lineBegin := pos + nl + 1
		lineEnd := len(block)
		if i := strings.IndexByte(block[lineBegin:], '\n'); i >= 0 {
			lineEnd = lineBegin + i
		}

		line := block[lineBegin:lineEnd]
		trimmed := strings.TrimLeft(line, " \t")
		e, ok := parseEntry(strings.TrimRight(trimmed, " \t\r"))
		if !ok {
			break
		}
		if firstEntry {
			indent = line[:len(line)-len(trimmed)]
			firstEntry = false
		}
		regionEnd = lineBegin + (len(line) - len(trimmed)) + e.end
		pos = lineEnd
	}

	var b strings.Builder
	b.Grow(len(block) + len(mods)*48)
	b.WriteString(block[:count.valueStart])
	b.WriteString(strconv.Itoa(len(mods)))
	b.WriteString(block[count.valueEnd:insertAt])
	for i, m := range mods {
		b.WriteString(eol)
		b.WriteString(indent)
		b.WriteString(EntryLine(i, m))
	}
	b.WriteString(block[regionEnd:])
	return b.String(), nil
}

// startsStatement reports whether only blanks separate text[i] from the start of
// text, the previous newline or an opening brace.
func startsStatement(text string, i int) bool {
	j := i
	for j > 0 && (text[j-1] == ' ' || text[j-1] == '\t') {
		j--
	}
	return j == 0 || text[j-1] == '\n' || text[j-1] == '{'
}

func skipBlanks(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}
