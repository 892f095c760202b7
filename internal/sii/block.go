// Package sii reads and edits the plaintext profile format (SiiNunit) used by the truck simulators.
package sii

import (
	"fmt"
	"strings"

	"trucksync/internal/domain"
)

// profileToken starts the unit that holds the active mod list. It is matched as a plain
// substring, so "user_profile" qualifies.
const profileToken = "profile"

// Block is the byte span of the profile unit within a document. End is exclusive and
// points just past the closing brace.
type Block struct {
	Start int
	End   int
	Text  string
}

// FindProfileBlock locates the first `profile : <name> { ... }` unit in text.
// Braces are counted literally; quoted values get no special treatment.
func FindProfileBlock(text string) (Block, error) {
	start, body, ok := findOpening(text)
	if !ok {
		return Block{}, domain.ErrProfileBlockNotFound
	}

	depth := 1
	for i := body; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				end := i + 1
				return Block{Start: start, End: end, Text: text[start:end]}, nil
			}
		}
	}

	return Block{}, fmt.Errorf("%w: block at offset %d is not closed (depth %d at end of text)", domain.ErrUnbalancedBlock, start, depth)
}

// findOpening returns the offset of the profile token and the offset just past its
// opening brace. The header must be: token, optional whitespace, ':', at least one
// non-brace byte, '{'.
func findOpening(text string) (start, body int, ok bool) {
	from := 0
	for from < len(text) {
		i := strings.Index(text[from:], profileToken)
		if i < 0 {
			return 0, 0, false
		}
		start = from + i

		p := skipSpace(text, start+len(profileToken))
		if p < len(text) && text[p] == ':' {
			brace := strings.IndexByte(text[p+1:], '{')
			if brace < 0 {
				// no brace anywhere later, so no later candidate can match either
				return 0, 0, false
			}
			if brace > 0 {
				return start, p + 1 + brace + 1, true
			}
		}
		from = start + 1
	}
	return 0, 0, false
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
