package steam

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// VDFMap is a parsed Valve KeyValues block: values are strings or nested VDFMaps.
type VDFMap map[string]interface{}

// Map returns the nested block stored under key, or nil
func (m VDFMap) Map(key string) VDFMap {
	v, _ := m[key].(VDFMap)
	return v
}

// String returns the string value stored under key, or ""
func (m VDFMap) String(key string) string {
	v, _ := m[key].(string)
	return v
}

// ParseVDF reads a KeyValues document (libraryfolders.vdf, appmanifest_*.acf)
func ParseVDF(r io.Reader) (VDFMap, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(scanVDFTokens)

	p := &vdfParser{}
	for scanner.Scan() {
		p.tokens = append(p.tokens, vdfToken{text: scanner.Text(), quoted: scanner.Bytes()[0] == '"'})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading vdf: %w", err)
	}

	for i := range p.tokens {
		if p.tokens[i].quoted {
			p.tokens[i].text = unescapeVDF(p.tokens[i].text[1 : len(p.tokens[i].text)-1])
		}
	}
	return p.parseBlock(true)
}

type vdfToken struct {
	text   string
	quoted bool
}

func (t vdfToken) is(brace string) bool {
	return !t.quoted && t.text == brace
}

type vdfParser struct {
	tokens []vdfToken
	pos    int
}

// parseBlock reads key/value pairs until a closing brace (or end of input at top level)
func (p *vdfParser) parseBlock(top bool) (VDFMap, error) {
	result := make(VDFMap)
	for p.pos < len(p.tokens) {
		key := p.tokens[p.pos]
		p.pos++
		if key.is("}") {
			if top {
				return nil, fmt.Errorf("vdf: unexpected '}'")
			}
			return result, nil
		}
		if key.is("{") {
			return nil, fmt.Errorf("vdf: unexpected '{'")
		}
		if p.pos >= len(p.tokens) {
			return nil, fmt.Errorf("vdf: unexpected end after key %q", key.text)
		}

		value := p.tokens[p.pos]
		p.pos++
		switch {
		case value.is("{"):
			inner, err := p.parseBlock(false)
			if err != nil {
				return nil, err
			}
			result[key.text] = inner
		case value.is("}"):
			return nil, fmt.Errorf("vdf: missing value for key %q", key.text)
		default:
			result[key.text] = value.text
		}
	}
	if !top {
		return nil, fmt.Errorf("vdf: unclosed block")
	}
	return result, nil
}

// scanVDFTokens emits quoted strings (quotes included), braces and bare words.
// Comments starting with // run to end of line.
func scanVDFTokens(data []byte, atEOF bool) (advance int, token []byte, err error) {
	i, complete := skipVDFSpace(data)
	if !complete || i >= len(data) {
		if atEOF {
			return len(data), nil, nil
		}
		return 0, nil, nil
	}

	switch data[i] {
	case '{', '}':
		return i + 1, data[i : i+1], nil
	case '"':
		for j := i + 1; j < len(data); j++ {
			if data[j] == '\\' {
				j++
				continue
			}
			if data[j] == '"' {
				return j + 1, data[i : j+1], nil
			}
		}
		if atEOF {
			return 0, nil, fmt.Errorf("vdf: unclosed quote")
		}
		return 0, nil, nil
	}

	j := i
	for j < len(data) && !bytes.ContainsRune([]byte(" \t\r\n{}\""), rune(data[j])) {
		j++
	}
	if j == len(data) && !atEOF {
		return 0, nil, nil
	}
	return j, data[i:j], nil
}

// skipVDFSpace returns the offset of the next token in data. complete is false when
// a comment runs past the end of data.
func skipVDFSpace(data []byte) (offset int, complete bool) {
	i := 0
	for i < len(data) {
		switch {
		case data[i] == ' ' || data[i] == '\t' || data[i] == '\n' || data[i] == '\r':
			i++
		case data[i] == '/' && i+1 < len(data) && data[i+1] == '/':
			nl := bytes.IndexByte(data[i:], '\n')
			if nl < 0 {
				return len(data), false
			}
			i += nl + 1
		default:
			return i, true
		}
	}
	return i, true
}

func unescapeVDF(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(s[i])
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// LibraryFolders returns the library paths of a parsed libraryfolders.vdf, in index order
func LibraryFolders(root VDFMap) []string {
	folders := root.Map("libraryfolders")
	if folders == nil {
		return nil
	}

	var indices []int
	for key := range folders {
		if n, err := strconv.Atoi(key); err == nil {
			indices = append(indices, n)
		}
	}
	sort.Ints(indices)

	var paths []string
	for _, n := range indices {
		if p := folders.Map(strconv.Itoa(n)).String("path"); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// AppManifest holds parsed fields from an appmanifest_*.acf file.
type AppManifest struct {
	AppID      string
	Name       string
	InstallDir string
}

// ParseAppManifest parses appmanifest_*.acf content
func ParseAppManifest(data string) (AppManifest, error) {
	root, err := ParseVDF(strings.NewReader(data))
	if err != nil {
		return AppManifest{}, err
	}
	state := root.Map("AppState")
	if state == nil {
		return AppManifest{}, fmt.Errorf("vdf: missing AppState")
	}
	return AppManifest{
		AppID:      state.String("appid"),
		Name:       state.String("name"),
		InstallDir: state.String("installdir"),
	}, nil
}
