// Package xmllist reads and writes the ets2_modlist XML format.
package xmllist

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"trucksync/internal/domain"
	"trucksync/internal/source"
)

const (
	rootTag = "ets2_modlist"
	version = "1.0"
)

// Source handles XML mod lists
type Source struct{}

// New creates an XML mod list source
func New() *Source {
	return &Source{}
}

// Format returns domain.FormatXML
func (s *Source) Format() domain.Format {
	return domain.FormatXML
}

// Load reads an ets2_modlist document. Mods are ordered by their index attribute;
// a missing index counts as 0.
func (s *Source) Load(path string) (*source.Loaded, error) {
	data, err := source.ReadFile(path)
	if err != nil {
		return nil, err
	}
	mods, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return &source.Loaded{Path: path, Format: domain.FormatXML, Mods: mods}, nil
}

// Save writes mods as an ets2_modlist document
func (s *Source) Save(mods domain.ModList, dest string, _ *source.Loaded) error {
	data, err := Encode(mods)
	if err != nil {
		return err
	}
	return source.WriteFile(dest, data)
}

// Decode parses an ets2_modlist document
func Decode(data []byte) (domain.ModList, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedFormat, err)
	}

	root := doc.Root()
	if root == nil || root.Tag != rootTag {
		return nil, fmt.Errorf("%w: root element is not <%s>", domain.ErrMalformedFormat, rootTag)
	}

	var entries []domain.IndexedEntry
	for _, el := range root.SelectElements("mod") {
		index := 0
		var err error
		if raw := el.SelectAttrValue("index", ""); raw != "" {
			index, err = strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				return nil, fmt.Errorf("%w: mod index %q", domain.ErrMalformedFormat, raw)
			}
		}
		entries = append(entries, domain.IndexedEntry{
			Index: index,
			Entry: domain.ModEntry{
				ID:          childText(el, "id"),
				DisplayName: childText(el, "name"),
			},
		})
	}

	return domain.OrderByIndex(entries), nil
}

// Encode renders mods as an indented ets2_modlist document with an XML declaration
func Encode(mods domain.ModList) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement(rootTag)
	root.CreateAttr("version", version)
	for i, m := range mods {
		el := root.CreateElement("mod")
		el.CreateAttr("index", strconv.Itoa(i))
		el.CreateElement("id").SetText(m.ID)
		el.CreateElement("name").SetText(m.DisplayName)
	}

	doc.Indent(2)
	data, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("encoding xml: %w", err)
	}
	return data, nil
}

func childText(el *etree.Element, tag string) string {
	child := el.SelectElement(tag)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}
