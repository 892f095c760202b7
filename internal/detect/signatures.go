package detect

import "trucksync/internal/domain"

// HeaderSize is the number of leading bytes inspected when classifying a file
const HeaderSize = 32

// Signature maps a leading byte prefix to a format
type Signature struct {
	Prefix         []byte
	Format         domain.Format
	SkipWhitespace bool // Strip leading whitespace before comparing (text formats)
}

// Signatures is checked top to bottom; the first match wins. XML comes first so a
// document whose declaration happens to share bytes with a profile header is still
// treated as XML.
var Signatures = []Signature{
	{Prefix: []byte("<?xml"), Format: domain.FormatXML, SkipWhitespace: true},
	{Prefix: []byte("<mods"), Format: domain.FormatXML, SkipWhitespace: true},
	{Prefix: []byte("SiiNunit"), Format: domain.FormatSiiPlain},
	{Prefix: []byte("SiiNblock"), Format: domain.FormatSiiPlain},
	{Prefix: []byte("ScsC"), Format: domain.FormatSiiEncrypted},
}
