package domain

// Format identifies an on-disk mod list representation
type Format int

const (
	FormatUnknown Format = iota
	FormatXML
	FormatSiiPlain
	FormatSiiEncrypted
	FormatTXT
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatXML:
		return "xml"
	case FormatSiiPlain:
		return "sii_plain"
	case FormatSiiEncrypted:
		return "sii_encrypted"
	case FormatTXT:
		return "txt"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseFormat converts a format name to Format. Accepts the String() forms plus
// the short aliases "sii" and "profile" for plaintext profiles.
func ParseFormat(s string) Format {
	switch s {
	case "xml":
		return FormatXML
	case "sii_plain", "sii", "profile":
		return FormatSiiPlain
	case "sii_encrypted":
		return FormatSiiEncrypted
	case "txt":
		return FormatTXT
	case "json":
		return FormatJSON
	default:
		return FormatUnknown
	}
}

// IsProfile reports whether the format is a game profile (plain or encrypted)
func (f Format) IsProfile() bool {
	return f == FormatSiiPlain || f == FormatSiiEncrypted
}

// IsList reports whether the format is a standalone mod list (xml, txt, json)
func (f Format) IsList() bool {
	return f == FormatXML || f == FormatTXT || f == FormatJSON
}

// Extension returns the conventional file extension, including the dot
func (f Format) Extension() string {
	switch f {
	case FormatXML:
		return ".xml"
	case FormatTXT:
		return ".txt"
	case FormatJSON:
		return ".json"
	case FormatSiiPlain, FormatSiiEncrypted:
		return ".sii"
	default:
		return ""
	}
}
