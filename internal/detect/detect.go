// Package detect classifies mod list files by their leading bytes.
package detect

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"trucksync/internal/domain"
)

// Header classifies a leading byte window against Signatures.
func Header(header []byte) (domain.Format, error) {
	if len(header) > HeaderSize {
		header = header[:HeaderSize]
	}
	stripped := bytes.TrimLeft(header, " \t\r\n\f\v")

	for _, sig := range Signatures {
		candidate := header
		if sig.SkipWhitespace {
			candidate = stripped
		}
		if bytes.HasPrefix(candidate, sig.Prefix) {
			return sig.Format, nil
		}
	}

	return domain.FormatUnknown, domain.ErrUnsupportedFormat
}

// Detect reads up to HeaderSize bytes from r and classifies them
func Detect(r io.Reader) (domain.Format, error) {
	header := make([]byte, HeaderSize)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return domain.FormatUnknown, fmt.Errorf("%w: reading header: %w", domain.ErrIO, err)
	}
	return Header(header[:n])
}

// File classifies the file at path
func File(path string) (domain.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.FormatUnknown, fmt.Errorf("%w: opening %s: %w", domain.ErrIO, path, err)
	}
	defer f.Close()

	format, err := Detect(f)
	if err != nil {
		return domain.FormatUnknown, fmt.Errorf("detecting %s: %w", path, err)
	}
	return format, nil
}
