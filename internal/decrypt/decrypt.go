// Package decrypt turns encrypted game profiles into their plaintext SII text.
package decrypt

import (
	"errors"
	"fmt"
	"strings"

	"trucksync/internal/domain"
)

// Decryptor produces the plaintext of an encrypted profile. Failures wrap
// domain.ErrDecryptionFailure and never leave output behind.
type Decryptor interface {
	Decrypt(path string) (string, error)
}

// ErrBinaryPayload means the decrypted profile is in the binary BSII form, which needs
// an external decoder.
var ErrBinaryPayload = fmt.Errorf("%w: binary BSII payload", domain.ErrDecryptionFailure)

// toText decodes profile bytes, replacing invalid UTF-8
func toText(data []byte) string {
	return strings.ToValidUTF8(string(data), "\uFFFD")
}

// failure wraps err as a decryption failure unless it already is one
func failure(path string, err error) error {
	if errors.Is(err, domain.ErrDecryptionFailure) {
		return fmt.Errorf("decrypting %s: %w", path, err)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrDecryptionFailure, path, err)
}
