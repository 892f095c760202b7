package decrypt

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/rs/zerolog"

	"trucksync/internal/domain"
	"trucksync/internal/logging"
	"trucksync/internal/source"
)

var (
	sigPlain     = []byte("SiiN")
	sigEncrypted = []byte("ScsC")
	sigBinary    = []byte("BSII")
)

// ScsC header: signature, HMAC, IV, uncompressed size
const (
	hmacSize   = 32
	ivOffset   = 4 + hmacSize
	sizeOffset = ivOffset + aes.BlockSize
	headerSize = sizeOffset + 4
)

// scsKey is the fixed AES-256 key the game uses for ScsC files
var scsKey = []byte{
	0x2a, 0x5f, 0xcb, 0x17, 0x91, 0xd2, 0x2f, 0xb6, 0x02, 0x45, 0xb3, 0xd8, 0x36, 0x9e, 0xd0, 0xb2,
	0xc2, 0x73, 0x71, 0x56, 0x3f, 0xbf, 0x1f, 0x3c, 0x9e, 0xdf, 0x6b, 0x11, 0x82, 0x5a, 0x5d, 0x0a,
}

// SCS decrypts ScsC profiles in-process. Binary (BSII) payloads are handed to
// Fallback when one is configured.
type SCS struct {
	Fallback Decryptor
	logger   zerolog.Logger
}

// NewSCS creates the built-in decryptor. fallback may be nil.
func NewSCS(fallback Decryptor) *SCS {
	return &SCS{Fallback: fallback, logger: logging.GetLogger("decrypt")}
}

// Decrypt reads path and returns the profile text
func (d *SCS) Decrypt(path string) (string, error) {
	data, err := source.ReadFile(path)
	if err != nil {
		return "", err
	}

	plain, err := Bytes(data)
	if errors.Is(err, ErrBinaryPayload) && d.Fallback != nil {
		d.logger.Debug().Str("path", path).Msg("Binary profile payload, using fallback decryptor")
		return d.Fallback.Decrypt(path)
	}
	if err != nil {
		return "", failure(path, err)
	}

	d.logger.Debug().Str("path", path).Int("bytes", len(plain)).Msg("Profile decrypted")
	return toText(plain), nil
}

// Bytes converts raw profile bytes to plaintext SII bytes. Plaintext input is
// returned as is.
func Bytes(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, sigPlain):
		return data, nil
	case bytes.HasPrefix(data, sigBinary):
		return nil, ErrBinaryPayload
	case !bytes.HasPrefix(data, sigEncrypted):
		return nil, fmt.Errorf("%w: unknown file signature", domain.ErrDecryptionFailure)
	}

	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: truncated header", domain.ErrDecryptionFailure)
	}
	iv := data[ivOffset:sizeOffset]
	size := binary.LittleEndian.Uint32(data[sizeOffset:headerSize])

	compressed, err := decryptCBC(data[headerSize:], iv)
	if err != nil {
		return nil, err
	}

	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("%w: inflating: %w", domain.ErrDecryptionFailure, err)
	}
	defer zr.Close()

	// The header size is untrusted; bound both the allocation and the read.
	plain := bytes.NewBuffer(make([]byte, 0, min(int64(size), maxPrealloc(len(compressed)))))
	if _, err := io.Copy(plain, io.LimitReader(zr, int64(size)+1)); err != nil {
		return nil, fmt.Errorf("%w: inflating: %w", domain.ErrDecryptionFailure, err)
	}
	if int64(plain.Len()) != int64(size) {
		return nil, fmt.Errorf("%w: size mismatch: header says %d bytes, inflated %d",
			domain.ErrDecryptionFailure, size, plain.Len())
	}

	out := plain.Bytes()
	switch {
	case bytes.HasPrefix(out, sigPlain):
		return out, nil
	case bytes.HasPrefix(out, sigBinary):
		return nil, ErrBinaryPayload
	default:
		return nil, fmt.Errorf("%w: unexpected payload signature", domain.ErrDecryptionFailure)
	}
}

// maxPrealloc caps the buffer reserved ahead of inflating
func maxPrealloc(compressed int) int64 {
	return int64(compressed) * 16
}

// decryptCBC decrypts AES-256-CBC ciphertext and strips PKCS#7 padding
func decryptCBC(ciphertext, iv []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext is not a whole number of blocks", domain.ErrDecryptionFailure)
	}

	block, err := aes.NewCipher(scsKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDecryptionFailure, err)
	}
	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)

	pad := int(out[len(out)-1])
	if pad == 0 || pad > aes.BlockSize {
		return nil, fmt.Errorf("%w: bad padding", domain.ErrDecryptionFailure)
	}
	for _, b := range out[len(out)-pad:] {
		if int(b) != pad {
			return nil, fmt.Errorf("%w: bad padding", domain.ErrDecryptionFailure)
		}
	}
	return out[:len(out)-pad], nil
}
