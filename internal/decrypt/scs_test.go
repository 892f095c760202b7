package decrypt

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trucksync/internal/domain"
)

const plainProfile = "SiiNunit\n{\nuser_profile : _nameless.1 {\n active_mods: 0\n}\n}\n"

func pkcs7(data []byte) []byte {
	pad := aes.BlockSize - len(data)%aes.BlockSize
	return append(data, bytes.Repeat([]byte{byte(pad)}, pad)...)
}

func compress(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// seal builds an ScsC container around an already padded payload
func seal(t *testing.T, padded []byte, size int) []byte {
	t.Helper()
	iv := bytes.Repeat([]byte{0x11}, aes.BlockSize)
	block, err := aes.NewCipher(scsKey)
	require.NoError(t, err)
	ct := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ct, padded)

	out := append([]byte("ScsC"), make([]byte, hmacSize)...)
	out = append(out, iv...)
	out = binary.LittleEndian.AppendUint32(out, uint32(size))
	return append(out, ct...)
}

func encryptProfile(t *testing.T, plain []byte) []byte {
	t.Helper()
	return seal(t, pkcs7(compress(t, plain)), len(plain))
}

func TestBytes_Encrypted(t *testing.T) {
	out, err := Bytes(encryptProfile(t, []byte(plainProfile)))
	require.NoError(t, err)
	assert.Equal(t, plainProfile, string(out))
}

func TestBytes_PlaintextPassthrough(t *testing.T) {
	out, err := Bytes([]byte(plainProfile))
	require.NoError(t, err)
	assert.Equal(t, plainProfile, string(out))
}

func TestBytes_BinaryPayload(t *testing.T) {
	_, err := Bytes(encryptProfile(t, []byte("BSII\x02\x00\x00\x00binary")))
	assert.ErrorIs(t, err, ErrBinaryPayload)
	assert.ErrorIs(t, err, domain.ErrDecryptionFailure)

	_, err = Bytes([]byte("BSII\x02\x00\x00\x00"))
	assert.ErrorIs(t, err, ErrBinaryPayload)
}

func TestBytes_Failures(t *testing.T) {
	badPadding := bytes.Repeat([]byte{0x42}, aes.BlockSize)
	badPadding[aes.BlockSize-1] = 0

	tests := []struct {
		name string
		data []byte
	}{
		{"unknown signature", []byte("PK\x03\x04 not a profile")},
		{"empty", nil},
		{"truncated header", []byte("ScsC\x00\x00")},
		{"no ciphertext", seal(t, nil, 0)},
		{"partial block", append(seal(t, nil, 0), 0x01, 0x02, 0x03)},
		{"bad padding", seal(t, badPadding, 16)},
		{"not zlib", seal(t, pkcs7([]byte("hello, not compressed")), 21)},
		{"unexpected payload", encryptProfile(t, []byte("<?xml version=\"1.0\"?>"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Bytes(tt.data)
			assert.ErrorIs(t, err, domain.ErrDecryptionFailure)
			assert.NotErrorIs(t, err, ErrBinaryPayload)
		})
	}
}

func TestBytes_SizeFieldMismatch(t *testing.T) {
	padded := pkcs7(compress(t, []byte(plainProfile)))

	tests := []struct {
		name string
		size int
	}{
		{"claims 4 GiB", 0xFFFFFFFF},
		{"claims too much", len(plainProfile) + 1},
		{"claims too little", len(plainProfile) - 1},
		{"claims nothing", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Bytes(seal(t, padded, tt.size))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrDecryptionFailure)
			assert.Contains(t, err.Error(), "size mismatch")
		})
	}
}

type stubDecryptor struct {
	text  string
	calls int
}

func (s *stubDecryptor) Decrypt(string) (string, error) {
	s.calls++
	return s.text, nil
}

func writeTemp(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.sii")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestSCS_Decrypt(t *testing.T) {
	path := writeTemp(t, encryptProfile(t, []byte(plainProfile)))

	text, err := NewSCS(nil).Decrypt(path)
	require.NoError(t, err)
	assert.Equal(t, plainProfile, text)
}

func TestSCS_Decrypt_ReplacesInvalidUTF8(t *testing.T) {
	path := writeTemp(t, encryptProfile(t, []byte("SiiNunit\n{ name: \"caf\xe9\" }")))

	text, err := NewSCS(nil).Decrypt(path)
	require.NoError(t, err)
	assert.Equal(t, "SiiNunit\n{ name: \"caf�\" }", text)
}

func TestSCS_Decrypt_BinaryUsesFallback(t *testing.T) {
	path := writeTemp(t, encryptProfile(t, []byte("BSII\x02\x00\x00\x00")))
	fallback := &stubDecryptor{text: plainProfile}

	text, err := NewSCS(fallback).Decrypt(path)
	require.NoError(t, err)
	assert.Equal(t, plainProfile, text)
	assert.Equal(t, 1, fallback.calls)
}

func TestSCS_Decrypt_BinaryWithoutFallback(t *testing.T) {
	path := writeTemp(t, encryptProfile(t, []byte("BSII\x02\x00\x00\x00")))

	_, err := NewSCS(nil).Decrypt(path)
	assert.ErrorIs(t, err, ErrBinaryPayload)
}

func TestSCS_Decrypt_Failures(t *testing.T) {
	fallback := &stubDecryptor{text: plainProfile}

	_, err := NewSCS(fallback).Decrypt(writeTemp(t, []byte("ScsC garbage")))
	assert.ErrorIs(t, err, domain.ErrDecryptionFailure)
	assert.Zero(t, fallback.calls, "fallback is only for binary payloads")

	_, err = NewSCS(nil).Decrypt(filepath.Join(t.TempDir(), "missing.sii"))
	assert.ErrorIs(t, err, domain.ErrIO)
}
