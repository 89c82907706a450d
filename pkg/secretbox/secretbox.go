// Package secretbox provides symmetric encryption for third-party credential
// material. Values are sealed with XChaCha20-Poly1305 under a server-held key
// and encoded as URL-safe base64 for storage in text columns.
package secretbox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// KeyLen is the required key length in bytes.
const KeyLen = chacha20poly1305.KeySize

var (
	// ErrInvalidKey indicates the key is not KeyLen bytes.
	ErrInvalidKey = errors.New("secretbox: key must be 32 bytes")

	// ErrDecrypt indicates the ciphertext is malformed or was sealed under a
	// different key.
	ErrDecrypt = errors.New("secretbox: decryption failed")
)

// Box seals and opens small secrets. It is stateless and safe for concurrent
// use.
type Box struct {
	key []byte
}

// New constructs a Box from a raw 32-byte key.
func New(key []byte) (*Box, error) {
	if len(key) != KeyLen {
		return nil, ErrInvalidKey
	}
	k := make([]byte, KeyLen)
	copy(k, key)
	return &Box{key: k}, nil
}

// NewFromPassphrase derives a key from an arbitrary passphrase with SHA-256.
func NewFromPassphrase(passphrase string) (*Box, error) {
	if passphrase == "" {
		return nil, ErrInvalidKey
	}
	sum := sha256.Sum256([]byte(passphrase))
	return New(sum[:])
}

// Seal encrypts plaintext and returns a base64 string of nonce||ciphertext.
// An empty plaintext seals to the empty string so that optional columns stay
// empty rather than holding an encrypted zero-length value.
func (b *Box) Seal(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	aead, err := chacha20poly1305.NewX(b.key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("secretbox: nonce: %w", err)
	}
	out := make([]byte, 0, len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, nonce...)
	out = append(out, aead.Seal(nil, nonce, []byte(plaintext), nil)...)
	return base64.URLEncoding.EncodeToString(out), nil
}

// Open decrypts a value produced by Seal. The empty string opens to the empty
// string.
func (b *Box) Open(sealed string) (string, error) {
	if sealed == "" {
		return "", nil
	}
	raw, err := base64.URLEncoding.DecodeString(sealed)
	if err != nil {
		return "", ErrDecrypt
	}
	if len(raw) < chacha20poly1305.NonceSizeX {
		return "", ErrDecrypt
	}
	aead, err := chacha20poly1305.NewX(b.key)
	if err != nil {
		return "", err
	}
	nonce := raw[:chacha20poly1305.NonceSizeX]
	ct := raw[chacha20poly1305.NonceSizeX:]
	plain, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plain), nil
}
