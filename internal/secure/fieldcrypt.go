// Package secure provides field-level encryption for personal data stored
// in the database. Values are encrypted with AES-256-GCM using a key derived
// once from a passphrase with Argon2id.
package secure

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	nonceSize = 12
	keySize   = 32
	argonTime = 3
	argonMem  = 64 * 1024
	argonPar  = 4
)

// keySalt is a fixed application salt for key derivation. Encrypted values
// carry a random nonce, so a static salt here only needs to separate this
// application's keys from other uses of the same passphrase.
var keySalt = []byte("choretrack-field-v1")

// Box encrypts and decrypts individual field values.
type Box struct {
	aead cipher.AEAD
}

// NewBox derives an AES-256 key from the passphrase and returns a ready Box.
func NewBox(passphrase string) (*Box, error) {
	key := argon2.IDKey([]byte(passphrase), keySalt, argonTime, argonMem, argonPar, keySize)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return &Box{aead: aead}, nil
}

// Encrypt returns hex([nonce][ciphertext]) for the given plaintext.
func (b *Box) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	ciphertext := b.aead.Seal(nil, nonce, []byte(plaintext), nil)

	out := make([]byte, 0, nonceSize+len(ciphertext))
	out = append(out, nonce...)
	out = append(out, ciphertext...)
	return hex.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. It fails if the value was tampered with or was
// encrypted under a different passphrase.
func (b *Box) Decrypt(encoded string) (string, error) {
	data, err := hex.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode field: %w", err)
	}
	if len(data) < nonceSize {
		return "", fmt.Errorf("encrypted field too small")
	}

	nonce := data[:nonceSize]
	ciphertext := data[nonceSize:]

	plaintext, err := b.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("decrypt field: %w", err)
	}
	return string(plaintext), nil
}

// Digest returns a stable lowercase hex SHA-256 of the value, used for
// unique indexes and lookups over encrypted columns.
func Digest(value string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(value))))
	return hex.EncodeToString(sum[:])
}
