// Package crypto provides encryption for stored board snapshots.
package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// NonceSize is the size of the nonce for AES-GCM (12 bytes).
	NonceSize = 12
	// KeySize is the size of the AES-256 key (32 bytes).
	KeySize = 32
)

// magic prefixes every sealed payload so plaintext can be told apart.
var magic = []byte("WDX1")

var (
	// ErrInvalidKey is returned when the encryption key is empty.
	ErrInvalidKey = errors.New("invalid encryption key: must not be empty")
	// ErrDecryptionFailed is returned when decryption fails.
	ErrDecryptionFailed = errors.New("decryption failed: invalid ciphertext or key")
	// ErrCiphertextTooShort is returned when the ciphertext is too short.
	ErrCiphertextTooShort = errors.New("ciphertext too short")
	// ErrNotEncrypted is returned when decrypting data that was stored in plain text.
	ErrNotEncrypted = errors.New("data is not encrypted")
)

// Encryptor handles AES-256-GCM encryption.
type Encryptor struct {
	gcm cipher.AEAD
}

// NewEncryptor creates an Encryptor from key.
// A 64 character hex string is used as the raw AES-256 key; any other
// non-empty string is treated as a passphrase and hashed with SHA-256.
func NewEncryptor(key string) (*Encryptor, error) {
	raw, err := DeriveKey(key)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(raw)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}

	return &Encryptor{gcm: gcm}, nil
}

// DeriveKey returns the 32 byte AES key for key.
func DeriveKey(key string) ([]byte, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrInvalidKey
	}
	if len(key) == KeySize*2 {
		if raw, err := hex.DecodeString(key); err == nil {
			return raw, nil
		}
	}
	sum := sha256.Sum256([]byte(key))
	return sum[:], nil
}

// GenerateKey returns a random hex-encoded AES-256 key.
func GenerateKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	return hex.EncodeToString(key), nil
}

// Encrypt encrypts plaintext using AES-256-GCM with a random nonce.
// Returns: magic (4 bytes) + nonce (12 bytes) + ciphertext + auth tag
func (e *Encryptor) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	out := make([]byte, 0, len(magic)+NonceSize+len(plaintext)+e.gcm.Overhead())
	out = append(out, magic...)
	out = append(out, nonce...)
	return e.gcm.Seal(out, nonce, plaintext, magic), nil
}

// Decrypt decrypts data produced by Encrypt.
func (e *Encryptor) Decrypt(data []byte) ([]byte, error) {
	if !IsEncrypted(data) {
		return nil, ErrNotEncrypted
	}
	body := data[len(magic):]
	if len(body) < NonceSize+e.gcm.Overhead() {
		return nil, ErrCiphertextTooShort
	}

	nonce := body[:NonceSize]
	encrypted := body[NonceSize:]

	plaintext, err := e.gcm.Open(nil, nonce, encrypted, magic)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}

// IsEncrypted reports whether data carries the sealed payload prefix.
func IsEncrypted(data []byte) bool {
	return bytes.HasPrefix(data, magic)
}
