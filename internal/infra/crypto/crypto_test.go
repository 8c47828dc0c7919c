package crypto

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
)

func testKey() string {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	return hex.EncodeToString(key)
}

func TestEncryptor_EncryptDecrypt(t *testing.T) {
	enc, err := NewEncryptor(testKey())
	if err != nil {
		t.Fatalf("NewEncryptor failed: %v", err)
	}

	plaintext := []byte(`{"tasks":{"Monday":[{"id":"a","title":"Plan"}]}}`)

	ciphertext, err := enc.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	if bytes.Contains(ciphertext, []byte("Plan")) {
		t.Error("Ciphertext should not contain plaintext")
	}
	if !IsEncrypted(ciphertext) {
		t.Error("IsEncrypted() = false for sealed data")
	}

	decrypted, err := enc.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}

	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("Decrypted text mismatch: got %q, want %q", decrypted, plaintext)
	}
}

func TestEncryptor_RandomNonce(t *testing.T) {
	enc, err := NewEncryptor(testKey())
	if err != nil {
		t.Fatalf("NewEncryptor failed: %v", err)
	}

	plaintext := []byte("same board")
	c1, err := enc.Encrypt(plaintext)
	if err != nil {
		t.Fatal(err)
	}
	c2, err := enc.Encrypt(plaintext)
	if err != nil {
		t.Fatal(err)
	}

	if bytes.Equal(c1, c2) {
		t.Error("Encrypting twice should use different nonces")
	}
}

func TestEncryptor_Passphrase(t *testing.T) {
	a, err := NewEncryptor("correct horse battery staple")
	if err != nil {
		t.Fatalf("NewEncryptor failed: %v", err)
	}
	b, err := NewEncryptor("  correct horse battery staple  ")
	if err != nil {
		t.Fatalf("NewEncryptor failed: %v", err)
	}

	ciphertext, err := a.Encrypt([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	plaintext, err := b.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("Decrypt with same passphrase failed: %v", err)
	}
	if string(plaintext) != "secret" {
		t.Errorf("got %q", plaintext)
	}
}

func TestEncryptor_WrongKey(t *testing.T) {
	enc1, _ := NewEncryptor(testKey())
	enc2, _ := NewEncryptor("another passphrase")

	ciphertext, err := enc1.Encrypt([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}

	_, err = enc2.Decrypt(ciphertext)
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("Decrypt with wrong key error = %v, want %v", err, ErrDecryptionFailed)
	}
}

func TestEncryptor_InvalidInput(t *testing.T) {
	enc, _ := NewEncryptor(testKey())

	tests := []struct {
		want error
		name string
		data []byte
	}{
		{name: "plain text", data: []byte(`{"tasks":{}}`), want: ErrNotEncrypted},
		{name: "empty", data: nil, want: ErrNotEncrypted},
		{name: "truncated", data: append([]byte("WDX1"), 1, 2, 3), want: ErrCiphertextTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := enc.Decrypt(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("Decrypt() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEncryptor_TamperedCiphertext(t *testing.T) {
	enc, _ := NewEncryptor(testKey())

	ciphertext, err := enc.Encrypt([]byte("board"))
	if err != nil {
		t.Fatal(err)
	}
	ciphertext[len(ciphertext)-1] ^= 0xff

	if _, err := enc.Decrypt(ciphertext); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("Decrypt() tampered error = %v, want %v", err, ErrDecryptionFailed)
	}
}

func TestNewEncryptor_EmptyKey(t *testing.T) {
	if _, err := NewEncryptor("   "); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("NewEncryptor(\"\") error = %v, want %v", err, ErrInvalidKey)
	}
}

func TestGenerateKey(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}
	if len(key) != KeySize*2 {
		t.Errorf("GenerateKey() length = %d, want %d", len(key), KeySize*2)
	}
	raw, err := DeriveKey(key)
	if err != nil {
		t.Fatal(err)
	}
	if hex.EncodeToString(raw) != key {
		t.Error("hex key should be used verbatim")
	}
}
