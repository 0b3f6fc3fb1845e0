package mfa

import (
	"bytes"
	"testing"
)

func testKey() StaticKeyProvider {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	return StaticKeyProvider{KeyBytes: key}
}

func TestAESGCMEncryptorRoundTrip(t *testing.T) {
	enc := NewAESGCMEncryptor(testKey())
	scope := Scope{UserID: 42, Purpose: PurposeOTPSeed}

	plaintext := []byte("JBSWY3DPEHPK3PXP")

	ciphertext, err := enc.Encrypt(plaintext, scope)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if bytes.Contains(ciphertext, plaintext) {
		t.Fatalf("ciphertext leaks plaintext")
	}

	got, err := enc.Decrypt(ciphertext, scope)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("expected %q, got %q", plaintext, got)
	}
}

func TestAESGCMEncryptorScopeMismatch(t *testing.T) {
	enc := NewAESGCMEncryptor(testKey())

	ciphertext, err := enc.Encrypt([]byte("secret"), Scope{UserID: 1, Purpose: PurposeOTPSeed})
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	t.Run("WrongUser", func(t *testing.T) {
		if _, err := enc.Decrypt(ciphertext, Scope{UserID: 2, Purpose: PurposeOTPSeed}); err == nil {
			t.Fatalf("expected decrypt to fail for another user")
		}
	})

	t.Run("WrongPurpose", func(t *testing.T) {
		if _, err := enc.Decrypt(ciphertext, Scope{UserID: 1, Purpose: PurposeRecoveryKey}); err == nil {
			t.Fatalf("expected decrypt to fail for another purpose")
		}
	})

	t.Run("Tampered", func(t *testing.T) {
		mutated := append([]byte(nil), ciphertext...)
		mutated[len(mutated)-1] ^= 0xFF
		if _, err := enc.Decrypt(mutated, Scope{UserID: 1, Purpose: PurposeOTPSeed}); err == nil {
			t.Fatalf("expected decrypt to fail for tampered ciphertext")
		}
	})
}
