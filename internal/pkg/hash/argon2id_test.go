package hash

import (
	"strings"
	"testing"
)

func TestArgon2idHashVerify(t *testing.T) {
	hasher := NewArgon2id("pepper")

	hashed, err := hasher.Hash("A1B2C3D4")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if !strings.HasPrefix(string(hashed), "$argon2id$") {
		t.Fatalf("unexpected encoding: %q", hashed)
	}

	if !hasher.Verify(string(hashed), "A1B2C3D4") {
		t.Fatalf("expected verify to succeed for matching input")
	}
	if hasher.Verify(string(hashed), "A1B2C3D5") {
		t.Fatalf("expected verify to fail for wrong input")
	}
	if hasher.Verify("", "A1B2C3D4") {
		t.Fatalf("expected verify to fail for empty hash")
	}
	if hasher.Verify(string(hashed), "") {
		t.Fatalf("expected verify to fail for empty input")
	}
}

func TestArgon2idHashSaltsDiffer(t *testing.T) {
	hasher := NewArgon2id("")

	first, err := hasher.Hash("same-input")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := hasher.Hash("same-input")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if string(first) == string(second) {
		t.Fatalf("expected distinct salts to produce distinct encodings")
	}
}

func TestArgon2idPepperBindsHash(t *testing.T) {
	withPepper := NewArgon2id("pepper")
	withoutPepper := NewArgon2id("")

	hashed, err := withPepper.Hash("code")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if withoutPepper.Verify(string(hashed), "code") {
		t.Fatalf("expected verify to fail without the pepper")
	}
}

func TestBcryptHashVerify(t *testing.T) {
	hasher := NewBcrypt(4, "pepper")

	hashed, err := hasher.Hash("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if !hasher.Verify(string(hashed), "password123") {
		t.Fatalf("expected verify to succeed for matching password")
	}
	if hasher.Verify(string(hashed), "password124") {
		t.Fatalf("expected verify to fail for wrong password")
	}
}
