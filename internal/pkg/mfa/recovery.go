package mfa

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// RecoveryCodeGenerator defines an interface for generating MFA recovery codes.
type RecoveryCodeGenerator interface {
	// Generate returns a slice of unique recovery codes or an error if the
	// random source fails.
	Generate() ([]string, error)
}

// alphabet is the character set used for recovery code generation.
//
// Digits and uppercase letters only. Codes are meant to be written down and
// typed back later, so the case-insensitive 36-character set keeps them easy
// to transcribe while 8 characters still give over 2.8e12 combinations.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

const (
	codeCount  = 10
	codeLength = 8
)

// RecoveryCode generates cryptographically secure MFA recovery codes.
//
// It produces a batch of 10 codes, each 8 characters selected uniformly at
// random from the alphabet constant using crypto/rand.
type RecoveryCode struct{}

// NewRecoveryCode returns a new RecoveryCode generator.
func NewRecoveryCode() *RecoveryCode {
	return &RecoveryCode{}
}

// Generate produces a set of unique recovery codes.
func (rc *RecoveryCode) Generate() ([]string, error) {
	out := make([]string, 0, codeCount)
	seen := make(map[string]struct{}, codeCount)

	for len(out) < codeCount {
		code, err := rc.randomCode(codeLength)
		if err != nil {
			return nil, err
		}

		// extremely unlikely, but prevents accidental duplicates
		if _, ok := seen[code]; ok {
			continue
		}

		seen[code] = struct{}{}
		out = append(out, code)
	}

	return out, nil
}

func (rc *RecoveryCode) randomCode(n int) (string, error) {
	var sb strings.Builder
	sb.Grow(n)

	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", err
		}
		sb.WriteByte(alphabet[idx.Int64()])
	}

	return sb.String(), nil
}
