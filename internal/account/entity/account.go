package entity

import "time"

type Account struct {
	ID        int64
	Email     string
	FullName  string
	Status    AccountStatus
	UpdatedAt time.Time
}

// SecurityProfile is the per-account security record: the credential hash and
// the two-factor material. PasswordHash is empty for social-login accounts.
// Secret holds the AES-GCM ciphertext of the TOTP seed and is nil unless the
// account is in PendingSetup or Enabled state.
type SecurityProfile struct {
	UserID           int64
	Email            string
	FullName         string
	Status           AccountStatus
	PasswordHash     string
	TwoFactorEnabled bool
	Secret           []byte
	KeyVersion       int16
}

// TwoFactorState derives the lifecycle state from the stored fields.
func (p *SecurityProfile) TwoFactorState() TwoFactorState {
	switch {
	case len(p.Secret) == 0:
		return TwoFactorDisabled
	case p.TwoFactorEnabled:
		return TwoFactorEnabled
	default:
		return TwoFactorPendingSetup
	}
}

type BackupCode struct {
	ID       int64
	UserID   int64
	CodeHash string
}

// TwoFactorSetup is the material persisted when a setup (re)starts. Secret is
// ciphertext; CodeHashes are the Argon2id digests of the plaintext codes that
// were returned to the caller exactly once.
type TwoFactorSetup struct {
	UserID     int64
	Secret     []byte
	KeyVersion int16
	CodeHashes []string
}
