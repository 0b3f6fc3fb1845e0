package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/tabineta/authd/internal/account/entity"
	"github.com/tabineta/authd/internal/pkg/goerror"
	"github.com/tabineta/authd/internal/pkg/mfa"
)

type TwoFAVerifyInput struct {
	Email string `validate:"required,email"`
	Token string `validate:"required,min=6,max=8"`
}

type TwoFAVerifyOutput struct {
	Verified             bool
	UsedBackupCode       bool
	RemainingBackupCodes int64
}

// TwoFAVerify checks a second-factor token for an account outside the login
// flow. It accepts either a TOTP code or a backup code; a backup code is
// consumed on success.
func (s *Usecase) TwoFAVerify(ctx context.Context, in TwoFAVerifyInput) (*TwoFAVerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "TwoFAVerify")
	defer span.End()

	in.Token = strings.TrimSpace(in.Token)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	email := strings.TrimSpace(in.Email)
	profile, err := s.repoDB.GetSecurityProfileByEmail(ctx, email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "account not found", "email", email)
		return nil, goerror.NewBusiness("account not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get security profile by email", "email", email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if profile.TwoFactorState() != entity.TwoFactorEnabled {
		slog.WarnContext(ctx, "two-factor is not enabled", "user_id", profile.UserID)
		return nil, goerror.NewBusiness("two-factor authentication is not enabled", goerror.CodeFailedPrecondition)
	}

	usedBackup, err := s.verifySecondFactor(ctx, profile, in.Token, goerror.CodeInvalidCredential)
	if err != nil {
		return nil, err
	}

	out := &TwoFAVerifyOutput{Verified: true, UsedBackupCode: usedBackup}
	if usedBackup {
		remaining, err := s.repoDB.CountUnusedBackupCodes(ctx, profile.UserID)
		if err != nil {
			slog.ErrorContext(ctx, "failed to count remaining backup codes", "user_id", profile.UserID, "error", err)
			return nil, goerror.NewServer(err)
		}
		out.RemainingBackupCodes = remaining
	}

	return out, nil
}

// verifySecondFactor validates a TOTP code or consumes a backup code. It
// returns true when a backup code was used. A mismatch is reported with
// failCode: the standalone verify endpoint answers 400 while the login flow
// keeps its 401.
func (s *Usecase) verifySecondFactor(ctx context.Context, profile *entity.SecurityProfile, code string, failCode goerror.Code) (bool, error) {
	code = strings.TrimSpace(code)

	if isTOTPFormat(code) {
		return false, s.verifyTOTP(ctx, profile, code, failCode)
	}

	return true, s.verifyBackupCode(ctx, profile.UserID, code, failCode)
}

func (s *Usecase) verifyTOTP(ctx context.Context, profile *entity.SecurityProfile, code string, failCode goerror.Code) error {
	secretBytes, err := s.mfaEncryptor.Decrypt(profile.Secret, mfa.Scope{
		UserID:  profile.UserID,
		Purpose: mfa.PurposeOTPSeed,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to decrypt totp secret", "user_id", profile.UserID, "error", err)
		return goerror.NewServer(err)
	}

	if !s.totp.Validate(code, string(secretBytes), s.clock.Now()) {
		slog.WarnContext(ctx, "invalid totp code", "user_id", profile.UserID)
		return goerror.NewBusiness("invalid two-factor code", failCode)
	}

	return nil
}

func (s *Usecase) verifyBackupCode(ctx context.Context, userID int64, code string, failCode goerror.Code) error {
	codes, err := s.repoDB.GetUnusedBackupCodes(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get backup codes", "user_id", userID, "error", err)
		return goerror.NewServer(err)
	}

	code = strings.ToUpper(code)

	var bc *entity.BackupCode
	for i := range codes {
		if s.argon2id.Verify(codes[i].CodeHash, code) {
			bc = &codes[i]
			break
		}
	}

	if bc == nil {
		slog.WarnContext(ctx, "backup code not match", "user_id", userID)
		return goerror.NewBusiness("invalid two-factor code", failCode)
	}

	consumed, err := s.repoDB.ConsumeBackupCode(ctx, bc.ID, bc.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to consume backup code", "user_id", userID, "error", err)
		return goerror.NewServer(err)
	}
	if !consumed {
		slog.WarnContext(ctx, "backup code already used", "user_id", userID)
		return goerror.NewBusiness("invalid two-factor code", failCode)
	}

	return nil
}
