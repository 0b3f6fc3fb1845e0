package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tabineta/authd/internal/account/entity"
	"github.com/tabineta/authd/internal/pkg/goerror"
	"github.com/tabineta/authd/internal/pkg/mfa"
)

type TwoFAEnableInput struct {
	Token string `validate:"required,len=6,numeric"`
}

type TwoFAEnableOutput struct {
	Enabled bool
}

// TwoFAEnable confirms a pending setup by checking a TOTP code against the
// stored secret. Only after this succeeds does login start requiring a second
// factor.
func (s *Usecase) TwoFAEnable(ctx context.Context, in TwoFAEnableInput) (*TwoFAEnableOutput, error) {
	ctx, span := s.startSpan(ctx, "TwoFAEnable")
	defer span.End()

	in.Token = strings.TrimSpace(in.Token)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	profile, err := s.authenticatedProfile(ctx)
	if err != nil {
		return nil, err
	}

	switch profile.TwoFactorState() {
	case entity.TwoFactorEnabled:
		return nil, goerror.NewBusiness("two-factor authentication is already enabled", goerror.CodeFailedPrecondition)
	case entity.TwoFactorDisabled:
		return nil, goerror.NewBusiness("two-factor setup has not been started", goerror.CodeFailedPrecondition)
	}

	secretBytes, err := s.mfaEncryptor.Decrypt(profile.Secret, mfa.Scope{
		UserID:  profile.UserID,
		Purpose: mfa.PurposeOTPSeed,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to decrypt totp secret", "user_id", profile.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !s.totp.Validate(in.Token, string(secretBytes), s.clock.Now()) {
		slog.WarnContext(ctx, "invalid totp code on enable", "user_id", profile.UserID)
		return nil, goerror.NewBusiness("invalid verification code", goerror.CodeInvalidCredential)
	}

	enabled, err := s.repoDB.EnableTwoFactor(ctx, profile.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to enable two-factor", "user_id", profile.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !enabled {
		// the pending row vanished or was enabled by a concurrent request
		slog.WarnContext(ctx, "no pending two-factor setup to enable", "user_id", profile.UserID)
		return nil, goerror.NewBusiness("two-factor setup has not been started", goerror.CodeFailedPrecondition)
	}

	return &TwoFAEnableOutput{Enabled: true}, nil
}
