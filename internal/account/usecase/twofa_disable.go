package usecase

import (
	"context"
	"log/slog"

	"github.com/tabineta/authd/internal/account/entity"
	"github.com/tabineta/authd/internal/pkg/goerror"
)

type TwoFADisableInput struct {
	CurrentPassword string `validate:"required"`
}

type TwoFADisableOutput struct {
	Disabled bool
}

// TwoFADisable turns two-factor authentication off, deleting the stored
// secret and every backup code. The current password is required so a stolen
// session alone cannot weaken the account.
func (s *Usecase) TwoFADisable(ctx context.Context, in TwoFADisableInput) (*TwoFADisableOutput, error) {
	ctx, span := s.startSpan(ctx, "TwoFADisable")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	profile, err := s.authenticatedProfile(ctx)
	if err != nil {
		return nil, err
	}

	// Only a confirmed setup can be disabled; a pending setup is replaced by
	// calling setup again, not by disable.
	if profile.TwoFactorState() != entity.TwoFactorEnabled {
		return nil, goerror.NewBusiness("two-factor authentication is not enabled", goerror.CodeFailedPrecondition)
	}

	if profile.PasswordHash == "" {
		slog.WarnContext(ctx, "account has no password configured", "user_id", profile.UserID)
		return nil, goerror.NewBusiness("password is not configured for this account", goerror.CodeFailedPrecondition)
	}

	if !s.bcrypt.Verify(profile.PasswordHash, in.CurrentPassword) {
		slog.WarnContext(ctx, "account password not match", "user_id", profile.UserID)
		return nil, goerror.NewBusiness("invalid password", goerror.CodeInvalidCredential)
	}

	if err := s.repoDB.DisableTwoFactor(ctx, profile.UserID); err != nil {
		slog.ErrorContext(ctx, "failed to disable two-factor", "user_id", profile.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &TwoFADisableOutput{Disabled: true}, nil
}
