package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/tabineta/authd/internal/account/entity"
	"github.com/tabineta/authd/internal/pkg/goerror"
)

type LoginInput struct {
	Email          string `validate:"required,email"`
	Password       string `validate:"required"`
	TwoFactorToken string `validate:"omitempty,min=6,max=8"`
}

type LoginOutput struct {
	AccessToken    string
	UsedBackupCode bool
	// RemainingBackupCodes is set only when a backup code was consumed, so
	// clients can warn the user when the pool runs low.
	RemainingBackupCodes int64
}

// Login authenticates with email and password. When the account has
// two-factor enabled, the password alone never yields a token: the caller
// must retry with TwoFactorToken set.
func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	email := strings.TrimSpace(in.Email)
	profile, err := s.repoDB.GetSecurityProfileByEmail(ctx, email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "account not found", "email", email)
		return nil, goerror.NewBusiness("invalid email or password", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get security profile by email", "email", email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.ensureAccountStatusAllowed(ctx, profile.UserID, profile.Status); err != nil {
		return nil, err
	}

	// The password check always runs first; a second factor never compensates
	// for a wrong password. Accounts created through social login have no
	// password hash and cannot use this flow.
	if profile.PasswordHash == "" || !s.bcrypt.Verify(profile.PasswordHash, in.Password) {
		slog.WarnContext(ctx, "account password not match", "user_id", profile.UserID)
		return nil, goerror.NewBusiness("invalid email or password", goerror.CodeUnauthorized)
	}

	out := &LoginOutput{}

	if profile.TwoFactorState() == entity.TwoFactorEnabled {
		if in.TwoFactorToken == "" {
			return nil, goerror.NewBusiness("two-factor authentication required", goerror.CodeMFARequired)
		}

		usedBackup, err := s.verifySecondFactor(ctx, profile, in.TwoFactorToken, goerror.CodeUnauthorized)
		if err != nil {
			return nil, err
		}

		out.UsedBackupCode = usedBackup
		if usedBackup {
			remaining, err := s.repoDB.CountUnusedBackupCodes(ctx, profile.UserID)
			if err != nil {
				slog.ErrorContext(ctx, "failed to count remaining backup codes", "user_id", profile.UserID, "error", err)
				return nil, goerror.NewServer(err)
			}
			out.RemainingBackupCodes = remaining
		}
	}

	acToken, err := s.jwt.Generate(profile.UserID, profile.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access jwt token", "user_id", profile.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}
	out.AccessToken = acToken

	return out, nil
}
