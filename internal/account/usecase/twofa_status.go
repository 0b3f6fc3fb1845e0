package usecase

import (
	"context"
	"log/slog"

	"github.com/tabineta/authd/internal/account/entity"
	"github.com/tabineta/authd/internal/pkg/goerror"
)

type TwoFAStatusOutput struct {
	State                entity.TwoFactorState
	Enabled              bool
	RemainingBackupCodes int64
}

// TwoFAStatus reports the account's two-factor lifecycle state and how many
// backup codes remain usable.
func (s *Usecase) TwoFAStatus(ctx context.Context) (*TwoFAStatusOutput, error) {
	ctx, span := s.startSpan(ctx, "TwoFAStatus")
	defer span.End()

	profile, err := s.authenticatedProfile(ctx)
	if err != nil {
		return nil, err
	}

	out := &TwoFAStatusOutput{
		State:   profile.TwoFactorState(),
		Enabled: profile.TwoFactorState() == entity.TwoFactorEnabled,
	}

	if out.Enabled {
		remaining, err := s.repoDB.CountUnusedBackupCodes(ctx, profile.UserID)
		if err != nil {
			slog.ErrorContext(ctx, "failed to count remaining backup codes", "user_id", profile.UserID, "error", err)
			return nil, goerror.NewServer(err)
		}
		out.RemainingBackupCodes = remaining
	}

	return out, nil
}
