package db

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// ConsumeBackupCode marks a backup code as used. It returns true only when
// this call performed the transition, so concurrent verifications of the same
// code cannot both succeed.
func (s *DB) ConsumeBackupCode(ctx context.Context, codeID, userID int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "ConsumeBackupCode")
	defer func() { s.endSpan(span, err) }()

	var consumed bool

	backoff := retry.WithMaxRetries(1, retry.NewConstant(10*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		tag, execErr := s.conn.Exec(ctx, `
			UPDATE account_backup_codes
			SET used_at = NOW()
			WHERE id = $1 AND user_id = $2 AND used_at IS NULL`, codeID, userID)
		if execErr != nil {
			if isRetryable(execErr) {
				return retry.RetryableError(execErr)
			}
			return execErr
		}

		consumed = tag.RowsAffected() == 1
		return nil
	})
	if err != nil {
		return false, s.mapError(err)
	}

	return consumed, nil
}

// EnableTwoFactor flips the pending setup to enabled. It returns false when
// there was no pending setup row to enable.
func (s *DB) EnableTwoFactor(ctx context.Context, userID int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "EnableTwoFactor")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE account_twofactor
		SET enabled = TRUE, enabled_at = NOW(), updated_at = NOW()
		WHERE user_id = $1 AND enabled = FALSE`, userID)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() == 1, nil
}
