package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/tabineta/authd/internal/account/entity"
)

// ReplaceTwoFactorSetup stores freshly provisioned two-factor material,
// discarding any previous unconfirmed setup and all existing backup codes.
// The stored secret is ciphertext; the codes are hashes.
func (s *DB) ReplaceTwoFactorSetup(ctx context.Context, setup entity.TwoFactorSetup, codeIDs []int64) (err error) {
	ctx, span := s.startSpan(ctx, "ReplaceTwoFactorSetup")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	if _, err = tx.Exec(ctx, `
		INSERT INTO account_twofactor (user_id, secret, key_version, enabled)
		VALUES ($1, $2, $3, FALSE)
		ON CONFLICT (user_id)
		DO UPDATE SET secret = EXCLUDED.secret, key_version = EXCLUDED.key_version,
			enabled = FALSE, enabled_at = NULL, updated_at = NOW()`,
		setup.UserID, setup.Secret, setup.KeyVersion,
	); err != nil {
		return s.mapError(err)
	}

	if _, err = tx.Exec(ctx, `
		DELETE FROM account_backup_codes WHERE user_id = $1`, setup.UserID,
	); err != nil {
		return s.mapError(err)
	}

	for i, codeHash := range setup.CodeHashes {
		if _, err = tx.Exec(ctx, `
			INSERT INTO account_backup_codes (id, user_id, code_hash)
			VALUES ($1, $2, $3)`,
			codeIDs[i], setup.UserID, codeHash,
		); err != nil {
			return s.mapError(err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

// DisableTwoFactor removes the two-factor material and every backup code so
// the account returns to the disabled state.
func (s *DB) DisableTwoFactor(ctx context.Context, userID int64) (err error) {
	ctx, span := s.startSpan(ctx, "DisableTwoFactor")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	if _, err = tx.Exec(ctx, `
		DELETE FROM account_twofactor WHERE user_id = $1`, userID,
	); err != nil {
		return s.mapError(err)
	}

	if _, err = tx.Exec(ctx, `
		DELETE FROM account_backup_codes WHERE user_id = $1`, userID,
	); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}
