package db

import (
	"context"

	"github.com/tabineta/authd/internal/account/entity"
)

const securityProfileColumns = `
	SELECT a.id, a.email, a.full_name, a.status,
		COALESCE(c.password, ''),
		COALESCE(tf.enabled, FALSE), tf.secret, COALESCE(tf.key_version, 0)
	FROM accounts a
	LEFT JOIN account_credentials c ON c.user_id = a.id
	LEFT JOIN account_twofactor tf ON tf.user_id = a.id
`

func (s *DB) scanSecurityProfile(row interface{ Scan(dest ...any) error }) (*entity.SecurityProfile, error) {
	var (
		p      entity.SecurityProfile
		status int16
		keyVer int16
	)

	err := row.Scan(
		&p.UserID, &p.Email, &p.FullName, &status,
		&p.PasswordHash,
		&p.TwoFactorEnabled, &p.Secret, &keyVer,
	)
	if err != nil {
		return nil, err
	}

	p.Status = entity.AccountStatus(status)
	p.KeyVersion = keyVer

	return &p, nil
}

func (s *DB) GetSecurityProfileByEmail(ctx context.Context, email string) (_ *entity.SecurityProfile, err error) {
	ctx, span := s.startSpan(ctx, "GetSecurityProfileByEmail")
	defer func() { s.endSpan(span, err) }()

	row := s.conn.QueryRow(ctx, securityProfileColumns+` WHERE a.email = $1`, email)

	profile, err := s.scanSecurityProfile(row)
	if err != nil {
		return nil, s.mapError(err)
	}

	return profile, nil
}

func (s *DB) GetSecurityProfileByID(ctx context.Context, id int64) (_ *entity.SecurityProfile, err error) {
	ctx, span := s.startSpan(ctx, "GetSecurityProfileByID")
	defer func() { s.endSpan(span, err) }()

	row := s.conn.QueryRow(ctx, securityProfileColumns+` WHERE a.id = $1`, id)

	profile, err := s.scanSecurityProfile(row)
	if err != nil {
		return nil, s.mapError(err)
	}

	return profile, nil
}

// GetUnusedBackupCodes returns the account's backup codes that have not been
// consumed yet.
func (s *DB) GetUnusedBackupCodes(ctx context.Context, userID int64) (_ []entity.BackupCode, err error) {
	ctx, span := s.startSpan(ctx, "GetUnusedBackupCodes")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		SELECT id, user_id, code_hash
		FROM account_backup_codes
		WHERE user_id = $1 AND used_at IS NULL
		ORDER BY id`, userID)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	items := make([]entity.BackupCode, 0)
	for rows.Next() {
		var bc entity.BackupCode
		if err = rows.Scan(&bc.ID, &bc.UserID, &bc.CodeHash); err != nil {
			return nil, s.mapError(err)
		}
		items = append(items, bc)
	}
	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return items, nil
}

// CountUnusedBackupCodes returns how many backup codes remain usable.
func (s *DB) CountUnusedBackupCodes(ctx context.Context, userID int64) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "CountUnusedBackupCodes")
	defer func() { s.endSpan(span, err) }()

	var count int64
	err = s.conn.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM account_backup_codes
		WHERE user_id = $1 AND used_at IS NULL`, userID).Scan(&count)
	if err != nil {
		return 0, s.mapError(err)
	}

	return count, nil
}
