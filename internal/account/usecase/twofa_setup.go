package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tabineta/authd/internal/account/entity"
	"github.com/tabineta/authd/internal/pkg/goerror"
	"github.com/tabineta/authd/internal/pkg/idempotency"
	"github.com/tabineta/authd/internal/pkg/mfa"
)

type TwoFASetupOutput struct {
	Secret          string
	ProvisioningURI string
	QRCode          string
	BackupCodes     []string
}

// TwoFASetup provisions fresh two-factor material for the authenticated
// account. Calling it again before confirmation discards the previous secret
// and backup codes, so only the latest setup can ever be enabled. The
// plaintext secret and backup codes are returned exactly once.
func (s *Usecase) TwoFASetup(ctx context.Context) (*TwoFASetupOutput, error) {
	ctx, span := s.startSpan(ctx, "TwoFASetup")
	defer span.End()

	profile, err := s.authenticatedProfile(ctx)
	if err != nil {
		return nil, err
	}

	if profile.TwoFactorState() == entity.TwoFactorEnabled {
		return nil, goerror.NewBusiness("two-factor authentication is already enabled", goerror.CodeFailedPrecondition)
	}

	var out *TwoFASetupOutput

	// Serialize concurrent setups for the same account; losing callers get a
	// conflict instead of racing over which secret wins.
	key := fmt.Sprintf("account:2fa-setup:%d", profile.UserID)
	err = s.idemp.Exec(ctx, key, func(ctx context.Context) error {
		out, err = s.provisionTwoFactor(ctx, profile)
		return err
	}, idempotency.WithLockDuration(10*time.Second), idempotency.WithStateTTL(time.Second))

	if errors.Is(err, idempotency.ErrAlreadyInProgress) || errors.Is(err, idempotency.ErrAlreadyCompleted) {
		slog.WarnContext(ctx, "two-factor setup already in progress", "user_id", profile.UserID)
		return nil, goerror.NewBusiness("two-factor setup already in progress", goerror.CodeConflict)
	}
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (s *Usecase) provisionTwoFactor(ctx context.Context, profile *entity.SecurityProfile) (*TwoFASetupOutput, error) {
	secret, uri, err := s.totp.Generate(profile.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate totp secret", "user_id", profile.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	encryptedSecret, err := s.mfaEncryptor.Encrypt([]byte(secret), mfa.Scope{
		UserID:  profile.UserID,
		Purpose: mfa.PurposeOTPSeed,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to encrypt totp secret", "user_id", profile.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	recoveryCodes, err := s.mfaRecoveryCode.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate backup codes", "user_id", profile.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	codeHashes := make([]string, 0, len(recoveryCodes))
	codeIDs := make([]int64, 0, len(recoveryCodes))
	for _, code := range recoveryCodes {
		hashed, err := s.argon2id.Hash(code)
		if err != nil {
			slog.ErrorContext(ctx, "failed to hash backup code", "user_id", profile.UserID, "error", err)
			return nil, goerror.NewServer(err)
		}

		codeHashes = append(codeHashes, string(hashed))
		codeIDs = append(codeIDs, s.uid.Generate())
	}

	setup := entity.TwoFactorSetup{
		UserID:     profile.UserID,
		Secret:     encryptedSecret,
		KeyVersion: int16(s.cfg.GetInt("modules.account.mfa_key_version")),
		CodeHashes: codeHashes,
	}

	if err := s.repoDB.ReplaceTwoFactorSetup(ctx, setup, codeIDs); err != nil {
		slog.ErrorContext(ctx, "failed to store two-factor setup", "user_id", profile.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	qrImage, err := s.qr.GenerateBase64Image(uri)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render provisioning qr code", "user_id", profile.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &TwoFASetupOutput{
		Secret:          secret,
		ProvisioningURI: uri,
		QRCode:          qrImage,
		BackupCodes:     recoveryCodes,
	}, nil
}
