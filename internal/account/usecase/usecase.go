package usecase

import (
	"context"
	"log/slog"

	"github.com/tabineta/authd/internal/account/entity"
	"github.com/tabineta/authd/internal/pkg/clock"
	"github.com/tabineta/authd/internal/pkg/config"
	"github.com/tabineta/authd/internal/pkg/goerror"
	"github.com/tabineta/authd/internal/pkg/hash"
	"github.com/tabineta/authd/internal/pkg/idempotency"
	"github.com/tabineta/authd/internal/pkg/instrument"
	"github.com/tabineta/authd/internal/pkg/jwt"
	"github.com/tabineta/authd/internal/pkg/mfa"
	"github.com/tabineta/authd/internal/pkg/otp"
	"github.com/tabineta/authd/internal/pkg/qrcode"
	"github.com/tabineta/authd/internal/pkg/uid"
	"github.com/tabineta/authd/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	GetSecurityProfileByEmail(ctx context.Context, email string) (*entity.SecurityProfile, error)
	GetSecurityProfileByID(ctx context.Context, id int64) (*entity.SecurityProfile, error)
	GetUnusedBackupCodes(ctx context.Context, userID int64) ([]entity.BackupCode, error)
	CountUnusedBackupCodes(ctx context.Context, userID int64) (int64, error)

	ConsumeBackupCode(ctx context.Context, codeID, userID int64) (bool, error)
	EnableTwoFactor(ctx context.Context, userID int64) (bool, error)

	ReplaceTwoFactorSetup(ctx context.Context, setup entity.TwoFactorSetup, codeIDs []int64) error
	DisableTwoFactor(ctx context.Context, userID int64) error
}

type Usecase struct {
	repoDB          repoDB
	idemp           idempotency.Idempotency
	validator       validator.Validator
	cfg             config.Config
	bcrypt          hash.Hash
	argon2id        hash.Hash
	mfaEncryptor    mfa.Encryptor
	mfaRecoveryCode mfa.RecoveryCodeGenerator
	uid             uid.NumberID
	totp            otp.OTP
	qr              qrcode.Generator
	clock           clock.Clocker
	jwt             jwt.JWT
	ins             instrument.Instrumentation
}

type Dependency struct {
	RepoDB          repoDB
	Idempotency     idempotency.Idempotency
	Validator       validator.Validator
	Config          config.Config
	Bcrypt          hash.Hash
	Argon2ID        hash.Hash
	MFAEncryptor    mfa.Encryptor
	MFARecoveryCode mfa.RecoveryCodeGenerator
	UID             uid.NumberID
	Totp            otp.OTP
	QR              qrcode.Generator
	Clock           clock.Clocker
	JWT             jwt.JWT
	Instrument      instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:          dep.RepoDB,
		idemp:           dep.Idempotency,
		validator:       dep.Validator,
		cfg:             dep.Config,
		bcrypt:          dep.Bcrypt,
		argon2id:        dep.Argon2ID,
		mfaEncryptor:    dep.MFAEncryptor,
		mfaRecoveryCode: dep.MFARecoveryCode,
		uid:             dep.UID,
		totp:            dep.Totp,
		qr:              dep.QR,
		clock:           dep.Clock,
		jwt:             dep.JWT,
		ins:             dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("account.usecase").Start(ctx, name)
}

func (s *Usecase) ensureAccountStatusAllowed(ctx context.Context, userID int64, status entity.AccountStatus) error {
	switch status {
	case entity.AccountStatusBanned:
		slog.WarnContext(ctx, "account is banned", "user_id", userID)
		return goerror.NewBusiness("account is banned", goerror.CodeForbidden)

	case entity.AccountStatusInactive:
		slog.WarnContext(ctx, "account is inactive", "user_id", userID)
		return goerror.NewBusiness("account is inactive", goerror.CodeForbidden)

	case entity.AccountStatusActive:
		return nil

	default:
		slog.WarnContext(ctx, "account status is unrecognized", "user_id", userID)
		return goerror.NewBusiness("account status is unrecognized", goerror.CodeForbidden)
	}
}

func (s *Usecase) authenticatedProfile(ctx context.Context) (*entity.SecurityProfile, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	profile, err := s.repoDB.GetSecurityProfileByID(ctx, clm.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get security profile by id", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.ensureAccountStatusAllowed(ctx, profile.UserID, profile.Status); err != nil {
		return nil, err
	}

	return profile, nil
}

// isTOTPFormat reports whether code looks like a 6-digit TOTP value. Backup
// codes are 8 alphanumeric characters, so the two formats never overlap.
func isTOTPFormat(code string) bool {
	if len(code) != 6 {
		return false
	}

	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}

	return true
}
