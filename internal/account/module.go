package account

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tabineta/authd/internal/account/inbound"
	"github.com/tabineta/authd/internal/account/outbound/db"
	"github.com/tabineta/authd/internal/account/usecase"
	"github.com/tabineta/authd/internal/pkg/clock"
	"github.com/tabineta/authd/internal/pkg/config"
	"github.com/tabineta/authd/internal/pkg/hash"
	"github.com/tabineta/authd/internal/pkg/idempotency"
	"github.com/tabineta/authd/internal/pkg/instrument"
	"github.com/tabineta/authd/internal/pkg/jwt"
	"github.com/tabineta/authd/internal/pkg/mfa"
	"github.com/tabineta/authd/internal/pkg/otp"
	"github.com/tabineta/authd/internal/pkg/qrcode"
	"github.com/tabineta/authd/internal/pkg/router"
	"github.com/tabineta/authd/internal/pkg/uid"
	"github.com/tabineta/authd/internal/pkg/validator"
)

type Dependency struct {
	DBConn          *pgxpool.Pool              `validate:"required"`
	Router          *router.Router             `validate:"required"`
	Idempotency     idempotency.Idempotency    `validate:"required"`
	Config          config.Config              `validate:"required"`
	Instrument      instrument.Instrumentation `validate:"required"`
	UID             uid.NumberID               `validate:"required"`
	Bcrypt          hash.Hash                  `validate:"required"`
	Argon2ID        hash.Hash                  `validate:"required"`
	MFAEncryptor    mfa.Encryptor              `validate:"required"`
	MFARecoveryCode mfa.RecoveryCodeGenerator  `validate:"required"`
	Clock           clock.Clocker              `validate:"required"`
	Totp            otp.OTP                    `validate:"required"`
	QR              qrcode.Generator           `validate:"required"`
	Validator       validator.Validator        `validate:"required"`
	JWT             jwt.JWT                    `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbAccount := db.NewDB(dep.DBConn, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:          dbAccount,
		Idempotency:     dep.Idempotency,
		Validator:       dep.Validator,
		Config:          dep.Config,
		Bcrypt:          dep.Bcrypt,
		Argon2ID:        dep.Argon2ID,
		MFAEncryptor:    dep.MFAEncryptor,
		MFARecoveryCode: dep.MFARecoveryCode,
		UID:             dep.UID,
		Totp:            dep.Totp,
		QR:              dep.QR,
		Clock:           dep.Clock,
		JWT:             dep.JWT,
		Instrument:      dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
