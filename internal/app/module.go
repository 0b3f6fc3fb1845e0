package app

import (
	"log/slog"
	"os"

	"github.com/tabineta/authd/internal/account"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.account.enabled") {
		if err := account.New(account.Dependency{
			Config:          a.config,
			Instrument:      a.ins,
			UID:             a.uid,
			Bcrypt:          a.bcrypt,
			Argon2ID:        a.argon2id,
			MFAEncryptor:    a.mfaEncryptor,
			MFARecoveryCode: a.mfaRecoveryCode,
			Clock:           a.clock,
			Validator:       a.validator,
			Router:          a.router,
			Totp:            a.totp,
			QR:              a.qr,
			DBConn:          a.dbConn,
			Idempotency:     a.idemp,
			JWT:             a.jwt,
		}); err != nil {
			slog.Error("failed to init module account", "error", err)
			os.Exit(1)
		}
	}
}
