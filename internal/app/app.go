package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/tabineta/authd/internal/pkg/clock"
	"github.com/tabineta/authd/internal/pkg/config"
	"github.com/tabineta/authd/internal/pkg/goroutine"
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

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine       *goroutine.Manager
	validator       validator.Validator
	clock           clock.Clocker
	argon2id        hash.Hash
	bcrypt          hash.Hash
	uid             uid.NumberID
	uuid            uid.StringID
	totp            otp.OTP
	qr              qrcode.Generator
	jwt             jwt.JWT
	mfaEncryptor    mfa.Encryptor
	mfaRecoveryCode mfa.RecoveryCodeGenerator

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	idemp     idempotency.Idempotency

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
