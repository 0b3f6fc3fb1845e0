package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	libOTP "github.com/pquerna/otp"
	"github.com/tabineta/authd/internal/account/entity"
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
)

type backupRow struct {
	id     int64
	userID int64
	hash   string
	used   bool
}

// fakeRepo is an in-memory stand-in for the database layer.
type fakeRepo struct {
	mu       sync.Mutex
	profiles map[int64]*entity.SecurityProfile
	emails   map[string]int64
	codes    []backupRow
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		profiles: make(map[int64]*entity.SecurityProfile),
		emails:   make(map[string]int64),
	}
}

func (f *fakeRepo) addProfile(p entity.SecurityProfile) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cp := p
	f.profiles[p.UserID] = &cp
	f.emails[p.Email] = p.UserID
}

func (f *fakeRepo) GetSecurityProfileByEmail(_ context.Context, email string) (*entity.SecurityProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id, ok := f.emails[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	cp := *f.profiles[id]
	return &cp, nil
}

func (f *fakeRepo) GetSecurityProfileByID(_ context.Context, id int64) (*entity.SecurityProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.profiles[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	cp := *p
	return &cp, nil
}

func (f *fakeRepo) GetUnusedBackupCodes(_ context.Context, userID int64) ([]entity.BackupCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []entity.BackupCode
	for _, row := range f.codes {
		if row.userID == userID && !row.used {
			out = append(out, entity.BackupCode{ID: row.id, UserID: row.userID, CodeHash: row.hash})
		}
	}
	return out, nil
}

func (f *fakeRepo) CountUnusedBackupCodes(_ context.Context, userID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for _, row := range f.codes {
		if row.userID == userID && !row.used {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) ConsumeBackupCode(_ context.Context, codeID, userID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.codes {
		if f.codes[i].id == codeID && f.codes[i].userID == userID && !f.codes[i].used {
			f.codes[i].used = true
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) EnableTwoFactor(_ context.Context, userID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.profiles[userID]
	if !ok || len(p.Secret) == 0 || p.TwoFactorEnabled {
		return false, nil
	}

	p.TwoFactorEnabled = true
	return true, nil
}

func (f *fakeRepo) ReplaceTwoFactorSetup(_ context.Context, setup entity.TwoFactorSetup, codeIDs []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.profiles[setup.UserID]
	if !ok {
		return goerror.ErrNotFound
	}

	p.Secret = setup.Secret
	p.KeyVersion = setup.KeyVersion
	p.TwoFactorEnabled = false

	kept := f.codes[:0]
	for _, row := range f.codes {
		if row.userID != setup.UserID {
			kept = append(kept, row)
		}
	}
	f.codes = kept

	for i, h := range setup.CodeHashes {
		f.codes = append(f.codes, backupRow{id: codeIDs[i], userID: setup.UserID, hash: h})
	}
	return nil
}

func (f *fakeRepo) DisableTwoFactor(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.profiles[userID]
	if !ok {
		return goerror.ErrNotFound
	}

	p.Secret = nil
	p.TwoFactorEnabled = false

	kept := f.codes[:0]
	for _, row := range f.codes {
		if row.userID != userID {
			kept = append(kept, row)
		}
	}
	f.codes = kept
	return nil
}

// fakeIdempotency runs the callback directly without touching Redis.
type fakeIdempotency struct{}

func (fakeIdempotency) Acquire(context.Context, string, time.Duration) (idempotency.State, error) {
	return idempotency.StateNone, nil
}

func (fakeIdempotency) MarkCompleted(context.Context, string, time.Duration) error { return nil }

func (fakeIdempotency) MarkFailed(context.Context, string, time.Duration) error { return nil }

func (fakeIdempotency) Exec(ctx context.Context, _ string, fn func(context.Context) error, _ ...idempotency.Option) error {
	return fn(ctx)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// seqID hands out sequential identifiers.
type seqID struct{ n int64 }

func (s *seqID) Generate() int64 {
	s.n++
	return s.n
}

type harness struct {
	uc   *Usecase
	repo *fakeRepo
	totp otp.OTP
	now  time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	clk := fixedClock{now: now}

	cfg, err := config.NewViperFromBytes("yaml", []byte("modules:\n  account:\n    mfa_key_version: 1\n"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	vld, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}

	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}

	secret := make([]byte, 64)
	for i := range secret {
		secret[i] = byte(i + 1)
	}
	tokenizer, err := jwt.NewHS512(jwt.Config{
		Secret:     secret,
		Issuer:     "authd-test",
		Audiences:  []string{"authd-test"},
		TTLMinutes: 15 * time.Minute,
		Clock:      clk,
		UUID:       uid.NewUUID(),
	})
	if err != nil {
		t.Fatalf("jwt: %v", err)
	}

	totp := otp.NewTOTP("Tabineta", 30, 1, libOTP.DigitsSix)
	repo := newFakeRepo()

	uc := New(Dependency{
		RepoDB:          repo,
		Idempotency:     fakeIdempotency{},
		Validator:       vld,
		Config:          cfg,
		Bcrypt:          hash.NewBcrypt(4, ""),
		Argon2ID:        hash.NewArgon2id(""),
		MFAEncryptor:    mfa.NewAESGCMEncryptor(mfa.StaticKeyProvider{KeyBytes: key}),
		MFARecoveryCode: mfa.NewRecoveryCode(),
		UID:             &seqID{},
		Totp:            totp,
		QR:              qrcode.NewPNG(128),
		Clock:           clk,
		JWT:             tokenizer,
		Instrument:      instrument.NewNoop(),
	})

	return &harness{uc: uc, repo: repo, totp: totp, now: now}
}

func (h *harness) addAccount(t *testing.T, id int64, email, password string) {
	t.Helper()

	hashed, err := hash.NewBcrypt(4, "").Hash(password)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	h.repo.addProfile(entity.SecurityProfile{
		UserID:       id,
		Email:        email,
		FullName:     "Test User",
		Status:       entity.AccountStatusActive,
		PasswordHash: string(hashed),
	})
}

func (h *harness) authCtx(id int64, email string) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: id, UserEmail: email})
}

func (h *harness) totpCode(t *testing.T, secret string) string {
	t.Helper()

	code, err := h.totp.GenerateCode(secret, h.now)
	if err != nil {
		t.Fatalf("generate totp code: %v", err)
	}
	return code
}

// enableTwoFactor walks an account through setup and confirmation, returning
// the plaintext secret and backup codes handed to the user.
func (h *harness) enableTwoFactor(t *testing.T, id int64, email string) *TwoFASetupOutput {
	t.Helper()

	ctx := h.authCtx(id, email)

	setup, err := h.uc.TwoFASetup(ctx)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	if _, err := h.uc.TwoFAEnable(ctx, TwoFAEnableInput{Token: h.totpCode(t, setup.Secret)}); err != nil {
		t.Fatalf("enable: %v", err)
	}

	return setup
}

func assertCode(t *testing.T, err error, want goerror.Code) {
	t.Helper()

	var ge *goerror.Error
	if !errors.As(err, &ge) {
		t.Fatalf("expected structured error, got %v", err)
	}
	if ge.Code() != want {
		t.Fatalf("expected code %s, got %s (%v)", want, ge.Code(), err)
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("InvalidInput", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.uc.Login(ctx, LoginInput{Email: "not-an-email", Password: "pw"})
		assertCode(t, err, goerror.CodeInvalidInput)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.uc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "secret123"})
		assertCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		h := newHarness(t)
		h.addAccount(t, 1, "user@example.com", "secret123")

		_, err := h.uc.Login(ctx, LoginInput{Email: "user@example.com", Password: "wrong-password"})
		assertCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("NoPasswordHash", func(t *testing.T) {
		h := newHarness(t)
		h.repo.addProfile(entity.SecurityProfile{
			UserID: 2,
			Email:  "social@example.com",
			Status: entity.AccountStatusActive,
		})

		_, err := h.uc.Login(ctx, LoginInput{Email: "social@example.com", Password: "anything"})
		assertCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("BannedAccount", func(t *testing.T) {
		h := newHarness(t)
		h.repo.addProfile(entity.SecurityProfile{
			UserID: 3,
			Email:  "banned@example.com",
			Status: entity.AccountStatusBanned,
		})

		_, err := h.uc.Login(ctx, LoginInput{Email: "banned@example.com", Password: "secret123"})
		assertCode(t, err, goerror.CodeForbidden)
	})

	t.Run("Success", func(t *testing.T) {
		h := newHarness(t)
		h.addAccount(t, 1, "user@example.com", "secret123")

		out, err := h.uc.Login(ctx, LoginInput{Email: "user@example.com", Password: "secret123"})
		if err != nil {
			t.Fatalf("login: %v", err)
		}

		if out.AccessToken == "" {
			t.Fatalf("expected access token")
		}
		if out.UsedBackupCode {
			t.Fatalf("expected no backup code usage")
		}
	})

	t.Run("SecondFactorRequired", func(t *testing.T) {
		h := newHarness(t)
		h.addAccount(t, 1, "user@example.com", "secret123")
		h.enableTwoFactor(t, 1, "user@example.com")

		_, err := h.uc.Login(ctx, LoginInput{Email: "user@example.com", Password: "secret123"})
		assertCode(t, err, goerror.CodeMFARequired)
	})

	t.Run("SecondFactorNeverCompensatesPassword", func(t *testing.T) {
		h := newHarness(t)
		h.addAccount(t, 1, "user@example.com", "secret123")
		setup := h.enableTwoFactor(t, 1, "user@example.com")

		_, err := h.uc.Login(ctx, LoginInput{
			Email:          "user@example.com",
			Password:       "wrong-password",
			TwoFactorToken: h.totpCode(t, setup.Secret),
		})
		assertCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("WithTOTP", func(t *testing.T) {
		h := newHarness(t)
		h.addAccount(t, 1, "user@example.com", "secret123")
		setup := h.enableTwoFactor(t, 1, "user@example.com")

		out, err := h.uc.Login(ctx, LoginInput{
			Email:          "user@example.com",
			Password:       "secret123",
			TwoFactorToken: h.totpCode(t, setup.Secret),
		})
		if err != nil {
			t.Fatalf("login: %v", err)
		}

		if out.AccessToken == "" {
			t.Fatalf("expected access token")
		}
		if out.UsedBackupCode {
			t.Fatalf("expected totp path, not backup code")
		}
	})

	t.Run("WithInvalidTOTP", func(t *testing.T) {
		h := newHarness(t)
		h.addAccount(t, 1, "user@example.com", "secret123")
		h.enableTwoFactor(t, 1, "user@example.com")

		_, err := h.uc.Login(ctx, LoginInput{
			Email:          "user@example.com",
			Password:       "secret123",
			TwoFactorToken: "000000",
		})
		assertCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("WithBackupCode", func(t *testing.T) {
		h := newHarness(t)
		h.addAccount(t, 1, "user@example.com", "secret123")
		setup := h.enableTwoFactor(t, 1, "user@example.com")

		out, err := h.uc.Login(ctx, LoginInput{
			Email:          "user@example.com",
			Password:       "secret123",
			TwoFactorToken: setup.BackupCodes[0],
		})
		if err != nil {
			t.Fatalf("login: %v", err)
		}

		if !out.UsedBackupCode {
			t.Fatalf("expected backup code usage to be flagged")
		}
		if out.RemainingBackupCodes != 9 {
			t.Fatalf("expected 9 remaining codes, got %d", out.RemainingBackupCodes)
		}
	})

	t.Run("BackupCodeSingleUse", func(t *testing.T) {
		h := newHarness(t)
		h.addAccount(t, 1, "user@example.com", "secret123")
		setup := h.enableTwoFactor(t, 1, "user@example.com")

		in := LoginInput{
			Email:          "user@example.com",
			Password:       "secret123",
			TwoFactorToken: setup.BackupCodes[3],
		}

		if _, err := h.uc.Login(ctx, in); err != nil {
			t.Fatalf("first login: %v", err)
		}

		_, err := h.uc.Login(ctx, in)
		assertCode(t, err, goerror.CodeUnauthorized)
	})
}

func TestTwoFASetup(t *testing.T) {
	t.Run("RequiresAuth", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.uc.TwoFASetup(context.Background())
		assertCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("Success", func(t *testing.T) {
		h := newHarness(t)
		h.addAccount(t, 1, "user@example.com", "secret123")

		out, err := h.uc.TwoFASetup(h.authCtx(1, "user@example.com"))
		if err != nil {
			t.Fatalf("setup: %v", err)
		}

		if out.Secret == "" {
			t.Fatalf("expected plaintext secret in response")
		}
		if len(out.ProvisioningURI) < len("otpauth://") || out.ProvisioningURI[:len("otpauth://")] != "otpauth://" {
			t.Fatalf("unexpected provisioning uri %q", out.ProvisioningURI)
		}
		if len(out.QRCode) < len("data:image/png") || out.QRCode[:len("data:image/png")] != "data:image/png" {
			t.Fatalf("expected embedded qr image")
		}
		if len(out.BackupCodes) != 10 {
			t.Fatalf("expected 10 backup codes, got %d", len(out.BackupCodes))
		}

		// Secret must be stored encrypted, never verbatim.
		profile, _ := h.repo.GetSecurityProfileByID(context.Background(), 1)
		if string(profile.Secret) == out.Secret {
			t.Fatalf("secret stored in plaintext")
		}
		if profile.TwoFactorState() != entity.TwoFactorPendingSetup {
			t.Fatalf("expected pending setup state, got %s", profile.TwoFactorState())
		}
	})

	t.Run("AlreadyEnabled", func(t *testing.T) {
		h := newHarness(t)
		h.addAccount(t, 1, "user@example.com", "secret123")
		h.enableTwoFactor(t, 1, "user@example.com")

		_, err := h.uc.TwoFASetup(h.authCtx(1, "user@example.com"))
		assertCode(t, err, goerror.CodeFailedPrecondition)
	})

	t.Run("ReplacesPendingSetup", func(t *testing.T) {
		h := newHarness(t)
		h.addAccount(t, 1, "user@example.com", "secret123")
		ctx := h.authCtx(1, "user@example.com")

		first, err := h.uc.TwoFASetup(ctx)
		if err != nil {
			t.Fatalf("first setup: %v", err)
		}
		second, err := h.uc.TwoFASetup(ctx)
		if err != nil {
			t.Fatalf("second setup: %v", err)
		}

		if first.Secret == second.Secret {
			t.Fatalf("expected a fresh secret on re-setup")
		}

		// Only the latest secret can confirm the setup.
		_, err = h.uc.TwoFAEnable(ctx, TwoFAEnableInput{Token: h.totpCode(t, first.Secret)})
		assertCode(t, err, goerror.CodeInvalidCredential)

		if _, err := h.uc.TwoFAEnable(ctx, TwoFAEnableInput{Token: h.totpCode(t, second.Secret)}); err != nil {
			t.Fatalf("enable with latest secret: %v", err)
		}

		// Backup codes from the discarded setup are gone too.
		_, err = h.uc.TwoFAVerify(context.Background(), TwoFAVerifyInput{
			Email: "user@example.com",
			Token: first.BackupCodes[0],
		})
		assertCode(t, err, goerror.CodeInvalidCredential)
	})
}

func TestTwoFAEnable(t *testing.T) {
	t.Run("InvalidToken", func(t *testing.T) {
		h := newHarness(t)
		h.addAccount(t, 1, "user@example.com", "secret123")

		_, err := h.uc.TwoFAEnable(h.authCtx(1, "user@example.com"), TwoFAEnableInput{Token: "abc"})
		assertCode(t, err, goerror.CodeInvalidInput)
	})

	t.Run("NotStarted", func(t *testing.T) {
		h := newHarness(t)
		h.addAccount(t, 1, "user@example.com", "secret123")

		_, err := h.uc.TwoFAEnable(h.authCtx(1, "user@example.com"), TwoFAEnableInput{Token: "123456"})
		assertCode(t, err, goerror.CodeFailedPrecondition)
	})

	t.Run("WrongCode", func(t *testing.T) {
		h := newHarness(t)
		h.addAccount(t, 1, "user@example.com", "secret123")
		ctx := h.authCtx(1, "user@example.com")

		if _, err := h.uc.TwoFASetup(ctx); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := h.uc.TwoFAEnable(ctx, TwoFAEnableInput{Token: "000000"})
		assertCode(t, err, goerror.CodeInvalidCredential)

		// A rejected code leaves the setup pending.
		profile, _ := h.repo.GetSecurityProfileByID(context.Background(), 1)
		if profile.TwoFactorState() != entity.TwoFactorPendingSetup {
			t.Fatalf("expected pending setup state, got %s", profile.TwoFactorState())
		}
	})

	t.Run("Success", func(t *testing.T) {
		h := newHarness(t)
		h.addAccount(t, 1, "user@example.com", "secret123")
		ctx := h.authCtx(1, "user@example.com")

		setup, err := h.uc.TwoFASetup(ctx)
		if err != nil {
			t.Fatalf("setup: %v", err)
		}

		out, err := h.uc.TwoFAEnable(ctx, TwoFAEnableInput{Token: h.totpCode(t, setup.Secret)})
		if err != nil {
			t.Fatalf("enable: %v", err)
		}
		if !out.Enabled {
			t.Fatalf("expected enabled output")
		}

		profile, _ := h.repo.GetSecurityProfileByID(context.Background(), 1)
		if profile.TwoFactorState() != entity.TwoFactorEnabled {
			t.Fatalf("expected enabled state, got %s", profile.TwoFactorState())
		}
	})

	t.Run("AlreadyEnabled", func(t *testing.T) {
		h := newHarness(t)
		h.addAccount(t, 1, "user@example.com", "secret123")
		setup := h.enableTwoFactor(t, 1, "user@example.com")

		_, err := h.uc.TwoFAEnable(h.authCtx(1, "user@example.com"), TwoFAEnableInput{Token: h.totpCode(t, setup.Secret)})
		assertCode(t, err, goerror.CodeFailedPrecondition)
	})
}

func TestTwoFADisable(t *testing.T) {
	t.Run("WrongPassword", func(t *testing.T) {
		h := newHarness(t)
		h.addAccount(t, 1, "user@example.com", "secret123")
		h.enableTwoFactor(t, 1, "user@example.com")

		_, err := h.uc.TwoFADisable(h.authCtx(1, "user@example.com"), TwoFADisableInput{CurrentPassword: "wrong"})
		assertCode(t, err, goerror.CodeInvalidCredential)
	})

	t.Run("NotEnabled", func(t *testing.T) {
		h := newHarness(t)
		h.addAccount(t, 1, "user@example.com", "secret123")

		_, err := h.uc.TwoFADisable(h.authCtx(1, "user@example.com"), TwoFADisableInput{CurrentPassword: "secret123"})
		assertCode(t, err, goerror.CodeFailedPrecondition)
	})

	t.Run("FromPendingSetup", func(t *testing.T) {
		h := newHarness(t)
		h.addAccount(t, 1, "user@example.com", "secret123")
		ctx := h.authCtx(1, "user@example.com")

		setup, err := h.uc.TwoFASetup(ctx)
		if err != nil {
			t.Fatalf("setup: %v", err)
		}

		// A pending setup is not disableable, even with the right password.
		_, err = h.uc.TwoFADisable(ctx, TwoFADisableInput{CurrentPassword: "secret123"})
		assertCode(t, err, goerror.CodeFailedPrecondition)

		// The pending material is untouched and can still be confirmed.
		if _, err := h.uc.TwoFAEnable(ctx, TwoFAEnableInput{Token: h.totpCode(t, setup.Secret)}); err != nil {
			t.Fatalf("enable after rejected disable: %v", err)
		}
	})

	t.Run("NoPasswordConfigured", func(t *testing.T) {
		h := newHarness(t)
		h.repo.addProfile(entity.SecurityProfile{
			UserID:           1,
			Email:            "social@example.com",
			Status:           entity.AccountStatusActive,
			Secret:           []byte{1, 2, 3},
			TwoFactorEnabled: true,
		})

		// The state check passes, but disable still needs a stored password.
		_, err := h.uc.TwoFADisable(h.authCtx(1, "social@example.com"), TwoFADisableInput{CurrentPassword: "anything"})
		assertCode(t, err, goerror.CodeFailedPrecondition)
	})

	t.Run("Success", func(t *testing.T) {
		h := newHarness(t)
		h.addAccount(t, 1, "user@example.com", "secret123")
		h.enableTwoFactor(t, 1, "user@example.com")

		out, err := h.uc.TwoFADisable(h.authCtx(1, "user@example.com"), TwoFADisableInput{CurrentPassword: "secret123"})
		if err != nil {
			t.Fatalf("disable: %v", err)
		}
		if !out.Disabled {
			t.Fatalf("expected disabled output")
		}

		profile, _ := h.repo.GetSecurityProfileByID(context.Background(), 1)
		if profile.TwoFactorState() != entity.TwoFactorDisabled {
			t.Fatalf("expected disabled state, got %s", profile.TwoFactorState())
		}

		// Password alone signs in again.
		login, err := h.uc.Login(context.Background(), LoginInput{Email: "user@example.com", Password: "secret123"})
		if err != nil {
			t.Fatalf("login after disable: %v", err)
		}
		if login.AccessToken == "" {
			t.Fatalf("expected access token after disable")
		}
	})
}

func TestTwoFAVerify(t *testing.T) {
	ctx := context.Background()

	t.Run("UnknownEmail", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.uc.TwoFAVerify(ctx, TwoFAVerifyInput{Email: "ghost@example.com", Token: "123456"})
		assertCode(t, err, goerror.CodeNotFound)
	})

	t.Run("NotEnabled", func(t *testing.T) {
		h := newHarness(t)
		h.addAccount(t, 1, "user@example.com", "secret123")

		_, err := h.uc.TwoFAVerify(ctx, TwoFAVerifyInput{Email: "user@example.com", Token: "123456"})
		assertCode(t, err, goerror.CodeFailedPrecondition)
	})

	t.Run("ValidTOTP", func(t *testing.T) {
		h := newHarness(t)
		h.addAccount(t, 1, "user@example.com", "secret123")
		setup := h.enableTwoFactor(t, 1, "user@example.com")

		out, err := h.uc.TwoFAVerify(ctx, TwoFAVerifyInput{
			Email: "user@example.com",
			Token: h.totpCode(t, setup.Secret),
		})
		if err != nil {
			t.Fatalf("verify: %v", err)
		}

		if !out.Verified || out.UsedBackupCode {
			t.Fatalf("expected totp verification, got %+v", out)
		}
	})

	t.Run("InvalidTOTP", func(t *testing.T) {
		h := newHarness(t)
		h.addAccount(t, 1, "user@example.com", "secret123")
		h.enableTwoFactor(t, 1, "user@example.com")

		_, err := h.uc.TwoFAVerify(ctx, TwoFAVerifyInput{Email: "user@example.com", Token: "000000"})
		assertCode(t, err, goerror.CodeInvalidCredential)
	})

	t.Run("BackupCode", func(t *testing.T) {
		h := newHarness(t)
		h.addAccount(t, 1, "user@example.com", "secret123")
		setup := h.enableTwoFactor(t, 1, "user@example.com")

		out, err := h.uc.TwoFAVerify(ctx, TwoFAVerifyInput{
			Email: "user@example.com",
			Token: setup.BackupCodes[5],
		})
		if err != nil {
			t.Fatalf("verify: %v", err)
		}

		if !out.Verified || !out.UsedBackupCode {
			t.Fatalf("expected backup code verification, got %+v", out)
		}
		if out.RemainingBackupCodes != 9 {
			t.Fatalf("expected 9 remaining codes, got %d", out.RemainingBackupCodes)
		}
	})

	t.Run("BackupCodeSingleUse", func(t *testing.T) {
		h := newHarness(t)
		h.addAccount(t, 1, "user@example.com", "secret123")
		setup := h.enableTwoFactor(t, 1, "user@example.com")

		in := TwoFAVerifyInput{Email: "user@example.com", Token: setup.BackupCodes[0]}

		if _, err := h.uc.TwoFAVerify(ctx, in); err != nil {
			t.Fatalf("first verify: %v", err)
		}

		_, err := h.uc.TwoFAVerify(ctx, in)
		assertCode(t, err, goerror.CodeInvalidCredential)
	})
}

func TestTwoFAStatus(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		h := newHarness(t)
		h.addAccount(t, 1, "user@example.com", "secret123")

		out, err := h.uc.TwoFAStatus(h.authCtx(1, "user@example.com"))
		if err != nil {
			t.Fatalf("status: %v", err)
		}

		if out.State != entity.TwoFactorDisabled || out.Enabled {
			t.Fatalf("expected disabled status, got %+v", out)
		}
	})

	t.Run("PendingSetup", func(t *testing.T) {
		h := newHarness(t)
		h.addAccount(t, 1, "user@example.com", "secret123")
		ctx := h.authCtx(1, "user@example.com")

		if _, err := h.uc.TwoFASetup(ctx); err != nil {
			t.Fatalf("setup: %v", err)
		}

		out, err := h.uc.TwoFAStatus(ctx)
		if err != nil {
			t.Fatalf("status: %v", err)
		}

		if out.State != entity.TwoFactorPendingSetup || out.Enabled {
			t.Fatalf("expected pending setup status, got %+v", out)
		}
	})

	t.Run("Enabled", func(t *testing.T) {
		h := newHarness(t)
		h.addAccount(t, 1, "user@example.com", "secret123")
		setup := h.enableTwoFactor(t, 1, "user@example.com")
		ctx := h.authCtx(1, "user@example.com")

		out, err := h.uc.TwoFAStatus(ctx)
		if err != nil {
			t.Fatalf("status: %v", err)
		}

		if out.State != entity.TwoFactorEnabled || !out.Enabled {
			t.Fatalf("expected enabled status, got %+v", out)
		}
		if out.RemainingBackupCodes != 10 {
			t.Fatalf("expected 10 remaining codes, got %d", out.RemainingBackupCodes)
		}

		// Spending one code shows up in the count.
		if _, err := h.uc.TwoFAVerify(context.Background(), TwoFAVerifyInput{
			Email: "user@example.com",
			Token: setup.BackupCodes[0],
		}); err != nil {
			t.Fatalf("verify: %v", err)
		}

		out, err = h.uc.TwoFAStatus(ctx)
		if err != nil {
			t.Fatalf("status: %v", err)
		}
		if out.RemainingBackupCodes != 9 {
			t.Fatalf("expected 9 remaining codes, got %d", out.RemainingBackupCodes)
		}
	})
}

// TestTwoFactorLifecycle exercises the whole journey: plain login, setup,
// confirmation, second-factor login, backup-code fallback, and disable.
func TestTwoFactorLifecycle(t *testing.T) {
	h := newHarness(t)
	h.addAccount(t, 7, "journey@example.com", "secret123")
	background := context.Background()
	authed := h.authCtx(7, "journey@example.com")

	// Plain password login works before any setup.
	if _, err := h.uc.Login(background, LoginInput{Email: "journey@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("initial login: %v", err)
	}

	setup, err := h.uc.TwoFASetup(authed)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	// Setup alone does not change login requirements.
	if _, err := h.uc.Login(background, LoginInput{Email: "journey@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("login during pending setup: %v", err)
	}

	if _, err := h.uc.TwoFAEnable(authed, TwoFAEnableInput{Token: h.totpCode(t, setup.Secret)}); err != nil {
		t.Fatalf("enable: %v", err)
	}

	// Password alone is no longer enough.
	_, err = h.uc.Login(background, LoginInput{Email: "journey@example.com", Password: "secret123"})
	assertCode(t, err, goerror.CodeMFARequired)

	// TOTP completes the login.
	if _, err := h.uc.Login(background, LoginInput{
		Email:          "journey@example.com",
		Password:       "secret123",
		TwoFactorToken: h.totpCode(t, setup.Secret),
	}); err != nil {
		t.Fatalf("totp login: %v", err)
	}

	// So does a backup code, once.
	out, err := h.uc.Login(background, LoginInput{
		Email:          "journey@example.com",
		Password:       "secret123",
		TwoFactorToken: setup.BackupCodes[9],
	})
	if err != nil {
		t.Fatalf("backup code login: %v", err)
	}
	if !out.UsedBackupCode || out.RemainingBackupCodes != 9 {
		t.Fatalf("unexpected backup code accounting: %+v", out)
	}

	if _, err := h.uc.TwoFADisable(authed, TwoFADisableInput{CurrentPassword: "secret123"}); err != nil {
		t.Fatalf("disable: %v", err)
	}

	// Back to password-only login.
	if _, err := h.uc.Login(background, LoginInput{Email: "journey@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("login after disable: %v", err)
	}
}
