package inbound

import (
	"github.com/tabineta/authd/internal/account/usecase"
	"github.com/tabineta/authd/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for login and two-factor workflows.
type HTTPEndpoint struct {
	uc uc
}

// Login authenticates a user and returns an access token.
// @Summary Authenticate user
// @Description Validates email and password. When two-factor authentication is enabled, two_factor_token must carry a TOTP code or a backup code.
// @Tags Account, Authentication
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login payload"
// @Success 200 {object} router.successResponse{data=LoginResponse} "Authentication result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid credentials or second factor required"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/login [post]
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Email:          req.Email,
		Password:       req.Password,
		TwoFactorToken: req.TwoFactorToken,
	})
	if err != nil {
		return nil, err
	}

	return LoginResponse{
		AccessToken:          resp.AccessToken,
		UsedBackupCode:       resp.UsedBackupCode,
		RemainingBackupCodes: resp.RemainingBackupCodes,
	}, nil
}

// TwoFASetup provisions a new TOTP secret and backup codes.
// @Summary Start two-factor setup
// @Description Generates a TOTP secret, provisioning URI, QR code and a fresh batch of backup codes. Repeating the call replaces any unconfirmed setup.
// @Tags Account, TwoFactor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} router.successResponse{data=TwoFASetupResponse} "Provisioned material"
// @Failure 400 {object} router.errorResponse "Two-factor already enabled"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 409 {object} router.errorResponse "Setup already in progress"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/2fa/setup [post]
func (h *HTTPEndpoint) TwoFASetup(r *router.Request) (any, error) {
	resp, err := h.uc.TwoFASetup(r.Context())
	if err != nil {
		return nil, err
	}

	return TwoFASetupResponse{
		Secret:          resp.Secret,
		ProvisioningURI: resp.ProvisioningURI,
		QRCode:          resp.QRCode,
		BackupCodes:     resp.BackupCodes,
	}, nil
}

// TwoFAEnable confirms a pending setup with a TOTP code.
// @Summary Enable two-factor authentication
// @Description Verifies the submitted TOTP code against the pending secret and turns enforcement on.
// @Tags Account, TwoFactor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TwoFAEnableRequest true "Verification payload"
// @Success 200 {object} router.successResponse{data=TwoFAEnableResponse} "Enable result"
// @Failure 400 {object} router.errorResponse "No pending setup, already enabled, or invalid verification code"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/2fa/enable [post]
func (h *HTTPEndpoint) TwoFAEnable(r *router.Request) (any, error) {
	var req TwoFAEnableRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.TwoFAEnable(r.Context(), usecase.TwoFAEnableInput{Token: req.Token})
	if err != nil {
		return nil, err
	}

	return TwoFAEnableResponse{Enabled: resp.Enabled}, nil
}

// TwoFADisable turns two-factor authentication off.
// @Summary Disable two-factor authentication
// @Description Removes the stored secret and all backup codes after re-checking the current password.
// @Tags Account, TwoFactor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TwoFADisableRequest true "Password confirmation payload"
// @Success 200 {object} router.successResponse{data=TwoFADisableResponse} "Disable result"
// @Failure 400 {object} router.errorResponse "Two-factor not enabled, no password configured, or invalid password"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/2fa/disable [post]
func (h *HTTPEndpoint) TwoFADisable(r *router.Request) (any, error) {
	var req TwoFADisableRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.TwoFADisable(r.Context(), usecase.TwoFADisableInput{CurrentPassword: req.CurrentPassword})
	if err != nil {
		return nil, err
	}

	return TwoFADisableResponse{Disabled: resp.Disabled}, nil
}

// TwoFAVerify checks a second-factor token outside the login flow.
// @Summary Verify a two-factor token
// @Description Validates a TOTP code or consumes a backup code for the given account.
// @Tags Account, TwoFactor
// @Accept json
// @Produce json
// @Param request body TwoFAVerifyRequest true "Verification payload"
// @Success 200 {object} router.successResponse{data=TwoFAVerifyResponse} "Verification result"
// @Failure 400 {object} router.errorResponse "Two-factor not enabled or invalid token"
// @Failure 404 {object} router.errorResponse "Account not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/2fa/verify [post]
func (h *HTTPEndpoint) TwoFAVerify(r *router.Request) (any, error) {
	var req TwoFAVerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.TwoFAVerify(r.Context(), usecase.TwoFAVerifyInput{
		Email: req.Email,
		Token: req.Token,
	})
	if err != nil {
		return nil, err
	}

	return TwoFAVerifyResponse{
		Verified:             resp.Verified,
		UsedBackupCode:       resp.UsedBackupCode,
		RemainingBackupCodes: resp.RemainingBackupCodes,
	}, nil
}

// TwoFAStatus reports the two-factor state of the authenticated account.
// @Summary Two-factor status
// @Description Returns the lifecycle state and the number of unused backup codes.
// @Tags Account, TwoFactor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} router.successResponse{data=TwoFAStatusResponse} "Status"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/2fa/status [get]
func (h *HTTPEndpoint) TwoFAStatus(r *router.Request) (any, error) {
	resp, err := h.uc.TwoFAStatus(r.Context())
	if err != nil {
		return nil, err
	}

	return TwoFAStatusResponse{
		State:                resp.State.String(),
		Enabled:              resp.Enabled,
		RemainingBackupCodes: resp.RemainingBackupCodes,
	}, nil
}
