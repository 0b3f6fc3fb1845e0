package inbound

type LoginRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	TwoFactorToken string `json:"two_factor_token,omitempty"`
}

type LoginResponse struct {
	AccessToken          string `json:"access_token"`
	UsedBackupCode       bool   `json:"used_backup_code,omitempty"`
	RemainingBackupCodes int64  `json:"remaining_backup_codes,omitempty"`
}

type TwoFASetupResponse struct {
	Secret          string   `json:"secret"`
	ProvisioningURI string   `json:"provisioning_uri"`
	QRCode          string   `json:"qr_code"`
	BackupCodes     []string `json:"backup_codes"`
}

func (TwoFASetupResponse) Message() string {
	return "Scan the QR code with your authenticator app, then confirm with a code. Store the backup codes somewhere safe; they will not be shown again."
}

type TwoFAEnableRequest struct {
	Token string `json:"token"`
}

type TwoFAEnableResponse struct {
	Enabled bool `json:"enabled"`
}

func (TwoFAEnableResponse) Message() string {
	return "Two-factor authentication is now enabled."
}

type TwoFADisableRequest struct {
	CurrentPassword string `json:"current_password"`
}

type TwoFADisableResponse struct {
	Disabled bool `json:"disabled"`
}

func (TwoFADisableResponse) Message() string {
	return "Two-factor authentication has been disabled."
}

type TwoFAVerifyRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

type TwoFAVerifyResponse struct {
	Verified             bool  `json:"verified"`
	UsedBackupCode       bool  `json:"used_backup_code,omitempty"`
	RemainingBackupCodes int64 `json:"remaining_backup_codes,omitempty"`
}

type TwoFAStatusResponse struct {
	State                string `json:"state"`
	Enabled              bool   `json:"enabled"`
	RemainingBackupCodes int64  `json:"remaining_backup_codes"`
}
