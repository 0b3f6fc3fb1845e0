package entity

type AccountStatus int16

const (
	// AccountStatusUnknown is mean status is not known / not set.
	AccountStatusUnknown AccountStatus = 0

	// AccountStatusActive mean account is allowed to use the app.
	AccountStatusActive AccountStatus = 1

	// AccountStatusBanned mean account is blocked from using the app (policy/abuse/etc).
	AccountStatusBanned AccountStatus = 2

	// AccountStatusInactive mean account is not currently active (e.g., deactivated, closed).
	AccountStatusInactive AccountStatus = 3
)

func (as AccountStatus) String() string {
	switch as {
	case AccountStatusActive:
		return "Active"
	case AccountStatusBanned:
		return "Banned"
	case AccountStatusInactive:
		return "Inactive"
	default:
		return "Unknown"
	}
}

// TwoFactorState is the lifecycle state of an account's two-factor setup.
type TwoFactorState int16

const (
	// TwoFactorDisabled mean no secret is stored; setup may begin.
	TwoFactorDisabled TwoFactorState = 0

	// TwoFactorPendingSetup mean a secret is stored but not yet verified.
	TwoFactorPendingSetup TwoFactorState = 1

	// TwoFactorEnabled mean the secret was verified and codes are required at login.
	TwoFactorEnabled TwoFactorState = 2
)

func (ts TwoFactorState) String() string {
	switch ts {
	case TwoFactorPendingSetup:
		return "PendingSetup"
	case TwoFactorEnabled:
		return "Enabled"
	default:
		return "Disabled"
	}
}
