package constant

const (
	// PinLength is the exact number of digits a PIN must have.
	PinLength = 4

	// MaxFailedAttempts is the number of consecutive PIN failures
	// after which an account is locked for good.
	MaxFailedAttempts = 3

	// WithdrawalLimit is the per-call withdrawal cap in minor units.
	WithdrawalLimit = 1000

	// DefaultBcryptCost is used when no cost is configured.
	DefaultBcryptCost = 10
)
