package errors

import (
	"errors"
)

var (
	ErrInvalidPin          = errors.New("PIN must be numbers and exactly 4 digits")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrAccountExists       = errors.New("account already exists")
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountLocked       = errors.New("account is locked")
	ErrIncorrectPin        = errors.New("incorrect PIN")
	ErrWithdrawalLimit     = errors.New("exceeds daily withdrawal limit")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrSessionActive       = errors.New("another user is currently logged in")
	ErrNoActiveSession     = errors.New("no user logged in")
)
