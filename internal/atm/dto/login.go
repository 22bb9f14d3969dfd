package dto

import "time"

type LoginInput struct {
	Username string `json:"username"`
	Pin      string `json:"pin"`
}

// CreditEntry is one outstanding debt another account owes the user
// who just logged in.
type CreditEntry struct {
	Username string `json:"username"`
	Amount   int64  `json:"amount"`
}

type LoginOutput struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Balance   int64         `json:"balance"`
	Credits   []CreditEntry `json:"credits,omitempty"`
}
