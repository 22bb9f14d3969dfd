package service

//go:generate mockgen -destination=../../mocks/mock_pin_guard.go -package=mocks github.com/Seizuree/atm-system/internal/atm/domain PinGuard

import (
	"github.com/Seizuree/atm-system/pkg/constant"
	"golang.org/x/crypto/bcrypt"
)

// BcryptPinGuard is the credential guard implementation.
type BcryptPinGuard struct {
	cost int
}

func NewBcryptPinGuard(cost int) *BcryptPinGuard {
	if cost == 0 {
		cost = constant.DefaultBcryptCost
	}
	return &BcryptPinGuard{cost: cost}
}

func (g *BcryptPinGuard) Hash(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), g.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (g *BcryptPinGuard) Verify(pin, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
