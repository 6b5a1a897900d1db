package auth

import (
	"daybreak/backend/internal/game"

	"golang.org/x/crypto/bcrypt"
)

// BcryptPasswords hashes private-game passwords with bcrypt.
type BcryptPasswords struct {
	Cost int
}

var _ game.Passwords = BcryptPasswords{}

func (b BcryptPasswords) Hash(plain string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (BcryptPasswords) Matches(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
