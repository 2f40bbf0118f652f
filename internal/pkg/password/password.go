package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrHashingFailed    = errors.New("password hashing failed")
	ErrComparisonFailed = errors.New("password comparison failed")
	ErrInvalidPassword  = errors.New("invalid password")
)

// HashCost matches the cost of the seeded account hashes.
const HashCost = 12

func HashPassword(raw string) (string, error) {
	if raw == "" {
		return "", ErrInvalidPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), HashCost)
	if err != nil {
		return "", ErrHashingFailed
	}

	return string(hashed), nil
}

func ComparePassword(hashedPassword, raw string) error {
	if hashedPassword == "" || raw == "" {
		return ErrInvalidPassword
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(raw)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrComparisonFailed
		}
		return err
	}

	return nil
}
