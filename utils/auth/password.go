package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordMismatch = errors.New("password does not match")
)

// MinPasswordLength is the minimum accepted password length, enforced at
// registration, reset and change alike.
const MinPasswordLength = 8

// bcryptCost trades hash time against brute-force resistance
const bcryptCost = 12

// HashPassword returns the bcrypt hash of a password that meets the length
// requirement
func HashPassword(password string) (string, error) {
	if !IsPasswordValid(password) {
		return "", ErrPasswordTooShort
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword compares a stored hash against a candidate password
func VerifyPassword(hashedPassword, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}

// IsPasswordValid reports whether the password meets the length requirement
func IsPasswordValid(password string) bool {
	return len(password) >= MinPasswordLength
}
