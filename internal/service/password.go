package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	apperrors "loanflow/internal/errors"
)

const bcryptCost = 10

// hashPassword returns a salted one-way digest of password.
func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperrors.InvalidInput(apperrors.ReasonPassword)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func passwordMatches(digest, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
