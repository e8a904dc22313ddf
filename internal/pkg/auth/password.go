package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost defines the cost factor for bcrypt hashing
const BcryptCost = 12

// HashPassword hashes the given plain text password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword compares a hashed password with a plain text one
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
