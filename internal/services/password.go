package services

import "golang.org/x/crypto/bcrypt"

// dummyPasswordHash is compared against when no user matches a login, so
// unknown identifiers cost as much as wrong passwords.
var dummyPasswordHash = mustHash("not-a-real-password-0")

func mustHash(password string) string {
	hash, err := HashPassword(password)
	if err != nil {
		panic(err)
	}
	return hash
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// VerifyPassword compares a plain password with a hashed password
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
