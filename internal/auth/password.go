package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plain password with bcrypt. Used by cmd/hashpw to
// produce the ADMIN_PASSWORD_HASH value.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

// VerifyPassword compares a plain password against a bcrypt hash.
func VerifyPassword(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
