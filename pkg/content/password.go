package content

import "golang.org/x/crypto/bcrypt"

// HashPassword produces the one-way digest stored for protected
// galleries. This is deliberately a real password hash, unrelated to the
// cheap content fingerprint used for cache revalidation.
func HashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyGalleryPassword checks a caller-supplied password against a
// gallery's stored hash. An unprotected gallery accepts anything.
func VerifyGalleryPassword(g *Gallery, plaintext string) bool {
	if g == nil {
		return false
	}
	if !g.Protected() {
		return true
	}
	return bcrypt.CompareHashAndPassword([]byte(g.PasswordHash), []byte(plaintext)) == nil
}
