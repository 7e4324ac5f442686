package jwt

import (
	"time"
)

// Maker describes the interface for generating and parsing JWT tokens.
type Maker interface {
	// GenerateToken issues a token for the given username, role and email.
	GenerateToken(username, role, email string) (string, error)
	// ParseToken returns the *CustomClaims carried by a valid token.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl implements Maker with an HS256 secret key and a token TTL.
type MakerImpl struct {
	secretKey string        // Secret key used to sign tokens.
	tokenTTL  time.Duration // Token lifetime.
}

// NewJWTMaker creates a MakerImpl from a secret key and a TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
