// Package jwt implements generation and parsing of JWT tokens with the
// custom claim fields of the portal.
//
// CustomClaims extends the standard JWT claims with the username, role and
// email of the account; email is carried because the application record is
// paired to the account by email, not by id.
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims describes the account data stored inside a JWT.
type CustomClaims struct {
	Username             string `json:"username"` // Account username
	Role                 string `json:"role"`     // Account role, "user" or "admin"
	Email                string `json:"email"`    // Account email, pairs account and application
	jwt.RegisteredClaims        // Standard claims (ExpiresAt, IssuedAt, ...)
}

// GenerateToken creates a JWT with the given username, role and email,
// signed with the secret key. The lifetime is taken from tokenTTL.
func (j *MakerImpl) GenerateToken(username, role, email string) (string, error) {
	claims := CustomClaims{
		Username: username,
		Role:     role,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken parses a JWT, checks its signature and validity and returns
// the CustomClaims when the token is correct.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
