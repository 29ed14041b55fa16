// Package auth issues and parses the HMAC-signed session tokens used by the
// HTTP layer.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
)

// Claims includes the registered claims plus the account identifier the
// token is bound to.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

// GenerateToken signs an HS256 token bound to userID, valid for
// validityDuration from now.
func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
	})

	return token.SignedString(secretKey)
}

// GenerateAdminToken signs a token whose subject is the raw admin credential
// string. It carries no expiry and no user binding; it only gates the
// administrative bulk-read surface.
func GenerateAdminToken(identity string, secretKey []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: identity,
	})

	return token.SignedString(secretKey)
}

// GetUserIDFromToken validates tokenString and returns the bound account
// identifier.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		return "", err
	}

	if !token.Valid || claims.UserID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}

// GetSubjectFromToken validates tokenString and returns its subject claim.
// Used for admin tokens, which carry the credential string instead of a
// user id.
func GetSubjectFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		return "", err
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}
