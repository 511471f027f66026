package auth

import (
	"os"

	"github.com/golang-jwt/jwt/v4"

	apperrors "github.com/dihanio/LapakNesaBackend/pkg/errors"
)

// Claims is the access-token payload issued by the account service. The user
// id travels in a dedicated claim with the registered subject as fallback.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// SecretFromEnv returns the HMAC secret shared with the token issuer.
func SecretFromEnv() string {
	return os.Getenv("ACCESS_TOKEN_SECRET")
}

// ParseToken validates an HS256 access token and returns the user id.
func ParseToken(tokenString, secret string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", apperrors.Forbidden("invalid or expired token")
	}
	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return "", apperrors.Forbidden("token carries no user identity")
	}
	return userID, nil
}
