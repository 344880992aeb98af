package auth

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const tokenLifetime = 24 * time.Hour

type UserClaims struct {
	UserId string `json:"id"`
	jwt.RegisteredClaims
}

// TokenProvider issues and verifies the HS256 bearer tokens that identify a
// user on every authenticated endpoint.
type TokenProvider struct {
	secret []byte
}

func NewTokenProvider(secret string) *TokenProvider {
	return &TokenProvider{secret: []byte(secret)}
}

// NewTokenProviderFromEnv reads SECRET_KEY, the same variable the deployment
// injects for the HTTP server.
func NewTokenProviderFromEnv() (*TokenProvider, error) {
	secret := os.Getenv("SECRET_KEY")
	if secret == "" {
		return nil, errors.New("SECRET_KEY is not set")
	}
	return NewTokenProvider(secret), nil
}

// Issue signs a token that expires after 24 hours.
func (t *TokenProvider) Issue(userId string) (string, error) {
	claims := UserClaims{
		UserId: userId,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userId,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the user id the token was
// issued for. The signing method is pinned to HMAC so a forged token cannot
// downgrade the algorithm.
func (t *TokenProvider) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid || claims.UserId == "" {
		return "", errors.New("invalid token claims")
	}
	return claims.UserId, nil
}
