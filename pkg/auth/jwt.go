package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/muhammadchandra19/exchange/pkg/errors"
)

// Verifier resolves a bearer token to the id of the user it was issued for.
//
//go:generate mockgen -source jwt.go -destination=mock/jwt_mock.go -package=auth_mock
type Verifier interface {
	Verify(token string) (string, error)
}

// Config holds the shared token secret.
type Config struct {
	Secret string `env:"SECRET,required"`
}

// Claims is the token payload. Only userId is required.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// JWT verifies and signs HS256 tokens.
type JWT struct {
	secret []byte
	parser *jwt.Parser
}

var _ Verifier = (*JWT)(nil)

// NewJWT creates a JWT with the given HMAC secret.
func NewJWT(secret string) *JWT {
	return &JWT{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

// Verify checks the signature and expiry of token and returns its userId.
func (j *JWT) Verify(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errors.NewErrorDetails("token is empty", string(errors.InvalidToken), "token")
	}

	claims := &Claims{}
	if _, err := j.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return j.secret, nil
	}); err != nil {
		return "", errors.NewErrorDetails(err.Error(), string(errors.InvalidToken), "token")
	}

	if claims.UserID == "" {
		return "", errors.NewErrorDetails("token has no userId", string(errors.InvalidToken), "token")
	}

	return claims.UserID, nil
}

// Sign issues a token for userID. A zero ttl issues a token without expiry.
func (j *JWT) Sign(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", errors.TracerFromError(err)
	}
	return signed, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
