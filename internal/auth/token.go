// Package auth issues and verifies the signed bearer tokens used by the API.
// Verification is stateless: a token is valid iff its signature checks out
// against the configured secret and its expiry has not passed.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = time.Hour

var (
	// ErrTokenInvalid is returned for malformed tokens and bad signatures.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired is returned when a well-formed token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the identity payload embedded in a token.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int    `json:"id"`
	Username string `json:"username"`
}

// TokenService signs and verifies HS256 tokens with a fixed secret.
type TokenService struct {
	secret   []byte
	tokenTTL time.Duration
}

// NewTokenService constructs a TokenService. The secret must be injected by
// the caller; it is never defaulted here.
func NewTokenService(secret []byte, tokenTTL time.Duration) *TokenService {
	if tokenTTL == 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &TokenService{secret: secret, tokenTTL: tokenTTL}
}

// Issue produces a signed token carrying the user's id and username,
// expiring tokenTTL after issuance.
func (s *TokenService) Issue(userID int, username string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		UserID:   userID,
		Username: username,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks the token's signature and expiry and returns its claims.
// Expired tokens are reported as ErrTokenExpired, everything else that fails
// as ErrTokenInvalid.
func (s *TokenService) Verify(tokenString string) (Claims, error) {
	claims := Claims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if !token.Valid {
		return Claims{}, ErrTokenInvalid
	}
	if claims.UserID < 1 || claims.Username == "" {
		return Claims{}, ErrTokenInvalid
	}
	return claims, nil
}
