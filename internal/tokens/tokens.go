package tokens

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Signer issues HS256 login tokens so the front end can hold a session
// across requests without re-sending credentials.
type Signer struct {
	key    []byte
	issuer string
	ttl    time.Duration
}

func NewSigner(key []byte, issuer string, ttl time.Duration) *Signer {
	return &Signer{key: key, issuer: issuer, ttl: ttl}
}

// Sign issues a token for the given username.
func (s *Signer) Sign(username string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

// Verify parses a token and returns the subject username.
func (s *Signer) Verify(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return s.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(s.issuer))
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
