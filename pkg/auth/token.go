package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims carried by bearer tokens.
//
// Subject is the user id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// UserID is the subject of the token.
func (c *Claims) UserID() string {
	return c.Subject
}

// Tokens issues and verifies HS256 bearer tokens.
type Tokens struct {
	secret    []byte
	expiresIn time.Duration
	now       func() time.Time
}

type Option func(*Tokens) *Tokens

// WithClock replaces the clock used to stamp and verify tokens.
func WithClock(now func() time.Time) Option {
	return func(t *Tokens) *Tokens {
		t.now = now
		return t
	}
}

// NewTokens creates Tokens.
//
// # Args
//
// - secret: key to sign and verify tokens.
//
// - expiresIn: lifetime of new tokens.
func NewTokens(secret []byte, expiresIn time.Duration, options ...Option) *Tokens {
	t := &Tokens{secret: secret, expiresIn: expiresIn, now: time.Now}
	for _, o := range options {
		t = o(t)
	}
	return t
}

// Issue signs a new token for the user.
func (t *Tokens) Issue(userId string, email string) (string, error) {
	now := t.now()
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userId,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expiresIn)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(t.secret)
}

// Verify verifies token and returns its claims.
//
// # Returns
//
// - *Claims: claims in the token.
//
// - error: ErrTokenExpired if the token is expired, ErrInvalidToken for other broken tokens.
// Both are joined with the cause.
func (t *Tokens) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		token, claims,
		func(*jwt.Token) (interface{}, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.Join(ErrTokenExpired, err)
		}
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, errors.Join(ErrInvalidToken, errors.New("no subject"))
	}
	return claims, nil
}
