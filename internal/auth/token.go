package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token fails verification or lacks claims.
var ErrInvalidToken = errors.New("invalid token")

// Claims is what a verified token carries.
type Claims struct {
	ID       string
	Username string
}

// Signer issues and verifies HS256 tokens.
type Signer struct {
	Secret []byte
	TTL    time.Duration
	now    func() time.Time
}

func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{Secret: []byte(secret), TTL: ttl, now: time.Now}
}

// Sign creates a token for the user and returns it with its expiry.
func (s *Signer) Sign(id, username string) (string, time.Time, error) {
	now := s.clock()
	exp := now.Add(s.TTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	})
	ss, err := t.SignedString(s.Secret)
	return ss, exp, err
}

func (s *Signer) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// Parse verifies tok and extracts its claims.
func (s *Signer) Parse(tok string) (Claims, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.clock))
	if err != nil || !t.Valid {
		return Claims{}, ErrInvalidToken
	}
	id, _ := claims["id"].(string)
	username, _ := claims["username"].(string)
	if id == "" || username == "" {
		return Claims{}, ErrInvalidToken
	}
	return Claims{ID: id, Username: username}, nil
}
