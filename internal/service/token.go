package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService issues and verifies the short-lived signed capability tokens
// that guard guest self-service stay modification. The token carries the
// reservation ID explicitly; there is no ambient session state.
type TokenService interface {
	IssueModifyToken(reservationID uint) (string, time.Time, error)
	VerifyModifyToken(token string) (uint, error)
}

type tokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) TokenService {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &tokenService{secret: []byte(secret), ttl: ttl}
}

func (s *tokenService) IssueModifyToken(reservationID uint) (string, time.Time, error) {
	exp := time.Now().UTC().Add(s.ttl)
	claims := jwt.MapClaims{
		"sub":   fmt.Sprintf("%d", reservationID),
		"scope": "reservation:modify",
		"exp":   exp.Unix(),
		"iat":   time.Now().UTC().Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign modify token: %w", err)
	}
	return signed, exp, nil
}

func (s *tokenService) VerifyModifyToken(token string) (uint, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, fmt.Errorf("%w: invalid modify token", ErrValidation)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("%w: invalid modify token claims", ErrValidation)
	}
	if scope, _ := claims["scope"].(string); scope != "reservation:modify" {
		return 0, fmt.Errorf("%w: token scope mismatch", ErrValidation)
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("%w: invalid modify token subject", ErrValidation)
	}
	var id uint
	if _, err := fmt.Sscanf(sub, "%d", &id); err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid modify token subject", ErrValidation)
	}
	return id, nil
}
