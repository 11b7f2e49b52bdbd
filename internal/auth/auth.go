package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/no-solace/ev-maintenance-system/internal/models"
	"github.com/no-solace/ev-maintenance-system/internal/validator"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Inspect reads the claims of a bearer token without verifying its
// signature. The portal never holds the signing key; it only needs the
// expiry and role to decide whether a stored session is still usable.
func Inspect(tokenString string) (*models.Claims, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrInvalidToken
	}

	out := &models.Claims{}
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if role, ok := claims["role"].(string); ok {
		out.Role = models.Role(strings.ToUpper(strings.TrimPrefix(role, "ROLE_")))
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.Exp = exp.Unix()
	}
	return out, nil
}

// CheckExpiry inspects the token and fails when it has expired at now.
// Tokens without an exp claim are treated as non-expiring.
func CheckExpiry(tokenString string, now time.Time) (*models.Claims, error) {
	claims, err := Inspect(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Exp != 0 && !now.Before(time.Unix(claims.Exp, 0)) {
		return claims, ErrExpiredToken
	}
	return claims, nil
}

// ValidateLogin checks a login form before it is sent.
func ValidateLogin(req models.LoginRequest) error {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return errors.New("email and password are required")
	}
	if !validator.IsEmail(req.Email) {
		return errors.New("invalid email format")
	}
	return nil
}

// ValidateRegistration checks a registration form before it is sent.
func ValidateRegistration(req models.RegisterRequest) error {
	if len(strings.TrimSpace(req.FullName)) < 2 {
		return errors.New("full name must be at least 2 characters long")
	}
	if !validator.IsEmail(req.Email) {
		return errors.New("invalid email format")
	}
	if !validator.IsPhone(req.Phone) {
		return fmt.Errorf("invalid phone number %q", req.Phone)
	}
	if len(req.Password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}
	return nil
}
