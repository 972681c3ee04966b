package utils

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Admin and guest tokens are signed with independent secrets so that one
// kind can never be replayed as the other.

type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type GuestClaims struct {
	Role          string `json:"role"`
	EventID       string `json:"event_id"`
	PasswordEpoch int    `json:"password_epoch"`
	jwt.RegisteredClaims
}

func ttlHours(envKey string, fallback int) time.Duration {
	if v := os.Getenv(envKey); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h > 0 {
			return time.Duration(h) * time.Hour
		}
	}
	return time.Duration(fallback) * time.Hour
}

// GenerateAdminToken issues an admin JWT (default TTL 12h).
func GenerateAdminToken() (string, error) {
	key := []byte(os.Getenv("ADMIN_JWT_SECRET")) // read at call time
	if len(key) == 0 {
		return "", errors.New("ADMIN_JWT_SECRET is not set")
	}

	claims := AdminClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttlHours("ADMIN_TOKEN_TTL_HOURS", 12))),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// VerifyAdminToken validates signature and expiry of an admin JWT.
func VerifyAdminToken(tokenStr string) (*AdminClaims, error) {
	key := []byte(os.Getenv("ADMIN_JWT_SECRET"))
	if len(key) == 0 {
		return nil, errors.New("ADMIN_JWT_SECRET is not set")
	}

	token, err := jwt.ParseWithClaims(tokenStr, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		return key, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*AdminClaims); ok && token.Valid && claims.Role == "admin" {
		return claims, nil
	}

	return nil, errors.New("invalid admin token")
}

// GenerateGuestToken issues a guest-access JWT scoped to one event (default
// TTL 7 days). The password epoch at issue time is embedded so changing the
// event password invalidates every outstanding token.
func GenerateGuestToken(eventID string, passwordEpoch int) (string, error) {
	key := []byte(os.Getenv("GUEST_JWT_SECRET"))
	if len(key) == 0 {
		return "", errors.New("GUEST_JWT_SECRET is not set")
	}

	claims := GuestClaims{
		Role:          "guest",
		EventID:       eventID,
		PasswordEpoch: passwordEpoch,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttlHours("GUEST_TOKEN_TTL_HOURS", 7*24))),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// VerifyGuestToken validates a guest-access JWT against the event it is
// being used for. A token for another event, or one minted before the last
// password change, is rejected.
func VerifyGuestToken(tokenStr, eventID string, passwordEpoch int) (*GuestClaims, error) {
	key := []byte(os.Getenv("GUEST_JWT_SECRET"))
	if len(key) == 0 {
		return nil, errors.New("GUEST_JWT_SECRET is not set")
	}

	token, err := jwt.ParseWithClaims(tokenStr, &GuestClaims{}, func(token *jwt.Token) (interface{}, error) {
		return key, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*GuestClaims)
	if !ok || !token.Valid || claims.Role != "guest" {
		return nil, errors.New("invalid guest token")
	}
	if claims.EventID != eventID {
		return nil, errors.New("guest token issued for a different event")
	}
	if claims.PasswordEpoch != passwordEpoch {
		return nil, errors.New("guest token predates a password change")
	}

	return claims, nil
}
