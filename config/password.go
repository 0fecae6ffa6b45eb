package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// ErrPasswordPolicy is returned when a password fails the configured policy.
var ErrPasswordPolicy = errors.New("password does not meet requirements")

// PasswordPolicy holds the validation rules applied to new passwords. The
// bounds and character-class requirements are product settings, loaded from
// the environment rather than hardcoded.
type PasswordPolicy struct {
	MinLen         int
	MaxLen         int
	RequireLower   bool
	RequireUpper   bool
	RequireDigit   bool
	RequireSpecial bool
}

const specialRunes = "@$!%*#?&-_"

// LoadPasswordPolicy builds the policy from PASSWORD_MIN_LEN / PASSWORD_MAX_LEN
// and the PASSWORD_REQUIRE_* flags, falling back to the defaults: 6-20
// characters with at least one lowercase, uppercase, digit and special
// character.
func LoadPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLen:         envInt("PASSWORD_MIN_LEN", 6),
		MaxLen:         envInt("PASSWORD_MAX_LEN", 20),
		RequireLower:   envBool("PASSWORD_REQUIRE_LOWER", true),
		RequireUpper:   envBool("PASSWORD_REQUIRE_UPPER", true),
		RequireDigit:   envBool("PASSWORD_REQUIRE_DIGIT", true),
		RequireSpecial: envBool("PASSWORD_REQUIRE_SPECIAL", true),
	}
}

// Validate checks a candidate password against the policy.
func (p PasswordPolicy) Validate(password string) error {
	if len(password) < p.MinLen || (p.MaxLen > 0 && len(password) > p.MaxLen) {
		return ErrPasswordPolicy
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(specialRunes, r):
			hasSpecial = true
		}
	}

	if p.RequireLower && !hasLower {
		return ErrPasswordPolicy
	}
	if p.RequireUpper && !hasUpper {
		return ErrPasswordPolicy
	}
	if p.RequireDigit && !hasDigit {
		return ErrPasswordPolicy
	}
	if p.RequireSpecial && !hasSpecial {
		return ErrPasswordPolicy
	}
	return nil
}

func envInt(key string, fallback int) int {
	if raw := os.Getenv(key); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if raw := os.Getenv(key); raw != "" {
		if b, err := strconv.ParseBool(raw); err == nil {
			return b
		}
	}
	return fallback
}
