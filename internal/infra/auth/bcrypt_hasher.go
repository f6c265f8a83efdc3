package auth

import (
	"strconv"
	"strings"
	"unicode"

	"storefront/config"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/errors"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores everything past 72 bytes.
const bcryptMaxPasswordBytes = 72

var defaultForbiddenWords = []string{"password", "admin", "qwerty", "123456"}

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost           int
	strength       config.PasswordStrengthConfig
	forbiddenWords []string
}

// NewBcryptHasher builds the hasher from the auth and passwordStrength config sections.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg.Auth != nil && cfg.Auth.BcryptCost > 0 {
		cost = cfg.Auth.BcryptCost
	}

	strength := defaultPasswordStrength()
	if cfg.PasswordStrength != nil {
		strength = *cfg.PasswordStrength
	}

	return newBcryptHasher(cost, strength)
}

// NewBcryptHasherWithCost returns a hasher with the default strength rules and a custom cost.
func NewBcryptHasherWithCost(cost int) service.PasswordHasher {
	return newBcryptHasher(cost, defaultPasswordStrength())
}

func newBcryptHasher(cost int, strength config.PasswordStrengthConfig) *bcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if strength.MaxLength <= 0 || strength.MaxLength > bcryptMaxPasswordBytes {
		strength.MaxLength = bcryptMaxPasswordBytes
	}

	return &bcryptHasher{
		cost:           cost,
		strength:       strength,
		forbiddenWords: defaultForbiddenWords,
	}
}

func defaultPasswordStrength() config.PasswordStrengthConfig {
	return config.PasswordStrengthConfig{
		MinLength:        8,
		MaxLength:        bcryptMaxPasswordBytes,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireNumbers:   true,
	}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	return string(bytes), nil
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// ValidatePasswordStrength returns ErrPasswordStrength carrying the first failed rule.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	reason := h.strengthViolation(password)
	if reason == "" {
		return nil
	}

	return errors.Wrap(domainerrors.ErrPasswordStrength.WithDetails(reason), reason)
}

func (h *bcryptHasher) strengthViolation(password string) string {
	rules := h.strength
	switch {
	case rules.MinLength > 0 && len([]rune(password)) < rules.MinLength:
		return "password must be at least " + strconv.Itoa(rules.MinLength) + " characters long"
	case len(password) > rules.MaxLength:
		return "password must be at most " + strconv.Itoa(rules.MaxLength) + " bytes long"
	case rules.RequireLowercase && !h.hasLowercase(password):
		return "password must contain at least one lowercase letter"
	case rules.RequireUppercase && !h.hasUppercase(password):
		return "password must contain at least one uppercase letter"
	case rules.RequireNumbers && !h.hasNumbers(password):
		return "password must contain at least one number"
	case rules.RequireSpecial && !h.hasSpecialChars(password):
		return "password must contain at least one special character"
	case h.containsForbiddenWords(password, h.forbiddenWords):
		return "password contains forbidden words"
	default:
		return ""
	}
}

func (h *bcryptHasher) hasUppercase(s string) bool {
	return strings.IndexFunc(s, unicode.IsUpper) >= 0
}

func (h *bcryptHasher) hasLowercase(s string) bool {
	return strings.IndexFunc(s, unicode.IsLower) >= 0
}

func (h *bcryptHasher) hasNumbers(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func (h *bcryptHasher) hasSpecialChars(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	}) >= 0
}

func (h *bcryptHasher) containsForbiddenWords(s string, words []string) bool {
	lower := strings.ToLower(s)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}

	return false
}
