package auth

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nbutton23/zxcvbn-go"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 20

	// MinPasswordScore is the lowest zxcvbn score (0-4) accepted at sign-up.
	MinPasswordScore = 2
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// ValidationError names the form field that failed and why.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateRegistration checks sign-up input locally. It returns the first
// problem as a *ValidationError.
func ValidateRegistration(username, email, password string) error {
	switch {
	case len(username) < minUsernameLength:
		return &ValidationError{"username", fmt.Sprintf("must be at least %d characters", minUsernameLength)}
	case len(username) > maxUsernameLength:
		return &ValidationError{"username", fmt.Sprintf("must be at most %d characters", maxUsernameLength)}
	case !usernameRegex.MatchString(username):
		return &ValidationError{"username", "may only contain letters, digits and underscores"}
	case !strings.Contains(email, "@"):
		return &ValidationError{"email", "must be a valid email address"}
	case password == "":
		return &ValidationError{"password", "is required"}
	}

	result := zxcvbn.PasswordStrength(password, []string{username, email})
	if result.Score < MinPasswordScore {
		return &ValidationError{"password", "is too weak, try a longer passphrase"}
	}
	return nil
}

// PasswordScore returns the zxcvbn strength score (0-4) of a password.
func PasswordScore(password string, userInputs ...string) int {
	return zxcvbn.PasswordStrength(password, userInputs).Score
}
