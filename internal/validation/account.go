package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hance08/tally/internal/constants"
)

// ValidateAccountName validates an account name before it is created.
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("account name can't be empty")
	}

	if len([]rune(name)) > constants.MaxNameLen {
		return fmt.Errorf("account name too long (max %d characters)", constants.MaxNameLen)
	}
	return nil
}

// ValidateAccountType accepts one of Asset, Liability, Equity, Revenue or
// Expense, case-insensitively, and returns the canonical spelling.
func ValidateAccountType(accType string) (string, error) {
	for _, t := range constants.AccountTypes {
		if strings.EqualFold(strings.TrimSpace(accType), t) {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid account type '%s' (must be one of %s)", accType, strings.Join(constants.AccountTypes, ", "))
}

// ValidateAccountCode allows empty codes or digits only.
func ValidateAccountCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}
	if slices.ContainsFunc([]rune(code), func(r rune) bool { return r < '0' || r > '9' }) {
		return fmt.Errorf("account code must contain only digits")
	}
	return nil
}
