package validation

import (
	"fmt"
	"strings"

	"github.com/hance08/tally/internal/constants"
)

func ValidateSourceType(sourceType string) error {
	switch sourceType {
	case constants.SourceBank, constants.SourceCreditCard:
		return nil
	default:
		return fmt.Errorf("sourceType must be %s or %s", constants.SourceBank, constants.SourceCreditCard)
	}
}

// ValidateTransactionIDs rejects empty id lists and blank ids.
func ValidateTransactionIDs(ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("No transaction IDs provided")
	}
	for i, id := range ids {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("transaction ID #%d is empty", i+1)
		}
	}
	return nil
}

func ValidateThreshold(threshold int) error {
	if threshold < 0 || threshold > 100 {
		return fmt.Errorf("confidence threshold must be between 0 and 100")
	}
	return nil
}

func ValidateStatus(status string) error {
	switch status {
	case "", constants.StatusPending, constants.StatusApproved, constants.StatusRejected, constants.StatusPosted:
		return nil
	default:
		return fmt.Errorf("unknown status '%s'", status)
	}
}
