package prompts

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/hance08/tally/internal/constants"
	"github.com/hance08/tally/internal/model"
	"github.com/hance08/tally/internal/validation"
)

func PromptAccountType() (string, error) {
	selected, err := PromptSelect("Account type:", constants.AccountTypes, constants.TypeExpense)
	if err != nil {
		return "", fmt.Errorf("input cancelled: %w", err)
	}
	return selected, nil
}

func PromptAccountName() (string, error) {
	return PromptInput("Account name:", "", validation.ValidateAccountName)
}

func PromptAccountCode() (string, error) {
	return PromptInput("Account code (optional, digits only):", "", validation.ValidateAccountCode)
}

// PromptAccountSelection asks for an account among accounts and returns its
// id. defaultID is preselected when present.
func PromptAccountSelection(accounts []*model.Account, message, defaultID string) (string, error) {
	if len(accounts) == 0 {
		return "", fmt.Errorf("no accounts available, run 'tally account seed' first")
	}

	opts := make([]huh.Option[string], 0, len(accounts))
	for _, acc := range accounts {
		if !acc.IsActive {
			continue
		}
		label := fmt.Sprintf("%s (%s)", acc.Name, acc.Type)
		if acc.Code != "" {
			label = acc.Code + "  " + label
		}
		opts = append(opts, huh.NewOption(label, acc.ID))
	}

	selected := defaultID
	err := huh.NewSelect[string]().
		Title(message).
		Options(opts...).
		Value(&selected).
		Height(15).
		Run()
	if err != nil {
		return "", err
	}
	return selected, nil
}
