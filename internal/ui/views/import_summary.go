package views

import (
	"github.com/hance08/tally/internal/service"
	"github.com/pterm/pterm"
)

func RenderImportSummary(res *service.ImportResult, accountName func(string) string) error {
	pterm.DefaultSection.Printf("Imported %d transactions (%s)", res.Count, res.Format)

	if err := NewTransactionListView(accountName).Render(res.Transactions, "Pending review"); err != nil {
		return err
	}

	if res.TrainingDataCount == 0 {
		pterm.Warning.Println("No training data loaded, suggestions were made without examples")
	}
	if res.HasMore {
		pterm.Info.Printf("More rows remain, continue with --offset %d\n", res.NextOffset)
	}
	return nil
}

// RenderResetPreview warns about what a reset will delete.
func RenderResetPreview(counts map[string]int) {
	total := 0
	for _, n := range counts {
		total += n
	}

	pterm.Warning.Printf("About to delete %d bank transactions and every journal entry and invoice.\n", total)
	pterm.Warning.Println("Accounts are kept. This action cannot be undone!")
}
