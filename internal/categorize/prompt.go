package categorize

import (
	"fmt"
	"strings"

	"github.com/hance08/tally/internal/constants"
	"github.com/hance08/tally/internal/model"
)

const SystemPrompt = "You are an accounting AI assistant. Always respond with valid JSON only."

// SourceContext describes the statement the transaction came from.
type SourceContext struct {
	Type string
	Name string
}

type PromptInput struct {
	Transaction model.NormalizedTransaction
	Source      SourceContext
	Examples    []model.TrainingExample
	Accounts    []*model.Account
}

func BuildPrompt(in PromptInput) string {
	txn := in.Transaction

	direction := "(income)"
	if txn.Amount.IsNegative() {
		direction = "(expense)"
	}

	var b strings.Builder
	b.WriteString("Analyze this transaction and suggest the appropriate accounting category:\n\n")
	fmt.Fprintf(&b, "Transaction: %s\n", txn.Description)
	fmt.Fprintf(&b, "Amount: $%s %s\n", txn.Amount.Abs().StringFixed(2), direction)
	fmt.Fprintf(&b, "Date: %s\n", txn.TransactionDate.Format(constants.DateFormat))
	fmt.Fprintf(&b, "Source: %s (%s)\n", in.Source.Type, in.Source.Name)
	if txn.OriginalCategory != "" {
		fmt.Fprintf(&b, "Bank Category: %s\n", txn.OriginalCategory)
	}

	if len(in.Examples) > 0 {
		b.WriteString("\nSimilar past transactions from QuickBooks:\n")
		for _, ex := range in.Examples {
			fmt.Fprintf(&b, "- %q → %s\n", ex.Description, ex.Category)
		}
	}

	b.WriteString("\nAvailable accounts:\n")
	for _, acc := range in.Accounts {
		fmt.Fprintf(&b, "- %s (%s)\n", acc.Name, acc.Type)
	}

	b.WriteString(`
Based on the description and similar past transactions, suggest:
1. Best matching account from the list above
2. Brief memo for journal entry
3. Confidence score (0-100)

Respond ONLY with valid JSON:
{
  "accountName": "exact account name from list",
  "category": "category name",
  "memo": "brief description",
  "confidence": 85
}`)

	return b.String()
}
