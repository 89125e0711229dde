package views

import (
	"fmt"

	"github.com/hance08/tally/internal/constants"
	"github.com/hance08/tally/internal/model"
	"github.com/hance08/tally/internal/ui"
	"github.com/hance08/tally/internal/utils"
	"github.com/pterm/pterm"
)

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func RenderTransactionDetail(txn *model.BankTransaction, accountName func(string) string) error {
	name := func(id *string) string {
		if id == nil {
			return "-"
		}
		return accountName(*id)
	}

	postDate := "-"
	if txn.PostDate != nil {
		postDate = txn.PostDate.Format(constants.DateFormat)
	}

	pterm.Println()
	ui.PrintL2Title("Bank Transaction")
	infoData := pterm.TableData{
		{"Field", "Value"},
		{"ID", txn.ID},
		{"Source", fmt.Sprintf("%s (%s)", orDash(txn.SourceName), txn.SourceType)},
		{"Source Account", name(txn.SourceAccountID)},
		{"Date", txn.TransactionDate.Format(constants.DateFormat)},
		{"Post Date", postDate},
		{"Description", txn.Description},
		{"Amount", utils.FormatAmount(txn.Amount)},
		{"Bank Category", orDash(utils.StrOrEmpty(txn.OriginalCategory))},
		{"Status", ui.ColorStatus(txn.Status)},
		{"Personal", fmt.Sprint(txn.IsPersonal)},
	}
	if err := renderKV(infoData); err != nil {
		return err
	}

	pterm.Println()
	ui.PrintL2Title("Categorization")
	catData := pterm.TableData{
		{"", "Suggested", "Approved"},
		{"Account", name(txn.SuggestedAccountID), name(txn.ApprovedAccountID)},
		{"Category", orDash(txn.SuggestedCategory), orDash(utils.StrOrEmpty(txn.ApprovedCategory))},
		{"Memo", orDash(txn.SuggestedMemo), orDash(utils.StrOrEmpty(txn.ApprovedMemo))},
		{"Confidence", ui.ColorConfidence(txn.ConfidenceScore), ""},
	}
	return renderKV(catData)
}

// RenderJournalEntry prints an entry and its debit/credit lines.
func RenderJournalEntry(entry *model.JournalEntry, accountName func(string) string) error {
	pterm.Println()
	ui.PrintL2Title("Journal Entry %s", entry.Reference)

	linesData := pterm.TableData{{"Account", "Debit", "Credit", "Memo"}}
	for _, line := range entry.Lines {
		debit, credit := "", ""
		if !line.Debit.IsZero() {
			debit = utils.FormatAmount(line.Debit)
		}
		if !line.Credit.IsZero() {
			credit = utils.FormatAmount(line.Credit)
		}
		linesData = append(linesData, []string{accountName(line.AccountID), debit, credit, orDash(line.Description)})
	}
	return renderKV(linesData)
}

func renderKV(data pterm.TableData) error {
	return pterm.DefaultTable.
		WithHasHeader().
		WithHeaderStyle(pterm.NewStyle(pterm.FgGray)).
		WithData(data).
		Render()
}
