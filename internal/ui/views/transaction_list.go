package views

import (
	"github.com/hance08/tally/internal/constants"
	"github.com/hance08/tally/internal/model"
	"github.com/hance08/tally/internal/ui"
	"github.com/hance08/tally/internal/utils"
	"github.com/pterm/pterm"
)

type TransactionListView struct {
	// accountName resolves an account id for display; unknown ids are shown
	// as "-".
	accountName func(id string) string
}

func NewTransactionListView(accountName func(id string) string) *TransactionListView {
	return &TransactionListView{accountName: accountName}
}

func (v *TransactionListView) Render(txns []*model.BankTransaction, title string) error {
	if len(txns) == 0 {
		pterm.Warning.Println("No transactions found")
		return nil
	}

	pterm.DefaultSection.Println(title)

	tableData := pterm.TableData{
		{"ID", "Date", "Description", "Amount", "Account", "Confidence", "Status"},
	}
	for _, txn := range txns {
		tableData = append(tableData, []string{
			ShortID(txn.ID),
			txn.TransactionDate.Format(constants.DateFormat),
			utils.Truncate(txn.Description, 40),
			colorAmount(txn),
			v.account(txn),
			ui.ColorConfidence(txn.ConfidenceScore),
			ui.ColorStatus(txn.Status),
		})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}
	pterm.Info.Printf("Total: %d transactions\n", len(txns))
	return nil
}

func (v *TransactionListView) account(txn *model.BankTransaction) string {
	id := utils.StrOrEmpty(txn.ApprovedAccountID)
	if id == "" {
		id = utils.StrOrEmpty(txn.SuggestedAccountID)
	}
	name := "-"
	if id != "" && v.accountName != nil {
		name = v.accountName(id)
	}
	if txn.IsPersonal {
		name += pterm.Gray(" (personal)")
	}
	return name
}

func colorAmount(txn *model.BankTransaction) string {
	s := utils.FormatAmount(txn.Amount)
	if txn.Amount.IsNegative() {
		return pterm.Red(s)
	}
	return pterm.Green(s)
}

// ShortID is the first 8 characters of a uuid, enough to recognise a row
// in a table.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
