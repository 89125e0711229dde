// Package accounting holds the double-entry rules applied when an approved
// bank transaction is posted to the ledger.
package accounting

import (
	"fmt"

	"github.com/hance08/tally/internal/model"
	"github.com/hance08/tally/internal/utils"
	"github.com/shopspring/decimal"
)

// EquityAccounts are the owner's equity accounts that personal
// transactions are routed through.
type EquityAccounts struct {
	DrawID         string
	ContributionID string
}

// Sides is the account pair of a two-line journal entry.
type Sides struct {
	DebitAccountID  string
	CreditAccountID string
}

// RuleError reports a transaction that cannot be posted as-is.
type RuleError struct {
	TransactionID string
	Reason        string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("transaction %s: %s", e.TransactionID, e.Reason)
}

// DetermineSides applies the posting rule table:
//
//	personal, outflow  -> Dr Owner's Draw        / Cr source
//	personal, inflow   -> Dr source              / Cr Owner's Contribution
//	business, outflow  -> Dr category account    / Cr source
//	business, inflow   -> Dr source              / Cr category account
//
// The category account is the approved account, else the suggested one.
// equity may be nil when the transaction is not personal.
func DetermineSides(txn *model.BankTransaction, equity *EquityAccounts) (Sides, error) {
	source := utils.StrOrEmpty(txn.SourceAccountID)
	if source == "" {
		return Sides{}, &RuleError{TransactionID: txn.ID, Reason: "no source account"}
	}

	if txn.Amount.IsZero() {
		return Sides{}, &RuleError{TransactionID: txn.ID, Reason: "amount is zero"}
	}
	outflow := txn.Amount.IsNegative()

	if txn.IsPersonal {
		if equity == nil || equity.DrawID == "" || equity.ContributionID == "" {
			return Sides{}, &RuleError{TransactionID: txn.ID, Reason: "owner's equity accounts are not configured"}
		}
		if outflow {
			return Sides{DebitAccountID: equity.DrawID, CreditAccountID: source}, nil
		}
		return Sides{DebitAccountID: source, CreditAccountID: equity.ContributionID}, nil
	}

	category := CategoryAccountID(txn)
	if category == "" {
		return Sides{}, &RuleError{TransactionID: txn.ID, Reason: "no approved or suggested account"}
	}
	if outflow {
		return Sides{DebitAccountID: category, CreditAccountID: source}, nil
	}
	return Sides{DebitAccountID: source, CreditAccountID: category}, nil
}

func CategoryAccountID(txn *model.BankTransaction) string {
	if id := utils.StrOrEmpty(txn.ApprovedAccountID); id != "" {
		return id
	}
	return utils.StrOrEmpty(txn.SuggestedAccountID)
}

// LineMemo picks the approved memo, then the suggested memo, then the
// bank description.
func LineMemo(txn *model.BankTransaction) string {
	if memo := utils.StrOrEmpty(txn.ApprovedMemo); memo != "" {
		return memo
	}
	if txn.SuggestedMemo != "" {
		return txn.SuggestedMemo
	}
	return txn.Description
}

// BuildLines returns the debit line followed by the credit line, each
// carrying the absolute transaction amount.
func BuildLines(txn *model.BankTransaction, sides Sides) []model.JournalEntryLine {
	amount := txn.Amount.Abs()
	memo := LineMemo(txn)
	return []model.JournalEntryLine{
		{AccountID: sides.DebitAccountID, Description: memo, Debit: amount, Credit: decimal.Zero},
		{AccountID: sides.CreditAccountID, Description: memo, Debit: decimal.Zero, Credit: amount},
	}
}

// ValidateLines checks the double-entry invariants: at least two lines,
// exactly one non-zero side per line, no negative amounts, and total debits
// equal to total credits.
func ValidateLines(lines []model.JournalEntryLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("journal entry must have at least 2 lines (got %d)", len(lines))
	}

	debits, credits := decimal.Zero, decimal.Zero
	for i, line := range lines {
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return fmt.Errorf("line #%d: amounts must not be negative", i+1)
		}
		if line.Debit.IsZero() == line.Credit.IsZero() {
			return fmt.Errorf("line #%d: exactly one of debit or credit must be non-zero", i+1)
		}
		if line.AccountID == "" {
			return fmt.Errorf("line #%d: missing account", i+1)
		}
		debits = debits.Add(line.Debit)
		credits = credits.Add(line.Credit)
	}

	if !debits.Equal(credits) {
		return fmt.Errorf("lines do not balance: debits %s, credits %s. "+
			"In double-entry bookkeeping, debits must equal credits",
			utils.FormatAmount(debits), utils.FormatAmount(credits))
	}
	return nil
}
