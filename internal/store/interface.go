package store

import (
	"context"

	"github.com/hance08/tally/internal/model"
)

type AccountRepository interface {
	CreateAccount(ctx context.Context, acc *model.Account) error
	UpsertAccount(ctx context.Context, acc *model.Account) error
	GetAllAccounts(ctx context.Context) ([]*model.Account, error)
	GetAccountByID(ctx context.Context, id string) (*model.Account, error)
	GetAccountByName(ctx context.Context, name string) (*model.Account, error)
	GetAccountByTypeAndName(ctx context.Context, accType, name string) (*model.Account, error)
}

type BankTransactionRepository interface {
	InsertBankTransaction(ctx context.Context, txn *model.BankTransaction) error
	GetBankTransaction(ctx context.Context, id string) (*model.BankTransaction, error)
	// GetPostableBankTransaction returns ErrRecordNotFound unless the row is
	// Approved and has no journal entry yet.
	GetPostableBankTransaction(ctx context.Context, id string) (*model.BankTransaction, error)
	ListBankTransactions(ctx context.Context, filter BankTransactionFilter) ([]*model.BankTransaction, error)
	CountBankTransactionsByStatus(ctx context.Context) (map[string]int, error)

	ApproveBankTransaction(ctx context.Context, id string, approval Approval) error
	RejectBankTransaction(ctx context.Context, id string) error
	MarkBankTransactionPosted(ctx context.Context, id, journalEntryID string) error
}

type JournalRepository interface {
	CreateJournalEntry(ctx context.Context, entry *model.JournalEntry) error
	GetJournalEntry(ctx context.Context, id string) (*model.JournalEntry, error)
}

type LedgerRepository interface {
	ResetLedger(ctx context.Context) error
}

type Repository interface {
	AccountRepository
	BankTransactionRepository
	JournalRepository
	LedgerRepository

	ExecTx(ctx context.Context, fn func(Repository) error) error
	Close() error
}

type BankTransactionFilter struct {
	Status        string
	MinConfidence int
	Limit         int
}

// Approval holds the reviewer's decision for a Pending transaction.
type Approval struct {
	AccountID  *string
	Category   *string
	Memo       *string
	IsPersonal bool
}
