package service

import (
	"context"
	"errors"

	"github.com/hance08/tally/internal/apperr"
	"github.com/hance08/tally/internal/logger"
	"github.com/hance08/tally/internal/model"
	"github.com/hance08/tally/internal/store"
)

type LedgerService struct {
	repo store.Repository
	log  logger.Logger
}

func NewLedgerService(repo store.Repository, log logger.Logger) *LedgerService {
	return &LedgerService{repo: repo, log: log.WithComponent("ledger")}
}

// Reset deletes journal lines, journal entries, bank transactions, invoice
// lines and invoices in one transaction. Accounts are kept.
func (ls *LedgerService) Reset(ctx context.Context) error {
	err := ls.repo.ExecTx(ctx, func(tx store.Repository) error {
		return tx.ResetLedger(ctx)
	})
	if err != nil {
		ls.log.WithError(err).Errorf("reset rolled back")
		return apperr.Persistence(err, "Failed to reset database")
	}
	ls.log.Warnf("ledger data cleared")
	return nil
}

// StatusCounts returns the number of bank transactions per status.
func (ls *LedgerService) StatusCounts(ctx context.Context) (map[string]int, error) {
	counts, err := ls.repo.CountBankTransactionsByStatus(ctx)
	if err != nil {
		return nil, apperr.Persistence(err, "Failed to count transactions")
	}
	return counts, nil
}

func (ls *LedgerService) JournalEntry(ctx context.Context, id string) (*model.JournalEntry, error) {
	entry, err := ls.repo.GetJournalEntry(ctx, id)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, apperr.NotFound("Journal entry '%s' not found", id)
	}
	if err != nil {
		return nil, apperr.Persistence(err, "Failed to load journal entry")
	}
	return entry, nil
}
