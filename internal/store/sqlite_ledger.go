package store

import (
	"context"
	"fmt"
)

// resetTables is ordered so that children are deleted before parents.
var resetTables = []string{
	"journal_entry_lines",
	"journal_entries",
	"bank_transactions",
	"invoice_lines",
	"invoices",
}

// ResetLedger clears every transactional table. Accounts are kept.
func (s *Store) ResetLedger(ctx context.Context) error {
	for _, table := range resetTables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}
