package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type JournalEntry struct {
	ID              string
	TransactionDate time.Time
	Description     string
	Reference       string
	Status          string
	CreatedBy       string
	CreatedAt       time.Time
	PostedAt        *time.Time
	PostedBy        *string
	Lines           []JournalEntryLine
}

// JournalEntryLine carries exactly one non-zero side.
type JournalEntryLine struct {
	ID             string
	JournalEntryID string
	AccountID      string
	Description    string
	Debit          decimal.Decimal
	Credit         decimal.Decimal
}
