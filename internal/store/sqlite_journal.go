package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hance08/tally/internal/model"
)

// CreateJournalEntry inserts the entry header followed by its lines.
// Callers are expected to run it inside ExecTx.
func (s *Store) CreateJournalEntry(ctx context.Context, entry *model.JournalEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	var postedAt any
	if entry.PostedAt != nil {
		postedAt = formatTimestamp(*entry.PostedAt)
	}

	_, err := s.db.ExecContext(ctx, `
        INSERT INTO journal_entries (id, transaction_date, description, reference, status, created_by, created_at, posted_at, posted_by)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, entry.ID, formatDate(entry.TransactionDate), entry.Description, entry.Reference, entry.Status,
		entry.CreatedBy, formatTimestamp(entry.CreatedAt), postedAt, nullableString(entry.PostedBy))
	if err != nil {
		return fmt.Errorf("failed to insert journal entry : %w", err)
	}

	stmt, err := s.db.PrepareContext(ctx, `
        INSERT INTO journal_entry_lines (id, journal_entry_id, account_id, description, debit, credit)
        VALUES (?, ?, ?, ?, ?, ?)
    `)
	if err != nil {
		return fmt.Errorf("failed to prepare journal line SQL : %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for i := range entry.Lines {
		line := &entry.Lines[i]
		if line.ID == "" {
			line.ID = uuid.NewString()
		}
		line.JournalEntryID = entry.ID

		_, err := stmt.ExecContext(ctx, line.ID, line.JournalEntryID, line.AccountID, line.Description,
			formatAmount(line.Debit), formatAmount(line.Credit))
		if err != nil {
			if isConstraintViolation(err) {
				return fmt.Errorf("failed to insert journal line for account %s: %w", line.AccountID, ErrConstraintViolation)
			}
			return fmt.Errorf("failed to insert journal line : %w", err)
		}
	}

	return nil
}

func (s *Store) GetJournalEntry(ctx context.Context, id string) (*model.JournalEntry, error) {
	entry := &model.JournalEntry{}
	var (
		transactionDate, createdAt string
		postedAt, postedBy         sql.NullString
	)

	err := s.db.QueryRowContext(ctx, `
        SELECT id, transaction_date, description, reference, status, created_by, created_at, posted_at, posted_by
        FROM journal_entries
        WHERE id = ?
    `, id).Scan(&entry.ID, &transactionDate, &entry.Description, &entry.Reference, &entry.Status,
		&entry.CreatedBy, &createdAt, &postedAt, &postedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("journal entry %s: %w", id, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query journal entry: %w", err)
	}

	if entry.TransactionDate, err = parseDate(transactionDate); err != nil {
		return nil, err
	}
	if entry.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	if entry.PostedAt, err = timestampPtr(postedAt); err != nil {
		return nil, err
	}
	entry.PostedBy = stringPtr(postedBy)

	rows, err := s.db.QueryContext(ctx, `
        SELECT id, journal_entry_id, account_id, description, debit, credit
        FROM journal_entry_lines
        WHERE journal_entry_id = ?
        ORDER BY rowid
    `, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal lines: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var (
			line          model.JournalEntryLine
			debit, credit string
		)
		if err := rows.Scan(&line.ID, &line.JournalEntryID, &line.AccountID, &line.Description, &debit, &credit); err != nil {
			return nil, fmt.Errorf("failed to scan journal line: %w", err)
		}
		if line.Debit, err = parseAmount(debit); err != nil {
			return nil, err
		}
		if line.Credit, err = parseAmount(credit); err != nil {
			return nil, err
		}
		entry.Lines = append(entry.Lines, line)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal lines: %w", err)
	}

	return entry, nil
}
