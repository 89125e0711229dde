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

const accountColumns = `id, code, name, type, is_active, created_at`

func (s *Store) CreateAccount(ctx context.Context, acc *model.Account) error {
	if acc.ID == "" {
		acc.ID = uuid.NewString()
	}
	if acc.CreatedAt.IsZero() {
		acc.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
        INSERT INTO accounts (id, code, name, type, is_active, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `, acc.ID, acc.Code, acc.Name, acc.Type, acc.IsActive, formatTimestamp(acc.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to create account '%s': %w", acc.Name, ErrAccountExists)
		}
		if isConstraintViolation(err) {
			return fmt.Errorf("failed to create account '%s': %w", acc.Name, ErrConstraintViolation)
		}
		return fmt.Errorf("failed to executing SQL insertion : %w", err)
	}

	return nil
}

// UpsertAccount inserts acc under its own id, or refreshes the code, name,
// type and active flag of the row that already has that id.
func (s *Store) UpsertAccount(ctx context.Context, acc *model.Account) error {
	if acc.ID == "" {
		return fmt.Errorf("failed to upsert account '%s': missing id", acc.Name)
	}
	if acc.CreatedAt.IsZero() {
		acc.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
        INSERT INTO accounts (id, code, name, type, is_active, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            code = excluded.code,
            name = excluded.name,
            type = excluded.type,
            is_active = excluded.is_active
    `, acc.ID, acc.Code, acc.Name, acc.Type, acc.IsActive, formatTimestamp(acc.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to upsert account '%s': %w", acc.Name, ErrAccountExists)
		}
		if isConstraintViolation(err) {
			return fmt.Errorf("failed to upsert account '%s': %w", acc.Name, ErrConstraintViolation)
		}
		return fmt.Errorf("failed to upsert account '%s': %w", acc.Name, err)
	}
	return nil
}

func (s *Store) GetAllAccounts(ctx context.Context) ([]*model.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT `+accountColumns+`
        FROM accounts
        ORDER BY code, name
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var accounts []*model.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, acc)
	}

	return accounts, rows.Err()
}

func (s *Store) GetAccountByID(ctx context.Context, id string) (*model.Account, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM accounts WHERE id = ?", id)

	acc, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account with ID %s: %w", id, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query account with ID %s: %w", id, err)
	}
	return acc, nil
}

func (s *Store) GetAccountByName(ctx context.Context, name string) (*model.Account, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM accounts WHERE name = ?", name)

	acc, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account '%s': %w", name, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query account '%s' : %w", name, err)
	}
	return acc, nil
}

func (s *Store) GetAccountByTypeAndName(ctx context.Context, accType, name string) (*model.Account, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE type = ? AND name = ?", accType, name)

	acc, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s account '%s': %w", accType, name, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query %s account '%s' : %w", accType, name, err)
	}
	return acc, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*model.Account, error) {
	acc := &model.Account{}
	var createdAt string

	if err := row.Scan(&acc.ID, &acc.Code, &acc.Name, &acc.Type, &acc.IsActive, &createdAt); err != nil {
		return nil, err
	}

	t, err := parseTimestamp(createdAt)
	if err != nil {
		return nil, err
	}
	acc.CreatedAt = t
	return acc, nil
}
