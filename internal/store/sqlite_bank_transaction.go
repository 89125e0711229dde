package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hance08/tally/internal/constants"
	"github.com/hance08/tally/internal/model"
)

const bankTransactionColumns = `
    id, source_type, source_name, source_account_id, transaction_date, post_date,
    amount, description, merchant, original_category, transaction_type, card_number,
    raw_data, suggested_account_id, suggested_category, suggested_memo, confidence_score,
    status, approved_account_id, approved_category, approved_memo, is_personal,
    journal_entry_id, created_at`

func (s *Store) InsertBankTransaction(ctx context.Context, txn *model.BankTransaction) error {
	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}
	if txn.Status == "" {
		txn.Status = constants.StatusPending
	}

	_, err := s.db.ExecContext(ctx, `
        INSERT INTO bank_transactions (`+bankTransactionColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `,
		txn.ID, txn.SourceType, txn.SourceName, nullableString(txn.SourceAccountID),
		formatDate(txn.TransactionDate), nullableDate(txn.PostDate),
		formatAmount(txn.Amount), txn.Description, txn.Merchant,
		nullableString(txn.OriginalCategory), nullableString(txn.TransactionType), nullableString(txn.CardNumber),
		txn.RawData, nullableString(txn.SuggestedAccountID), txn.SuggestedCategory, txn.SuggestedMemo,
		txn.ConfidenceScore, txn.Status, nullableString(txn.ApprovedAccountID),
		nullableString(txn.ApprovedCategory), nullableString(txn.ApprovedMemo), txn.IsPersonal,
		nullableString(txn.JournalEntryID), formatTimestamp(txn.CreatedAt),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("failed to insert bank transaction %s: %w: %v", txn.ID, ErrConstraintViolation, err)
		}
		return fmt.Errorf("failed to insert bank transaction %s: %w", txn.ID, err)
	}
	return nil
}

func (s *Store) GetBankTransaction(ctx context.Context, id string) (*model.BankTransaction, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+bankTransactionColumns+" FROM bank_transactions WHERE id = ?", id)

	txn, err := scanBankTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("bank transaction %s: %w", id, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query bank transaction %s: %w", id, err)
	}
	return txn, nil
}

func (s *Store) GetPostableBankTransaction(ctx context.Context, id string) (*model.BankTransaction, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT `+bankTransactionColumns+`
        FROM bank_transactions
        WHERE id = ? AND status = ? AND journal_entry_id IS NULL
    `, id, constants.StatusApproved)

	txn, err := scanBankTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("approved bank transaction %s: %w", id, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query bank transaction %s: %w", id, err)
	}
	return txn, nil
}

// ListBankTransactions returns transactions newest first.
func (s *Store) ListBankTransactions(ctx context.Context, filter BankTransactionFilter) ([]*model.BankTransaction, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.MinConfidence > 0 {
		where = append(where, "confidence_score >= ?")
		args = append(args, filter.MinConfidence)
	}

	query := "SELECT " + bankTransactionColumns + " FROM bank_transactions"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, transaction_date DESC, id"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bank transactions: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var txns []*model.BankTransaction
	for rows.Next() {
		txn, err := scanBankTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank transaction: %w", err)
		}
		txns = append(txns, txn)
	}

	return txns, rows.Err()
}

func (s *Store) CountBankTransactionsByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT status, COUNT(*)
        FROM bank_transactions
        GROUP BY status
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to count bank transactions: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// ApproveBankTransaction moves a Pending transaction to Approved.
// It returns ErrStateChanged when the row is not Pending anymore.
func (s *Store) ApproveBankTransaction(ctx context.Context, id string, approval Approval) error {
	res, err := s.db.ExecContext(ctx, `
        UPDATE bank_transactions
        SET status = ?, approved_account_id = ?, approved_category = ?, approved_memo = ?, is_personal = ?
        WHERE id = ? AND status = ?
    `, constants.StatusApproved, nullableString(approval.AccountID), nullableString(approval.Category),
		nullableString(approval.Memo), approval.IsPersonal, id, constants.StatusPending)
	if err != nil {
		return fmt.Errorf("failed to approve bank transaction %s: %w", id, err)
	}
	if err := checkAffected(res, 1); err != nil {
		return fmt.Errorf("bank transaction %s is not pending: %w", id, err)
	}
	return nil
}

func (s *Store) RejectBankTransaction(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
        UPDATE bank_transactions
        SET status = ?
        WHERE id = ? AND status = ?
    `, constants.StatusRejected, id, constants.StatusPending)
	if err != nil {
		return fmt.Errorf("failed to reject bank transaction %s: %w", id, err)
	}
	if err := checkAffected(res, 1); err != nil {
		return fmt.Errorf("bank transaction %s is not pending: %w", id, err)
	}
	return nil
}

// MarkBankTransactionPosted links the journal entry and flips the status in
// one statement; it only matches rows that are still Approved and unposted.
func (s *Store) MarkBankTransactionPosted(ctx context.Context, id, journalEntryID string) error {
	res, err := s.db.ExecContext(ctx, `
        UPDATE bank_transactions
        SET status = ?, journal_entry_id = ?
        WHERE id = ? AND status = ? AND journal_entry_id IS NULL
    `, constants.StatusPosted, journalEntryID, id, constants.StatusApproved)
	if err != nil {
		return fmt.Errorf("failed to mark bank transaction %s posted: %w", id, err)
	}
	if err := checkAffected(res, 1); err != nil {
		return fmt.Errorf("bank transaction %s is no longer approved: %w", id, err)
	}
	return nil
}

func scanBankTransaction(row rowScanner) (*model.BankTransaction, error) {
	txn := &model.BankTransaction{}

	var (
		sourceAccountID, postDate, originalCategory, transactionType, cardNumber sql.NullString
		suggestedAccountID, approvedAccountID, approvedCategory, approvedMemo   sql.NullString
		journalEntryID                                                          sql.NullString
		transactionDate, amount, createdAt                                      string
	)

	err := row.Scan(
		&txn.ID, &txn.SourceType, &txn.SourceName, &sourceAccountID, &transactionDate, &postDate,
		&amount, &txn.Description, &txn.Merchant, &originalCategory, &transactionType, &cardNumber,
		&txn.RawData, &suggestedAccountID, &txn.SuggestedCategory, &txn.SuggestedMemo, &txn.ConfidenceScore,
		&txn.Status, &approvedAccountID, &approvedCategory, &approvedMemo, &txn.IsPersonal,
		&journalEntryID, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	if txn.TransactionDate, err = parseDate(transactionDate); err != nil {
		return nil, err
	}
	if txn.PostDate, err = datePtr(postDate); err != nil {
		return nil, err
	}
	if txn.Amount, err = parseAmount(amount); err != nil {
		return nil, err
	}
	if txn.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}

	txn.SourceAccountID = stringPtr(sourceAccountID)
	txn.OriginalCategory = stringPtr(originalCategory)
	txn.TransactionType = stringPtr(transactionType)
	txn.CardNumber = stringPtr(cardNumber)
	txn.SuggestedAccountID = stringPtr(suggestedAccountID)
	txn.ApprovedAccountID = stringPtr(approvedAccountID)
	txn.ApprovedCategory = stringPtr(approvedCategory)
	txn.ApprovedMemo = stringPtr(approvedMemo)
	txn.JournalEntryID = stringPtr(journalEntryID)

	return txn, nil
}
