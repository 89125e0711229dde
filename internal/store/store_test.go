package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hance08/tally/internal/constants"
	"github.com/hance08/tally/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "tally.db")
	s, err := NewStore(dbPath, os.DirFS("../.."), Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mustAccount(t *testing.T, s *Store, name, accType, code string) *model.Account {
	t.Helper()

	acc := &model.Account{Code: code, Name: name, Type: accType, IsActive: true}
	require.NoError(t, s.CreateAccount(context.Background(), acc))
	return acc
}

func sampleTransaction(sourceAccountID string) *model.BankTransaction {
	post := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)
	return &model.BankTransaction{
		SourceType:        constants.SourceCreditCard,
		SourceName:        "Chase Sapphire",
		SourceAccountID:   &sourceAccountID,
		TransactionDate:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		PostDate:          &post,
		Amount:            decimal.RequireFromString("-42.50"),
		Description:       "STARBUCKS #123",
		Merchant:          "STARBUCKS #123",
		RawData:           "01/15/2024,01/16/2024,STARBUCKS #123,Food & Drink,Sale,-42.50",
		SuggestedCategory: "Meals",
		SuggestedMemo:     "Coffee",
		ConfidenceScore:   85,
	}
}

func TestAccounts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	checking := mustAccount(t, s, "Business Checking", constants.TypeAsset, "1000")
	mustAccount(t, s, constants.OwnersDrawName, constants.TypeEquity, constants.OwnersDrawCode)

	err := s.CreateAccount(ctx, &model.Account{Name: "Business Checking", Type: constants.TypeAsset})
	assert.ErrorIs(t, err, ErrAccountExists)

	err = s.CreateAccount(ctx, &model.Account{Name: "Weird", Type: "Cash"})
	assert.ErrorIs(t, err, ErrConstraintViolation)

	got, err := s.GetAccountByID(ctx, checking.ID)
	require.NoError(t, err)
	assert.Equal(t, "Business Checking", got.Name)
	assert.True(t, got.IsActive)

	_, err = s.GetAccountByTypeAndName(ctx, constants.TypeEquity, constants.OwnersDrawName)
	assert.NoError(t, err)

	_, err = s.GetAccountByTypeAndName(ctx, constants.TypeExpense, constants.OwnersDrawName)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	all, err := s.GetAllAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "1000", all[0].Code)
}

func TestBankTransactionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	checking := mustAccount(t, s, "Business Checking", constants.TypeAsset, "1000")

	txn := sampleTransaction(checking.ID)
	txn.OriginalCategory = strPtr("Food & Drink")
	require.NoError(t, s.InsertBankTransaction(ctx, txn))
	require.NotEmpty(t, txn.ID)

	got, err := s.GetBankTransaction(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusPending, got.Status)
	assert.True(t, decimal.RequireFromString("-42.5").Equal(got.Amount))
	assert.Equal(t, "2024-01-15", got.TransactionDate.Format(constants.DateFormat))
	require.NotNil(t, got.PostDate)
	assert.Equal(t, "2024-01-16", got.PostDate.Format(constants.DateFormat))
	assert.Equal(t, "Food & Drink", *got.OriginalCategory)
	assert.Nil(t, got.CardNumber)
	assert.Nil(t, got.JournalEntryID)
	assert.Equal(t, 85, got.ConfidenceScore)

	_, err = s.GetBankTransaction(ctx, "missing")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestReviewTransitions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	checking := mustAccount(t, s, "Business Checking", constants.TypeAsset, "1000")

	a := sampleTransaction(checking.ID)
	b := sampleTransaction(checking.ID)
	require.NoError(t, s.InsertBankTransaction(ctx, a))
	require.NoError(t, s.InsertBankTransaction(ctx, b))

	_, err := s.GetPostableBankTransaction(ctx, a.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound, "pending rows are not postable")

	require.NoError(t, s.ApproveBankTransaction(ctx, a.ID, Approval{Memo: strPtr("Coffee"), IsPersonal: true}))
	require.NoError(t, s.RejectBankTransaction(ctx, b.ID))

	err = s.ApproveBankTransaction(ctx, b.ID, Approval{})
	assert.ErrorIs(t, err, ErrStateChanged)
	err = s.RejectBankTransaction(ctx, a.ID)
	assert.ErrorIs(t, err, ErrStateChanged)

	got, err := s.GetPostableBankTransaction(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusApproved, got.Status)
	assert.True(t, got.IsPersonal)
	assert.Equal(t, "Coffee", *got.ApprovedMemo)

	pending, err := s.ListBankTransactions(ctx, BankTransactionFilter{Status: constants.StatusPending})
	require.NoError(t, err)
	assert.Empty(t, pending)

	counts, err := s.CountBankTransactionsByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{constants.StatusApproved: 1, constants.StatusRejected: 1}, counts)
}

func TestPostedRequiresJournalEntry(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	checking := mustAccount(t, s, "Business Checking", constants.TypeAsset, "1000")

	txn := sampleTransaction(checking.ID)
	txn.Status = constants.StatusPosted
	err := s.InsertBankTransaction(ctx, txn)
	assert.ErrorIs(t, err, ErrConstraintViolation)
}

func TestJournalEntryAndMarkPosted(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	checking := mustAccount(t, s, "Business Checking", constants.TypeAsset, "1000")
	meals := mustAccount(t, s, "Meals", constants.TypeExpense, "6100")

	txn := sampleTransaction(checking.ID)
	require.NoError(t, s.InsertBankTransaction(ctx, txn))
	require.NoError(t, s.ApproveBankTransaction(ctx, txn.ID, Approval{AccountID: &meals.ID}))

	now := time.Now()
	actor := constants.SystemActor
	entry := &model.JournalEntry{
		TransactionDate: txn.TransactionDate,
		Description:     txn.Description,
		Reference:       constants.ReferencePrefix + txn.ID,
		Status:          constants.JournalStatusPosted,
		CreatedBy:       actor,
		PostedAt:        &now,
		PostedBy:        &actor,
		Lines: []model.JournalEntryLine{
			{AccountID: meals.ID, Description: "Coffee", Debit: decimal.RequireFromString("42.5")},
			{AccountID: checking.ID, Description: "Coffee", Credit: decimal.RequireFromString("42.5")},
		},
	}

	err := s.ExecTx(ctx, func(repo Repository) error {
		if err := repo.CreateJournalEntry(ctx, entry); err != nil {
			return err
		}
		return repo.MarkBankTransactionPosted(ctx, txn.ID, entry.ID)
	})
	require.NoError(t, err)

	got, err := s.GetJournalEntry(ctx, entry.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 2)
	assert.True(t, got.Lines[0].Debit.Equal(decimal.RequireFromString("42.5")))
	assert.True(t, got.Lines[1].Credit.Equal(decimal.RequireFromString("42.5")))
	assert.Equal(t, constants.SystemActor, *got.PostedBy)

	posted, err := s.GetBankTransaction(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusPosted, posted.Status)
	assert.Equal(t, entry.ID, *posted.JournalEntryID)

	err = s.MarkBankTransactionPosted(ctx, txn.ID, entry.ID)
	assert.ErrorIs(t, err, ErrStateChanged)
}

func TestExecTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	checking := mustAccount(t, s, "Business Checking", constants.TypeAsset, "1000")

	boom := errors.New("boom")
	err := s.ExecTx(ctx, func(repo Repository) error {
		if err := repo.InsertBankTransaction(ctx, sampleTransaction(checking.ID)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	txns, err := s.ListBankTransactions(ctx, BankTransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestResetLedgerKeepsAccounts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	checking := mustAccount(t, s, "Business Checking", constants.TypeAsset, "1000")
	meals := mustAccount(t, s, "Meals", constants.TypeExpense, "6100")

	txn := sampleTransaction(checking.ID)
	require.NoError(t, s.InsertBankTransaction(ctx, txn))
	require.NoError(t, s.ApproveBankTransaction(ctx, txn.ID, Approval{AccountID: &meals.ID}))
	entry := &model.JournalEntry{
		TransactionDate: txn.TransactionDate,
		Status:          constants.JournalStatusPosted,
		CreatedBy:       constants.SystemActor,
		Lines: []model.JournalEntryLine{
			{AccountID: meals.ID, Debit: decimal.NewFromInt(1)},
			{AccountID: checking.ID, Credit: decimal.NewFromInt(1)},
		},
	}
	require.NoError(t, s.CreateJournalEntry(ctx, entry))
	require.NoError(t, s.MarkBankTransactionPosted(ctx, txn.ID, entry.ID))

	require.NoError(t, s.ExecTx(ctx, func(repo Repository) error {
		return repo.ResetLedger(ctx)
	}))

	txns, err := s.ListBankTransactions(ctx, BankTransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, txns)

	_, err = s.GetJournalEntry(ctx, entry.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	accounts, err := s.GetAllAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
}

func strPtr(s string) *string { return &s }

func TestUpsertAccount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	remote := &model.Account{ID: "remote-meals", Code: "6100", Name: "Client Meals", Type: constants.TypeExpense, IsActive: true}
	require.NoError(t, s.UpsertAccount(ctx, remote))

	renamed := &model.Account{ID: "remote-meals", Code: "6110", Name: "Meals & Entertainment", Type: constants.TypeExpense}
	require.NoError(t, s.UpsertAccount(ctx, renamed))

	got, err := s.GetAccountByID(ctx, "remote-meals")
	require.NoError(t, err)
	assert.Equal(t, "6110", got.Code)
	assert.Equal(t, "Meals & Entertainment", got.Name)
	assert.False(t, got.IsActive)

	all, err := s.GetAllAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	mustAccount(t, s, "Travel", constants.TypeExpense, "5070")
	err = s.UpsertAccount(ctx, &model.Account{ID: "remote-travel", Name: "Travel", Type: constants.TypeExpense})
	assert.ErrorIs(t, err, ErrAccountExists)

	err = s.UpsertAccount(ctx, &model.Account{Name: "No ID", Type: constants.TypeExpense})
	assert.Error(t, err)
}
