package service

import (
	"sync"
	"testing"

	"github.com/hance08/tally/internal/apperr"
	"github.com/hance08/tally/internal/constants"
	"github.com/hance08/tally/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) entryFor(t *testing.T, txn *model.BankTransaction) *model.JournalEntry {
	t.Helper()
	got := f.reload(t, txn.ID)
	require.Equal(t, constants.StatusPosted, got.Status)
	require.NotNil(t, got.JournalEntryID)

	entry, err := f.svc.Ledger.JournalEntry(f.ctx, *got.JournalEntryID)
	require.NoError(t, err)
	return entry
}

func assertLine(t *testing.T, line model.JournalEntryLine, accountID, debit, credit string) {
	t.Helper()
	assert.Equal(t, accountID, line.AccountID)
	assert.True(t, decimal.RequireFromString(debit).Equal(line.Debit), "debit %s", line.Debit)
	assert.True(t, decimal.RequireFromString(credit).Equal(line.Credit), "credit %s", line.Credit)
}

func TestPostPersonalExpense(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	txn := f.insertTxn(t, "-42.50", constants.StatusApproved, true, nil)

	n, err := f.svc.Posting.Post(f.ctx, []string{txn.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	draw, err := f.repo.GetAccountByName(f.ctx, constants.OwnersDrawName)
	require.NoError(t, err)

	entry := f.entryFor(t, txn)
	assert.Equal(t, constants.JournalStatusPosted, entry.Status)
	assert.Equal(t, "Bank Txn "+txn.ID, entry.Reference)
	assert.Equal(t, constants.SystemActor, entry.CreatedBy)
	require.NotNil(t, entry.PostedBy)
	assert.Equal(t, constants.SystemActor, *entry.PostedBy)
	assert.NotNil(t, entry.PostedAt)
	assert.Equal(t, "2024-01-15", entry.TransactionDate.Format(constants.DateFormat))

	require.Len(t, entry.Lines, 2)
	assertLine(t, entry.Lines[0], draw.ID, "42.50", "0")
	assertLine(t, entry.Lines[1], f.checking.ID, "0", "42.50")
	assert.Equal(t, "Coffee with client", entry.Lines[0].Description)
}

func TestPostBusinessIncome(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	txn := f.insertTxn(t, "250.00", constants.StatusApproved, false, f.revenue)

	n, err := f.svc.Posting.Post(f.ctx, []string{txn.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	entry := f.entryFor(t, txn)
	require.Len(t, entry.Lines, 2)
	assertLine(t, entry.Lines[0], f.checking.ID, "250", "0")
	assertLine(t, entry.Lines[1], f.revenue.ID, "0", "250")
}

func TestPostUsesApprovedAccountAndMemo(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	txn := f.insertTxn(t, "-12.00", constants.StatusPending, false, f.revenue)

	meals, memo := f.meals.ID, "Lunch"
	_, err := f.svc.Review.Approve(f.ctx, txn.ID, Overrides{AccountID: &meals, Memo: &memo})
	require.NoError(t, err)

	_, err = f.svc.Posting.Post(f.ctx, []string{txn.ID})
	require.NoError(t, err)

	entry := f.entryFor(t, txn)
	assertLine(t, entry.Lines[0], f.meals.ID, "12", "0")
	assert.Equal(t, "Lunch", entry.Lines[1].Description)
}

func TestPostIsIdempotent(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	txn := f.insertTxn(t, "-42.50", constants.StatusApproved, false, f.meals)

	n, err := f.svc.Posting.Post(f.ctx, []string{txn.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	first := f.reload(t, txn.ID)

	n, err = f.svc.Posting.Post(f.ctx, []string{txn.ID, txn.ID})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, first.JournalEntryID, f.reload(t, txn.ID).JournalEntryID)
}

func TestConcurrentPostSameTransaction(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	txn := f.insertTxn(t, "-42.50", constants.StatusApproved, false, f.meals)

	const workers = 8
	counts := make([]int, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			counts[i], errs[i] = f.svc.Posting.Post(f.ctx, []string{txn.ID})
		}(i)
	}
	wg.Wait()

	total := 0
	for i := range counts {
		require.NoError(t, errs[i])
		total += counts[i]
	}
	assert.Equal(t, 1, total)

	entry := f.entryFor(t, txn)
	require.Len(t, entry.Lines, 2)
	assertLine(t, entry.Lines[0], f.meals.ID, "42.50", "0")
}

func TestPostWithSyncedRemoteAccounts(t *testing.T) {
	sug := &routeSuggester{routes: map[string]string{
		"STARBUCKS": `{"accountName": "Client Meals", "category": "Meals", "memo": "Coffee", "confidence": 90}`,
	}}
	f := newFixture(t, fixtureOptions{suggester: sug})

	_, err := f.svc.Account.SyncCatalog(f.ctx, []*model.Account{
		{ID: "remote-checking", Code: "1000", Name: "Operating Checking", Type: constants.TypeAsset, IsActive: true},
		{ID: "remote-meals", Code: "6100", Name: "Client Meals", Type: constants.TypeExpense, IsActive: true},
	})
	require.NoError(t, err)
	f.reloadCatalog(t)

	res, err := f.svc.Import.Import(f.ctx, ImportRequest{
		Data:            []byte(`"01/15/2024","-4.50","*","","STARBUCKS STORE 123"`),
		SourceAccountID: "remote-checking",
		SourceType:      constants.SourceBank,
	})
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	txn := res.Transactions[0]
	require.NotNil(t, txn.SuggestedAccountID)
	assert.Equal(t, "remote-meals", *txn.SuggestedAccountID)

	_, err = f.svc.Review.Approve(f.ctx, txn.ID, Overrides{})
	require.NoError(t, err)
	n, err := f.svc.Posting.Post(f.ctx, []string{txn.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	entry := f.entryFor(t, txn)
	require.Len(t, entry.Lines, 2)
	assertLine(t, entry.Lines[0], "remote-meals", "4.50", "0")
	assertLine(t, entry.Lines[1], "remote-checking", "0", "4.50")
}

func TestPostSkipsUnapprovedAndUnknown(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	pending := f.insertTxn(t, "-1.00", constants.StatusPending, false, f.meals)
	rejected := f.insertTxn(t, "-2.00", constants.StatusRejected, false, f.meals)
	approved := f.insertTxn(t, "-3.00", constants.StatusApproved, false, f.meals)

	n, err := f.svc.Posting.Post(f.ctx, []string{pending.ID, "missing", rejected.ID, approved.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, constants.StatusPending, f.reload(t, pending.ID).Status)
	assert.Equal(t, constants.StatusRejected, f.reload(t, rejected.ID).Status)
}

func TestPostRollsBackWholeBatch(t *testing.T) {
	tests := []struct {
		name   string
		opts   fixtureOptions
		second func(f *fixture, t *testing.T) *model.BankTransaction
		detail string
	}{
		{
			name: "missing equity accounts",
			opts: fixtureOptions{noEquity: true},
			second: func(f *fixture, t *testing.T) *model.BankTransaction {
				return f.insertTxn(t, "-5.00", constants.StatusApproved, true, nil)
			},
			detail: "Owner's Draw",
		},
		{
			name: "no resolved account",
			second: func(f *fixture, t *testing.T) *model.BankTransaction {
				return f.insertTxn(t, "-5.00", constants.StatusApproved, false, nil)
			},
			detail: "no approved or suggested account",
		},
		{
			name: "zero amount",
			second: func(f *fixture, t *testing.T) *model.BankTransaction {
				return f.insertTxn(t, "0", constants.StatusApproved, false, f.meals)
			},
			detail: "amount is zero",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.opts)
			good := f.insertTxn(t, "-42.50", constants.StatusApproved, false, f.meals)
			bad := tt.second(f, t)

			n, err := f.svc.Posting.Post(f.ctx, []string{good.ID, bad.ID})
			require.Error(t, err)
			assert.Zero(t, n)
			assert.True(t, apperr.IsKind(err, apperr.KindPostingRule), err.Error())
			assert.Contains(t, err.Error(), tt.detail)

			got := f.reload(t, good.ID)
			assert.Equal(t, constants.StatusApproved, got.Status)
			assert.Nil(t, got.JournalEntryID)
		})
	}
}

func TestPostRequiresIDs(t *testing.T) {
	f := newFixture(t, fixtureOptions{})

	_, err := f.svc.Posting.Post(f.ctx, nil)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Contains(t, err.Error(), "No transaction IDs provided")
}

func TestJournalEntryNotFound(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	_, err := f.svc.Ledger.JournalEntry(f.ctx, "missing")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
