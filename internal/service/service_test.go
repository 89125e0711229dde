package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hance08/tally/internal/catalog"
	"github.com/hance08/tally/internal/categorize"
	"github.com/hance08/tally/internal/config"
	"github.com/hance08/tally/internal/constants"
	"github.com/hance08/tally/internal/logger"
	"github.com/hance08/tally/internal/model"
	"github.com/hance08/tally/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// routeSuggester answers with the reply whose key occurs in the prompt and
// fails otherwise.
type routeSuggester struct {
	mu     sync.Mutex
	routes map[string]string
	calls  int
}

func (r *routeSuggester) Suggest(ctx context.Context, system, prompt string) (string, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()

	for key, reply := range r.routes {
		if strings.Contains(prompt, key) {
			return reply, nil
		}
	}
	return "", errors.New("service unavailable")
}

type fixture struct {
	ctx      context.Context
	repo     *store.Store
	svc      *Service
	checking *model.Account
	meals    *model.Account
	revenue  *model.Account
	engine   *categorize.Engine
	cfg      *config.Config
}

type fixtureOptions struct {
	suggester categorize.Suggester
	noEquity  bool
	config    func(*config.Config)
}

func newFixture(t *testing.T, opts fixtureOptions) *fixture {
	t.Helper()
	ctx := context.Background()

	repo, err := store.NewStore(filepath.Join(t.TempDir(), "tally.db"), os.DirFS("../.."), store.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	f := &fixture{ctx: ctx, repo: repo}
	f.checking = createAccount(t, repo, "Business Checking", constants.TypeAsset, "1010")
	f.meals = createAccount(t, repo, "Meals", constants.TypeExpense, "5060")
	f.revenue = createAccount(t, repo, "Service Revenue", constants.TypeRevenue, "4010")
	if !opts.noEquity {
		createAccount(t, repo, constants.OwnersDrawName, constants.TypeEquity, constants.OwnersDrawCode)
		createAccount(t, repo, constants.OwnersContributionName, constants.TypeEquity, constants.OwnersContributionCode)
	}

	snapshot, err := catalog.Load(ctx, catalog.NewStoreSource(repo))
	require.NoError(t, err)

	cfg := config.NewDefault()
	if opts.config != nil {
		opts.config(cfg)
	}

	corpus := categorize.NewCorpus([]model.TrainingExample{
		{Description: "STARBUCKS STORE 999", Category: "Meals"},
	})
	engine := categorize.NewEngine(opts.suggester, corpus, categorize.Options{
		Timeout:             time.Second,
		TrustQBSECategories: cfg.Import.TrustQBSECategories,
	}, logger.NewDiscard())

	f.engine = engine
	f.cfg = cfg
	f.svc = NewService(Deps{
		Repo:    repo,
		Catalog: snapshot,
		Engine:  engine,
		Config:  cfg,
		Log:     logger.NewDiscard(),
	})
	return f
}

// reloadCatalog rebuilds the services over a fresh snapshot of the accounts
// table.
func (f *fixture) reloadCatalog(t *testing.T) {
	t.Helper()
	snapshot, err := catalog.Load(f.ctx, catalog.NewStoreSource(f.repo))
	require.NoError(t, err)

	f.svc = NewService(Deps{
		Repo:    f.repo,
		Catalog: snapshot,
		Engine:  f.engine,
		Config:  f.cfg,
		Log:     logger.NewDiscard(),
	})
}

func createAccount(t *testing.T, repo store.AccountRepository, name, accType, code string) *model.Account {
	t.Helper()
	acc := &model.Account{Code: code, Name: name, Type: accType, IsActive: true}
	require.NoError(t, repo.CreateAccount(context.Background(), acc))
	return acc
}

// insertTxn stores a transaction in the given status with the checking
// account as its source.
func (f *fixture) insertTxn(t *testing.T, amount string, status string, personal bool, suggested *model.Account) *model.BankTransaction {
	t.Helper()

	sourceID := f.checking.ID
	txn := &model.BankTransaction{
		SourceType:        constants.SourceBank,
		SourceName:        "Wells Fargo",
		SourceAccountID:   &sourceID,
		TransactionDate:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Amount:            decimal.RequireFromString(amount),
		Description:       "STARBUCKS STORE 123",
		Merchant:          "STARBUCKS STORE 123",
		SuggestedCategory: "Meals",
		SuggestedMemo:     "Coffee with client",
		ConfidenceScore:   85,
		Status:            status,
		IsPersonal:        personal,
	}
	if suggested != nil {
		id := suggested.ID
		txn.SuggestedAccountID = &id
	}
	require.NoError(t, f.repo.InsertBankTransaction(f.ctx, txn))
	return txn
}

func (f *fixture) reload(t *testing.T, id string) *model.BankTransaction {
	t.Helper()
	txn, err := f.repo.GetBankTransaction(f.ctx, id)
	require.NoError(t, err)
	return txn
}
