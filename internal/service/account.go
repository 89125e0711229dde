package service

import (
	"context"
	"errors"
	"strings"

	"github.com/hance08/tally/internal/apperr"
	"github.com/hance08/tally/internal/constants"
	"github.com/hance08/tally/internal/model"
	"github.com/hance08/tally/internal/store"
	"github.com/hance08/tally/internal/validation"
)

type AccountService struct {
	repo store.Repository
}

func NewAccountService(repo store.Repository) *AccountService {
	return &AccountService{repo: repo}
}

// DefaultChart is the small-business chart of accounts installed by
// `account seed`, including the owner's equity accounts.
func DefaultChart() []model.Account {
	return []model.Account{
		{Code: "1010", Name: "Business Checking", Type: constants.TypeAsset},
		{Code: "1020", Name: "Business Savings", Type: constants.TypeAsset},
		{Code: "2010", Name: "Credit Card", Type: constants.TypeLiability},
		{Code: constants.OwnersDrawCode, Name: constants.OwnersDrawName, Type: constants.TypeEquity},
		{Code: constants.OwnersContributionCode, Name: constants.OwnersContributionName, Type: constants.TypeEquity},
		{Code: "4010", Name: "Service Revenue", Type: constants.TypeRevenue},
		{Code: "4020", Name: "Product Revenue", Type: constants.TypeRevenue},
		{Code: "5010", Name: "Advertising & Marketing", Type: constants.TypeExpense},
		{Code: "5020", Name: "Software & SaaS", Type: constants.TypeExpense},
		{Code: "5030", Name: "Office Supplies", Type: constants.TypeExpense},
		{Code: "5040", Name: "Professional Services", Type: constants.TypeExpense},
		{Code: "5050", Name: "Shipping & Postage", Type: constants.TypeExpense},
		{Code: "5060", Name: "Meals", Type: constants.TypeExpense},
		{Code: "5070", Name: "Travel", Type: constants.TypeExpense},
	}
}

func (as *AccountService) List(ctx context.Context) ([]*model.Account, error) {
	accounts, err := as.repo.GetAllAccounts(ctx)
	if err != nil {
		return nil, apperr.Persistence(err, "Failed to list accounts")
	}
	return accounts, nil
}

func (as *AccountService) Create(ctx context.Context, name, accType, code string) (*model.Account, error) {
	name = strings.TrimSpace(name)
	code = strings.TrimSpace(code)
	if err := validation.ValidateAccountName(name); err != nil {
		return nil, apperr.Validation("%v", err)
	}
	canonical, err := validation.ValidateAccountType(accType)
	if err != nil {
		return nil, apperr.Validation("%v", err)
	}
	if err := validation.ValidateAccountCode(code); err != nil {
		return nil, apperr.Validation("%v", err)
	}

	acc := &model.Account{Code: code, Name: name, Type: canonical, IsActive: true}
	if err := as.repo.CreateAccount(ctx, acc); err != nil {
		if errors.Is(err, store.ErrAccountExists) {
			return nil, apperr.Wrap(err, apperr.KindValidation, "Account '"+name+"' already exists")
		}
		return nil, apperr.Persistence(err, "Failed to create account")
	}
	return acc, nil
}

// EnsureEquityAccounts creates Owner's Draw and Owner's Contribution when
// they are missing and returns the names it created.
func (as *AccountService) EnsureEquityAccounts(ctx context.Context) ([]string, error) {
	required := []model.Account{
		{Code: constants.OwnersDrawCode, Name: constants.OwnersDrawName, Type: constants.TypeEquity},
		{Code: constants.OwnersContributionCode, Name: constants.OwnersContributionName, Type: constants.TypeEquity},
	}
	return as.ensure(ctx, required)
}

// Seed installs DefaultChart, skipping accounts that already exist by name.
func (as *AccountService) Seed(ctx context.Context) ([]string, error) {
	return as.ensure(ctx, DefaultChart())
}

// SyncCatalog mirrors a remote chart of accounts into the local accounts
// table under the remote ids, so journal lines can reference them. Remote
// accounts with an unknown type, or whose name already belongs to a local
// account with a different id, are skipped and returned.
func (as *AccountService) SyncCatalog(ctx context.Context, remote []*model.Account) ([]string, error) {
	var skipped []string
	err := as.repo.ExecTx(ctx, func(tx store.Repository) error {
		skipped = nil
		for _, r := range remote {
			accType, err := validation.ValidateAccountType(r.Type)
			if err != nil || r.ID == "" {
				skipped = append(skipped, r.Name)
				continue
			}

			local, err := tx.GetAccountByName(ctx, r.Name)
			switch {
			case err == nil && local.ID != r.ID:
				skipped = append(skipped, r.Name)
				continue
			case err != nil && !errors.Is(err, store.ErrRecordNotFound):
				return err
			}

			acc := *r
			acc.Type = accType
			if err := tx.UpsertAccount(ctx, &acc); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Persistence(err, "Failed to sync chart of accounts")
	}
	return skipped, nil
}

func (as *AccountService) ensure(ctx context.Context, accounts []model.Account) ([]string, error) {
	var created []string
	err := as.repo.ExecTx(ctx, func(tx store.Repository) error {
		created = nil
		for _, acc := range accounts {
			_, err := tx.GetAccountByName(ctx, acc.Name)
			if err == nil {
				continue
			}
			if !errors.Is(err, store.ErrRecordNotFound) {
				return err
			}

			acc.IsActive = true
			if err := tx.CreateAccount(ctx, &acc); err != nil {
				return err
			}
			created = append(created, acc.Name)
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Persistence(err, "Failed to create system accounts")
	}
	return created, nil
}
