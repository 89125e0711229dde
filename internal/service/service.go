// Package service holds tally's use cases: CSV import, review, posting and
// ledger maintenance. Every multi-row write runs inside one store
// transaction.
package service

import (
	"github.com/hance08/tally/internal/catalog"
	"github.com/hance08/tally/internal/categorize"
	"github.com/hance08/tally/internal/config"
	"github.com/hance08/tally/internal/logger"
	"github.com/hance08/tally/internal/store"
)

type Service struct {
	Import  *ImportService
	Posting *PostingService
	Review  *ReviewService
	Account *AccountService
	Ledger  *LedgerService
}

type Deps struct {
	Repo    store.Repository
	Catalog *catalog.Snapshot
	Engine  *categorize.Engine
	Config  *config.Config
	Log     logger.Logger
}

func NewService(d Deps) *Service {
	if d.Config == nil {
		d.Config = config.NewDefault()
	}
	if d.Log == nil {
		d.Log = logger.NewDiscard()
	}
	if d.Catalog == nil {
		d.Catalog = catalog.NewSnapshot(nil)
	}

	return &Service{
		Import:  NewImportService(d.Repo, d.Catalog, d.Engine, d.Config.Import, d.Log),
		Posting: NewPostingService(d.Repo, d.Config.Ledger, d.Log),
		Review:  NewReviewService(d.Repo, d.Catalog, d.Config.Review, d.Log),
		Account: NewAccountService(d.Repo),
		Ledger:  NewLedgerService(d.Repo, d.Log),
	}
}
