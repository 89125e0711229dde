package service

import (
	"context"
	"errors"
	"strings"

	"github.com/hance08/tally/internal/apperr"
	"github.com/hance08/tally/internal/catalog"
	"github.com/hance08/tally/internal/categorize"
	"github.com/hance08/tally/internal/config"
	"github.com/hance08/tally/internal/constants"
	"github.com/hance08/tally/internal/importer"
	"github.com/hance08/tally/internal/logger"
	"github.com/hance08/tally/internal/model"
	"github.com/hance08/tally/internal/store"
	"github.com/hance08/tally/internal/utils"
	"github.com/hance08/tally/internal/validation"
	"github.com/sourcegraph/conc/iter"
)

type ImportService struct {
	repo    store.Repository
	catalog *catalog.Snapshot
	engine  *categorize.Engine
	cfg     config.ImportConfig
	log     logger.Logger
}

type ImportRequest struct {
	Data            []byte
	SourceAccountID string
	SourceType      string
	SourceName      string
	Offset          int
}

type ImportResult struct {
	Count             int                      `json:"count"`
	Format            string                   `json:"format"`
	TrainingDataCount int                      `json:"trainingDataCount"`
	Transactions      []*model.BankTransaction `json:"transactions"`
	HasMore           bool                     `json:"hasMore"`
	NextOffset        int                      `json:"nextOffset,omitempty"`
}

func NewImportService(repo store.Repository, snapshot *catalog.Snapshot, engine *categorize.Engine,
	cfg config.ImportConfig, log logger.Logger) *ImportService {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &ImportService{
		repo:    repo,
		catalog: snapshot,
		engine:  engine,
		cfg:     cfg,
		log:     log.WithComponent("import"),
	}
}

// Import parses one window of the upload, categorizes it and stores the
// rows as Pending bank transactions in a single database transaction.
func (s *ImportService) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	if len(req.Data) == 0 {
		return nil, apperr.Validation("No file uploaded")
	}
	if err := validation.ValidateSourceType(req.SourceType); err != nil {
		return nil, apperr.Validation("%v", err)
	}
	if req.Offset < 0 {
		return nil, apperr.Validation("offset must not be negative")
	}

	var sourceAccountID *string
	if id := strings.TrimSpace(req.SourceAccountID); id != "" {
		if _, ok := s.catalog.ByID(id); !ok {
			return nil, apperr.Validation("Source account not found")
		}
		sourceAccountID = &id
	}

	doc, err := importer.Load(req.Data)
	if err != nil {
		return nil, loadError(err)
	}

	window := doc.Window(req.Offset, s.cfg.BatchSize)

	parsed := make([]model.NormalizedTransaction, 0, len(window.Rows))
	for _, row := range window.Rows {
		txn, err := doc.Parse(row)
		if err != nil {
			return nil, apperr.Validation("%v", err)
		}
		parsed = append(parsed, txn)
	}

	log := s.log.WithFields(logger.Fields{
		"format":     doc.Dialect.Name,
		"rows":       len(parsed),
		"offset":     req.Offset,
		"sourceName": req.SourceName,
	})
	log.Debugf("categorizing rows")

	accounts := s.catalog.Accounts()
	source := categorize.SourceContext{Type: req.SourceType, Name: req.SourceName}

	mapper := iter.Mapper[model.NormalizedTransaction, *model.BankTransaction]{
		MaxGoroutines: min(s.cfg.Concurrency, max(len(parsed), 1)),
	}
	transactions := mapper.Map(parsed, func(n *model.NormalizedTransaction) *model.BankTransaction {
		suggestion := s.engine.Categorize(ctx, categorize.Request{
			Transaction: *n,
			Accounts:    accounts,
			Source:      source,
		})
		return newBankTransaction(req, sourceAccountID, *n, suggestion, accounts)
	})

	err = s.repo.ExecTx(ctx, func(tx store.Repository) error {
		for _, txn := range transactions {
			if err := tx.InsertBankTransaction(ctx, txn); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.WithError(err).Errorf("import rolled back")
		return nil, apperr.Persistence(err, "Import failed")
	}

	log.Infof("imported %d transactions", len(transactions))

	if transactions == nil {
		transactions = []*model.BankTransaction{}
	}
	return &ImportResult{
		Count:             len(transactions),
		Format:            doc.Dialect.Name,
		TrainingDataCount: s.engine.CorpusSize(),
		Transactions:      transactions,
		HasMore:           window.HasMore,
		NextOffset:        window.NextOffset,
	}, nil
}

func loadError(err error) error {
	var fe *importer.FormatError
	switch {
	case errors.Is(err, importer.ErrEmptyFile):
		return apperr.Wrap(err, apperr.KindValidation, "Empty CSV file")
	case errors.Is(err, importer.ErrUnknownFormat):
		return apperr.Wrap(err, apperr.KindValidation, "Unsupported CSV format")
	case errors.As(err, &fe):
		return apperr.Validation("%v", fe)
	default:
		return apperr.Wrap(err, apperr.KindInternal, "Import failed")
	}
}

func newBankTransaction(req ImportRequest, sourceAccountID *string, n model.NormalizedTransaction,
	s model.Suggestion, accounts []*model.Account) *model.BankTransaction {
	return &model.BankTransaction{
		SourceType:         req.SourceType,
		SourceName:         req.SourceName,
		SourceAccountID:    sourceAccountID,
		TransactionDate:    n.TransactionDate,
		PostDate:           n.PostDate,
		Amount:             n.Amount,
		Description:        n.Description,
		Merchant:           utils.Truncate(n.Description, constants.MaxMerchantLen),
		OriginalCategory:   utils.NilIfEmpty(n.OriginalCategory),
		TransactionType:    utils.NilIfEmpty(n.TransactionType),
		CardNumber:         utils.NilIfEmpty(n.CardNumber),
		RawData:            n.RawLine,
		SuggestedAccountID: categorize.ResolveAccountID(s.AccountName, accounts),
		SuggestedCategory:  s.Category,
		SuggestedMemo:      s.Memo,
		ConfidenceScore:    s.Confidence,
		Status:             constants.StatusPending,
		IsPersonal:         n.IsPersonal,
	}
}
