package service

import (
	"context"
	"errors"
	"strings"

	"github.com/hance08/tally/internal/apperr"
	"github.com/hance08/tally/internal/catalog"
	"github.com/hance08/tally/internal/config"
	"github.com/hance08/tally/internal/constants"
	"github.com/hance08/tally/internal/logger"
	"github.com/hance08/tally/internal/model"
	"github.com/hance08/tally/internal/store"
	"github.com/hance08/tally/internal/utils"
	"github.com/hance08/tally/internal/validation"
)

type ReviewService struct {
	repo      store.Repository
	catalog   *catalog.Snapshot
	threshold int
	log       logger.Logger
}

// Overrides are reviewer edits applied on approval. Nil fields keep the
// suggestion.
type Overrides struct {
	AccountID  *string `json:"accountId"`
	Category   *string `json:"category"`
	Memo       *string `json:"memo"`
	IsPersonal *bool   `json:"isPersonal"`
}

func NewReviewService(repo store.Repository, snapshot *catalog.Snapshot, cfg config.ReviewConfig, log logger.Logger) *ReviewService {
	return &ReviewService{
		repo:      repo,
		catalog:   snapshot,
		threshold: cfg.AutoApproveThreshold,
		log:       log.WithComponent("review"),
	}
}

func (s *ReviewService) DefaultThreshold() int {
	return s.threshold
}

func (s *ReviewService) List(ctx context.Context, status string, limit int) ([]*model.BankTransaction, error) {
	if err := validation.ValidateStatus(status); err != nil {
		return nil, apperr.Validation("%v", err)
	}
	if limit < 0 {
		return nil, apperr.Validation("limit must not be negative")
	}

	txns, err := s.repo.ListBankTransactions(ctx, store.BankTransactionFilter{Status: status, Limit: limit})
	if err != nil {
		return nil, apperr.Persistence(err, "Failed to list transactions")
	}
	if txns == nil {
		txns = []*model.BankTransaction{}
	}
	return txns, nil
}

func (s *ReviewService) Get(ctx context.Context, id string) (*model.BankTransaction, error) {
	txn, err := s.repo.GetBankTransaction(ctx, id)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, apperr.NotFound("Transaction '%s' not found", id)
	}
	if err != nil {
		return nil, apperr.Persistence(err, "Failed to load transaction")
	}
	return txn, nil
}

// ResolveID expands a unique id prefix, as printed in CLI tables, to the
// full transaction id.
func (s *ReviewService) ResolveID(ctx context.Context, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", apperr.Validation("transaction ID is empty")
	}

	txns, err := s.repo.ListBankTransactions(ctx, store.BankTransactionFilter{})
	if err != nil {
		return "", apperr.Persistence(err, "Failed to list transactions")
	}

	var matches []string
	for _, txn := range txns {
		if txn.ID == prefix {
			return txn.ID, nil
		}
		if strings.HasPrefix(txn.ID, prefix) {
			matches = append(matches, txn.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", apperr.NotFound("Transaction '%s' not found", prefix)
	case 1:
		return matches[0], nil
	default:
		return "", apperr.Validation("transaction ID '%s' is ambiguous (%d matches)", prefix, len(matches))
	}
}

// Approve copies the suggestion into the approved fields, applying any
// overrides, and moves the transaction from Pending to Approved.
func (s *ReviewService) Approve(ctx context.Context, id string, o Overrides) (*model.BankTransaction, error) {
	if o.AccountID != nil && *o.AccountID != "" {
		if _, ok := s.catalog.ByID(*o.AccountID); !ok {
			return nil, apperr.Validation("Account '%s' not found", *o.AccountID)
		}
	}

	var approved *model.BankTransaction
	err := s.repo.ExecTx(ctx, func(tx store.Repository) error {
		txn, err := tx.GetBankTransaction(ctx, id)
		if err != nil {
			return err
		}
		if txn.Status != constants.StatusPending {
			return apperr.Validation("Transaction '%s' is %s, only Pending transactions can be reviewed", id, txn.Status)
		}
		if txn.Amount.IsZero() {
			return apperr.Validation("Transaction '%s' has a zero amount and cannot be posted", id)
		}

		if err := tx.ApproveBankTransaction(ctx, id, approvalFor(txn, o)); err != nil {
			return err
		}
		approved, err = tx.GetBankTransaction(ctx, id)
		return err
	})
	if err != nil {
		return nil, reviewError(id, err)
	}

	s.log.WithField("transactionId", id).Infof("transaction approved")
	return approved, nil
}

func (s *ReviewService) Reject(ctx context.Context, id string) error {
	err := s.repo.ExecTx(ctx, func(tx store.Repository) error {
		txn, err := tx.GetBankTransaction(ctx, id)
		if err != nil {
			return err
		}
		if txn.Status != constants.StatusPending {
			return apperr.Validation("Transaction '%s' is %s, only Pending transactions can be reviewed", id, txn.Status)
		}
		return tx.RejectBankTransaction(ctx, id)
	})
	if err != nil {
		return reviewError(id, err)
	}

	s.log.WithField("transactionId", id).Infof("transaction rejected")
	return nil
}

// ApproveConfident approves every Pending transaction whose confidence is
// at least threshold and which has somewhere to post to. It returns the
// approved ids.
func (s *ReviewService) ApproveConfident(ctx context.Context, threshold int) ([]string, error) {
	if err := validation.ValidateThreshold(threshold); err != nil {
		return nil, apperr.Validation("%v", err)
	}

	var ids []string
	err := s.repo.ExecTx(ctx, func(tx store.Repository) error {
		ids = nil
		pending, err := tx.ListBankTransactions(ctx, store.BankTransactionFilter{
			Status:        constants.StatusPending,
			MinConfidence: threshold,
		})
		if err != nil {
			return err
		}

		for _, txn := range pending {
			if txn.SuggestedAccountID == nil && !txn.IsPersonal {
				continue
			}
			if txn.Amount.IsZero() {
				continue
			}
			if err := tx.ApproveBankTransaction(ctx, txn.ID, approvalFor(txn, Overrides{})); err != nil {
				return err
			}
			ids = append(ids, txn.ID)
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Persistence(err, "Failed to approve transactions")
	}

	s.log.WithFields(logger.Fields{"threshold": threshold, "approved": len(ids)}).Infof("bulk approval committed")
	return ids, nil
}

func approvalFor(txn *model.BankTransaction, o Overrides) store.Approval {
	a := store.Approval{
		AccountID:  txn.SuggestedAccountID,
		Category:   utils.NilIfEmpty(txn.SuggestedCategory),
		Memo:       utils.NilIfEmpty(txn.SuggestedMemo),
		IsPersonal: txn.IsPersonal,
	}
	if o.AccountID != nil {
		a.AccountID = utils.NilIfEmpty(*o.AccountID)
	}
	if o.Category != nil {
		a.Category = utils.NilIfEmpty(*o.Category)
	}
	if o.Memo != nil {
		a.Memo = utils.NilIfEmpty(*o.Memo)
	}
	if o.IsPersonal != nil {
		a.IsPersonal = *o.IsPersonal
	}
	return a
}

func reviewError(id string, err error) error {
	switch {
	case errors.Is(err, store.ErrRecordNotFound):
		return apperr.NotFound("Transaction '%s' not found", id)
	case errors.Is(err, store.ErrStateChanged):
		return apperr.Wrap(err, apperr.KindValidation, "Transaction '"+id+"' is no longer Pending")
	case apperr.IsKind(err, apperr.KindValidation):
		return err
	default:
		return apperr.Persistence(err, "Failed to review transaction")
	}
}
