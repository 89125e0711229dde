package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hance08/tally/internal/apperr"
	"github.com/hance08/tally/internal/config"
	"github.com/hance08/tally/internal/constants"
	"github.com/hance08/tally/internal/logger"
	"github.com/hance08/tally/internal/logic/accounting"
	"github.com/hance08/tally/internal/model"
	"github.com/hance08/tally/internal/store"
	"github.com/hance08/tally/internal/validation"
)

const postFailedMsg = "Failed to post transactions"

type PostingService struct {
	repo  store.Repository
	actor string
	log   logger.Logger
	now   func() time.Time
}

func NewPostingService(repo store.Repository, cfg config.LedgerConfig, log logger.Logger) *PostingService {
	actor := cfg.SystemActor
	if actor == "" {
		actor = constants.SystemActor
	}
	return &PostingService{
		repo:  repo,
		actor: actor,
		log:   log.WithComponent("posting"),
		now:   time.Now,
	}
}

// Post turns every Approved, unposted transaction in ids into a balanced
// journal entry. Other ids are skipped. The whole batch commits or none of
// it does; the returned count is the number of transactions posted.
func (s *PostingService) Post(ctx context.Context, ids []string) (int, error) {
	if err := validation.ValidateTransactionIDs(ids); err != nil {
		return 0, apperr.Validation("%v", err)
	}

	count := 0
	err := s.repo.ExecTx(ctx, func(tx store.Repository) error {
		count = 0
		var equity *accounting.EquityAccounts

		for _, id := range ids {
			txn, err := tx.GetPostableBankTransaction(ctx, id)
			if errors.Is(err, store.ErrRecordNotFound) {
				s.log.WithField("transactionId", id).Debugf("skipping transaction that is not approved or already posted")
				continue
			}
			if err != nil {
				return err
			}

			if txn.IsPersonal && equity == nil {
				if equity, err = loadEquityAccounts(ctx, tx); err != nil {
					return err
				}
			}

			if err := s.postOne(ctx, tx, txn, equity); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		s.log.WithError(err).WithField("requested", len(ids)).Errorf("posting batch rolled back")
		return 0, postingError(err)
	}

	s.log.WithFields(logger.Fields{"requested": len(ids), "posted": count}).Infof("posting batch committed")
	return count, nil
}

func (s *PostingService) postOne(ctx context.Context, tx store.Repository, txn *model.BankTransaction,
	equity *accounting.EquityAccounts) error {
	sides, err := accounting.DetermineSides(txn, equity)
	if err != nil {
		return err
	}

	lines := accounting.BuildLines(txn, sides)
	if err := accounting.ValidateLines(lines); err != nil {
		return &accounting.RuleError{TransactionID: txn.ID, Reason: err.Error()}
	}

	now := s.now()
	actor := s.actor
	entry := &model.JournalEntry{
		TransactionDate: txn.TransactionDate,
		Description:     txn.Description,
		Reference:       constants.ReferencePrefix + txn.ID,
		Status:          constants.JournalStatusPosted,
		CreatedBy:       actor,
		CreatedAt:       now,
		PostedAt:        &now,
		PostedBy:        &actor,
		Lines:           lines,
	}
	if err := tx.CreateJournalEntry(ctx, entry); err != nil {
		if errors.Is(err, store.ErrConstraintViolation) {
			return &accounting.RuleError{TransactionID: txn.ID, Reason: fmt.Sprintf("account does not exist: %v", err)}
		}
		return err
	}

	return tx.MarkBankTransactionPosted(ctx, txn.ID, entry.ID)
}

// loadEquityAccounts finds Owner's Draw and Owner's Contribution; both must
// exist before any personal transaction can be posted.
func loadEquityAccounts(ctx context.Context, repo store.AccountRepository) (*accounting.EquityAccounts, error) {
	draw, err := repo.GetAccountByTypeAndName(ctx, constants.TypeEquity, constants.OwnersDrawName)
	if err != nil {
		return nil, equityLookupError(constants.OwnersDrawName, err)
	}
	contrib, err := repo.GetAccountByTypeAndName(ctx, constants.TypeEquity, constants.OwnersContributionName)
	if err != nil {
		return nil, equityLookupError(constants.OwnersContributionName, err)
	}
	return &accounting.EquityAccounts{DrawID: draw.ID, ContributionID: contrib.ID}, nil
}

func equityLookupError(name string, err error) error {
	if errors.Is(err, store.ErrRecordNotFound) {
		return apperr.PostingRule("Equity account '%s' not found", name)
	}
	return err
}

func postingError(err error) error {
	var re *accounting.RuleError
	switch {
	case errors.As(err, &re):
		return apperr.Wrap(err, apperr.KindPostingRule, postFailedMsg)
	case apperr.IsKind(err, apperr.KindPostingRule):
		return apperr.Wrap(err, apperr.KindPostingRule, postFailedMsg)
	default:
		return apperr.Persistence(err, postFailedMsg)
	}
}
