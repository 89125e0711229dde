// Package categorize suggests a ledger account for imported bank
// transactions from a training corpus and an AI suggestion service.
package categorize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hance08/tally/internal/apperr"
	"github.com/hance08/tally/internal/constants"
	"github.com/hance08/tally/internal/logger"
	"github.com/hance08/tally/internal/model"
	"github.com/hance08/tally/internal/utils"
)

var ErrNoJSON = errors.New("no JSON object in suggestion reply")

// Suggester sends one system + user prompt pair to a language model and
// returns its free-text reply.
type Suggester interface {
	Suggest(ctx context.Context, system, prompt string) (string, error)
}

type Options struct {
	Timeout             time.Duration
	MaxExamples         int
	PrefixLen           int
	TrustQBSECategories bool
}

type Engine struct {
	suggester Suggester
	corpus    *Corpus
	opts      Options
	log       logger.Logger
}

type Request struct {
	Transaction model.NormalizedTransaction
	Accounts    []*model.Account
	Source      SourceContext
}

func NewEngine(suggester Suggester, corpus *Corpus, opts Options, log logger.Logger) *Engine {
	if opts.MaxExamples <= 0 {
		opts.MaxExamples = 5
	}
	if opts.PrefixLen <= 0 {
		opts.PrefixLen = 15
	}
	if log == nil {
		log = logger.NewDiscard()
	}
	return &Engine{
		suggester: suggester,
		corpus:    corpus,
		opts:      opts,
		log:       log.WithComponent("categorize"),
	}
}

func (e *Engine) CorpusSize() int {
	return e.corpus.Len()
}

// Categorize never fails: any problem talking to the suggester or reading
// its reply produces Fallback.
func (e *Engine) Categorize(ctx context.Context, req Request) model.Suggestion {
	txn := req.Transaction

	if s, ok := e.preCategorized(req); ok {
		return s
	}

	s, err := e.suggest(ctx, req)
	if err != nil {
		e.log.WithError(apperr.Wrap(err, apperr.KindCategorization, "categorization failed")).
			WithFields(logger.Fields{"description": txn.Description, "amount": txn.Amount.String()}).
			Warnf("using fallback categorization")
		return Fallback(txn.Description)
	}
	return s
}

// Fallback is the deterministic result used when no suggestion is available.
func Fallback(description string) model.Suggestion {
	return model.Suggestion{
		AccountName: nil,
		Category:    constants.UncategorizedCategory,
		Memo:        utils.Truncate(description, constants.MaxFallbackMemoLen),
		Confidence:  0,
	}
}

// preCategorized trusts a category already assigned in a QuickBooks
// Self-Employed export when it names an account exactly.
func (e *Engine) preCategorized(req Request) (model.Suggestion, bool) {
	txn := req.Transaction
	if !e.opts.TrustQBSECategories || txn.Category == "" {
		return model.Suggestion{}, false
	}
	for _, acc := range req.Accounts {
		if acc.Name != txn.Category {
			continue
		}
		memo := txn.Notes
		if memo == "" {
			memo = txn.Description
		}
		name := acc.Name
		return model.Suggestion{
			AccountName: &name,
			Category:    txn.Category,
			Memo:        memo,
			Confidence:  100,
		}, true
	}
	return model.Suggestion{}, false
}

func (e *Engine) suggest(ctx context.Context, req Request) (model.Suggestion, error) {
	if e.suggester == nil {
		return model.Suggestion{}, errors.New("no suggestion service configured")
	}

	prompt := BuildPrompt(PromptInput{
		Transaction: req.Transaction,
		Source:      req.Source,
		Examples:    e.corpus.Similar(req.Transaction.Description, e.opts.PrefixLen, e.opts.MaxExamples),
		Accounts:    req.Accounts,
	})

	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	reply, err := e.suggester.Suggest(ctx, SystemPrompt, prompt)
	if err != nil {
		return model.Suggestion{}, fmt.Errorf("suggestion request failed: %w", err)
	}

	return ParseReply(reply, req.Transaction.Description)
}

type reply struct {
	AccountName *string         `json:"accountName"`
	Category    string          `json:"category"`
	Memo        string          `json:"memo"`
	Confidence  json.RawMessage `json:"confidence"`
}

// ParseReply extracts the first JSON object from a free-text reply and
// normalizes it: blank fields are defaulted and confidence is clamped to
// 0..100.
func ParseReply(text, description string) (model.Suggestion, error) {
	obj, ok := ExtractJSONObject(text)
	if !ok {
		return model.Suggestion{}, ErrNoJSON
	}

	var r reply
	if err := json.Unmarshal([]byte(obj), &r); err != nil {
		return model.Suggestion{}, fmt.Errorf("malformed suggestion JSON: %w", err)
	}

	confidence, err := parseConfidence(r.Confidence)
	if err != nil {
		return model.Suggestion{}, err
	}

	s := model.Suggestion{
		Category:   strings.TrimSpace(r.Category),
		Memo:       strings.TrimSpace(r.Memo),
		Confidence: confidence,
	}
	if r.AccountName != nil && strings.TrimSpace(*r.AccountName) != "" {
		name := strings.TrimSpace(*r.AccountName)
		s.AccountName = &name
	}
	if s.Category == "" {
		s.Category = constants.UncategorizedCategory
	}
	if s.Memo == "" {
		s.Memo = utils.Truncate(description, constants.MaxFallbackMemoLen)
	}
	return s, nil
}

func parseConfidence(raw json.RawMessage) (int, error) {
	v := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if v == "" || v == "null" {
		return 0, nil
	}
	v = strings.TrimSuffix(v, "%")

	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) {
		return 0, fmt.Errorf("invalid confidence %s", string(raw))
	}
	return int(math.Round(math.Max(0, math.Min(100, f)))), nil
}

// ResolveAccountID maps a suggested account name onto the chart of
// accounts by exact name. No match yields nil.
func ResolveAccountID(name *string, accounts []*model.Account) *string {
	if name == nil {
		return nil
	}
	for _, acc := range accounts {
		if acc.Name == *name {
			id := acc.ID
			return &id
		}
	}
	return nil
}
