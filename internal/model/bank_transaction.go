package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankTransaction is one imported statement row together with its
// categorization suggestion and review outcome.
type BankTransaction struct {
	ID               string          `json:"id"`
	SourceType       string          `json:"sourceType"`
	SourceName       string          `json:"sourceName"`
	SourceAccountID  *string         `json:"sourceAccountId"`
	TransactionDate  time.Time       `json:"transactionDate"`
	PostDate         *time.Time      `json:"postDate"`
	Amount           decimal.Decimal `json:"amount"`
	Description      string          `json:"description"`
	Merchant         string          `json:"merchant"`
	OriginalCategory *string         `json:"originalCategory"`
	TransactionType  *string         `json:"transactionType"`
	CardNumber       *string         `json:"cardNumber"`
	RawData          string          `json:"rawData"`

	SuggestedAccountID *string `json:"suggestedAccountId"`
	SuggestedCategory  string  `json:"suggestedCategory"`
	SuggestedMemo      string  `json:"suggestedMemo"`
	ConfidenceScore    int     `json:"confidenceScore"`

	Status            string  `json:"status"`
	ApprovedAccountID *string `json:"approvedAccountId"`
	ApprovedCategory  *string `json:"approvedCategory"`
	ApprovedMemo      *string `json:"approvedMemo"`
	IsPersonal        bool    `json:"isPersonal"`
	JournalEntryID    *string `json:"journalEntryId"`

	CreatedAt time.Time `json:"createdAt"`
}

// NormalizedTransaction is the dialect-independent form of one CSV row.
type NormalizedTransaction struct {
	TransactionDate  time.Time
	PostDate         *time.Time
	Amount           decimal.Decimal
	Description      string
	OriginalCategory string
	TransactionType  string
	CardNumber       string
	Category         string
	Notes            string
	IsPersonal       bool
	RawLine          string
}

// Suggestion is the outcome of categorizing one transaction.
type Suggestion struct {
	AccountName *string `json:"accountName"`
	Category    string  `json:"category"`
	Memo        string  `json:"memo"`
	Confidence  int     `json:"confidence"`
}

type TrainingExample struct {
	Description string
	Category    string
}
