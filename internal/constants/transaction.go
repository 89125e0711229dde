package constants

// Bank transaction lifecycle.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
	StatusPosted   = "Posted"
)

const (
	SourceBank       = "Bank"
	SourceCreditCard = "CreditCard"
)

const (
	// SystemActor is recorded as created_by/posted_by on generated journal entries.
	SystemActor = "System Import"

	JournalStatusPosted = "Posted"

	ReferencePrefix = "Bank Txn "

	UncategorizedCategory = "Uncategorized"
)

const (
	MaxMerchantLen     = 200
	MaxFallbackMemoLen = 100
	AmountScale        = 4
)

// Date Layout
const DateFormat = "2006-01-02"
