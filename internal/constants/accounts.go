package constants

const (
	MaxNameLen = 100
)

// Account types as stored in accounts.type.
const (
	TypeAsset     = "Asset"
	TypeLiability = "Liability"
	TypeEquity    = "Equity"
	TypeRevenue   = "Revenue"
	TypeExpense   = "Expense"
)

// Equity accounts used when a personal transaction is posted.
const (
	OwnersDrawName         = "Owner's Draw"
	OwnersDrawCode         = "3100"
	OwnersContributionName = "Owner's Contribution"
	OwnersContributionCode = "3200"
)

var AccountTypes = []string{TypeAsset, TypeLiability, TypeEquity, TypeRevenue, TypeExpense}
