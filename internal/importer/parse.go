package importer

import (
	"strings"
	"time"

	"github.com/hance08/tally/internal/constants"
	"github.com/hance08/tally/internal/model"
	"github.com/shopspring/decimal"
)

// Accepted transaction date layouts, tried in order.
var dateLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	"2006-01-02",
	"01/02/06",
	"1/2/06",
}

const (
	wfColDate   = 0
	wfColAmount = 1
	wfColDesc   = 4

	chaseColDate     = 0
	chaseColPostDate = 1
	chaseColDesc     = 2
	chaseColCategory = 3
	chaseColType     = 4
	chaseColAmount   = 5

	c1ColDate     = 0
	c1ColPostDate = 1
	c1ColCardNo   = 2
	c1ColDesc     = 3
	c1ColCategory = 4
	c1ColDebit    = 5
	c1ColCredit   = 6

	qbseColDate     = 0
	qbseColDesc     = 3
	qbseColAmount   = 4
	qbseColType     = 5
	qbseColCategory = 6
	qbseColNotes    = 8
)

const qbsePersonal = "Personal"

func parseWellsFargo(row []string) (model.NormalizedTransaction, error) {
	if err := requireColumns(row, wfColDesc); err != nil {
		return model.NormalizedTransaction{}, err
	}

	date, err := parseDate(row, wfColDate)
	if err != nil {
		return model.NormalizedTransaction{}, err
	}
	amount, err := parseAmount(row, wfColAmount)
	if err != nil {
		return model.NormalizedTransaction{}, err
	}

	return model.NormalizedTransaction{
		TransactionDate: date,
		Amount:          amount,
		Description:     strings.TrimSpace(row[wfColDesc]),
		RawLine:         rawLine(row),
	}, nil
}

func parseChase(row []string) (model.NormalizedTransaction, error) {
	if err := requireColumns(row, chaseColAmount); err != nil {
		return model.NormalizedTransaction{}, err
	}

	date, err := parseDate(row, chaseColDate)
	if err != nil {
		return model.NormalizedTransaction{}, err
	}
	postDate, err := parseOptionalDate(row, chaseColPostDate)
	if err != nil {
		return model.NormalizedTransaction{}, err
	}
	amount, err := parseAmount(row, chaseColAmount)
	if err != nil {
		return model.NormalizedTransaction{}, err
	}

	return model.NormalizedTransaction{
		TransactionDate:  date,
		PostDate:         postDate,
		Amount:           amount,
		Description:      strings.TrimSpace(row[chaseColDesc]),
		OriginalCategory: strings.TrimSpace(row[chaseColCategory]),
		TransactionType:  strings.TrimSpace(row[chaseColType]),
		RawLine:          rawLine(row),
	}, nil
}

// parseCapitalOne reads the split Debit/Credit columns: a positive credit
// wins, otherwise the debit is negated. Blank cells count as zero.
func parseCapitalOne(row []string) (model.NormalizedTransaction, error) {
	if err := requireColumns(row, c1ColDebit); err != nil {
		return model.NormalizedTransaction{}, err
	}

	date, err := parseDate(row, c1ColDate)
	if err != nil {
		return model.NormalizedTransaction{}, err
	}
	postDate, err := parseOptionalDate(row, c1ColPostDate)
	if err != nil {
		return model.NormalizedTransaction{}, err
	}
	debit, err := parseOptionalAmount(row, c1ColDebit)
	if err != nil {
		return model.NormalizedTransaction{}, err
	}
	credit, err := parseOptionalAmount(row, c1ColCredit)
	if err != nil {
		return model.NormalizedTransaction{}, err
	}

	amount := debit.Neg()
	if credit.IsPositive() {
		amount = credit
	}

	return model.NormalizedTransaction{
		TransactionDate:  date,
		PostDate:         postDate,
		Amount:           amount,
		Description:      strings.TrimSpace(row[c1ColDesc]),
		CardNumber:       strings.TrimSpace(row[c1ColCardNo]),
		OriginalCategory: strings.TrimSpace(row[c1ColCategory]),
		RawLine:          rawLine(row),
	}, nil
}

func parseQBSE(row []string) (model.NormalizedTransaction, error) {
	if err := requireColumns(row, qbseColType); err != nil {
		return model.NormalizedTransaction{}, err
	}

	date, err := parseDate(row, qbseColDate)
	if err != nil {
		return model.NormalizedTransaction{}, err
	}
	amount, err := parseAmount(row, qbseColAmount)
	if err != nil {
		return model.NormalizedTransaction{}, err
	}

	return model.NormalizedTransaction{
		TransactionDate: date,
		Amount:          amount,
		Description:     strings.TrimSpace(row[qbseColDesc]),
		IsPersonal:      strings.TrimSpace(row[qbseColType]) == qbsePersonal,
		Category:        cell(row, qbseColCategory),
		Notes:           cell(row, qbseColNotes),
		RawLine:         rawLine(row),
	}, nil
}

func requireColumns(row []string, lastCol int) error {
	if len(row) <= lastCol {
		return &FormatError{
			Column: lastCol,
			Reason: "row has too few columns",
		}
	}
	return nil
}

// cell returns the trimmed value at col, or "" for short rows.
func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func rawLine(row []string) string {
	return strings.Join(row, ",")
}

func parseDate(row []string, col int) (time.Time, error) {
	value := cell(row, col)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &FormatError{Column: col, Value: value, Reason: "invalid date"}
}

func parseOptionalDate(row []string, col int) (*time.Time, error) {
	if cell(row, col) == "" {
		return nil, nil
	}
	t, err := parseDate(row, col)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseAmount accepts plain decimals plus a leading currency sign,
// thousands separators and accounting-style parentheses. The result is
// rounded to the stored amount scale.
func ParseAmount(value string) (decimal.Decimal, error) {
	s := strings.TrimSpace(value)
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}
	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = s[1:]
	}
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")

	d, err := decimal.NewFromString(s)
	if err != nil || s == "" {
		return decimal.Zero, &FormatError{Value: value, Reason: "invalid amount"}
	}
	if negative {
		d = d.Neg()
	}
	return d.Round(constants.AmountScale), nil
}

func parseAmount(row []string, col int) (decimal.Decimal, error) {
	value := cell(row, col)
	d, err := ParseAmount(value)
	if err != nil {
		return decimal.Zero, &FormatError{Column: col, Value: value, Reason: "invalid amount"}
	}
	return d, nil
}

func parseOptionalAmount(row []string, col int) (decimal.Decimal, error) {
	if cell(row, col) == "" {
		return decimal.Zero, nil
	}
	return parseAmount(row, col)
}
