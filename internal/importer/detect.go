package importer

import (
	"strings"

	"github.com/hance08/tally/internal/model"
)

const (
	FormatWellsFargo = "wells-fargo"
	FormatCapitalOne = "capital-one"
	FormatChase      = "chase"
	FormatQBSE       = "qbse"
	FormatUnknown    = "unknown"
)

// Dialect pairs a detection predicate with the parser for that layout.
type Dialect struct {
	Name   string
	Detect func(first []string, hasHeader bool) bool
	Parse  func(row []string) (model.NormalizedTransaction, error)
}

// dialects is evaluated in order; the first match wins.
var dialects = []*Dialect{
	{
		Name: FormatWellsFargo,
		Detect: func(first []string, hasHeader bool) bool {
			return !hasHeader && len(first) == 5
		},
		Parse: parseWellsFargo,
	},
	{
		Name:   FormatCapitalOne,
		Detect: headerContains("debit", "credit", "card no"),
		Parse:  parseCapitalOne,
	},
	{
		Name:   FormatChase,
		Detect: headerContains("type", "memo"),
		Parse:  parseChase,
	},
	{
		Name:   FormatQBSE,
		Detect: headerContains("date", "bank", "account", "income streams"),
		Parse:  parseQBSE,
	},
}

func headerContains(keywords ...string) func([]string, bool) bool {
	return func(first []string, hasHeader bool) bool {
		if !hasHeader {
			return false
		}
		joined := strings.ToLower(strings.Join(first, ","))
		for _, kw := range keywords {
			if !strings.Contains(joined, kw) {
				return false
			}
		}
		return true
	}
}

// DetectFormat returns the dialect name for the first record, or
// FormatUnknown.
func DetectFormat(first []string, hasHeader bool) string {
	if d, err := Detect(first, hasHeader); err == nil {
		return d.Name
	}
	return FormatUnknown
}

func Detect(first []string, hasHeader bool) (*Dialect, error) {
	for _, d := range dialects {
		if d.Detect(first, hasHeader) {
			return d, nil
		}
	}
	return nil, ErrUnknownFormat
}

// Lookup returns the dialect registered under name.
func Lookup(name string) (*Dialect, bool) {
	for _, d := range dialects {
		if d.Name == name {
			return d, true
		}
	}
	return nil, false
}

// Formats lists the supported dialect names in detection order.
func Formats() []string {
	names := make([]string, 0, len(dialects))
	for _, d := range dialects {
		names = append(names, d.Name)
	}
	return names
}
