package ui

import (
	"fmt"

	"github.com/hance08/tally/internal/constants"
	"github.com/pterm/pterm"
)

func PrintL1Title(format string, a ...interface{}) {
	style := pterm.NewStyle(pterm.BgCyan, pterm.FgBlack, pterm.Bold)
	style.Println(fmt.Sprintf(" %s   ", fmt.Sprintf(format, a...)))
}

func PrintL2Title(format string, a ...interface{}) {
	style := pterm.NewStyle(pterm.FgCyan, pterm.Bold)
	style.Println(fmt.Sprintf("# %s   ", fmt.Sprintf(format, a...)))
}

func Separator() {
	pterm.Println(pterm.Green("----------------------------------------"))
}

// ColorStatus paints a bank transaction status.
func ColorStatus(status string) string {
	switch status {
	case constants.StatusPending:
		return pterm.Yellow(status)
	case constants.StatusApproved:
		return pterm.Cyan(status)
	case constants.StatusPosted:
		return pterm.Green(status)
	case constants.StatusRejected:
		return pterm.Gray(status)
	default:
		return status
	}
}

// ColorByAccountType paints s green for assets and revenue, red for
// liabilities and expenses, gray for equity.
func ColorByAccountType(accType, s string) string {
	switch accType {
	case constants.TypeAsset, constants.TypeRevenue:
		return pterm.Green(s)
	case constants.TypeLiability, constants.TypeExpense:
		return pterm.Red(s)
	case constants.TypeEquity:
		return pterm.Gray(s)
	default:
		return s
	}
}

func ColorConfidence(score int) string {
	s := fmt.Sprintf("%d%%", score)
	switch {
	case score >= 80:
		return pterm.Green(s)
	case score >= 50:
		return pterm.Yellow(s)
	default:
		return pterm.Red(s)
	}
}
