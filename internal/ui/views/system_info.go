package views

import (
	"fmt"

	"github.com/hance08/tally/internal/constants"
	"github.com/pterm/pterm"
)

type SystemInfoItem struct {
	ConfigPath       string
	DBPath           string
	DBExists         bool
	AppDataDir       string
	CatalogSource    string
	Accounts         int
	TrainingPath     string
	TrainingExamples int
	AIModel          string
	AIEnabled        bool
	StatusCounts     map[string]int
}

func RenderSystemInfo(data SystemInfoItem) error {
	dbStatus := pterm.Green("Found")
	if !data.DBExists {
		dbStatus = pterm.Red("Not Found (Will be created)")
	}

	ai := pterm.Green(data.AIModel)
	if !data.AIEnabled {
		ai = pterm.Yellow("disabled (no API key, fallback only)")
	}

	tableData := pterm.TableData{
		{"Configuration File", data.ConfigPath},
		{"Database Path", data.DBPath},
		{"Database Status", dbStatus},
		{"AppData Directory", data.AppDataDir},
		{"Chart of Accounts", fmt.Sprintf("%d accounts (%s)", data.Accounts, data.CatalogSource)},
		{"Training Data", fmt.Sprintf("%d examples (%s)", data.TrainingExamples, data.TrainingPath)},
		{"AI Suggestions", ai},
	}
	if err := pterm.DefaultTable.WithData(tableData).Render(); err != nil {
		return err
	}

	counts := pterm.TableData{{"Status", "Transactions"}}
	for _, status := range []string{constants.StatusPending, constants.StatusApproved, constants.StatusPosted, constants.StatusRejected} {
		counts = append(counts, []string{status, fmt.Sprint(data.StatusCounts[status])})
	}
	pterm.Println()
	return pterm.DefaultTable.WithHasHeader().WithData(counts).Render()
}
