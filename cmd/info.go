package cmd

import (
	"os"

	"github.com/hance08/tally/internal/app"
	"github.com/hance08/tally/internal/ui/views"
	"github.com/spf13/cobra"
)

type infoRunner struct {
	app *app.App
}

func NewInfoCmd(lazy *app.Lazy) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Display application information",
		Long:  `Display current configuration, database path, chart of accounts and import status.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := lazy.Get()
			if err != nil {
				return err
			}

			runner := &infoRunner{
				app: a,
			}
			return runner.Run(cmd)
		},
	}
}

func (r *infoRunner) Run(cmd *cobra.Command) error {
	cfg := r.app.Config

	configPath := cfg.ConfigPath
	if configPath == "" {
		configPath = "(None, using defaults)"
	}

	dbExists := false
	if _, err := os.Stat(r.app.DBPath); err == nil {
		dbExists = true
	}

	counts, err := r.app.Service.Ledger.StatusCounts(cmd.Context())
	if err != nil {
		return err
	}

	items := views.SystemInfoItem{
		ConfigPath:       configPath,
		DBPath:           r.app.DBPath,
		DBExists:         dbExists,
		AppDataDir:       appDataDirOrUnknown(),
		CatalogSource:    cfg.Catalog.Source,
		Accounts:         r.app.Catalog.Len(),
		TrainingPath:     cfg.Training.Path,
		TrainingExamples: r.app.Engine.CorpusSize(),
		AIModel:          cfg.AI.Model,
		AIEnabled:        cfg.AI.APIKey != "",
		StatusCounts:     counts,
	}

	return views.RenderSystemInfo(items)
}

func appDataDirOrUnknown() string {
	dir, err := app.AppDataDir()
	if err != nil {
		return "Unknown"
	}
	return dir
}
