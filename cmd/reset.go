package cmd

import (
	"github.com/hance08/tally/internal/app"
	"github.com/hance08/tally/internal/ui"
	"github.com/hance08/tally/internal/ui/views"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type resetRunner struct {
	app *app.App
	yes bool
}

func NewResetCmd(lazy *app.Lazy) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "reset",
		Aliases: []string{"reset-db"},
		Short:   "Delete every bank transaction, journal entry and invoice",
		Long:    `Delete all imported and posted data in one database transaction. Accounts are kept.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := lazy.Get()
			if err != nil {
				return err
			}

			runner := &resetRunner{
				app: a,
				yes: yes,
			}
			return runner.Run(cmd)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func (r *resetRunner) Run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	ledger := r.app.Service.Ledger

	if !r.yes {
		counts, err := ledger.StatusCounts(ctx)
		if err != nil {
			return err
		}
		views.RenderResetPreview(counts)

		confirm, err := ui.ConfirmDestructive("Are you sure you want to reset the database?")
		if err != nil {
			return err
		}
		if !confirm {
			pterm.Info.Println("Reset cancelled")
			return nil
		}
	}

	if err := ledger.Reset(ctx); err != nil {
		return err
	}

	pterm.Success.Println("Database reset")
	return nil
}
