package transaction

import (
	"github.com/hance08/tally/internal/app"
	"github.com/hance08/tally/internal/ui/views"
	"github.com/spf13/cobra"
)

type showRunner struct {
	app *app.App
}

func NewShowCmd(lazy *app.Lazy) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one bank transaction and its journal entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := lazy.Get()
			if err != nil {
				return err
			}

			runner := &showRunner{
				app: a,
			}
			return runner.Run(cmd, args[0])
		},
	}
}

func (r *showRunner) Run(cmd *cobra.Command, arg string) error {
	ctx := cmd.Context()

	id, err := r.app.Service.Review.ResolveID(ctx, arg)
	if err != nil {
		return err
	}
	txn, err := r.app.Service.Review.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := views.RenderTransactionDetail(txn, r.app.Catalog.NameOf); err != nil {
		return err
	}

	if txn.JournalEntryID == nil {
		return nil
	}
	entry, err := r.app.Service.Ledger.JournalEntry(ctx, *txn.JournalEntryID)
	if err != nil {
		return err
	}
	return views.RenderJournalEntry(entry, r.app.Catalog.NameOf)
}
