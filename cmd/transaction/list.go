package transaction

import (
	"github.com/hance08/tally/internal/app"
	"github.com/hance08/tally/internal/ui/views"
	"github.com/spf13/cobra"
)

type listRunner struct {
	app    *app.App
	status string
	limit  int
}

func NewListCmd(lazy *app.Lazy) *cobra.Command {
	var (
		status string
		limit  int
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List bank transactions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := lazy.Get()
			if err != nil {
				return err
			}

			runner := &listRunner{
				app:    a,
				status: normalizeStatus(status),
				limit:  limit,
			}
			return runner.Run(cmd)
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "filter by status: Pending, Approved, Posted or Rejected")
	cmd.Flags().IntVarP(&limit, "limit", "l", 50, "maximum number of rows (0 for all)")

	return cmd
}

func (r *listRunner) Run(cmd *cobra.Command) error {
	txns, err := r.app.Service.Review.List(cmd.Context(), r.status, r.limit)
	if err != nil {
		return err
	}

	title := "Bank transactions"
	if r.status != "" {
		title = r.status + " transactions"
	}
	return views.NewTransactionListView(r.app.Catalog.NameOf).Render(txns, title)
}
