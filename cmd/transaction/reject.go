package transaction

import (
	"github.com/hance08/tally/internal/app"
	"github.com/hance08/tally/internal/ui/views"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func NewRejectCmd(lazy *app.Lazy) *cobra.Command {
	return &cobra.Command{
		Use:   "reject <id>",
		Short: "Reject a pending transaction so it is never posted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := lazy.Get()
			if err != nil {
				return err
			}

			review := a.Service.Review
			id, err := review.ResolveID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := review.Reject(cmd.Context(), id); err != nil {
				return err
			}

			pterm.Success.Printf("Transaction %s rejected\n", views.ShortID(id))
			return nil
		},
	}
}
