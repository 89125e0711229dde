package account

import (
	"github.com/hance08/tally/internal/app"
	"github.com/hance08/tally/internal/ui/views"
	"github.com/spf13/cobra"
)

func NewSeedCmd(lazy *app.Lazy) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Install the default small-business chart of accounts",
		Long:  `Create the default accounts that do not exist yet. Existing accounts are left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := lazy.Get()
			if err != nil {
				return err
			}

			created, err := a.Service.Account.Seed(cmd.Context())
			if err != nil {
				return err
			}

			views.RenderSeedResult(created)
			return nil
		},
	}
}
