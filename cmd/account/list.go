package account

import (
	"github.com/hance08/tally/internal/app"
	"github.com/hance08/tally/internal/service"
	"github.com/hance08/tally/internal/ui/views"
	"github.com/spf13/cobra"
)

type listRunner struct {
	svc *service.Service
}

func NewListCmd(lazy *app.Lazy) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := lazy.Get()
			if err != nil {
				return err
			}

			runner := &listRunner{
				svc: a.Service,
			}
			return runner.Run(cmd)
		},
	}
}

func (r *listRunner) Run(cmd *cobra.Command) error {
	accounts, err := r.svc.Account.List(cmd.Context())
	if err != nil {
		return err
	}

	return views.NewAccountListView().Render(accounts)
}
