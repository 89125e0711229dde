package transaction

import (
	"fmt"

	"github.com/hance08/tally/internal/app"
	"github.com/hance08/tally/internal/service"
	"github.com/hance08/tally/internal/ui/views"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type approveRunner struct {
	app      *app.App
	account  string
	category string
	memo     string
	personal bool
}

func NewApproveCmd(lazy *app.Lazy) *cobra.Command {
	runner := &approveRunner{}

	cmd := &cobra.Command{
		Use:   "approve <id>",
		Short: "Approve a pending transaction, optionally overriding the suggestion",
		Long: `Approve a Pending transaction. Without flags the suggestion is accepted
as is.

Example: tally transaction approve 3f9a2c1b --account Travel --memo "Flight to client"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := lazy.Get()
			if err != nil {
				return err
			}

			runner.app = a
			return runner.Run(cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&runner.account, "account", "a", "", "post to this account (name or id)")
	cmd.Flags().StringVar(&runner.category, "category", "", "category label (defaults to the account name)")
	cmd.Flags().StringVarP(&runner.memo, "memo", "m", "", "journal line memo")
	cmd.Flags().BoolVar(&runner.personal, "personal", false, "treat as a personal owner's draw or contribution")

	return cmd
}

func (r *approveRunner) Run(cmd *cobra.Command, arg string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	id, err := r.app.Service.Review.ResolveID(ctx, arg)
	if err != nil {
		return err
	}

	o := service.Overrides{}
	if flags.Changed("account") {
		acc, ok := r.app.Catalog.Resolve(r.account)
		if !ok {
			return fmt.Errorf("account '%s' not found", r.account)
		}
		o.AccountID = &acc.ID
		if !flags.Changed("category") {
			o.Category = &acc.Name
		}
	}
	if flags.Changed("category") {
		o.Category = &r.category
	}
	if flags.Changed("memo") {
		o.Memo = &r.memo
	}
	if flags.Changed("personal") {
		o.IsPersonal = &r.personal
	}

	txn, err := r.app.Service.Review.Approve(ctx, id, o)
	if err != nil {
		return err
	}

	pterm.Success.Printf("Transaction %s approved\n", views.ShortID(txn.ID))
	return views.RenderTransactionDetail(txn, r.app.Catalog.NameOf)
}
