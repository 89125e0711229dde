package cmd

import (
	"fmt"

	"github.com/hance08/tally/internal/app"
	"github.com/hance08/tally/internal/constants"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type postRunner struct {
	app      *app.App
	approved bool
}

func NewPostCmd(lazy *app.Lazy) *cobra.Command {
	var approved bool

	cmd := &cobra.Command{
		Use:   "post [id...]",
		Short: "Post approved bank transactions to the ledger",
		Long: `Post approved bank transactions as balanced journal entries. Pass
transaction ids (or unique id prefixes), or --approved to post everything
that is waiting. Rows that are not Approved are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !approved {
				return fmt.Errorf("pass transaction ids or --approved")
			}

			a, err := lazy.Get()
			if err != nil {
				return err
			}

			runner := &postRunner{
				app:      a,
				approved: approved,
			}
			return runner.Run(cmd, args)
		},
	}

	cmd.Flags().BoolVarP(&approved, "approved", "a", false, "post every Approved transaction")

	return cmd
}

func (r *postRunner) Run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	review := r.app.Service.Review

	var ids []string
	if r.approved {
		txns, err := review.List(ctx, constants.StatusApproved, 0)
		if err != nil {
			return err
		}
		for _, txn := range txns {
			ids = append(ids, txn.ID)
		}
	} else {
		for _, arg := range args {
			id, err := review.ResolveID(ctx, arg)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
	}

	if len(ids) == 0 {
		pterm.Info.Println("Nothing to post")
		return nil
	}

	n, err := r.app.Service.Posting.Post(ctx, ids)
	if err != nil {
		return err
	}

	pterm.Success.Printf("Posted %d of %d transactions\n", n, len(ids))
	return nil
}
