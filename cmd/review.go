package cmd

import (
	"github.com/hance08/tally/internal/app"
	"github.com/hance08/tally/internal/constants"
	"github.com/hance08/tally/internal/model"
	"github.com/hance08/tally/internal/service"
	"github.com/hance08/tally/internal/ui"
	"github.com/hance08/tally/internal/ui/prompts"
	"github.com/hance08/tally/internal/ui/views"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type reviewOptions struct {
	auto      bool
	threshold int
	post      bool
	limit     int
}

type reviewRunner struct {
	app  *app.App
	opts reviewOptions

	approved []string
	rejected int
}

func NewReviewCmd(lazy *app.Lazy) *cobra.Command {
	opts := reviewOptions{}

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review pending bank transactions",
		Long: `Walk through Pending bank transactions one at a time and approve, edit or
reject each suggestion. With --auto, every Pending row whose confidence is at
least --threshold is approved without prompting.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := lazy.Get()
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("threshold") {
				opts.threshold = a.Service.Review.DefaultThreshold()
			}

			runner := &reviewRunner{
				app:  a,
				opts: opts,
			}
			return runner.Run(cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.auto, "auto", false, "approve confident suggestions without prompting")
	cmd.Flags().IntVar(&opts.threshold, "threshold", 0, "minimum confidence for --auto (defaults to review.auto_approve_threshold)")
	cmd.Flags().BoolVarP(&opts.post, "post", "p", false, "post the approved transactions when done")
	cmd.Flags().IntVarP(&opts.limit, "limit", "l", 0, "review at most this many transactions")

	return cmd
}

func (r *reviewRunner) Run(cmd *cobra.Command) error {
	if r.opts.auto {
		if err := r.autoApprove(cmd); err != nil {
			return err
		}
	} else {
		if err := r.interactive(cmd); err != nil {
			return err
		}
	}

	return r.finish(cmd)
}

func (r *reviewRunner) autoApprove(cmd *cobra.Command) error {
	ids, err := r.app.Service.Review.ApproveConfident(cmd.Context(), r.opts.threshold)
	if err != nil {
		return err
	}
	r.approved = ids
	pterm.Success.Printf("Approved %d transactions with confidence >= %d\n", len(ids), r.opts.threshold)
	return nil
}

func (r *reviewRunner) interactive(cmd *cobra.Command) error {
	ctx := cmd.Context()
	review := r.app.Service.Review

	pending, err := review.List(ctx, constants.StatusPending, r.opts.limit)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		pterm.Info.Println("No pending transactions")
		return nil
	}

	// oldest first, the order they appear on the statement
	for i := len(pending) - 1; i >= 0; i-- {
		txn := pending[i]

		ui.PrintL1Title("Transaction %d of %d", len(pending)-i, len(pending))
		if err := views.RenderTransactionDetail(txn, r.app.Catalog.NameOf); err != nil {
			return err
		}

		action, err := prompts.PromptReviewAction(txn.SuggestedAccountID != nil || txn.IsPersonal)
		if err != nil {
			return err
		}

		switch action {
		case prompts.ActionApprove:
			if err := r.approve(cmd, txn, service.Overrides{}); err != nil {
				return err
			}
		case prompts.ActionEdit:
			o, err := r.edit(txn)
			if err != nil {
				return err
			}
			if err := r.approve(cmd, txn, o); err != nil {
				return err
			}
		case prompts.ActionReject:
			if err := review.Reject(ctx, txn.ID); err != nil {
				return err
			}
			r.rejected++
			pterm.Warning.Println("Rejected")
		case prompts.ActionSkip:
			continue
		case prompts.ActionQuit:
			return nil
		}
	}
	return nil
}

func (r *reviewRunner) approve(cmd *cobra.Command, txn *model.BankTransaction, o service.Overrides) error {
	if _, err := r.app.Service.Review.Approve(cmd.Context(), txn.ID, o); err != nil {
		return err
	}
	r.approved = append(r.approved, txn.ID)
	pterm.Success.Println("Approved")
	return nil
}

func (r *reviewRunner) edit(txn *model.BankTransaction) (service.Overrides, error) {
	current := prompts.ReviewEdit{
		Memo:       txn.SuggestedMemo,
		IsPersonal: txn.IsPersonal,
	}
	if txn.SuggestedAccountID != nil {
		current.AccountID = *txn.SuggestedAccountID
	}

	pick := func(defaultID string) (string, error) {
		return prompts.PromptAccountSelection(r.app.Catalog.Accounts(), "Post to account:", defaultID)
	}

	edit, err := prompts.PromptReviewEdit(pick, current)
	if err != nil {
		return service.Overrides{}, err
	}

	o := service.Overrides{
		Memo:       &edit.Memo,
		IsPersonal: &edit.IsPersonal,
	}
	if !edit.IsPersonal {
		category := r.app.Catalog.NameOf(edit.AccountID)
		o.AccountID = &edit.AccountID
		o.Category = &category
	}
	return o, nil
}

func (r *reviewRunner) finish(cmd *cobra.Command) error {
	ui.Separator()
	pterm.Info.Printf("Approved %d, rejected %d\n", len(r.approved), r.rejected)

	if len(r.approved) == 0 {
		return nil
	}

	post := r.opts.post
	if !post && !r.opts.auto {
		var err error
		post, err = prompts.PromptConfirm("Post the approved transactions now?", true)
		if err != nil {
			return err
		}
	}
	if !post {
		return nil
	}

	n, err := r.app.Service.Posting.Post(cmd.Context(), r.approved)
	if err != nil {
		return err
	}
	pterm.Success.Printf("Posted %d transactions\n", n)
	return nil
}
