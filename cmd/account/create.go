package account

import (
	"fmt"

	"github.com/hance08/tally/internal/app"
	"github.com/hance08/tally/internal/service"
	"github.com/hance08/tally/internal/ui"
	"github.com/hance08/tally/internal/ui/prompts"
	"github.com/hance08/tally/internal/ui/views"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type createOptions struct {
	name    string
	accType string
	code    string
}

// accountCreator collects the account fields from flags or prompts before
// saving.
type accountCreator struct {
	svc  *service.Service
	opts createOptions
}

func NewCreateCmd(lazy *app.Lazy) *cobra.Command {
	opts := createOptions{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new account",
		Long: `Create an account in the chart of accounts. Without flags the account
is built through interactive prompts.

Example: tally account create -t Expense -n "Software & SaaS" --code 5020`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := lazy.Get()
			if err != nil {
				return err
			}

			creator := &accountCreator{
				svc:  a.Service,
				opts: opts,
			}

			hasFlags := cmd.Flags().Changed("name") || cmd.Flags().Changed("type")
			if hasFlags {
				return creator.FlagsMode(cmd)
			}
			return creator.InteractiveMode(cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "account name")
	cmd.Flags().StringVarP(&opts.accType, "type", "t", "", "Asset, Liability, Equity, Revenue or Expense")
	cmd.Flags().StringVar(&opts.code, "code", "", "account code (optional, digits only)")

	return cmd
}

func (ac *accountCreator) FlagsMode(cmd *cobra.Command) error {
	if ac.opts.name == "" || ac.opts.accType == "" {
		return fmt.Errorf("both --name and --type are required")
	}
	return ac.save(cmd)
}

func (ac *accountCreator) InteractiveMode(cmd *cobra.Command) error {
	var err error

	if ac.opts.accType, err = prompts.PromptAccountType(); err != nil {
		return err
	}
	if ac.opts.name, err = prompts.PromptAccountName(); err != nil {
		return err
	}
	if ac.opts.code, err = prompts.PromptAccountCode(); err != nil {
		return err
	}

	ac.displaySummary()

	confirm, err := prompts.PromptConfirm("Create this account?", true)
	if err != nil {
		return err
	}
	if !confirm {
		pterm.Info.Println("Account not created")
		return nil
	}

	return ac.save(cmd)
}

func (ac *accountCreator) displaySummary() {
	ui.Separator()

	code := ac.opts.code
	if code == "" {
		code = "None"
	}

	tableData := pterm.TableData{
		{pterm.Blue("Name"), ac.opts.name},
		{pterm.Blue("Type"), ac.opts.accType},
		{pterm.Blue("Code"), code},
	}
	_ = pterm.DefaultTable.WithData(tableData).Render()
}

func (ac *accountCreator) save(cmd *cobra.Command) error {
	acc, err := ac.svc.Account.Create(cmd.Context(), ac.opts.name, ac.opts.accType, ac.opts.code)
	if err != nil {
		return err
	}
	return views.RenderAccountCreated(acc)
}
