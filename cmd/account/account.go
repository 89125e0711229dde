package account

import (
	"github.com/hance08/tally/internal/app"
	"github.com/spf13/cobra"
)

func NewAccountCmd(lazy *app.Lazy) *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the chart of accounts",
		Long:  `List, create and seed the accounts that imported transactions are posted to.`,
	}

	accountCmd.AddCommand(NewListCmd(lazy))
	accountCmd.AddCommand(NewCreateCmd(lazy))
	accountCmd.AddCommand(NewSeedCmd(lazy))

	return accountCmd
}
