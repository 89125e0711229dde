package transaction

import (
	"strings"

	"github.com/hance08/tally/internal/app"
	"github.com/hance08/tally/internal/constants"
	"github.com/spf13/cobra"
)

func NewTransactionCmd(lazy *app.Lazy) *cobra.Command {
	transactionCmd := &cobra.Command{
		Use:     "transaction",
		Aliases: []string{"tx"},
		Short:   "Inspect and review imported bank transactions",
		Long: `List and show imported bank transactions, and approve or reject them one
at a time. Transaction ids may be shortened to any unique prefix.`,
	}

	transactionCmd.AddCommand(NewListCmd(lazy))
	transactionCmd.AddCommand(NewShowCmd(lazy))
	transactionCmd.AddCommand(NewApproveCmd(lazy))
	transactionCmd.AddCommand(NewRejectCmd(lazy))

	return transactionCmd
}

// normalizeStatus accepts a status in any letter case.
func normalizeStatus(s string) string {
	for _, status := range []string{constants.StatusPending, constants.StatusApproved, constants.StatusPosted, constants.StatusRejected} {
		if strings.EqualFold(s, status) {
			return status
		}
	}
	return s
}
