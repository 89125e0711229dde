package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hance08/tally/internal/app"
	"github.com/hance08/tally/internal/constants"
	"github.com/hance08/tally/internal/service"
	"github.com/hance08/tally/internal/ui/views"
	"github.com/spf13/cobra"
)

type importOptions struct {
	sourceAccount string
	sourceType    string
	sourceName    string
	offset        int
	all           bool
}

type importRunner struct {
	app  *app.App
	opts importOptions
}

func NewImportCmd(lazy *app.Lazy) *cobra.Command {
	opts := importOptions{}

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import a bank or credit-card CSV export",
		Long: `Import a Wells Fargo, Capital One, Chase or QuickBooks Self-Employed CSV
export. Rows are categorized and stored as Pending bank transactions, one
batch at a time.

Example: tally import activity.csv -s "Business Checking" --all`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := lazy.Get()
			if err != nil {
				return err
			}

			runner := &importRunner{
				app:  a,
				opts: opts,
			}
			return runner.Run(cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.sourceAccount, "source-account", "s", "", "account the export belongs to (name or id)")
	cmd.Flags().StringVarP(&opts.sourceType, "source-type", "t", constants.SourceBank, "Bank or CreditCard")
	cmd.Flags().StringVar(&opts.sourceName, "source-name", "", "label stored with every row (defaults to the file name)")
	cmd.Flags().IntVar(&opts.offset, "offset", 0, "number of data rows to skip")
	cmd.Flags().BoolVar(&opts.all, "all", false, "keep importing batches until the file is exhausted")
	_ = cmd.MarkFlagRequired("source-account")

	return cmd
}

func (r *importRunner) Run(cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	source, ok := r.app.Catalog.Resolve(r.opts.sourceAccount)
	if !ok {
		return fmt.Errorf("source account '%s' not found", r.opts.sourceAccount)
	}

	sourceName := r.opts.sourceName
	if sourceName == "" {
		sourceName = filepath.Base(path)
	}

	req := service.ImportRequest{
		Data:            data,
		SourceAccountID: source.ID,
		SourceType:      r.opts.sourceType,
		SourceName:      sourceName,
		Offset:          r.opts.offset,
	}

	for {
		res, err := r.app.Service.Import.Import(cmd.Context(), req)
		if err != nil {
			return err
		}
		if err := views.RenderImportSummary(res, r.app.Catalog.NameOf); err != nil {
			return err
		}

		if !r.opts.all || !res.HasMore {
			return nil
		}
		req.Offset = res.NextOffset
	}
}
