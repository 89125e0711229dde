package views

import (
	"github.com/hance08/tally/internal/model"
	"github.com/hance08/tally/internal/ui"
	"github.com/pterm/pterm"
)

type AccountListView struct{}

func NewAccountListView() *AccountListView {
	return &AccountListView{}
}

func (v *AccountListView) Render(accounts []*model.Account) error {
	if len(accounts) == 0 {
		pterm.Warning.Println("No accounts found, run 'tally account seed' to install the default chart")
		return nil
	}

	tableData := pterm.TableData{{"Code", "Name", "Type", "Active", "ID"}}
	for _, acc := range accounts {
		active := pterm.Green("yes")
		if !acc.IsActive {
			active = pterm.Gray("no")
		}
		tableData = append(tableData, []string{
			acc.Code,
			ui.ColorByAccountType(acc.Type, acc.Name),
			ui.ColorByAccountType(acc.Type, acc.Type),
			active,
			pterm.Gray(acc.ID),
		})
	}

	pterm.DefaultSection.Printf("Chart of Accounts")
	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}

	pterm.Info.Printf("Total: %d accounts\n", len(accounts))
	return nil
}

func RenderAccountCreated(acc *model.Account) error {
	ui.Separator()

	tableData := pterm.TableData{
		{pterm.Blue("Account ID"), acc.ID},
		{pterm.Blue("Code"), acc.Code},
		{pterm.Blue("Name"), acc.Name},
		{pterm.Blue("Type"), acc.Type},
	}
	if err := pterm.DefaultTable.WithData(tableData).Render(); err != nil {
		return err
	}

	pterm.Success.Print("Account created successfully!\n")
	return nil
}

func RenderSeedResult(created []string) {
	if len(created) == 0 {
		pterm.Info.Println("Chart of accounts already complete, nothing to add")
		return
	}
	for _, name := range created {
		pterm.Success.Printf("Created '%s'\n", name)
	}
	pterm.Info.Printf("Added %d accounts\n", len(created))
}
