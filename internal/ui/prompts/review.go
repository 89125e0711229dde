package prompts

import (
	"github.com/charmbracelet/huh"
)

type ReviewAction string

const (
	ActionApprove ReviewAction = "approve"
	ActionEdit    ReviewAction = "edit"
	ActionReject  ReviewAction = "reject"
	ActionSkip    ReviewAction = "skip"
	ActionQuit    ReviewAction = "quit"
)

func PromptReviewAction(hasSuggestion bool) (ReviewAction, error) {
	action := ActionEdit
	if hasSuggestion {
		action = ActionApprove
	}

	err := huh.NewSelect[ReviewAction]().
		Title("What do you want to do with this transaction?").
		Options(
			huh.NewOption("Approve suggestion", ActionApprove),
			huh.NewOption("Edit, then approve", ActionEdit),
			huh.NewOption("Reject", ActionReject),
			huh.NewOption("Skip for now", ActionSkip),
			huh.NewOption("Quit review", ActionQuit),
		).
		Value(&action).
		Run()

	return action, err
}

// ReviewEdit is the reviewer's correction of a suggestion.
type ReviewEdit struct {
	AccountID  string
	Memo       string
	IsPersonal bool
}

// PromptReviewEdit asks whether the transaction is personal, then for the
// account (business only) and the memo.
func PromptReviewEdit(pickAccount func(defaultID string) (string, error), current ReviewEdit) (ReviewEdit, error) {
	edit := current

	personal, err := PromptConfirm("Is this a personal transaction?", current.IsPersonal)
	if err != nil {
		return edit, err
	}
	edit.IsPersonal = personal

	if !personal {
		if edit.AccountID, err = pickAccount(current.AccountID); err != nil {
			return edit, err
		}
	}

	if edit.Memo, err = PromptInput("Memo:", current.Memo, nil); err != nil {
		return edit, err
	}
	return edit, nil
}
