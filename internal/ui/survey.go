package ui

import "github.com/AlecAivazis/survey/v2"

// IconOption sets the survey question icon to "-" so survey prompts line
// up with the huh ones.
func IconOption() survey.AskOpt {
	return survey.WithIcons(func(icons *survey.IconSet) {
		icons.Question.Text = "-"
		icons.Question.Format = "red+b"
	})
}

// ConfirmDestructive asks a yes/no question that defaults to no. Ctrl-C
// returns terminal.InterruptErr.
func ConfirmDestructive(message string) (bool, error) {
	confirm := false
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}
	if err := survey.AskOne(prompt, &confirm, IconOption()); err != nil {
		return false, err
	}
	return confirm, nil
}
