package errhandler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
)

func TestIsCancelled(t *testing.T) {
	assert.True(t, IsCancelled(terminal.InterruptErr))
	assert.True(t, IsCancelled(fmt.Errorf("review: %w", huh.ErrUserAborted)))
	assert.False(t, IsCancelled(errors.New("interrupted by database")))
}

func TestHandleErrorExitCode(t *testing.T) {
	assert.Equal(t, 0, HandleError(huh.ErrUserAborted))
	assert.Equal(t, 1, HandleError(errors.New("boom")))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Failed to post", capitalize("failed to post"))
	assert.Equal(t, "", capitalize(""))
	assert.Equal(t, "Édition", capitalize("édition"))
}
