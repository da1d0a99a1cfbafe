package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
)

// accessibleEnvVar switches huh forms to plain line-based prompts.
const accessibleEnvVar = "ACCESSIBLE"

// NewAccessibleForm builds a huh form that honours ACCESSIBLE.
func NewAccessibleForm(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).WithAccessible(os.Getenv(accessibleEnvVar) != "")
}

// confirm asks a yes/no question. An aborted prompt counts as "no".
func confirm(title string) (bool, error) {
	var confirmed bool
	form := NewAccessibleForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get confirmation: %w", err)
	}
	return confirmed, nil
}
