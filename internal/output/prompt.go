package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
)

// Confirm asks a yes/no question on w and reads the answer from r. The
// prompt runs in accessible mode so it works on plain pipes as well as
// terminals. Anything other than "y" or "yes" is a no.
func Confirm(r io.Reader, w io.Writer, question string) (bool, error) {
	var ok bool
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(question).
			Affirmative("Yes").
			Negative("No").
			Value(&ok),
	)).
		WithInput(r).
		WithOutput(w).
		WithAccessible(true).
		WithShowHelp(false).
		Run()
	if err != nil {
		return false, fmt.Errorf("reading answer: %w", err)
	}
	return ok, nil
}
