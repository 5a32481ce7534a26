// Package confirm provides the yes/no gate consulted before user-visible
// mutations.
package confirm

import (
	"errors"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
)

// Gate asks the user a yes/no question and reports the answer. In
// non-interactive contexts implementations answer with the supplied default
// without blocking.
type Gate interface {
	Confirm(prompt string, defaultYes bool) (bool, error)
}

// Prompter is a Gate backed by the controlling terminal. With
// assumeDefaults set, or when standard input is not a terminal, every
// question is answered with its default silently.
type Prompter struct {
	assumeDefaults bool
}

// NewPrompter creates a new Prompter.
func NewPrompter(assumeDefaults bool) *Prompter {
	return &Prompter{assumeDefaults: assumeDefaults}
}

// Confirm implements Gate. Prompts are asked one at a time on the calling
// goroutine so their order is stable.
func (p *Prompter) Confirm(prompt string, defaultYes bool) (bool, error) {
	if p.assumeDefaults || !interactive() {
		return defaultYes, nil
	}

	def := "n"
	if defaultYes {
		def = "y"
	}
	question := promptui.Prompt{
		Label:     prompt,
		IsConfirm: true,
		Default:   def,
	}
	_, err := question.Run()
	return mapConfirmResult(err)
}

// mapConfirmResult translates promptui's confirm protocol, where any answer
// other than yes surfaces as ErrAbort, into a plain boolean.
func mapConfirmResult(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort):
		return false, nil
	default:
		return false, err
	}
}

func interactive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
