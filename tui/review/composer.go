package review

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/grovetools/phantomit/message"
)

// Composer drafts a message and, when Interactive, lets the user approve,
// edit or skip it. It implements cycle.Composer.
type Composer struct {
	Generator message.Generator
	Mock      bool
	// Push only changes the prompt wording.
	Push bool
	// Interactive is false when stdin is not a terminal; the generated
	// message is then accepted as is.
	Interactive bool

	In  io.Reader
	Out io.Writer
}

func (c *Composer) Compose(ctx context.Context, diff string) (string, bool, error) {
	generate := func() (string, error) {
		return c.Generator.Generate(ctx, diff, c.Mock)
	}

	if !c.Interactive {
		msg, err := generate()
		if err != nil {
			return "", false, err
		}
		return msg, true, nil
	}

	var opts []tea.ProgramOption
	opts = append(opts, tea.WithContext(ctx))
	if c.In != nil {
		opts = append(opts, tea.WithInput(c.In))
	}
	if c.Out != nil {
		opts = append(opts, tea.WithOutput(c.Out))
	}

	final, err := tea.NewProgram(New(generate, c.Push), opts...).Run()
	if err != nil {
		return "", false, err
	}
	return final.(Model).Result()
}
