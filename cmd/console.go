package cmd

import (
	"fmt"

	"github.com/grovetools/phantomit/cycle"
	"github.com/grovetools/phantomit/errors"
	"github.com/grovetools/phantomit/logging"
)

// consoleRecorder reports cycles to a person watching the terminal.
type consoleRecorder struct {
	pretty *logging.PrettyLogger
	remote string
	branch string
	// showErrors is off when the command returns the error itself
	showErrors bool
}

func (c consoleRecorder) Record(o *cycle.Outcome, err error) {
	if err != nil {
		if !c.showErrors {
			return
		}
		if pErr, ok := errors.As(err); ok {
			c.pretty.ErrorPretty(pErr.Message, pErr.Cause)
		} else {
			c.pretty.ErrorPretty("error", err)
		}
		return
	}

	switch o.Kind {
	case cycle.NoChanges:
		c.pretty.Muted("  nothing to commit, working tree clean")
	case cycle.EmptyDiff:
		c.pretty.Muted("  nothing to commit")
	case cycle.Skipped:
		c.pretty.Muted("  skipped.")
	case cycle.Committed:
		c.pretty.Success("committed: " + o.Message)
		switch {
		case o.Pushed:
			c.pretty.Success(fmt.Sprintf("pushed to %s/%s", c.remote, c.branch))
		case o.PushErr != nil:
			c.pretty.ErrorPretty("push failed", o.PushErr)
		}
		c.pretty.Blank()
	}
}
