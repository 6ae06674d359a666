package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/phantomit/errors"
	"github.com/grovetools/phantomit/logging"
)

// ErrorHandler turns command errors into user-facing guidance.
type ErrorHandler struct {
	Verbose bool
	JSON    bool
	Out     io.Writer
}

// NewErrorHandler creates a handler writing to stderr.
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     os.Stderr,
	}
}

// Handle prints err and returns it unchanged.
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}

	pErr, structured := errors.As(err)
	if h.JSON {
		if !structured {
			pErr = errors.Wrap(err, errors.ErrCodeInternal, err.Error())
		}
		fmt.Fprintln(h.Out, pErr.ToJSON())
		return err
	}

	pretty := logging.NewPrettyLoggerTo(h.Out)
	switch errors.GetCode(err) {
	case errors.ErrCodeNotGitRepo:
		pretty.ErrorPretty("not a git repository. Run git init first.", nil)

	case errors.ErrCodeNoAPIKey:
		pretty.ErrorPretty(pErr.Message, nil)

	case errors.ErrCodeDaemonRunning:
		pretty.WarnPretty(pErr.Message)
		pretty.Muted("run phantomit stop first")

	case errors.ErrCodeDaemonNotRunning:
		pretty.Muted("no phantomit daemon running")

	case errors.ErrCodeCommandNotFound:
		pretty.ErrorPretty("git was not found on PATH", nil)

	case errors.ErrCodeWatchInitFailed:
		pretty.ErrorPretty(pErr.Message, pErr.Cause)
		pretty.Muted("check the watch list in .phantomit.json")

	default:
		if structured {
			pretty.ErrorPretty(pErr.Message, pErr.Cause)
		} else {
			pretty.ErrorPretty("Error", err)
		}
	}

	if h.Verbose && structured {
		fmt.Fprintf(h.Out, "\nError details:\n%s\n", pErr.ToJSON())
	}
	return err
}
