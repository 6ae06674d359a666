package cli

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/grovetools/phantomit/logging"
)

// GetLogger returns the command logger configured from the standard flags.
// --verbose raises every logger to debug and makes sure it reaches stderr.
func GetLogger(cmd *cobra.Command) *logrus.Entry {
	entry := logging.NewLogger("phantomit")

	opts := GetOptions(cmd)
	if opts.Verbose {
		logging.SetLevel(logrus.DebugLevel)
		logging.SetOutput(os.Stderr)
	}
	if opts.JSONOutput {
		entry.Logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return entry
}
