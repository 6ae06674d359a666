package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grovetools/phantomit/cli"
	"github.com/grovetools/phantomit/config"
	"github.com/grovetools/phantomit/internal/daemon"
	"github.com/grovetools/phantomit/ignore"
	"github.com/grovetools/phantomit/logging"
)

func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Set up phantomit in the current project",
		Long: "Writes .phantomit.json with the default settings and keeps the daemon's " +
			"PID and log files out of git.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := cli.ProjectRoot(cmd)
			if err != nil {
				return err
			}
			log := cli.GetLogger(cmd)
			pretty := logging.NewPrettyLoggerTo(cmd.OutOrStdout())

			path, err := config.WriteDefault(root)
			switch {
			case err == nil:
				pretty.Success(filepath.Base(path) + " created")
			case errors.Is(err, fs.ErrExist):
				pretty.WarnPretty(config.DefaultFileName + " already exists, left untouched")
			default:
				return err
			}

			added, err := ensureGitignore(root, daemon.PIDFileName, daemon.LogFileName)
			if err != nil {
				log.WithError(err).Warn("Could not update .gitignore")
			} else if len(added) > 0 {
				pretty.Success("added " + strings.Join(added, ", ") + " to .gitignore")
			}

			pretty.Success("add " + config.APIKeyVar + "=your_key to your .env")
			pretty.Blank()
			pretty.Muted("  then run:")
			pretty.Code("phantomit watch --every 30\nphantomit watch --on-save\nphantomit watch --on-save --daemon")
			pretty.Blank()
			return nil
		},
	}
}

// ensureGitignore appends the entries root/.gitignore does not list yet and
// returns the ones it added.
func ensureGitignore(root string, entries ...string) ([]string, error) {
	lines, err := ignore.ReadGitignore(root)
	if err != nil {
		return nil, err
	}

	present := make(map[string]bool, len(lines))
	for _, l := range lines {
		present[strings.TrimPrefix(strings.TrimSpace(l), "/")] = true
	}

	var missing []string
	for _, e := range entries {
		if !present[e] {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return nil, nil
	}

	path := filepath.Join(root, ".gitignore")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var b strings.Builder
	if info, err := f.Stat(); err == nil && info.Size() > 0 && !endsWithNewline(path) {
		b.WriteString("\n")
	}
	for _, e := range missing {
		b.WriteString(e + "\n")
	}
	if _, err := f.WriteString(b.String()); err != nil {
		return nil, fmt.Errorf("update %s: %w", path, err)
	}
	return missing, nil
}

func endsWithNewline(path string) bool {
	data, err := os.ReadFile(path)
	return err == nil && len(data) > 0 && data[len(data)-1] == '\n'
}
