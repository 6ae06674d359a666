package cmd

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/grovetools/phantomit/cli"
	"github.com/grovetools/phantomit/config"
	"github.com/grovetools/phantomit/cycle"
	"github.com/grovetools/phantomit/git"
	"github.com/grovetools/phantomit/logging"
	"github.com/grovetools/phantomit/message"
	"github.com/grovetools/phantomit/tui/review"
)

// app is the per-invocation wiring shared by the commands that commit.
type app struct {
	root   string
	cfg    config.WatchConfig
	repo   *git.Repository
	log    *logrus.Entry
	pretty *logging.PrettyLogger
	out    io.Writer
}

func newApp(cmd *cobra.Command) (*app, error) {
	root, err := cli.ProjectRoot(cmd)
	if err != nil {
		return nil, err
	}
	log := cli.GetLogger(cmd)

	return &app{
		root:   root,
		cfg:    config.Load(root, log),
		repo:   git.NewRepository(root),
		log:    log,
		pretty: logging.NewPrettyLoggerTo(cmd.OutOrStdout()),
		out:    cmd.OutOrStdout(),
	}, nil
}

// generator builds the message service. Without mock mode a missing API key
// is reported here, before anything is staged.
func (a *app) generator(mock bool) (message.Generator, error) {
	keys := config.LoadCredentials(a.root, os.Environ())
	if len(keys) == 0 && !mock {
		return nil, message.ErrNoAPIKey
	}

	opts := message.DefaultChatOptions()
	if a.cfg.Endpoint != "" {
		opts.Endpoint = a.cfg.Endpoint
	}
	if a.cfg.Model != "" {
		opts.Model = a.cfg.Model
	}
	client := message.NewChatClient(message.NewKeyPool(keys, a.cfg.KeyPolicy, nil), opts)

	a.log.WithFields(logrus.Fields{
		"keys":  len(keys),
		"model": opts.Model,
		"mock":  mock,
	}).Debug("Message generator ready")
	return message.NewService(client, message.Options{Logger: a.log}), nil
}

// reviewComposer prompts on a terminal and accepts the generated message
// otherwise.
func (a *app) reviewComposer(cfg config.WatchConfig, gen message.Generator, mock bool) cycle.Composer {
	return &review.Composer{
		Generator:   gen,
		Mock:        mock,
		Push:        cfg.AutoPush,
		Interactive: isInteractive(),
	}
}

func (a *app) orchestrator(cfg config.WatchConfig, composer cycle.Composer, recorders ...cycle.Recorder) *cycle.Orchestrator {
	return cycle.New(a.repo, composer, cycle.Options{
		AutoPush: cfg.AutoPush,
		Remote:   cfg.Remote,
		Branch:   cfg.Branch,
	}, a.log, recorders...)
}

func isInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

// projectDir is the repository root containing dir, or dir itself outside a
// repository.
func projectDir(dir string) string {
	if root, err := git.GetGitRoot(dir); err == nil && root != "" {
		return root
	}
	return dir
}
