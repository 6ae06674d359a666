package main

import (
	"context"
	"os"

	"github.com/grovetools/phantomit/cli"
	"github.com/grovetools/phantomit/cmd"
)

func main() {
	rootCmd := cmd.NewRootCmd()

	executed, err := rootCmd.ExecuteContextC(context.Background())
	if err != nil {
		opts := cli.GetOptions(executed)
		handler := cli.NewErrorHandler(opts.Verbose)
		handler.JSON = opts.JSONOutput
		handler.Handle(err)
		os.Exit(1)
	}
}
