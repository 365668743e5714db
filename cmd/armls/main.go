package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	serve_lsp "github.com/walteh/armls/cmd/armls/serve-lsp"
	"gitlab.com/tozd/go/errors"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	return info.Main.Version
}

func run(ctx context.Context) error {
	root := &cobra.Command{
		Use:           "armls",
		Short:         "language intelligence for deployment templates and parameter files",
		Version:       version(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(serve_lsp.NewServeLSPCommand())

	if err := root.ExecuteContext(ctx); err != nil {
		return errors.Errorf("executing command: %w", err)
	}

	return nil
}
