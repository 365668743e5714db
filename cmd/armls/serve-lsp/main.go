package serve_lsp

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/armls/pkg/lsp"
	"github.com/walteh/armls/pkg/snippets"
)

type Handler struct {
	debug        bool
	snippetsPath string
	watch        bool
}

func NewServeLSPCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "serve-lsp",
		Short: "start the language server",
	}

	cmd.Flags().BoolVar(&me.debug, "debug", false, "enable debug logging")
	cmd.Flags().StringVar(&me.snippetsPath, "snippets", "", "path to the snippet fragment-source file")
	cmd.Flags().BoolVar(&me.watch, "watch-snippets", false, "reload the snippet catalogue when the fragment source changes")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context) error {
	level := zerolog.InfoLevel
	verbosity := 0
	if me.debug {
		level = zerolog.DebugLevel
		verbosity = 2
	}
	// stdout carries the protocol stream; everything else goes to stderr
	logger := zerolog.New(os.Stderr).Level(level).With().
		Str("component", "lsp-server").
		Timestamp().
		Logger()
	ctx = logger.WithContext(ctx)
	commonlog.Configure(verbosity, nil)

	var catalogue *snippets.Catalogue
	if me.snippetsPath != "" {
		catalogue = snippets.NewCatalogue(afero.NewOsFs(), me.snippetsPath)
		if me.watch {
			stop, err := catalogue.Watch(ctx)
			if err != nil {
				return errors.Errorf("watching snippet catalogue: %w", err)
			}
			defer stop()
		}
	}

	server := lsp.NewServer(ctx, catalogue)

	if err := server.RunStdio(ctx, me.debug); err != nil {
		return errors.Errorf("error running language server: %w", err)
	}

	return nil
}
