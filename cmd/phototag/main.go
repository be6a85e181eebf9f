package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"phototag/internal/app"
	"phototag/internal/config"
	appErrors "phototag/internal/errors"
	"phototag/internal/infra/exif"
	"phototag/internal/infra/fs"
	"phototag/internal/logging"
	"phototag/internal/presentation"
)

const version = "1.0.0"

// errFilesFailed marks a run whose per-file errors were already printed.
var errFilesFailed = errors.New("one or more files failed")

var subcommands = []string{"tag", "sync", "show", "ls", "help", "completion"}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cmd := newRootCmd()
	cmd.SetArgs(normalizeArgs(os.Args[1:]))
	err := cmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		if !errors.Is(err, errFilesFailed) {
			fmt.Fprintln(os.Stderr, presentation.FormatFileError(err))
		}
		os.Exit(1)
	}
}

// normalizeArgs rewrites the legacy form `phototag --date=X FILES...` to
// `phototag tag --date=X FILES...`.
func normalizeArgs(args []string) []string {
	if len(args) == 0 || slices.Contains(subcommands, args[0]) {
		return args
	}
	for _, arg := range args {
		if arg == "--date" || strings.HasPrefix(arg, "--date=") {
			return append([]string{"tag"}, args...)
		}
	}
	return args
}

// runtime holds what every subcommand needs once flags are parsed.
type runtime struct {
	cfg       config.Config
	logger    logging.Logger
	printer   presentation.Printer
	collector *app.Collector
	editor    *app.Editor
}

func newRootCmd() *cobra.Command {
	rt := &runtime{}

	rootCmd := &cobra.Command{
		Use:   "phototag",
		Short: "Set and reconcile the dates stored in PNG and JPEG files",
		Long: `phototag writes capture dates into image metadata and keeps them in
line with the file timestamps.

Examples:
  phototag tag --date=20251103 my-photo.png
  phototag tag --date=mod *.png
  phototag sync 'photos/**/*.jpg'
  phototag show my-image.png
  phototag ls -r *.png`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.setup(cmd)
		},
	}

	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newTagCmd(rt))
	rootCmd.AddCommand(newSyncCmd(rt))
	rootCmd.AddCommand(newShowCmd(rt))
	rootCmd.AddCommand(newLsCmd(rt))

	return rootCmd
}

func (rt *runtime) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return appErrors.Wrap(appErrors.InvalidConfig, "config", "", err)
	}
	rt.cfg = cfg

	noColor := cfg.NoColor || !isTerminal(cmd.ErrOrStderr())
	rt.logger = logging.New(cmd.ErrOrStderr(), cfg.Verbose, noColor)
	if cfg.ConfigFile != "" {
		rt.logger.Debug("config loaded", "file", cfg.ConfigFile)
	}

	filesystem := fs.OSFS{}
	rt.printer = presentation.Printer{
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   cfg.Verbose,
	}
	rt.collector = &app.Collector{FS: filesystem, Logger: rt.logger, Recursive: cfg.Recursive}
	rt.editor = &app.Editor{FS: filesystem, Meta: exif.Store{}, Logger: rt.logger}
	return nil
}

// collect expands args and prints warnings for arguments that matched nothing.
func (rt *runtime) collect(args []string) ([]string, error) {
	collection, err := rt.collector.Collect(args)
	rt.printer.Warnings(collection.Warnings)
	if errors.Is(err, app.ErrNoFiles) {
		return nil, appErrors.Wrap(appErrors.NoInput, "collect", "", err)
	}
	if err != nil {
		return nil, err
	}
	return collection.Paths, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
