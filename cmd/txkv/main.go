// Package main is the entry point for the txkv shell.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ASHISH26940/txkv/internal/config"
	"github.com/ASHISH26940/txkv/internal/logging"
	"github.com/ASHISH26940/txkv/internal/script"
	"github.com/ASHISH26940/txkv/internal/shell"
	"github.com/ASHISH26940/txkv/internal/store"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

const defaultConfigFile = "txkv.toml"

// errStop ends a script early when it contains EXIT.
var errStop = errors.New("stop")

type flags struct {
	configFile string
	logLevel   string
	noBanner   bool
	echo       bool
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var f flags

	rootCmd := &cobra.Command{
		Use:   "txkv",
		Short: "In-memory key-value shell with nested transactions",
		Long: `txkv reads commands (SET, GET, DELETE, COUNT, BEGIN, COMMIT, ROLLBACK)
one per line and applies them to an in-memory store. Transactions nest;
COMMIT discards the innermost checkpoint and ROLLBACK restores it.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(f, stderr)
			if err != nil {
				return err
			}
			st := store.NewStore(store.WithMaxDepth(cfg.MaxDepth), store.WithLogger(logger))

			in, err := shell.NewLineReader(stdin, stdout, shell.ReaderConfig{
				Prompt:       cfg.Prompt,
				HistoryFile:  cfg.HistoryFile,
				MaxLineBytes: cfg.MaxLineBytes,
			})
			if err != nil {
				return fmt.Errorf("start input: %w", err)
			}
			sh := shell.New(st, stdout, shell.Options{
				Prompt: cfg.Prompt,
				Banner: cfg.Banner && !f.noBanner,
				Logger: logger,
			})
			logger.Debug("session started", "version", Version)
			return sh.Run(cmd.Context(), in)
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringVar(&f.configFile, "config", defaultConfigFile, "Path to config file")
	rootCmd.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "Override log_level from the config file")
	rootCmd.Flags().BoolVar(&f.noBanner, "no-banner", false, "Do not print the command overview at startup")

	runCmd := &cobra.Command{
		Use:   "run <script>...",
		Short: "Execute command scripts against one store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(f, stderr)
			if err != nil {
				return err
			}
			st := store.NewStore(store.WithMaxDepth(cfg.MaxDepth), store.WithLogger(logger))
			sh := shell.New(st, stdout, shell.Options{Logger: logger})
			opts := script.Options{
				MaxLineBytes: cfg.MaxLineBytes,
				OnSkip: func(lineNo int, err error) error {
					logger.Warn("script line skipped", "line", lineNo, "err", err)
					fmt.Fprintf(stdout, "Line %d skipped: %v\n", lineNo, err)
					return nil
				},
			}
			return runScripts(cmd.Context(), sh, args, opts, f.echo, stdout, logger)
		},
	}
	runCmd.Flags().BoolVar(&f.echo, "echo", false, "Print each command before its output")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "txkv %s (commit %s, built %s)\n", Version, Commit, BuildTime)
		},
	}

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
	return rootCmd
}

// setup loads the configuration and builds the logger. The default config
// path may be absent; an explicitly named one may not.
func setup(f flags, stderr io.Writer) (*config.Config, *slog.Logger, error) {
	cfg := config.New()
	var err error
	if f.configFile == defaultConfigFile {
		err = cfg.LoadOptional(f.configFile)
	} else {
		err = cfg.Load(f.configFile)
	}
	if err != nil {
		return nil, nil, err
	}

	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}
	logger, err := logging.New(cfg.LogLevel, stderr)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func runScripts(ctx context.Context, sh *shell.Shell, paths []string, opts script.Options, echo bool, stdout io.Writer, logger *slog.Logger) error {
	for _, path := range paths {
		logger.Info("running script", "path", path)
		err := script.Replay(path, opts, func(lineNo int, line string) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if echo {
				fmt.Fprintf(stdout, "> %s\n", line)
			}
			if sh.Handle(line) {
				return errStop
			}
			return nil
		})
		if errors.Is(err, errStop) {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}
