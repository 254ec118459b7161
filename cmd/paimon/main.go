package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/OCharnyshevich/paimon/internal/config"
	"github.com/OCharnyshevich/paimon/internal/logging"
)

// app is the state shared by all subcommands.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	closeLog func() error

	configPath string
	logLevel   logging.LevelFlag
	logFile    string
}

func newRootCmd(a *app) *cobra.Command {
	a.cfg = config.DefaultConfig()
	a.logLevel.Value = slog.LevelInfo

	root := &cobra.Command{
		Use:           "paimon",
		Short:         "Pull game data and build the character database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().Var(&a.logLevel, "log-level", "log level: DEBUG, INFO, WARN or ERROR")
	root.PersistentFlags().StringVar(&a.logFile, "log-file", "", "write logs to this file instead of stderr")

	root.AddCommand(
		newPullCmd(a),
		newGenCmd(a),
		newShowCmd(a),
		newProfileCmd(a),
		newAttributesCmd(a),
	)
	return root
}

// init sets up logging and merges the config file under explicit flags.
func (a *app) init(cmd *cobra.Command) error {
	log, closeLog, err := logging.New(cmd.ErrOrStderr(), logging.Options{Level: a.logLevel.Value, File: a.logFile})
	if err != nil {
		return err
	}
	a.log, a.closeLog = log, closeLog

	fromFile, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	explicit := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { explicit[f.Name] = true })
	config.Merge(a.cfg, fromFile, explicit)
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	if a.configPath != "" {
		a.log.Info("loaded config from file", "path", a.configPath)
	}
	return nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	if err != nil {
		log := a.log
		if log == nil {
			log = slog.New(slog.NewTextHandler(os.Stderr, nil))
		}
		log.Error("paimon failed", "error", err)
	}
	a.close()
	if err != nil {
		cancel()
		os.Exit(1)
	}
}

// close flushes and releases the log output, if one was opened.
func (a *app) close() {
	if a.closeLog == nil {
		return
	}
	if err := a.closeLog(); err != nil {
		fmt.Fprintf(os.Stderr, "close log: %v\n", err)
	}
}
