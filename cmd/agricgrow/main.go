// Command agricgrow runs the agricultural microloan lending service and its
// operator tooling.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/olonibua/agricgrow-sub000/internal/infrastructure/config"
	"github.com/olonibua/agricgrow-sub000/pkg/observability"
)

var version = "dev"

// app carries state resolved once by the root command's pre-run hook.
type app struct {
	v       *viper.Viper
	cfg     config.Config
	logger  *slog.Logger
	cfgFile string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "agricgrow",
		Short:         "Agricultural microloan origination and servicing",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (YAML, optional)")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "json", "log format (json, text)")

	root.AddCommand(
		serveCmd(a),
		migrateCmd(a),
		sweepCmd(a),
		scheduleCmd(),
		scoreCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	v, err := config.New(a.cfgFile)
	if err != nil {
		return err
	}
	flags := cmd.Root().PersistentFlags()
	if err := v.BindPFlag("log.level", flags.Lookup("log-level")); err != nil {
		return fmt.Errorf("bind log-level: %w", err)
	}
	if err := v.BindPFlag("log.format", flags.Lookup("log-format")); err != nil {
		return fmt.Errorf("bind log-format: %w", err)
	}

	a.v = v
	a.cfg = config.Load(v)
	a.logger = observability.InitLogger(observability.LogConfig{
		Level:   a.cfg.Log.Level,
		Format:  a.cfg.Log.Format,
		Service: a.cfg.ServiceName,
		Output:  cmd.ErrOrStderr(),
	})
	return nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
