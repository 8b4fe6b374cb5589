package stack

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/compose-network/peggy-localnet/configs"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	CMD = &cobra.Command{
		Use:   "stack",
		Short: "Commands for the sifnode backend stack used by end-to-end runs",
	}

	upCmd = &cobra.Command{
		Use:   "up",
		Short: "Run the backend stack until interrupted, then tear it down",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			supervisor := NewSupervisor(cfg)
			if err := supervisor.Start(cmd.Context()); err != nil {
				_ = supervisor.Stop(context.WithoutCancel(cmd.Context()))
				return fmt.Errorf("error occurred starting the stack: %w", err)
			}

			slog.Info("stack is up, press Ctrl+C to stop")

			interrupt := make(chan os.Signal, 1)
			signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(interrupt)

			select {
			case <-interrupt:
			case <-cmd.Context().Done():
			}

			return supervisor.Stop(context.WithoutCancel(cmd.Context()))
		},
	}

	downCmd = &cobra.Command{
		Use:   "down",
		Short: "Kill the known stack processes left behind by a previous run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if err := NewSupervisor(cfg).Stop(context.WithoutCancel(cmd.Context())); err != nil {
				return fmt.Errorf("error occurred stopping the stack: %w", err)
			}
			return nil
		},
	}
)

func init() {
	defaults := configs.MustDefaultConfig().Stack

	declareStringFlag("script", "stack.script", defaults.Script, "Shell entry point that starts the backend stack")
	declareStringFlag("work-dir", "stack.work-dir", defaults.WorkDir, "Working directory of the stack script")
	declareStringFlag("ready-marker", "stack.ready-marker", defaults.ReadyMarker, "Output line fragment signalling the stack is ready")

	CMD.AddCommand(upCmd)
	CMD.AddCommand(downCmd)
}

func declareStringFlag(name, key, defaultValue, description string) {
	CMD.PersistentFlags().String(name, defaultValue, description)
	if err := viper.BindPFlag(key, CMD.PersistentFlags().Lookup(name)); err != nil {
		panic(err)
	}
}

func loadConfig() (configs.Stack, error) {
	// Re-unmarshal to include flag overrides.
	if err := viper.Unmarshal(&configs.Values); err != nil {
		return configs.Stack{}, fmt.Errorf("failed to unmarshal config with flag overrides: %w", err)
	}
	return configs.Values.Stack, nil
}
