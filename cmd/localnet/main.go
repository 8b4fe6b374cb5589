package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/compose-network/peggy-localnet/configs"
	"github.com/compose-network/peggy-localnet/internal/bridge"
	"github.com/compose-network/peggy-localnet/internal/logger"
	"github.com/compose-network/peggy-localnet/internal/node"
	"github.com/compose-network/peggy-localnet/internal/stack"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const appName = "peggy-localnet"

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "CLI for deploying the peggy bridge contracts to a local network",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.Initialize(slog.LevelDebug)

		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		if execPath, err := os.Executable(); err == nil {
			execDir := filepath.Dir(execPath)
			viper.AddConfigPath(execDir)
		}
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")

		// Flags can provide all necessary configuration
		if err := viper.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				slog.Debug("no config file found, will rely on flags and defaults")
			} else {
				const errMsg = "error reading config file"
				slog.With("err", err.Error()).Error(errMsg)
				return errors.Join(err, errors.New(errMsg))
			}
		} else {
			slog.With("config_file", viper.ConfigFileUsed()).Debug("config file loaded")
		}

		if err := viper.Unmarshal(&configs.Values); err != nil {
			const errMsg = "unable to decode application config"
			slog.With("err", err.Error()).Error(errMsg)
			return errors.Join(err, errors.New(errMsg))
		}

		logger.Initialize(logger.ParseLevel(configs.Values.Log.Level))
		slog.With("log_level", configs.Values.Log.Level).Debug("configuration loaded")

		return nil
	},
}

func main() {
	rootCmd.AddCommand(bridge.CMD)
	rootCmd.AddCommand(node.CMD)
	rootCmd.AddCommand(stack.CMD)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.With("err", err.Error()).Error("failed to execute root command")
		stop()
		os.Exit(1)
	}
}
