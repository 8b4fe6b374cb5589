package node

import (
	"fmt"
	"log/slog"

	"github.com/compose-network/peggy-localnet/configs"
	"github.com/compose-network/peggy-localnet/internal/infra/docker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	CMD = &cobra.Command{
		Use:   "node",
		Short: "Commands for the local EVM node the bridge is deployed to",
	}

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the local EVM node container",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			client, err := docker.New()
			if err != nil {
				return err
			}
			defer client.Close()

			url, err := NewService(client).Start(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("error occurred starting the node: %w", err)
			}

			slog.With("url", url).Info("node started")
			return nil
		},
	}

	stopCmd = &cobra.Command{
		Use:   "stop",
		Short: "Stop and remove the local EVM node container",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			client, err := docker.New()
			if err != nil {
				return err
			}
			defer client.Close()

			if err := NewService(client).Stop(cmd.Context(), cfg); err != nil {
				return fmt.Errorf("error occurred stopping the node: %w", err)
			}
			return nil
		},
	}
)

func init() {
	CMD.AddCommand(startCmd)
	CMD.AddCommand(stopCmd)
}

func loadConfig() (configs.Node, error) {
	// Re-unmarshal to include flag overrides.
	if err := viper.Unmarshal(&configs.Values); err != nil {
		return configs.Node{}, fmt.Errorf("failed to unmarshal config with flag overrides: %w", err)
	}
	return configs.Values.Node, nil
}
