package bridge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/compose-network/peggy-localnet/configs"
	"github.com/compose-network/peggy-localnet/internal/bridge/accounts"
	"github.com/compose-network/peggy-localnet/internal/bridge/artifacts"
	"github.com/compose-network/peggy-localnet/internal/bridge/chain"
	"github.com/compose-network/peggy-localnet/internal/bridge/graph"
	"github.com/compose-network/peggy-localnet/internal/bridge/output"
	fsjson "github.com/compose-network/peggy-localnet/internal/infra/filesystem/json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var CMD = &cobra.Command{
	Use:   "bridge",
	Short: "Deploy the bridge contracts and wire their roles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		slog.Info("config validation successful. Deploying bridge...")

		if err := deploy(cmd.Context(), cfg); err != nil {
			return fmt.Errorf("error occurred deploying the bridge: %w", err)
		}

		slog.Info("bridge deployed successfully")
		return nil
	},
}

func deploy(ctx context.Context, cfg configs.Bridge) error {
	if err := chain.WaitForRPC(ctx, cfg.RPCURL); err != nil {
		return err
	}

	client, err := chain.Dial(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	service := NewService(
		accounts.NewKeySource(cfg.Accounts),
		artifacts.NewFileSource(cfg.ArtifactsPath),
		client,
		output.NewGenerator(cfg.OutputDir, fsjson.NewWriter()),
		graph.Options{
			ValidatorPower:              cfg.ValidatorPower,
			NetworkDescriptor:           cfg.NetworkDescriptor,
			BridgeBankNetworkDescriptor: cfg.BridgeBankNetworkDescriptor,
		},
		output.Network{
			ChainID: client.ChainID().Uint64(),
			RPCURL:  client.RPCURL(),
		},
	)

	_, err = service.Deploy(ctx)
	return err
}

func loadConfig() (configs.Bridge, error) {
	// Re-unmarshal to include flag overrides.
	if err := viper.Unmarshal(&configs.Values); err != nil {
		return configs.Bridge{}, fmt.Errorf("failed to unmarshal config with flag overrides: %w", err)
	}

	cfg := configs.Values.Bridge
	cfg.ApplyDefaults()

	slog.Info("validating bridge config")
	if err := cfg.Validate(); err != nil {
		return configs.Bridge{}, err
	}

	return cfg, nil
}
