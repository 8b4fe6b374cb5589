package bridge

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/compose-network/peggy-localnet/configs"
	"github.com/compose-network/peggy-localnet/internal/bridge/artifacts"
	fsjson "github.com/compose-network/peggy-localnet/internal/infra/filesystem/json"
	"github.com/compose-network/peggy-localnet/internal/infra/git"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile the bridge contracts into contracts.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.Unmarshal(&configs.Values); err != nil {
			return fmt.Errorf("failed to unmarshal config with flag overrides: %w", err)
		}
		cfg := configs.Values.Bridge

		if cfg.ContractsDir == "" {
			return errors.New("bridge.contracts-dir is required")
		}
		if cfg.ArtifactsPath == "" {
			return errors.New("bridge.artifacts-path is required")
		}

		if cfg.ContractsRepo.URL != "" {
			repo := git.Repository{URL: cfg.ContractsRepo.URL, Ref: cfg.ContractsRepo.Ref}
			if err := git.NewCloner().Ensure(cmd.Context(), cfg.ContractsDir, repo); err != nil {
				return fmt.Errorf("failed to fetch contracts: %w", err)
			}
		}

		compiler := artifacts.NewCompiler(cfg.ContractsDir, cfg.ArtifactsPath, fsjson.NewWriter())
		path, err := compiler.Compile(cmd.Context(), artifacts.ContractNames())
		if err != nil {
			return fmt.Errorf("error occurred compiling contracts: %w", err)
		}

		slog.With("path", path).Info("contracts compiled")
		return nil
	},
}
