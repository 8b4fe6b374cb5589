package bridge

import (
	"fmt"
	"log/slog"

	"github.com/compose-network/peggy-localnet/configs"
	"github.com/compose-network/peggy-localnet/internal/bridge/accounts"
	"github.com/compose-network/peggy-localnet/internal/bridge/balance"
	"github.com/compose-network/peggy-localnet/internal/bridge/output"
	fsjson "github.com/compose-network/peggy-localnet/internal/infra/filesystem/json"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the operator's erowan and ETH balances of the last deployment",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.Unmarshal(&configs.Values); err != nil {
			return fmt.Errorf("failed to unmarshal config with flag overrides: %w", err)
		}
		cfg := configs.Values.Bridge

		model, err := output.Load(fsjson.NewReader(), cfg.OutputDir)
		if err != nil {
			return err
		}

		operator, err := accounts.FromKey(accounts.RoleOperator, cfg.Accounts.OperatorKey)
		if err != nil {
			return err
		}

		client, err := ethclient.DialContext(cmd.Context(), model.Network.RPCURL)
		if err != nil {
			return fmt.Errorf("failed to dial RPC: %w", err)
		}
		defer client.Close()

		checker := balance.NewChecker(client)
		label := fmt.Sprintf("operator %s", operator.Address.Hex())

		ethBalance, err := checker.ETHBalance(cmd.Context(), operator.Address)
		slog.Info(balance.FormatETHBalance(label, ethBalance, err))

		tokenBalance, err := checker.TokenBalance(cmd.Context(), model.Token.Address, operator.Address)
		slog.Info(balance.FormatTokenBalance(label, model.Token.Address, tokenBalance, err))

		return err
	},
}
