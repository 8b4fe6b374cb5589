package balance

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/compose-network/peggy-localnet/internal/logger"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/lmittmann/w3"
)

var funcBalanceOf = w3.MustNewFunc("balanceOf(address)", "uint256")

type (
	// Backend is the part of ethclient.Client the checker reads from
	Backend interface {
		CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
		BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	}

	// Checker checks ETH and token balances
	Checker struct {
		backend Backend
		logger  *slog.Logger
	}
)

func NewChecker(backend Backend) *Checker {
	return &Checker{
		backend: backend,
		logger:  logger.Named("balance_checker"),
	}
}

// ETHBalance gets the native balance of an address
func (c *Checker) ETHBalance(ctx context.Context, address common.Address) (*big.Int, error) {
	balance, err := c.backend.BalanceAt(ctx, address, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	return balance, nil
}

// TokenBalance gets the ERC20 balance of account
func (c *Checker) TokenBalance(ctx context.Context, token, account common.Address) (*big.Int, error) {
	data, err := funcBalanceOf.EncodeArgs(account)
	if err != nil {
		return nil, fmt.Errorf("failed to encode balanceOf: %w", err)
	}

	c.logger.
		With("token", token).
		With("account", account).
		Debug("querying token balance")

	result, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call contract: %w", err)
	}

	balance := new(big.Int)
	if err := funcBalanceOf.DecodeReturns(result, balance); err != nil {
		return nil, fmt.Errorf("failed to decode balanceOf of %s: %w", token.Hex(), err)
	}

	return balance, nil
}

// FormatTokenBalance formats a token balance of 18 decimals for display
func FormatTokenBalance(label string, token common.Address, balance *big.Int, err error) string {
	if err != nil {
		return fmt.Sprintf("%s: token balance query failed for %s (%v)", label, token.Hex(), err)
	}

	if balance == nil {
		return fmt.Sprintf("%s: token balance unavailable", label)
	}

	tokens := new(big.Float).Quo(
		new(big.Float).SetInt(balance),
		new(big.Float).SetInt(big.NewInt(1e18)),
	)

	return fmt.Sprintf("%s: token balance %.4f (%s raw) [%s]", label, tokens, balance.String(), token.Hex())
}

// FormatETHBalance formats a native balance for display
func FormatETHBalance(label string, balance *big.Int, err error) string {
	if err != nil {
		return fmt.Sprintf("%s: balance query failed (%v)", label, err)
	}

	eth := new(big.Float).Quo(
		new(big.Float).SetInt(balance),
		new(big.Float).SetInt(big.NewInt(1e18)),
	)

	return fmt.Sprintf("%s: balance %.4f ETH (%s wei)", label, eth, balance.String())
}
