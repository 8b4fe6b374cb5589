package chain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/compose-network/peggy-localnet/configs"
	"github.com/compose-network/peggy-localnet/internal/bridge/accounts"
	"github.com/compose-network/peggy-localnet/internal/bridge/artifacts"
	"github.com/compose-network/peggy-localnet/internal/logger"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

const (
	defaultGasLimit            = uint64(6_000_000)
	defaultConfirmationTimeout = 2 * time.Minute
)

var ErrTransactionReverted = errors.New("transaction reverted")

type (
	// Pending is a sent transaction that may not be mined yet. Address is set for contract creations.
	Pending struct {
		Address common.Address
		TxHash  common.Hash
		Tx      *types.Transaction
	}

	// Client sends deployments and calls to an EVM node over JSON-RPC
	Client struct {
		rpcURL              string
		client              *ethclient.Client
		chainID             *big.Int
		gasLimit            uint64
		confirmationTimeout time.Duration

		mu      sync.Mutex
		senders map[common.Address]*sync.Mutex

		logger *slog.Logger
	}
)

// Dial connects to the node at cfg.RPCURL and fetches its chain ID
func Dial(ctx context.Context, cfg configs.Bridge) (*Client, error) {
	log := logger.Named("chain_client")

	log.With("url", cfg.RPCURL).Info("dialing the RPC")
	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.RPCURL, err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	log.With("chain_id", chainID).Info("chain ID was fetched")

	gasLimit := cfg.GasLimit
	if gasLimit == 0 {
		gasLimit = defaultGasLimit
	}
	timeout := cfg.ConfirmationTimeout
	if timeout <= 0 {
		timeout = defaultConfirmationTimeout
	}

	return &Client{
		rpcURL:              cfg.RPCURL,
		client:              client,
		chainID:             chainID,
		gasLimit:            gasLimit,
		confirmationTimeout: timeout,
		senders:             make(map[common.Address]*sync.Mutex),
		logger:              log,
	}, nil
}

func (c *Client) Close() {
	c.client.Close()
}

func (c *Client) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

func (c *Client) RPCURL() string {
	return c.rpcURL
}

// Deploy sends a contract creation transaction with the given constructor arguments
func (c *Client) Deploy(ctx context.Context, from accounts.Account, artifact artifacts.Artifact, args ...any) (Pending, error) {
	unlock := c.lockSender(from.Address)
	defer unlock()

	opts, err := c.transactOpts(ctx, from)
	if err != nil {
		return Pending{}, err
	}

	address, tx, _, err := bind.DeployContract(opts, artifact.ABI, artifact.Bytecode, c.client, args...)
	if err != nil {
		return Pending{}, fmt.Errorf("failed to deploy %s: %w", artifact.Name, err)
	}

	c.logger.
		With("contract", artifact.Name).
		With("address", address).
		With("tx_hash", tx.Hash().Hex()).
		Info("contract deployment transaction sent")

	return Pending{Address: address, TxHash: tx.Hash(), Tx: tx}, nil
}

// Transact sends pre-encoded calldata to a deployed contract
func (c *Client) Transact(ctx context.Context, from accounts.Account, to common.Address, calldata []byte) (Pending, error) {
	unlock := c.lockSender(from.Address)
	defer unlock()

	opts, err := c.transactOpts(ctx, from)
	if err != nil {
		return Pending{}, err
	}

	contract := bind.NewBoundContract(to, abi.ABI{}, c.client, c.client, c.client)
	tx, err := contract.RawTransact(opts, calldata)
	if err != nil {
		return Pending{}, fmt.Errorf("failed to send transaction to %s: %w", to, err)
	}

	c.logger.
		With("from", from.Address).
		With("to", to).
		With("tx_hash", tx.Hash().Hex()).
		Debug("transaction sent")

	return Pending{TxHash: tx.Hash(), Tx: tx}, nil
}

// Confirm waits until the transaction is mined and checks it succeeded
func (c *Client) Confirm(ctx context.Context, pending Pending) error {
	ctx, cancel := context.WithTimeout(ctx, c.confirmationTimeout)
	defer cancel()

	receipt, err := bind.WaitMined(ctx, c.client, pending.Tx)
	if err != nil {
		return fmt.Errorf("failed to wait for transaction %s: %w", pending.TxHash.Hex(), err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("%w: %s with status %d", ErrTransactionReverted, pending.TxHash.Hex(), receipt.Status)
	}

	return nil
}

func (c *Client) transactOpts(ctx context.Context, from accounts.Account) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(from.Key, c.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}

	gasPrice, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}

	opts.Context = ctx
	opts.GasLimit = c.gasLimit
	opts.GasPrice = gasPrice

	return opts, nil
}

// lockSender serializes sends per account so pending nonces are assigned in order
func (c *Client) lockSender(address common.Address) func() {
	c.mu.Lock()
	sender, ok := c.senders[address]
	if !ok {
		sender = &sync.Mutex{}
		c.senders[address] = sender
	}
	c.mu.Unlock()

	sender.Lock()
	return sender.Unlock
}
