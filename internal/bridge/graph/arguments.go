package graph

import (
	"context"
	"fmt"
	"math/big"

	"github.com/compose-network/peggy-localnet/configs"
	"github.com/compose-network/peggy-localnet/internal/bridge/accounts"
	"github.com/ethereum/go-ethereum/common"
)

type (
	CosmosBridgeArguments struct {
		Operator           common.Address
		ConsensusThreshold *big.Int
		Validators         []common.Address
		Powers             []*big.Int
		NetworkDescriptor  int32
	}

	BridgeBankArguments struct {
		Operator          common.Address
		CosmosBridge      common.Address
		Owner             common.Address
		Pauser            common.Address
		NetworkDescriptor int32
	}

	BridgeRegistryArguments struct {
		CosmosBridge common.Address
		BridgeBank   common.Address
	}

	BridgeTokenArguments struct {
		Name     string
		Symbol   string
		Decimals uint8
		Denom    string
	}

	// Options tunes the argument builders. Zero values select the defaults; a zero
	// BridgeBankNetworkDescriptor reuses NetworkDescriptor.
	Options struct {
		ValidatorPower              int64
		NetworkDescriptor           int32
		BridgeBankNetworkDescriptor int32
	}
)

// DefaultCosmosBridgeArguments gives every validator the same power; the consensus threshold is their sum.
func DefaultCosmosBridgeArguments(accts accounts.Accounts, power int64, networkDescriptor int32) CosmosBridgeArguments {
	validators := accts.ValidatorAddresses()

	threshold := new(big.Int)
	powers := make([]*big.Int, 0, len(validators))
	for range validators {
		p := big.NewInt(power)
		powers = append(powers, p)
		threshold.Add(threshold, p)
	}

	return CosmosBridgeArguments{
		Operator:           accts.Operator.Address,
		ConsensusThreshold: threshold,
		Validators:         validators,
		Powers:             powers,
		NetworkDescriptor:  networkDescriptor,
	}
}

func (a CosmosBridgeArguments) AsArray() []any {
	return []any{a.Operator, a.ConsensusThreshold, a.Validators, a.Powers, a.NetworkDescriptor}
}

func (a BridgeBankArguments) AsArray() []any {
	return []any{a.Operator, a.CosmosBridge, a.Owner, a.Pauser, a.NetworkDescriptor}
}

func (a BridgeRegistryArguments) AsArray() []any {
	return []any{a.CosmosBridge, a.BridgeBank}
}

// DefaultBridgeTokenArguments describes the erowan token.
func DefaultBridgeTokenArguments() BridgeTokenArguments {
	return BridgeTokenArguments{
		Name:     "erowan",
		Symbol:   "erowan",
		Decimals: 18,
		Denom:    "rowan",
	}
}

func (a BridgeTokenArguments) AsArray() []any {
	return []any{a.Name, a.Symbol, a.Decimals, a.Denom}
}

func (o Options) withDefaults() Options {
	if o.ValidatorPower == 0 {
		o.ValidatorPower = configs.DefaultValidatorPower
	}
	if o.NetworkDescriptor == 0 {
		o.NetworkDescriptor = configs.DefaultNetworkDescriptor
	}
	if o.BridgeBankNetworkDescriptor == 0 {
		o.BridgeBankNetworkDescriptor = o.NetworkDescriptor
	}
	return o
}

// CosmosBridgeArguments returns the memoized CosmosBridge initializer arguments.
func (r *Registry) CosmosBridgeArguments() *Future[CosmosBridgeArguments] {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cosmosBridgeArgs == nil {
		r.cosmosBridgeArgs = spawn(r, func(ctx context.Context) (CosmosBridgeArguments, error) {
			accts, err := r.accounts.Accounts(ctx)
			if err != nil {
				return CosmosBridgeArguments{}, fmt.Errorf("failed to resolve accounts: %w", err)
			}
			return DefaultCosmosBridgeArguments(accts, r.opts.ValidatorPower, r.opts.NetworkDescriptor), nil
		})
	}

	return r.cosmosBridgeArgs
}

// BridgeBankArguments waits for CosmosBridge to be Ready, then for the accounts.
func (r *Registry) BridgeBankArguments(ctx context.Context) (BridgeBankArguments, error) {
	cosmosBridge, err := r.CosmosBridge().Await(ctx)
	if err != nil {
		return BridgeBankArguments{}, fmt.Errorf("failed to resolve %s: %w", KindCosmosBridge, err)
	}

	accts, err := r.accounts.Accounts(ctx)
	if err != nil {
		return BridgeBankArguments{}, fmt.Errorf("failed to resolve accounts: %w", err)
	}

	return BridgeBankArguments{
		Operator:          accts.Operator.Address,
		CosmosBridge:      cosmosBridge.Address,
		Owner:             accts.Owner.Address,
		Pauser:            accts.Pauser.Address,
		NetworkDescriptor: r.opts.BridgeBankNetworkDescriptor,
	}, nil
}

func (r *Registry) BridgeRegistryArguments(ctx context.Context) (BridgeRegistryArguments, error) {
	cosmosBridge, err := r.CosmosBridge().Await(ctx)
	if err != nil {
		return BridgeRegistryArguments{}, fmt.Errorf("failed to resolve %s: %w", KindCosmosBridge, err)
	}

	bridgeBank, err := r.BridgeBank().Await(ctx)
	if err != nil {
		return BridgeRegistryArguments{}, fmt.Errorf("failed to resolve %s: %w", KindBridgeBank, err)
	}

	return BridgeRegistryArguments{
		CosmosBridge: cosmosBridge.Address,
		BridgeBank:   bridgeBank.Address,
	}, nil
}
