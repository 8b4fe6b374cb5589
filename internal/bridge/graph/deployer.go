package graph

import (
	"context"
	"fmt"

	"github.com/compose-network/peggy-localnet/internal/bridge/artifacts"
	"github.com/lmittmann/w3"
)

// plan describes how one kind is deployed. Proxied kinds deploy an implementation behind a
// TransparentUpgradeableProxy and run initializer with args; plain kinds pass args to the constructor.
type plan struct {
	proxied     bool
	initializer *w3.Func
	unsafeAllow []string
	args        func(ctx context.Context) ([]any, error)
}

func (r *Registry) plan(kind Kind) (plan, bool) {
	switch kind {
	case KindProxyAdmin:
		return plan{
			args: func(context.Context) ([]any, error) { return nil, nil },
		}, true
	case KindCosmosBridge:
		return plan{
			proxied:     true,
			initializer: funcInitializeCosmosBridge,
			args: func(ctx context.Context) ([]any, error) {
				args, err := r.CosmosBridgeArguments().Await(ctx)
				return args.AsArray(), err
			},
		}, true
	case KindBridgeBank:
		return plan{
			proxied:     true,
			initializer: funcInitializeBridgeBank,
			unsafeAllow: []string{"delegatecall"},
			args: func(ctx context.Context) ([]any, error) {
				args, err := r.BridgeBankArguments(ctx)
				return args.AsArray(), err
			},
		}, true
	case KindBridgeRegistry:
		return plan{
			proxied:     true,
			initializer: funcInitializeBridgeRegistry,
			args: func(ctx context.Context) ([]any, error) {
				args, err := r.BridgeRegistryArguments(ctx)
				return args.AsArray(), err
			},
		}, true
	case KindBridgeToken:
		return plan{
			args: func(context.Context) ([]any, error) {
				return DefaultBridgeTokenArguments().AsArray(), nil
			},
		}, true
	default:
		return plan{}, false
	}
}

func (r *Registry) deploy(ctx context.Context, t *tracker, kind Kind, p plan) (Contract, error) {
	contract, err := r.build(ctx, t, kind, p)
	if err != nil {
		t.advance(Failed)
		t.logger.With("err", err.Error()).Error("deployment failed")
		return Contract{}, fmt.Errorf("failed to deploy %s: %w", kind, err)
	}

	t.advance(Ready)
	t.logger.
		With("address", contract.Address).
		With("tx_hash", contract.TxHash.Hex()).
		Info("deployment ready")

	return contract, nil
}

func (r *Registry) build(ctx context.Context, t *tracker, kind Kind, p plan) (Contract, error) {
	t.advance(FactoryResolving)
	artifact, err := r.factories.Artifact(ctx, kind.contractName())
	if err != nil {
		return Contract{}, fmt.Errorf("%w: factory: %w", ErrResolution, err)
	}

	var proxyArtifact artifacts.Artifact
	if p.proxied {
		proxyArtifact, err = r.factories.Artifact(ctx, artifacts.ContractNameTransparentProxy)
		if err != nil {
			return Contract{}, fmt.Errorf("%w: proxy factory: %w", ErrResolution, err)
		}
	}

	t.advance(ArgsResolving)
	accts, err := r.accounts.Accounts(ctx)
	if err != nil {
		return Contract{}, fmt.Errorf("%w: accounts: %w", ErrResolution, err)
	}

	args, err := p.args(ctx)
	if err != nil {
		return Contract{}, fmt.Errorf("%w: arguments: %w", ErrResolution, err)
	}

	deployer := accts.Operator

	if !p.proxied {
		t.advance(Deploying)
		pending, err := r.chain.Deploy(ctx, deployer, artifact, args...)
		if err != nil {
			return Contract{}, fmt.Errorf("%w: %w", ErrDeployment, err)
		}

		t.advance(AwaitingConfirmation)
		if err := r.chain.Confirm(ctx, pending); err != nil {
			return Contract{}, fmt.Errorf("%w: %w", ErrDeployment, err)
		}

		return Contract{Kind: kind, Address: pending.Address, TxHash: pending.TxHash}, nil
	}

	initData, err := p.initializer.EncodeArgs(args...)
	if err != nil {
		return Contract{}, fmt.Errorf("%w: failed to encode initializer: %w", ErrResolution, err)
	}

	if len(p.unsafeAllow) > 0 {
		t.logger.With("unsafe_allow", p.unsafeAllow).Warn("implementation allows unsafe upgrade patterns")
	}

	t.advance(Deploying)
	implementation, err := r.chain.Deploy(ctx, deployer, artifact)
	if err != nil {
		return Contract{}, fmt.Errorf("%w: implementation: %w", ErrDeployment, err)
	}
	if err := r.chain.Confirm(ctx, implementation); err != nil {
		return Contract{}, fmt.Errorf("%w: implementation: %w", ErrDeployment, err)
	}

	admin, err := r.ProxyAdmin().Await(ctx)
	if err != nil {
		return Contract{}, fmt.Errorf("%w: proxy admin: %w", ErrResolution, err)
	}

	proxy, err := r.chain.Deploy(ctx, deployer, proxyArtifact, implementation.Address, admin.Address, initData)
	if err != nil {
		return Contract{}, fmt.Errorf("%w: proxy: %w", ErrDeployment, err)
	}

	t.advance(AwaitingConfirmation)
	if err := r.chain.Confirm(ctx, proxy); err != nil {
		return Contract{}, fmt.Errorf("%w: proxy: %w", ErrDeployment, err)
	}

	return Contract{
		Kind:           kind,
		Address:        proxy.Address,
		Implementation: implementation.Address,
		TxHash:         proxy.TxHash,
	}, nil
}
