package bridge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/compose-network/peggy-localnet/internal/bridge/accounts"
	"github.com/compose-network/peggy-localnet/internal/bridge/artifacts"
	"github.com/compose-network/peggy-localnet/internal/bridge/graph"
	"github.com/compose-network/peggy-localnet/internal/bridge/output"
	"github.com/compose-network/peggy-localnet/internal/logger"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

var outputKeys = map[graph.Kind]string{
	graph.KindProxyAdmin:     "proxyAdmin",
	graph.KindCosmosBridge:   "cosmosBridge",
	graph.KindBridgeBank:     "bridgeBank",
	graph.KindBridgeRegistry: "bridgeRegistry",
	graph.KindBridgeToken:    "bridgeToken",
}

type (
	generator interface {
		Generate(ctx context.Context, model output.Model) error
	}

	// Service deploys and wires the bridge contracts, then records the result
	Service struct {
		accounts  accounts.Source
		factories artifacts.Source
		chain     graph.Chain
		generator generator
		opts      graph.Options
		network   output.Network
		logger    *slog.Logger
	}
)

func NewService(
	accts accounts.Source,
	factories artifacts.Source,
	backend graph.Chain,
	generator generator,
	opts graph.Options,
	network output.Network,
) *Service {
	return &Service{
		accounts:  accts,
		factories: factories,
		chain:     backend,
		generator: generator,
		opts:      opts,
		network:   network,
		logger:    logger.Named("bridge_service"),
	}
}

// Deploy requests every deployment concurrently, runs the setup and writes the output.
// The run is either fully Ready or failed; a failure stops every in-flight deployment.
func (s *Service) Deploy(ctx context.Context) (output.Model, error) {
	runCtx, cancel := context.WithCancel(ctx)
	registry := graph.NewRegistry(runCtx, s.accounts, s.factories, s.chain, s.opts)
	defer func() {
		cancel()
		registry.Wait()
	}()

	s.logger.Info("deploying bridge contracts")

	g, gctx := errgroup.WithContext(runCtx)
	for _, kind := range graph.Kinds {
		g.Go(func() error {
			_, err := registry.Get(kind).Await(gctx)
			return err
		})
	}
	g.Go(func() error {
		_, err := registry.Setup().Await(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.With("err", err.Error()).Error("bridge deployment failed")
		return output.Model{}, err
	}

	contracts, err := registry.Contracts(ctx)
	if err != nil {
		return output.Model{}, err
	}

	model, err := s.buildModel(ctx, contracts)
	if err != nil {
		return output.Model{}, err
	}

	if err := s.generator.Generate(ctx, model); err != nil {
		return output.Model{}, fmt.Errorf("failed to generate output: %w", err)
	}

	s.logger.
		With("cosmos_bridge", contracts[graph.KindCosmosBridge].Address).
		With("bridge_bank", contracts[graph.KindBridgeBank].Address).
		With("bridge_registry", contracts[graph.KindBridgeRegistry].Address).
		With("erowan", contracts[graph.KindBridgeToken].Address).
		Info("bridge deployed")

	return model, nil
}

func (s *Service) buildModel(ctx context.Context, contracts map[graph.Kind]graph.Contract) (output.Model, error) {
	model := output.Model{
		Network:   s.network,
		Contracts: make(map[string]output.ContractConfig, len(contracts)),
	}

	for kind, contract := range contracts {
		artifact, err := s.factories.Artifact(ctx, artifacts.ContractName(kind))
		if err != nil {
			return output.Model{}, fmt.Errorf("failed to resolve ABI of %s: %w", kind, err)
		}

		entry := output.ContractConfig{
			Address: contract.Address,
			ABI:     output.SingleQuotedString(output.CompactJSON(artifact.RawABI)),
		}
		if contract.Implementation != (common.Address{}) {
			implementation := contract.Implementation
			entry.Implementation = &implementation
		}

		model.Contracts[outputKeys[kind]] = entry
	}

	token := graph.DefaultBridgeTokenArguments()
	model.Token = output.Token{
		Name:     token.Name,
		Symbol:   token.Symbol,
		Decimals: token.Decimals,
		Denom:    token.Denom,
		Address:  contracts[graph.KindBridgeToken].Address,
	}

	return model, nil
}
