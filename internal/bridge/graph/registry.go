package graph

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/compose-network/peggy-localnet/internal/bridge/accounts"
	"github.com/compose-network/peggy-localnet/internal/bridge/artifacts"
	"github.com/compose-network/peggy-localnet/internal/bridge/chain"
	"github.com/compose-network/peggy-localnet/internal/logger"
	"github.com/ethereum/go-ethereum/common"
)

// Chain sends transactions on behalf of the configured accounts.
type Chain interface {
	Deploy(ctx context.Context, from accounts.Account, artifact artifacts.Artifact, args ...any) (chain.Pending, error)
	Transact(ctx context.Context, from accounts.Account, to common.Address, calldata []byte) (chain.Pending, error)
	Confirm(ctx context.Context, pending chain.Pending) error
}

// Registry builds every deployment of one run at most once. The first Get of a kind starts its
// deployment; every later Get returns the same future.
type Registry struct {
	ctx       context.Context
	accounts  accounts.Source
	factories artifacts.Source
	chain     Chain
	opts      Options

	mu               sync.Mutex
	contracts        map[Kind]*Future[Contract]
	trackers         map[Kind]*tracker
	cosmosBridgeArgs *Future[CosmosBridgeArguments]
	setup            *Future[struct{}]
	pending          []<-chan struct{}

	logger *slog.Logger
}

// NewRegistry creates a registry whose deployments run under ctx. Cancelling ctx aborts them.
func NewRegistry(ctx context.Context, accts accounts.Source, factories artifacts.Source, backend Chain, opts Options) *Registry {
	return &Registry{
		ctx:       ctx,
		accounts:  accts,
		factories: factories,
		chain:     backend,
		opts:      opts.withDefaults(),
		contracts: make(map[Kind]*Future[Contract]),
		trackers:  make(map[Kind]*tracker),
		logger:    logger.Named("deployment_graph"),
	}
}

func (r *Registry) Get(kind Kind) *Future[Contract] {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.contracts[kind]; ok {
		return f
	}

	p, ok := r.plan(kind)
	if !ok {
		return Resolved(Contract{}, fmt.Errorf("%w: %s", ErrUnknownKind, kind))
	}

	t := newTracker(kind, r.logger)
	r.trackers[kind] = t
	r.contracts[kind] = spawn(r, func(ctx context.Context) (Contract, error) {
		return r.deploy(ctx, t, kind, p)
	})

	r.logger.With("kind", kind).Info("deployment requested")

	return r.contracts[kind]
}

func (r *Registry) ProxyAdmin() *Future[Contract]     { return r.Get(KindProxyAdmin) }
func (r *Registry) CosmosBridge() *Future[Contract]   { return r.Get(KindCosmosBridge) }
func (r *Registry) BridgeBank() *Future[Contract]     { return r.Get(KindBridgeBank) }
func (r *Registry) BridgeRegistry() *Future[Contract] { return r.Get(KindBridgeRegistry) }
func (r *Registry) BridgeToken() *Future[Contract]    { return r.Get(KindBridgeToken) }

// State reports where the deployment of kind is. Kinds never requested are NotStarted.
func (r *Registry) State(kind Kind) State {
	r.mu.Lock()
	t, ok := r.trackers[kind]
	r.mu.Unlock()

	if !ok {
		return NotStarted
	}
	return t.State()
}

// Lookup returns a finished deployment without starting or waiting for one.
func (r *Registry) Lookup(kind Kind) (Contract, error) {
	r.mu.Lock()
	f, ok := r.contracts[kind]
	r.mu.Unlock()

	if !ok {
		return Contract{}, fmt.Errorf("%w: %s", ErrNotReady, kind)
	}
	return f.Result()
}

// Contracts starts every kind and waits for all of them.
func (r *Registry) Contracts(ctx context.Context) (map[Kind]Contract, error) {
	futures := make(map[Kind]*Future[Contract], len(Kinds))
	for _, kind := range Kinds {
		futures[kind] = r.Get(kind)
	}

	result := make(map[Kind]Contract, len(Kinds))
	for _, kind := range Kinds {
		contract, err := futures[kind].Await(ctx)
		if err != nil {
			return nil, err
		}
		result[kind] = contract
	}

	return result, nil
}

// Wait blocks until every build started by the registry has returned.
func (r *Registry) Wait() {
	for i := 0; ; i++ {
		r.mu.Lock()
		if i >= len(r.pending) {
			r.mu.Unlock()
			return
		}
		done := r.pending[i]
		r.mu.Unlock()

		<-done
	}
}

// spawn starts fn under the registry context. The caller must hold r.mu.
func spawn[T any](r *Registry, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := Go(r.ctx, fn)
	r.pending = append(r.pending, f.Done())
	return f
}
