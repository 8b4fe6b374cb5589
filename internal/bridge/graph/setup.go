package graph

import (
	"context"
	"fmt"

	"github.com/compose-network/peggy-localnet/internal/bridge/accounts"
	"github.com/ethereum/go-ethereum/common"
)

// Step is one named privileged action run after deployment.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// RunSequence runs steps in order and stops at the first failure. Completed steps are not undone.
func RunSequence(ctx context.Context, steps ...Step) error {
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("step %s: %w", step.Name, err)
		}
		if err := step.Run(ctx); err != nil {
			return fmt.Errorf("step %s: %w", step.Name, err)
		}
	}
	return nil
}

// Setup returns the memoized future of the whole post-deployment setup:
// BridgeBankSetup followed by BridgeTokenSetup.
func (r *Registry) Setup() *Future[struct{}] {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.setup == nil {
		r.setup = spawn(r, func(ctx context.Context) (struct{}, error) {
			r.logger.Info("running setup")

			if err := RunSequence(ctx, r.BridgeBankSetup(), r.BridgeTokenSetup()); err != nil {
				r.logger.With("err", err.Error()).Error("setup failed")
				return struct{}{}, fmt.Errorf("%w: %w", ErrSetup, err)
			}

			r.logger.Info("setup complete")
			return struct{}{}, nil
		})
	}

	return r.setup
}

// BridgeBankSetup links the BridgeBank proxy back into CosmosBridge.
func (r *Registry) BridgeBankSetup() Step {
	return Step{
		Name: "BridgeBankSetup",
		Run: func(ctx context.Context) error {
			cosmosBridge, err := r.CosmosBridge().Await(ctx)
			if err != nil {
				return err
			}
			bridgeBank, err := r.BridgeBank().Await(ctx)
			if err != nil {
				return err
			}
			accts, err := r.accounts.Accounts(ctx)
			if err != nil {
				return fmt.Errorf("failed to resolve accounts: %w", err)
			}

			return RunSequence(ctx,
				r.call("setBridgeBank", accts.Operator, cosmosBridge.Address, func() ([]byte, error) {
					return funcSetBridgeBank.EncodeArgs(bridgeBank.Address)
				}),
			)
		},
	}
}

// BridgeTokenSetup registers erowan with BridgeBank, grants its roles and funds the operator.
func (r *Registry) BridgeTokenSetup() Step {
	return Step{
		Name: "BridgeTokenSetup",
		Run: func(ctx context.Context) error {
			erowan, err := r.BridgeToken().Await(ctx)
			if err != nil {
				return err
			}
			bridgeBank, err := r.BridgeBank().Await(ctx)
			if err != nil {
				return err
			}
			accts, err := r.accounts.Accounts(ctx)
			if err != nil {
				return fmt.Errorf("failed to resolve accounts: %w", err)
			}

			owner, operator := accts.Owner, accts.Operator

			return RunSequence(ctx,
				r.call("addExistingBridgeToken", owner, bridgeBank.Address, func() ([]byte, error) {
					return funcAddExistingBridgeToken.EncodeArgs(erowan.Address)
				}),
				r.call("grantRole(MINTER_ROLE, BridgeBank)", operator, erowan.Address, func() ([]byte, error) {
					return funcGrantRole.EncodeArgs(MinterRole, bridgeBank.Address)
				}),
				r.call("grantRole(MINTER_ROLE, owner)", operator, erowan.Address, func() ([]byte, error) {
					return funcGrantRole.EncodeArgs(MinterRole, owner.Address)
				}),
				r.call("grantRole(ADMIN_ROLE, BridgeBank)", operator, erowan.Address, func() ([]byte, error) {
					return funcGrantRole.EncodeArgs(AdminRole, bridgeBank.Address)
				}),
				r.call("approve", operator, erowan.Address, func() ([]byte, error) {
					return funcApprove.EncodeArgs(bridgeBank.Address, ApproveAmount)
				}),
				r.call("mint", owner, erowan.Address, func() ([]byte, error) {
					return funcMint.EncodeArgs(operator.Address, MintAmount)
				}),
			)
		},
	}
}

// call sends the encoded calldata from the account and waits for its receipt.
func (r *Registry) call(name string, from accounts.Account, to common.Address, encode func() ([]byte, error)) Step {
	return Step{
		Name: name,
		Run: func(ctx context.Context) error {
			calldata, err := encode()
			if err != nil {
				return fmt.Errorf("failed to encode calldata: %w", err)
			}

			pending, err := r.chain.Transact(ctx, from, to, calldata)
			if err != nil {
				return err
			}
			if err := r.chain.Confirm(ctx, pending); err != nil {
				return err
			}

			r.logger.
				With("step", name).
				With("from", from.Role).
				With("to", to).
				Info("setup call confirmed")

			return nil
		},
	}
}
