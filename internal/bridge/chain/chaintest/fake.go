// Package chaintest provides an in-memory chain for exercising deployments without a node.
package chaintest

import (
	"context"
	"encoding/binary"
	"sync"

	"github.com/compose-network/peggy-localnet/internal/bridge/accounts"
	"github.com/compose-network/peggy-localnet/internal/bridge/artifacts"
	"github.com/compose-network/peggy-localnet/internal/bridge/chain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

type CallKind string

const (
	CallDeploy   CallKind = "deploy"
	CallTransact CallKind = "transact"
)

type (
	// Call is one transaction accepted by the fake.
	Call struct {
		Kind     CallKind
		From     common.Address
		Contract artifacts.ContractName
		Args     []any
		To       common.Address
		Data     []byte
		Address  common.Address
	}

	// Fake records deployments and calls. Hooks and failure knobs must be set before use.
	Fake struct {
		FailDeploy   map[artifacts.ContractName]error
		FailTransact func(to common.Address, data []byte) error
		OnDeploy     func(name artifacts.ContractName)
		OnTransact   func(from, to common.Address, data []byte)

		mu     sync.Mutex
		nonces map[common.Address]uint64
		calls  []Call
	}
)

func NewFake() *Fake {
	return &Fake{
		FailDeploy: make(map[artifacts.ContractName]error),
		nonces:     make(map[common.Address]uint64),
	}
}

func (f *Fake) Deploy(_ context.Context, from accounts.Account, artifact artifacts.Artifact, args ...any) (chain.Pending, error) {
	if f.OnDeploy != nil {
		f.OnDeploy(artifact.Name)
	}
	if err := f.FailDeploy[artifact.Name]; err != nil {
		return chain.Pending{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	nonce := f.nextNonce(from.Address)
	address := crypto.CreateAddress(from.Address, nonce)
	f.calls = append(f.calls, Call{
		Kind:     CallDeploy,
		From:     from.Address,
		Contract: artifact.Name,
		Args:     args,
		Address:  address,
	})

	return chain.Pending{Address: address, TxHash: txHash(from.Address, nonce)}, nil
}

func (f *Fake) Transact(_ context.Context, from accounts.Account, to common.Address, calldata []byte) (chain.Pending, error) {
	if f.OnTransact != nil {
		f.OnTransact(from.Address, to, calldata)
	}
	if f.FailTransact != nil {
		if err := f.FailTransact(to, calldata); err != nil {
			return chain.Pending{}, err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	nonce := f.nextNonce(from.Address)
	f.calls = append(f.calls, Call{
		Kind: CallTransact,
		From: from.Address,
		To:   to,
		Data: calldata,
	})

	return chain.Pending{TxHash: txHash(from.Address, nonce)}, nil
}

func (f *Fake) Confirm(ctx context.Context, _ chain.Pending) error {
	return ctx.Err()
}

// Calls returns every accepted transaction in the order it was sent
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]Call(nil), f.calls...)
}

// Deployments returns the accepted creations of the named contract
func (f *Fake) Deployments(name artifacts.ContractName) []Call {
	var result []Call
	for _, call := range f.Calls() {
		if call.Kind == CallDeploy && call.Contract == name {
			result = append(result, call)
		}
	}
	return result
}

// Transactions returns the accepted calls to existing contracts
func (f *Fake) Transactions() []Call {
	var result []Call
	for _, call := range f.Calls() {
		if call.Kind == CallTransact {
			result = append(result, call)
		}
	}
	return result
}

func (f *Fake) nextNonce(address common.Address) uint64 {
	nonce := f.nonces[address]
	f.nonces[address] = nonce + 1
	return nonce
}

func txHash(from common.Address, nonce uint64) common.Hash {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], nonce)
	return crypto.Keccak256Hash(from.Bytes(), buf[:])
}
