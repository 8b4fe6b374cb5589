package graph

import (
	"context"
	"testing"

	"github.com/compose-network/peggy-localnet/internal/bridge/accounts"
	"github.com/compose-network/peggy-localnet/internal/bridge/artifacts"
	"github.com/compose-network/peggy-localnet/internal/bridge/chain/chaintest"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

type staticAccounts struct {
	accts accounts.Accounts
	err   error
}

func (s staticAccounts) Accounts(context.Context) (accounts.Accounts, error) {
	return s.accts, s.err
}

func newAccount(t *testing.T, role accounts.Role) accounts.Account {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	return accounts.Account{
		Role:    role,
		Address: crypto.PubkeyToAddress(key.PublicKey),
		Key:     key,
	}
}

func newAccounts(t *testing.T, validators int) accounts.Accounts {
	t.Helper()

	accts := accounts.Accounts{
		Operator: newAccount(t, accounts.RoleOperator),
		Owner:    newAccount(t, accounts.RoleOwner),
		Pauser:   newAccount(t, accounts.RolePauser),
	}
	for range validators {
		accts.Validators = append(accts.Validators, newAccount(t, accounts.RoleValidator))
	}
	return accts
}

func allArtifacts() *artifacts.MemorySource {
	loaded := make(map[artifacts.ContractName]artifacts.Artifact)
	for name := range artifacts.Contracts {
		loaded[name] = artifacts.Artifact{Name: name}
	}
	return artifacts.NewMemorySource(loaded)
}

type fixture struct {
	registry *Registry
	fake     *chaintest.Fake
	accounts accounts.Accounts
}

// newFixture builds a registry over an in-memory chain. configure runs before the registry exists.
func newFixture(t *testing.T, validators int, opts Options, configure func(f *fixture)) *fixture {
	t.Helper()

	f := &fixture{
		fake:     chaintest.NewFake(),
		accounts: newAccounts(t, validators),
	}
	if configure != nil {
		configure(f)
	}

	f.registry = NewRegistry(context.Background(), staticAccounts{accts: f.accounts}, allArtifacts(), f.fake, opts)
	t.Cleanup(f.registry.Wait)

	return f
}

// initData returns the initializer calldata passed to the proxy of the given implementation.
func (f *fixture) initData(t *testing.T, implementation artifacts.ContractName) []byte {
	t.Helper()

	impls := f.fake.Deployments(implementation)
	require.Len(t, impls, 1)

	for _, proxy := range f.fake.Deployments(artifacts.ContractNameTransparentProxy) {
		if proxy.Args[0] == impls[0].Address {
			return proxy.Args[2].([]byte)
		}
	}

	require.FailNow(t, "proxy not found", "implementation %s", implementation)
	return nil
}

func selector(signature string) []byte {
	return crypto.Keccak256([]byte(signature))[:4]
}

// decodeCall checks the selector of data and unpacks its arguments.
func decodeCall(t *testing.T, signature string, data []byte, types ...string) []any {
	t.Helper()

	require.GreaterOrEqual(t, len(data), 4)
	require.Equal(t, selector(signature), data[:4], "selector of %s", signature)

	arguments := make(abi.Arguments, 0, len(types))
	for _, typ := range types {
		ty, err := abi.NewType(typ, "", nil)
		require.NoError(t, err)
		arguments = append(arguments, abi.Argument{Type: ty})
	}

	values, err := arguments.Unpack(data[4:])
	require.NoError(t, err)
	return values
}

func hasSelector(data []byte, signature string) bool {
	return len(data) >= 4 && common.Bytes2Hex(data[:4]) == common.Bytes2Hex(selector(signature))
}
