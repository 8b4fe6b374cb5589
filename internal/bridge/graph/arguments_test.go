package graph

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/compose-network/peggy-localnet/internal/bridge/artifacts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCosmosBridgeArguments(t *testing.T) {
	for _, validators := range []int{1, 3, 7} {
		for _, power := range []int64{1, 100, 250} {
			t.Run(fmt.Sprintf("%d validators power %d", validators, power), func(t *testing.T) {
				accts := newAccounts(t, validators)

				args := DefaultCosmosBridgeArguments(accts, power, 9999)

				assert.Zero(t, big.NewInt(power*int64(validators)).Cmp(args.ConsensusThreshold))
				require.Len(t, args.Powers, validators)
				for _, p := range args.Powers {
					assert.Zero(t, big.NewInt(power).Cmp(p))
				}
				assert.Equal(t, accts.ValidatorAddresses(), args.Validators)
				assert.Equal(t, accts.Operator.Address, args.Operator)
				assert.Equal(t, int32(9999), args.NetworkDescriptor)
			})
		}
	}
}

func TestCosmosBridgeArgumentsAsArray(t *testing.T) {
	accts := newAccounts(t, 2)
	args := DefaultCosmosBridgeArguments(accts, 100, 9999)

	array := args.AsArray()
	require.Len(t, array, 5)
	assert.Equal(t, accts.Operator.Address, array[0])
	assert.Equal(t, args.ConsensusThreshold, array[1])
	assert.Equal(t, args.Validators, array[2])
	assert.Equal(t, args.Powers, array[3])
	assert.Equal(t, int32(9999), array[4])
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}.withDefaults()
	assert.Equal(t, int64(100), opts.ValidatorPower)
	assert.Equal(t, int32(9999), opts.NetworkDescriptor)
	assert.Equal(t, int32(9999), opts.BridgeBankNetworkDescriptor)

	opts = Options{ValidatorPower: 5, NetworkDescriptor: 1}.withDefaults()
	assert.Equal(t, int64(5), opts.ValidatorPower)
	assert.Equal(t, int32(1), opts.NetworkDescriptor)
	assert.Equal(t, int32(1), opts.BridgeBankNetworkDescriptor)

	opts = Options{BridgeBankNetworkDescriptor: 1}.withDefaults()
	assert.Equal(t, int32(9999), opts.NetworkDescriptor)
	assert.Equal(t, int32(1), opts.BridgeBankNetworkDescriptor)
}

func TestRegistryCosmosBridgeArgumentsMemoized(t *testing.T) {
	f := newFixture(t, 3, Options{ValidatorPower: 7, NetworkDescriptor: 42}, nil)

	first := f.registry.CosmosBridgeArguments()
	assert.Same(t, first, f.registry.CosmosBridgeArguments())

	args, err := first.Await(context.Background())
	require.NoError(t, err)
	assert.Zero(t, big.NewInt(21).Cmp(args.ConsensusThreshold))
	assert.Equal(t, int32(42), args.NetworkDescriptor)
}

func TestBridgeBankArguments(t *testing.T) {
	f := newFixture(t, 1, Options{NetworkDescriptor: 3}, nil)

	args, err := f.registry.BridgeBankArguments(context.Background())
	require.NoError(t, err)

	cosmosBridge, err := f.registry.Lookup(KindCosmosBridge)
	require.NoError(t, err)
	assert.Equal(t, Ready, f.registry.State(KindCosmosBridge))

	assert.Equal(t, BridgeBankArguments{
		Operator:          f.accounts.Operator.Address,
		CosmosBridge:      cosmosBridge.Address,
		Owner:             f.accounts.Owner.Address,
		Pauser:            f.accounts.Pauser.Address,
		NetworkDescriptor: 3,
	}, args)
}

func TestBridgeBankNetworkDescriptorOverride(t *testing.T) {
	f := newFixture(t, 2, Options{NetworkDescriptor: 9999, BridgeBankNetworkDescriptor: 1}, nil)

	_, err := f.registry.BridgeBank().Await(context.Background())
	require.NoError(t, err)

	bankArgs := decodeCall(t, "initialize(address,address,address,address,int32)",
		f.initData(t, artifacts.ContractNameBridgeBank),
		"address", "address", "address", "address", "int32")
	assert.Equal(t, int32(1), bankArgs[4])

	bridgeArgs := decodeCall(t, "initialize(address,uint256,address[],uint256[],int32)",
		f.initData(t, artifacts.ContractNameCosmosBridge),
		"address", "uint256", "address[]", "uint256[]", "int32")
	assert.Equal(t, int32(9999), bridgeArgs[4])
}

func TestDefaultBridgeTokenArguments(t *testing.T) {
	assert.Equal(t, []any{"erowan", "erowan", uint8(18), "rowan"}, DefaultBridgeTokenArguments().AsArray())
}
