package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg, err := DefaultConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8545", cfg.Bridge.RPCURL)
	assert.Equal(t, DefaultValidatorPower, cfg.Bridge.ValidatorPower)
	assert.Equal(t, DefaultNetworkDescriptor, cfg.Bridge.NetworkDescriptor)
	assert.Equal(t, 2*time.Minute, cfg.Bridge.ConfirmationTimeout)
	assert.Len(t, cfg.Bridge.Accounts.ValidatorKeys, 4)
	assert.Equal(t, DefaultReadyMarker, cfg.Stack.ReadyMarker)
	assert.Equal(t, DefaultProcessNames, cfg.Stack.ProcessNames)
	assert.Equal(t, time.Second, cfg.Stack.GracePeriod)

	require.NoError(t, cfg.Bridge.Validate())
	require.NoError(t, cfg.Node.Validate())
	require.NoError(t, cfg.Stack.Validate())
}

func TestBridgeValidate(t *testing.T) {
	cfg := Bridge{}
	err := cfg.Validate()
	require.Error(t, err)

	for _, key := range []string{
		"bridge.rpc-url",
		"bridge.artifacts-path",
		"bridge.output-dir",
		"bridge.accounts.operator-key",
		"bridge.accounts.owner-key",
		"bridge.accounts.pauser-key",
		"bridge.accounts.validator-keys",
	} {
		assert.ErrorContains(t, err, key)
	}
}

func TestBridgeApplyDefaults(t *testing.T) {
	cfg := Bridge{}
	cfg.ApplyDefaults()
	assert.Equal(t, int64(100), cfg.ValidatorPower)
	assert.Equal(t, int32(9999), cfg.NetworkDescriptor)
	assert.Equal(t, int32(9999), cfg.BridgeBankNetworkDescriptor)

	cfg = Bridge{ValidatorPower: 7, NetworkDescriptor: 1}
	cfg.ApplyDefaults()
	assert.Equal(t, int64(7), cfg.ValidatorPower)
	assert.Equal(t, int32(1), cfg.NetworkDescriptor)
	assert.Equal(t, int32(1), cfg.BridgeBankNetworkDescriptor)

	cfg = Bridge{BridgeBankNetworkDescriptor: 1}
	cfg.ApplyDefaults()
	assert.Equal(t, int32(9999), cfg.NetworkDescriptor)
	assert.Equal(t, int32(1), cfg.BridgeBankNetworkDescriptor)
}

func TestNodeValidate(t *testing.T) {
	cfg := Node{Image: "img", ContainerName: "anvil", RPCPort: 70000, ChainID: 1}
	assert.ErrorContains(t, cfg.Validate(), "node.rpc-port 70000 is out of range")
}

func TestStackApplyDefaults(t *testing.T) {
	cfg := Stack{Script: "./run.sh"}
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultReadyMarker, cfg.ReadyMarker)
	assert.Equal(t, DefaultProcessNames, cfg.ProcessNames)
}
