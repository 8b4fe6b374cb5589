package output

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	fsjson "github.com/compose-network/peggy-localnet/internal/infra/filesystem/json"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testModel() Model {
	implementation := common.HexToAddress("0x0000000000000000000000000000000000000b0b")

	return Model{
		Network: Network{ChainID: 31337, RPCURL: "http://localhost:8545"},
		Contracts: map[string]ContractConfig{
			"bridgeBank": {
				Address:        common.HexToAddress("0x0000000000000000000000000000000000000bb0"),
				Implementation: &implementation,
				ABI:            SingleQuotedString(CompactJSON(`[ {"type": "function"} ]`)),
			},
		},
		Token: Token{
			Name:     "erowan",
			Symbol:   "erowan",
			Decimals: 18,
			Denom:    "rowan",
			Address:  common.HexToAddress("0x0000000000000000000000000000000000000e0e"),
		},
	}
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	model := testModel()

	require.NoError(t, NewGenerator(dir, fsjson.NewWriter()).Generate(context.Background(), model))

	raw, err := os.ReadFile(filepath.Join(dir, YAMLFileName))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `abi: '[{"type":"function"}]'`)

	var fromYAML struct {
		Network struct {
			ChainID uint64 `yaml:"chain-id"`
		} `yaml:"network"`
		Token struct {
			Denom string `yaml:"denom"`
		} `yaml:"token"`
	}
	require.NoError(t, yaml.Unmarshal(raw, &fromYAML))
	assert.Equal(t, uint64(31337), fromYAML.Network.ChainID)
	assert.Equal(t, "rowan", fromYAML.Token.Denom)

	loaded, err := Load(fsjson.NewReader(), dir)
	require.NoError(t, err)
	assert.Equal(t, model.Network, loaded.Network)
	assert.Equal(t, model.Token, loaded.Token)

	bank, ok := loaded.Contract("bridgeBank")
	require.True(t, ok)
	assert.Equal(t, model.Contracts["bridgeBank"].Address, bank.Address)
	assert.Equal(t, model.Contracts["bridgeBank"].Implementation, bank.Implementation)
	assert.Empty(t, bank.ABI)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(fsjson.NewReader(), t.TempDir())
	require.ErrorContains(t, err, "failed to load deployment output")
}

func TestCompactJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, CompactJSON("{ \"a\" : 1 }"))
	assert.Equal(t, "not json", CompactJSON("not json"))
}
