package output

import (
	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

type (
	// Model is the record of one bridge deployment
	Model struct {
		Network   Network                   `yaml:"network" json:"network"`
		Contracts map[string]ContractConfig `yaml:"contracts" json:"contracts"`
		Token     Token                     `yaml:"token" json:"token"`
	}

	Network struct {
		ChainID uint64 `yaml:"chain-id" json:"chainId"`
		RPCURL  string `yaml:"rpc-url" json:"rpcUrl"`
	}

	ContractConfig struct {
		Address        common.Address     `yaml:"address" json:"address"`
		Implementation *common.Address    `yaml:"implementation,omitempty" json:"implementation,omitempty"`
		ABI            SingleQuotedString `yaml:"abi,omitempty" json:"-"`
	}

	Token struct {
		Name     string         `yaml:"name" json:"name"`
		Symbol   string         `yaml:"symbol" json:"symbol"`
		Decimals uint8          `yaml:"decimals" json:"decimals"`
		Denom    string         `yaml:"denom" json:"denom"`
		Address  common.Address `yaml:"address" json:"address"`
	}

	SingleQuotedString string
)

func (s SingleQuotedString) MarshalYAML() (any, error) {
	node := &yaml.Node{
		Kind:  yaml.ScalarNode,
		Style: yaml.SingleQuotedStyle,
		Value: string(s),
	}
	return node, nil
}

// Contract returns the entry stored under key and whether it exists
func (m Model) Contract(key string) (ContractConfig, bool) {
	c, ok := m.Contracts[key]
	return c, ok
}
