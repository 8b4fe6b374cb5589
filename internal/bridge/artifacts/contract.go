package artifacts

import (
	"maps"
	"slices"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

type (
	ContractName string

	// Artifact is a compiled contract able to deploy new instances of its kind.
	Artifact struct {
		Name     ContractName
		ABI      abi.ABI
		RawABI   string
		Bytecode []byte
	}
)

const (
	ContractNameCosmosBridge     ContractName = "CosmosBridge"
	ContractNameBridgeBank       ContractName = "BridgeBank"
	ContractNameBridgeRegistry   ContractName = "BridgeRegistry"
	ContractNameBridgeToken      ContractName = "BridgeToken"
	ContractNameProxyAdmin       ContractName = "ProxyAdmin"
	ContractNameTransparentProxy ContractName = "TransparentUpgradeableProxy"
)

var Contracts = map[ContractName]struct{}{
	ContractNameCosmosBridge:     {},
	ContractNameBridgeBank:       {},
	ContractNameBridgeRegistry:   {},
	ContractNameBridgeToken:      {},
	ContractNameProxyAdmin:       {},
	ContractNameTransparentProxy: {},
}

// ContractNames returns every known contract name in sorted order.
func ContractNames() []ContractName {
	return slices.Sorted(maps.Keys(Contracts))
}
