package graph

import (
	"errors"

	"github.com/compose-network/peggy-localnet/internal/bridge/artifacts"
	"github.com/ethereum/go-ethereum/common"
)

// Kind identifies a deployable entity of the bridge.
type Kind string

const (
	KindProxyAdmin     Kind = "ProxyAdmin"
	KindCosmosBridge   Kind = "CosmosBridge"
	KindBridgeBank     Kind = "BridgeBank"
	KindBridgeRegistry Kind = "BridgeRegistry"
	KindBridgeToken    Kind = "BridgeToken"
)

// Kinds lists every kind the registry can build.
var Kinds = []Kind{
	KindProxyAdmin,
	KindCosmosBridge,
	KindBridgeBank,
	KindBridgeRegistry,
	KindBridgeToken,
}

var (
	ErrUnknownKind = errors.New("unknown deployment kind")
	ErrNotReady    = errors.New("deployment is not ready")

	// ErrResolution marks failures obtaining a factory, accounts or arguments.
	ErrResolution = errors.New("resolution failed")
	// ErrDeployment marks rejected or reverted deployment transactions.
	ErrDeployment = errors.New("deployment failed")
	// ErrSetup marks failures of a post-deployment privileged call.
	ErrSetup = errors.New("setup failed")
)

// Contract is a deployed entity. Implementation is set for proxied kinds only.
type Contract struct {
	Kind           Kind
	Address        common.Address
	Implementation common.Address
	TxHash         common.Hash
}

func (k Kind) contractName() artifacts.ContractName {
	return artifacts.ContractName(k)
}
