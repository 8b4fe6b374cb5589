package graph

import (
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/lmittmann/w3"
)

var (
	funcInitializeCosmosBridge   = w3.MustNewFunc("initialize(address,uint256,address[],uint256[],int32)", "")
	funcInitializeBridgeBank     = w3.MustNewFunc("initialize(address,address,address,address,int32)", "")
	funcInitializeBridgeRegistry = w3.MustNewFunc("initialize(address,address)", "")

	funcSetBridgeBank          = w3.MustNewFunc("setBridgeBank(address)", "")
	funcAddExistingBridgeToken = w3.MustNewFunc("addExistingBridgeToken(address)", "address")
	funcGrantRole              = w3.MustNewFunc("grantRole(bytes32,address)", "")
	funcApprove                = w3.MustNewFunc("approve(address,uint256)", "bool")
	funcMint                   = w3.MustNewFunc("mint(address,uint256)", "bool")
)

var (
	MinterRole = [32]byte(crypto.Keccak256Hash([]byte("MINTER_ROLE")))
	AdminRole  = [32]byte{}

	// ApproveAmount is the erowan allowance granted to BridgeBank, 10 tokens.
	ApproveAmount = tokens(10)
	// MintAmount is the erowan balance minted to the operator, 100000000 tokens.
	MintAmount = tokens(100_000_000)
)

func tokens(n int64) *big.Int {
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	return unit.Mul(unit, big.NewInt(n))
}
