package balance

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/lmittmann/w3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	msg     ethereum.CallMsg
	result  []byte
	balance *big.Int
	err     error
}

func (b *fakeBackend) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	b.msg = msg
	return b.result, b.err
}

func (b *fakeBackend) BalanceAt(context.Context, common.Address, *big.Int) (*big.Int, error) {
	return b.balance, b.err
}

func TestTokenBalance(t *testing.T) {
	token := common.HexToAddress("0x0000000000000000000000000000000000000e0e")
	account := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	minted, ok := new(big.Int).SetString("100000000000000000000000000", 10)
	require.True(t, ok)

	backend := &fakeBackend{result: common.LeftPadBytes(minted.Bytes(), 32)}

	balance, err := NewChecker(backend).TokenBalance(context.Background(), token, account)
	require.NoError(t, err)
	assert.Zero(t, minted.Cmp(balance))

	require.NotNil(t, backend.msg.To)
	assert.Equal(t, token, *backend.msg.To)
	assert.Equal(t, crypto.Keccak256([]byte("balanceOf(address)"))[:4], backend.msg.Data[:4])
	assert.Equal(t, common.LeftPadBytes(account.Bytes(), 32), backend.msg.Data[4:])
}

func TestTokenBalanceErrors(t *testing.T) {
	checker := NewChecker(&fakeBackend{err: errors.New("connection refused")})
	_, err := checker.TokenBalance(context.Background(), common.Address{}, common.Address{})
	require.ErrorContains(t, err, "failed to call contract")

	checker = NewChecker(&fakeBackend{result: []byte{}})
	_, err = checker.TokenBalance(context.Background(), common.Address{}, common.Address{})
	require.ErrorContains(t, err, "failed to decode balanceOf")
}

func TestTokenBalanceReverted(t *testing.T) {
	stringType, err := abi.NewType("string", "", nil)
	require.NoError(t, err)
	reason, err := abi.Arguments{{Type: stringType}}.Pack("token paused")
	require.NoError(t, err)

	output := append(crypto.Keccak256([]byte("Error(string)"))[:4], reason...)

	_, err = NewChecker(&fakeBackend{result: output}).TokenBalance(context.Background(), common.Address{}, common.Address{})
	require.ErrorIs(t, err, w3.ErrEvmRevert)
	assert.ErrorContains(t, err, "token paused")
}

func TestETHBalance(t *testing.T) {
	balance, err := NewChecker(&fakeBackend{balance: big.NewInt(7)}).ETHBalance(context.Background(), common.Address{})
	require.NoError(t, err)
	assert.Equal(t, int64(7), balance.Int64())
}

func TestFormatTokenBalance(t *testing.T) {
	token := common.HexToAddress("0x0000000000000000000000000000000000000e0e")
	minted, _ := new(big.Int).SetString("100000000000000000000000000", 10)

	assert.Equal(t,
		"operator: token balance 100000000.0000 (100000000000000000000000000 raw) ["+token.Hex()+"]",
		FormatTokenBalance("operator", token, minted, nil))
	assert.Equal(t, "operator: token balance unavailable", FormatTokenBalance("operator", token, nil, nil))
	assert.Contains(t, FormatTokenBalance("operator", token, nil, errors.New("boom")), "query failed")
}
