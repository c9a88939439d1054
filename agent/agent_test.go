package agent

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btcagentorg/libbtcagent-go/derivation"
	"github.com/btcagentorg/libbtcagent-go/oracle"
)

const testRootPubKey = "038cc78aa6040c5f269351939a05aad3a31f86902d0b8cf3085244bb58b6d4337a"

func testRootKey(t *testing.T) *derivation.ExtendedPublicKey {
	t.Helper()
	raw, err := hex.DecodeString(testRootPubKey)
	require.NoError(t, err)
	return &derivation.ExtendedPublicKey{PublicKey: raw}
}

func testAgent(t *testing.T, svc oracle.Service) *Agent {
	t.Helper()
	a, err := New(svc, testRootKey(t), derivation.Mainnet, derivation.P2PKH, 6)
	require.NoError(t, err)
	return a
}

func TestNewDerivesMainAddress(t *testing.T) {
	a := testAgent(t, oracle.NewChainMock())

	main := a.MainAddress()
	require.NotEmpty(t, main)
	assert.Equal(t, byte('1'), main[0], "mainnet P2PKH address")
	assert.Equal(t, []string{main}, a.ListAddresses())

	// The empty path derives the root key itself.
	key, err := a.PublicKey(main)
	require.NoError(t, err)
	assert.Equal(t, testRootKey(t).PublicKey, key.PublicKey)
}

func TestNewRejectsHighMinConfirmations(t *testing.T) {
	_, err := New(oracle.NewChainMock(), testRootKey(t), derivation.Mainnet, derivation.P2PKH,
		oracle.MinConfirmationsUpperBound+1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMinConfirmationsTooHigh)
}

func TestAddAddress(t *testing.T) {
	a := testAgent(t, oracle.NewChainMock())

	address, err := a.AddAddress([]byte{1, 2, 3, 4, 5})
	require.NoError(t, err)
	assert.NotEqual(t, a.MainAddress(), address)

	// Idempotent: the same path registers the same address once.
	again, err := a.AddAddress([]byte{1, 2, 3, 4, 5})
	require.NoError(t, err)
	assert.Equal(t, address, again)
	assert.Len(t, a.ListAddresses(), 2)
	assert.Contains(t, a.ListAddresses(), address)
}

func TestAddAddressWithParametersBounds(t *testing.T) {
	a := testAgent(t, oracle.NewChainMock())

	_, err := a.AddAddressWithParameters([]byte{1}, derivation.P2PKH,
		oracle.MinConfirmationsUpperBound+1)
	assert.ErrorIs(t, err, ErrMinConfirmationsTooHigh)

	_, err = a.AddAddressWithParameters(make([]byte, 989), derivation.P2PKH, 6)
	assert.ErrorIs(t, err, derivation.ErrDerivationPathTooLong)
}

func TestRemoveAddress(t *testing.T) {
	a := testAgent(t, oracle.NewChainMock())

	assert.False(t, a.RemoveAddress(a.MainAddress()), "main address is not removable")
	assert.False(t, a.RemoveAddress("1BitcoinEaterAddressDontSendf59kuE"))

	address, err := a.AddAddress([]byte{9})
	require.NoError(t, err)
	assert.True(t, a.RemoveAddress(address))
	assert.False(t, a.RemoveAddress(address))
	assert.Equal(t, []string{a.MainAddress()}, a.ListAddresses())

	_, err = a.PublicKey(address)
	assert.ErrorIs(t, err, ErrAddressNotTracked)
}

func TestListAddressesSorted(t *testing.T) {
	a := testAgent(t, oracle.NewChainMock())
	for _, path := range [][]byte{{1}, {2}, {3}} {
		_, err := a.AddAddress(path)
		require.NoError(t, err)
	}
	addresses := a.ListAddresses()
	require.Len(t, addresses, 4)
	assert.IsIncreasing(t, addresses)
}
