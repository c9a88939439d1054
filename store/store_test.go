package store

import (
	"encoding/hex"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btcagentorg/libbtcagent-go/agent"
	"github.com/btcagentorg/libbtcagent-go/derivation"
	"github.com/btcagentorg/libbtcagent-go/oracle"
)

func testStore(t *testing.T) *BoltStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "agent", "states.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testSnapshot(t *testing.T) *agent.AgentState {
	t.Helper()
	raw, err := hex.DecodeString("038cc78aa6040c5f269351939a05aad3a31f86902d0b8cf3085244bb58b6d4337a")
	require.NoError(t, err)
	rootKey := &derivation.ExtendedPublicKey{PublicKey: raw}
	a, err := agent.New(oracle.NewChainMock(), rootKey, derivation.Mainnet, derivation.P2PKH, 6)
	require.NoError(t, err)
	_, err = a.AddAddress([]byte{1, 2, 3})
	require.NoError(t, err)
	return a.State()
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := testStore(t)
	snapshot := testSnapshot(t)

	require.NoError(t, s.SaveState("primary", snapshot, ""))
	loaded, err := s.LoadState("primary", "")
	require.NoError(t, err)
	assert.Equal(t, snapshot, loaded)
}

func TestSaveLoadEncrypted(t *testing.T) {
	s := testStore(t)
	snapshot := testSnapshot(t)

	require.NoError(t, s.SaveState("primary", snapshot, "hunter2"))

	loaded, err := s.LoadState("primary", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, snapshot, loaded)

	_, err = s.LoadState("primary", "wrong")
	assert.ErrorIs(t, err, ErrDecryptFailed)

	_, err = s.LoadState("primary", "")
	assert.ErrorIs(t, err, ErrPasswordRequired)
}

func TestSaveOverwrites(t *testing.T) {
	s := testStore(t)
	first := testSnapshot(t)
	require.NoError(t, s.SaveState("primary", first, ""))

	second := testSnapshot(t)
	second.MinConfirmations = 3
	require.NoError(t, s.SaveState("primary", second, ""))

	loaded, err := s.LoadState("primary", "")
	require.NoError(t, err)
	assert.Equal(t, uint32(3), loaded.MinConfirmations)
}

func TestLoadMissingState(t *testing.T) {
	s := testStore(t)
	_, err := s.LoadState("absent", "")
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestDeleteState(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.SaveState("primary", testSnapshot(t), ""))

	require.NoError(t, s.DeleteState("primary"))
	_, err := s.LoadState("primary", "")
	assert.ErrorIs(t, err, ErrStateNotFound)
	assert.ErrorIs(t, s.DeleteState("primary"), ErrStateNotFound)
}

func TestListLabels(t *testing.T) {
	s := testStore(t)
	snapshot := testSnapshot(t)
	for _, label := range []string{"c", "a", "b"} {
		require.NoError(t, s.SaveState(label, snapshot, ""))
	}

	labels, err := s.ListLabels()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, labels)
}

func TestEmptyLabelRejected(t *testing.T) {
	s := testStore(t)
	assert.ErrorIs(t, s.SaveState("", testSnapshot(t), ""), ErrEmptyLabel)
	_, err := s.LoadState("", "")
	assert.ErrorIs(t, err, ErrEmptyLabel)
	assert.ErrorIs(t, s.DeleteState(""), ErrEmptyLabel)
}

func TestRestoreFromStore(t *testing.T) {
	s := testStore(t)
	chain := oracle.NewChainMock()
	snapshot := testSnapshot(t)
	require.NoError(t, s.SaveState("primary", snapshot, "hunter2"))

	loaded, err := s.LoadState("primary", "hunter2")
	require.NoError(t, err)
	restored, err := agent.FromState(chain, loaded)
	require.NoError(t, err)
	assert.Equal(t, snapshot, restored.State())
}
