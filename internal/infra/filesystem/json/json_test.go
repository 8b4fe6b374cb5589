package json

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterReader(t *testing.T) {
	type document struct {
		ChainID   uint64            `json:"chainId"`
		Addresses map[string]string `json:"addresses"`
	}

	path := filepath.Join(t.TempDir(), "nested", "deployments.json")
	written := document{ChainID: 31337, Addresses: map[string]string{"bridgeBank": "0x01"}}

	require.NoError(t, NewWriter().WriteJSON(path, written))

	var read document
	require.NoError(t, NewReader().ReadJSON(path, &read))
	assert.Equal(t, written, read)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriterReplacesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	writer := NewWriter()

	require.NoError(t, writer.WriteBytes(path, []byte("first")))
	require.NoError(t, writer.WriteBytes(path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestReaderErrors(t *testing.T) {
	dir := t.TempDir()
	var target map[string]any

	err := NewReader().ReadJSON(filepath.Join(dir, "missing.json"), &target)
	require.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	require.ErrorContains(t, NewReader().ReadJSON(path, &target), "failed to unmarshal")
}
