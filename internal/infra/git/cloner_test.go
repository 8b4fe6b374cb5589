package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureExistingCheckout(t *testing.T) {
	path := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(path, ".git"), 0755))

	require.NoError(t, NewCloner().Ensure(context.Background(), path, Repository{}))
}

func TestEnsureRequiresURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smart-contracts")

	err := NewCloner().Ensure(context.Background(), path, Repository{Ref: "main"})
	require.ErrorContains(t, err, "repository URL is required")
}
