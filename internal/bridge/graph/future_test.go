package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/compose-network/peggy-localnet/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuture(t *testing.T) {
	release := make(chan struct{})
	future := Go(context.Background(), func(context.Context) (int, error) {
		<-release
		return 42, nil
	})

	_, err := future.Result()
	require.ErrorIs(t, err, ErrNotReady)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = future.Await(ctx)
	require.ErrorIs(t, err, context.Canceled)

	close(release)
	value, err := future.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, value)

	<-future.Done()
	value, err = future.Result()
	require.NoError(t, err)
	assert.Equal(t, 42, value)
}

func TestResolvedFuture(t *testing.T) {
	boom := errors.New("boom")
	future := Resolved(0, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// a finished future wins over a cancelled wait
	_, err := future.Await(ctx)
	require.ErrorIs(t, err, boom)
}

func TestStateTracker(t *testing.T) {
	tr := newTracker(KindBridgeBank, logger.Named("test"))

	assert.Equal(t, NotStarted, tr.State())
	assert.True(t, tr.advance(FactoryResolving))
	assert.True(t, tr.advance(Deploying))
	assert.False(t, tr.advance(ArgsResolving))
	assert.Equal(t, Deploying, tr.State())

	assert.True(t, tr.advance(Failed))
	assert.False(t, tr.advance(Ready))
	assert.Equal(t, Failed, tr.State())
	assert.True(t, tr.State().Terminal())
	assert.Equal(t, "failed", tr.State().String())
}
