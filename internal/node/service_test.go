package node

import (
	"context"
	"errors"
	"testing"

	"github.com/compose-network/peggy-localnet/configs"
	"github.com/compose-network/peggy-localnet/internal/infra/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContainers struct {
	exists  bool
	pulled  []string
	removed []string
	started []docker.DetachedOptions
	runErr  error
}

func (f *fakeContainers) ImageExists(context.Context, string) (bool, error) { return f.exists, nil }

func (f *fakeContainers) PullImage(_ context.Context, imageName string) error {
	f.pulled = append(f.pulled, imageName)
	return nil
}

func (f *fakeContainers) RunDetached(_ context.Context, opts docker.DetachedOptions) (string, error) {
	if f.runErr != nil {
		return "", f.runErr
	}
	f.started = append(f.started, opts)
	return "container-id", nil
}

func (f *fakeContainers) RemoveContainer(_ context.Context, name string) error {
	f.removed = append(f.removed, name)
	return nil
}

func testConfig() configs.Node {
	return configs.Node{
		Image:         "ghcr.io/foundry-rs/foundry:latest",
		ContainerName: "peggy-localnet-anvil",
		RPCPort:       18545,
		ChainID:       31337,
	}
}

func TestStart(t *testing.T) {
	containers := &fakeContainers{}
	service := NewService(containers)

	var waitedFor string
	service.waitForRPC = func(_ context.Context, url string) error {
		waitedFor = url
		return nil
	}

	url, err := service.Start(context.Background(), testConfig())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:18545", url)
	assert.Equal(t, url, waitedFor)
	assert.Equal(t, []string{"ghcr.io/foundry-rs/foundry:latest"}, containers.pulled)
	assert.Equal(t, []string{"peggy-localnet-anvil"}, containers.removed)

	require.Len(t, containers.started, 1)
	started := containers.started[0]
	assert.Equal(t, []string{"anvil"}, started.Entrypoint)
	assert.Equal(t, []string{"--host", "0.0.0.0", "--port", "8545", "--chain-id", "31337"}, started.Cmd)
	assert.Equal(t, map[int]int{18545: 8545}, started.Ports)
}

func TestStartSkipsPullForLocalImage(t *testing.T) {
	containers := &fakeContainers{exists: true}
	service := NewService(containers)
	service.waitForRPC = func(context.Context, string) error { return nil }

	_, err := service.Start(context.Background(), testConfig())
	require.NoError(t, err)
	assert.Empty(t, containers.pulled)
}

func TestStartErrors(t *testing.T) {
	cfg := testConfig()
	cfg.RPCPort = 0

	_, err := NewService(&fakeContainers{}).Start(context.Background(), cfg)
	require.ErrorContains(t, err, "node.rpc-port")

	containers := &fakeContainers{exists: true, runErr: errors.New("port is already allocated")}
	_, err = NewService(containers).Start(context.Background(), testConfig())
	require.ErrorContains(t, err, "port is already allocated")
}

func TestStop(t *testing.T) {
	containers := &fakeContainers{}
	require.NoError(t, NewService(containers).Stop(context.Background(), testConfig()))
	assert.Equal(t, []string{"peggy-localnet-anvil"}, containers.removed)
}
