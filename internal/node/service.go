package node

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/compose-network/peggy-localnet/configs"
	"github.com/compose-network/peggy-localnet/internal/bridge/chain"
	"github.com/compose-network/peggy-localnet/internal/infra/docker"
	"github.com/compose-network/peggy-localnet/internal/logger"
)

const anvilPort = 8545

type (
	containers interface {
		ImageExists(ctx context.Context, imageName string) (bool, error)
		PullImage(ctx context.Context, imageName string) error
		RunDetached(ctx context.Context, opts docker.DetachedOptions) (string, error)
		RemoveContainer(ctx context.Context, name string) error
	}

	// Service runs the local EVM dev node the bridge is deployed to
	Service struct {
		containers containers
		waitForRPC func(ctx context.Context, url string) error
		logger     *slog.Logger
	}
)

func NewService(containers containers) *Service {
	return &Service{
		containers: containers,
		waitForRPC: chain.WaitForRPC,
		logger:     logger.Named("node"),
	}
}

// Start replaces any previous node container and returns once its RPC answers
func (s *Service) Start(ctx context.Context, cfg configs.Node) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	exists, err := s.containers.ImageExists(ctx, cfg.Image)
	if err != nil {
		return "", err
	}
	if !exists {
		if err := s.containers.PullImage(ctx, cfg.Image); err != nil {
			return "", fmt.Errorf("failed to pull node image: %w", err)
		}
	}

	if err := s.containers.RemoveContainer(ctx, cfg.ContainerName); err != nil {
		return "", fmt.Errorf("failed to remove previous node: %w", err)
	}

	id, err := s.containers.RunDetached(ctx, docker.DetachedOptions{
		Name:       cfg.ContainerName,
		Image:      cfg.Image,
		Entrypoint: []string{"anvil"},
		Cmd:        anvilArgs(cfg),
		Ports:      map[int]int{cfg.RPCPort: anvilPort},
	})
	if err != nil {
		return "", fmt.Errorf("failed to start node: %w", err)
	}

	url := RPCURL(cfg)
	s.logger.With("container_id", id).With("url", url).Info("waiting for node RPC")
	if err := s.waitForRPC(ctx, url); err != nil {
		return "", err
	}

	s.logger.With("url", url).Info("node is ready")
	return url, nil
}

func (s *Service) Stop(ctx context.Context, cfg configs.Node) error {
	if err := s.containers.RemoveContainer(ctx, cfg.ContainerName); err != nil {
		return fmt.Errorf("failed to stop node: %w", err)
	}
	return nil
}

// RPCURL is the host address of the node RPC
func RPCURL(cfg configs.Node) string {
	return fmt.Sprintf("http://localhost:%d", cfg.RPCPort)
}

func anvilArgs(cfg configs.Node) []string {
	return []string{
		"--host", "0.0.0.0",
		"--port", strconv.Itoa(anvilPort),
		"--chain-id", strconv.Itoa(cfg.ChainID),
	}
}
