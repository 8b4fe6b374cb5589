package docker

import (
	"context"
	"fmt"
	"strconv"

	"github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
)

// DetachedOptions describes a long running container.
type DetachedOptions struct {
	Name       string
	Image      string
	Entrypoint []string
	Cmd        []string
	// Ports maps host ports to container TCP ports.
	Ports map[int]int
}

// RunDetached creates and starts a container and returns its ID without waiting for it.
func (c *Client) RunDetached(ctx context.Context, opts DetachedOptions) (string, error) {
	exposed, bindings, err := portBindings(opts.Ports)
	if err != nil {
		return "", err
	}

	config := &container.Config{
		Image:        opts.Image,
		Entrypoint:   opts.Entrypoint,
		Cmd:          opts.Cmd,
		ExposedPorts: exposed,
	}

	hostConfig := &container.HostConfig{
		PortBindings: bindings,
	}

	resp, err := c.cli.ContainerCreate(ctx, config, hostConfig, nil, nil, opts.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create container %s: %w", opts.Name, err)
	}

	if err := c.cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		_ = c.cli.ContainerRemove(ctx, resp.ID, container.RemoveOptions{Force: true})
		return "", fmt.Errorf("failed to start container %s: %w", opts.Name, err)
	}

	c.logger.
		With("name", opts.Name).
		With("id", resp.ID).
		With("image", opts.Image).
		Info("container started")

	return resp.ID, nil
}

// RemoveContainer force-removes a container. A missing container is not an error.
func (c *Client) RemoveContainer(ctx context.Context, name string) error {
	err := c.cli.ContainerRemove(ctx, name, container.RemoveOptions{Force: true})
	if err != nil {
		if errdefs.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to remove container %s: %w", name, err)
	}

	c.logger.With("name", name).Info("container removed")
	return nil
}

func portBindings(ports map[int]int) (nat.PortSet, nat.PortMap, error) {
	exposed := make(nat.PortSet, len(ports))
	bindings := make(nat.PortMap, len(ports))

	for hostPort, containerPort := range ports {
		port, err := nat.NewPort("tcp", strconv.Itoa(containerPort))
		if err != nil {
			return nil, nil, fmt.Errorf("invalid container port %d: %w", containerPort, err)
		}

		exposed[port] = struct{}{}
		bindings[port] = append(bindings[port], nat.PortBinding{
			HostIP:   "0.0.0.0",
			HostPort: strconv.Itoa(hostPort),
		})
	}

	return exposed, bindings, nil
}
