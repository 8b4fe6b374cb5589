package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/compose-network/peggy-localnet/internal/logger"
)

// Repository is a git repository checked out at Ref (branch or tag)
type Repository struct {
	URL string
	Ref string
}

type Cloner struct {
	logger *slog.Logger
}

func NewCloner() *Cloner {
	return &Cloner{logger: logger.Named("git_cloner")}
}

// Ensure makes sure path holds a checkout of repo. An existing checkout is left untouched.
func (c *Cloner) Ensure(ctx context.Context, path string, repo Repository) error {
	if _, err := os.Stat(filepath.Join(path, ".git")); err == nil {
		c.logger.With("path", path).Info("repository already cloned, skipping")
		return nil
	}

	if repo.URL == "" {
		return errors.New("repository URL is required to clone")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	args := []string{"clone", "--depth", "1", "--recurse-submodules"}
	if repo.Ref != "" {
		args = append(args, "--branch", repo.Ref)
	}
	args = append(args, repo.URL, path)

	c.logger.With("url", repo.URL).With("ref", repo.Ref).Info("cloning repository")

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git clone failed: %w", err)
	}

	c.logger.With("path", path).Info("repository cloned successfully")
	return nil
}
