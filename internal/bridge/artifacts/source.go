package artifacts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/compose-network/peggy-localnet/internal/logger"
)

var ErrArtifactNotFound = errors.New("artifact not found")

type (
	Source interface {
		Artifact(ctx context.Context, name ContractName) (Artifact, error)
	}

	// MemorySource serves artifacts that are already loaded.
	MemorySource struct {
		artifacts map[ContractName]Artifact
	}

	// FileSource loads contracts.json on first use and caches it for the process lifetime.
	FileSource struct {
		path   string
		once   sync.Once
		source *MemorySource
		err    error
		logger *slog.Logger
	}
)

func NewMemorySource(artifacts map[ContractName]Artifact) *MemorySource {
	return &MemorySource{artifacts: artifacts}
}

func (s *MemorySource) Artifact(_ context.Context, name ContractName) (Artifact, error) {
	artifact, ok := s.artifacts[name]
	if !ok {
		return Artifact{}, fmt.Errorf("%w: %s", ErrArtifactNotFound, name)
	}
	return artifact, nil
}

func NewFileSource(path string) *FileSource {
	return &FileSource{
		path:   path,
		logger: logger.Named("artifact_source"),
	}
}

func (s *FileSource) Artifact(ctx context.Context, name ContractName) (Artifact, error) {
	s.once.Do(func() {
		s.logger.With("path", s.path).Info("loading compiled contracts")

		loaded, err := LoadArtifacts(s.path)
		if err != nil {
			s.err = fmt.Errorf("failed to load artifacts from %s: %w", s.path, err)
			return
		}

		s.logger.With("len", len(loaded)).Info("compiled contracts loaded")
		s.source = NewMemorySource(loaded)
	})

	if s.err != nil {
		return Artifact{}, s.err
	}

	return s.source.Artifact(ctx, name)
}
