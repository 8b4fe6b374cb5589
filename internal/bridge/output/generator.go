package output

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/compose-network/peggy-localnet/internal/infra/filesystem"
	"github.com/compose-network/peggy-localnet/internal/logger"
	"gopkg.in/yaml.v3"
)

const (
	YAMLFileName = "deployments.yaml"
	JSONFileName = "deployments.json"
)

type Generator struct {
	outputDir string
	writer    filesystem.Writer
	logger    *slog.Logger
}

func NewGenerator(outputDir string, writer filesystem.Writer) *Generator {
	return &Generator{
		outputDir: outputDir,
		writer:    writer,
		logger:    logger.Named("output_generator"),
	}
}

// Generate writes the deployment record as YAML (with ABIs) and JSON (addresses only)
func (g *Generator) Generate(_ context.Context, model Model) error {
	data, err := yaml.Marshal(model)
	if err != nil {
		return fmt.Errorf("failed to marshal output model: %w", err)
	}

	yamlPath := filepath.Join(g.outputDir, YAMLFileName)
	if err := g.writer.WriteBytes(yamlPath, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", YAMLFileName, err)
	}

	jsonPath := filepath.Join(g.outputDir, JSONFileName)
	if err := g.writer.WriteJSON(jsonPath, model); err != nil {
		return fmt.Errorf("failed to write %s: %w", JSONFileName, err)
	}

	g.logger.
		With("yaml", yamlPath).
		With("json", jsonPath).
		Info("deployment output written")

	return nil
}

// Load reads deployments.json from dir
func Load(reader filesystem.Reader, dir string) (Model, error) {
	var model Model
	if err := reader.ReadJSON(filepath.Join(dir, JSONFileName), &model); err != nil {
		return Model{}, fmt.Errorf("failed to load deployment output: %w", err)
	}
	return model, nil
}

// CompactJSON strips insignificant whitespace from an ABI. Invalid JSON is returned unchanged.
func CompactJSON(jsonStr string) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(jsonStr)); err != nil {
		return jsonStr
	}
	return buf.String()
}
