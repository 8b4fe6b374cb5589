package json

import (
	"encoding/json"
	"fmt"
	"os"
)

// Reader loads JSON documents from disk
type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

// ReadJSON unmarshals the file at path into target
func (r *Reader) ReadJSON(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}

	return nil
}
