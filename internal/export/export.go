// Package export writes sourcing results as JSON, CSV and plain reports.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

// ToTmpFile writes v with the given writer to a new temporary file and returns its name.
func ToTmpFile(pattern string, v any, write func(io.Writer, any) error) (string, error) {
	file, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := write(file, v); err != nil {
		return "", err
	}
	return file.Name(), nil
}
