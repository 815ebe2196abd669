package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelsos/hamming-cli/internal/models"
)

// ResultsFileName returns the file name used for the results of a run
func ResultsFileName(prefix, runID string) string {
	return fmt.Sprintf("%s_test_results_%s.json", prefix, runID)
}

// SaveResults writes the raw results payload as indented JSON, overwriting
// any previous dump of the same run, and returns the file path
func SaveResults(dir, prefix, runID string, results models.Payload) (string, error) {
	if err := models.ValidateRunID(runID); err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}

	if results == nil {
		results = models.Payload{}
	}

	jsonData, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal results: %w", err)
	}

	filePath := filepath.Join(dir, ResultsFileName(prefix, filepath.Base(runID)))
	if err := os.WriteFile(filePath, append(jsonData, '\n'), 0644); err != nil {
		return "", fmt.Errorf("failed to write results file: %w", err)
	}

	return filePath, nil
}

// LoadResults reads a results dump written by SaveResults
func LoadResults(filePath string) (models.Payload, error) {
	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}

	var results models.Payload
	if err := json.Unmarshal(fileData, &results); err != nil {
		return nil, fmt.Errorf("failed to unmarshal results: %w", err)
	}

	return results, nil
}
