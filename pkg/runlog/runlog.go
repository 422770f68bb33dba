// Package runlog persists run reports as timestamped JSON files so
// past evaluations can be re-read and compared.
package runlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"evalgo/pkg/core"
)

// Write stores the report under logDir and returns the file path.
func Write(logDir string, report core.RunReport) (string, error) {
	if logDir == "" {
		return "", fmt.Errorf("runlog: logDir is required")
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(logDir, buildFileName(report))
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return "", err
	}
	return path, nil
}

// Read loads a previously written report.
func Read(path string) (core.RunReport, error) {
	file, err := os.Open(path)
	if err != nil {
		return core.RunReport{}, err
	}
	defer file.Close()

	var report core.RunReport
	if err := json.NewDecoder(file).Decode(&report); err != nil {
		return core.RunReport{}, err
	}
	return report, nil
}

// List returns the log file paths under logDir, oldest first. The
// timestamped filenames make lexical order chronological.
func List(logDir string) ([]string, error) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		paths = append(paths, filepath.Join(logDir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Latest returns the newest log under logDir.
func Latest(logDir string) (core.RunReport, error) {
	paths, err := List(logDir)
	if err != nil {
		return core.RunReport{}, err
	}
	if len(paths) == 0 {
		return core.RunReport{}, fmt.Errorf("runlog: no logs in %s", logDir)
	}
	return Read(paths[len(paths)-1])
}

func buildFileName(report core.RunReport) string {
	timestamp := report.StartedAt
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	name := sanitizeName(report.Name)
	if name == "" {
		name = "run"
	}
	return fmt.Sprintf("%s_%s.json", timestamp.Format("2006-01-02T15-04-05"), name)
}

func sanitizeName(input string) string {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			out = append(out, r)
		}
	}
	return string(out)
}
