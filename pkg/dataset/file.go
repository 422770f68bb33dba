package dataset

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"evalgo/pkg/core"
)

// FileDataset streams test cases from a JSON array or JSONL file.
type FileDataset struct {
	Path     string
	NameHint string
}

func NewFileDataset(path string) *FileDataset {
	return &FileDataset{Path: path}
}

func (d *FileDataset) Name() string {
	if d.NameHint != "" {
		return d.NameHint
	}
	return filepath.Base(d.Path)
}

func (d *FileDataset) Len(ctx context.Context) (int, error) {
	format, err := detectFormat(d.Path)
	if err != nil {
		return 0, err
	}

	switch format {
	case "json":
		cases, err := loadJSONCases(d.Path)
		if err != nil {
			return 0, err
		}
		return len(cases), nil
	case "jsonl":
		return countJSONLLines(ctx, d.Path)
	default:
		return 0, errors.New("dataset: unsupported format")
	}
}

func (d *FileDataset) Cases(ctx context.Context) (<-chan core.TestCase, <-chan error) {
	caseCh := make(chan core.TestCase)
	errCh := make(chan error, 1)

	go func() {
		defer close(caseCh)
		defer close(errCh)

		format, err := detectFormat(d.Path)
		if err != nil {
			errCh <- err
			return
		}

		switch format {
		case "json":
			cases, err := loadJSONCases(d.Path)
			if err != nil {
				errCh <- err
				return
			}
			for _, tc := range cases {
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case caseCh <- tc:
				}
			}
		case "jsonl":
			if err := streamJSONL(ctx, d.Path, caseCh); err != nil {
				errCh <- err
			}
		default:
			errCh <- errors.New("dataset: unsupported format")
		}
	}()

	return caseCh, errCh
}

func detectFormat(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".jsonl":
		return "jsonl", nil
	case ".json":
		return "json", nil
	}

	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	for {
		b, err := reader.ReadByte()
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(string(b)) == "" {
			continue
		}
		if b == '[' {
			return "json", nil
		}
		if b == '{' {
			return "jsonl", nil
		}
		return "", errors.New("dataset: unsupported format")
	}
}

func loadJSONCases(path string) ([]core.TestCase, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var cases []core.TestCase
	if err := json.NewDecoder(file).Decode(&cases); err != nil {
		return nil, err
	}
	return cases, nil
}

func streamJSONL(ctx context.Context, path string, out chan<- core.TestCase) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 1024*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var tc core.TestCase
		if err := json.Unmarshal(line, &tc); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- tc:
		}
	}
	return scanner.Err()
}

func countJSONLLines(ctx context.Context, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 1024*1024)
	scanner.Buffer(buf, 1024*1024)

	count := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if strings.TrimSpace(scanner.Text()) != "" {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return count, nil
}
