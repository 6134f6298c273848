package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"raffleScope/internal/model"
)

// JsonlStorage appends activity records to a JSONL file.
type JsonlStorage struct {
	path string
	mu   sync.Mutex
}

func NewJsonlStorage(path string) *JsonlStorage {
	return &JsonlStorage{path: path}
}

// PutActivityBatch appends a batch of activities as JSON lines.
func (s *JsonlStorage) PutActivityBatch(activities []model.Activity) error {
	if len(activities) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return appendLines(s.path, len(activities), func(i int) (interface{}, error) {
		return activities[i], nil
	})
}

// JsonlErrorSink appends parse errors to a JSONL file.
type JsonlErrorSink struct {
	path string
	mu   sync.Mutex
}

func NewJsonlErrorSink(path string) *JsonlErrorSink {
	return &JsonlErrorSink{path: path}
}

// PutParseErrors appends a batch of parse errors as JSON lines.
func (s *JsonlErrorSink) PutParseErrors(errs []model.ParseError) error {
	if len(errs) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return appendLines(s.path, len(errs), func(i int) (interface{}, error) {
		return errs[i], nil
	})
}

func appendLines(path string, count int, record func(int) (interface{}, error)) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for i := 0; i < count; i++ {
		rec, err := record(i)
		if err != nil {
			return err
		}
		line, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}
