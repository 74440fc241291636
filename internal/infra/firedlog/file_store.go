package firedlog

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
)

var _ domain.FiredLogStore = (*FileStore)(nil)

type fileContent struct {
	Fired []string `json:"fired"`
}

// FileStore keeps one JSON file per user under dir. Writes go through a
// temporary file and a rename so a crash never leaves a torn file.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create fired log directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(userID string) string {
	return filepath.Join(s.dir, base64.RawURLEncoding.EncodeToString([]byte(userID))+".json")
}

func (s *FileStore) Load(_ context.Context, userID string) ([]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(userID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read fired log: %w", err)
	}

	var content fileContent
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("failed to parse fired log: %w", err)
	}

	entries := make([]time.Time, 0, len(content.Fired))
	for _, raw := range content.Fired {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			continue
		}
		entries = append(entries, t)
	}

	return entries, nil
}

func (s *FileStore) Save(_ context.Context, userID string, entries []time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	content := fileContent{Fired: make([]string, 0, len(entries))}
	for _, t := range entries {
		content.Fired = append(content.Fired, t.Format(time.RFC3339))
	}

	data, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to encode fired log: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "fired-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write fired log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close fired log: %w", err)
	}

	if err := os.Rename(tmpPath, s.path(userID)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace fired log: %w", err)
	}

	return nil
}
