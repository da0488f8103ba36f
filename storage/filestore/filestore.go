// Package filestore persists engine records as JSON files, one file per
// record, under an application state directory.
package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/cubeforge/collab/storage"
)

// Store writes each record to <dir>/<record>.json.
type Store struct {
	dir string
}

// New creates a file store rooted at dir, creating it if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// NewDefault places the state dir under the platform's XDG state home.
func NewDefault(appName string) (*Store, error) {
	if appName == "" {
		appName = "collab"
	}
	return New(filepath.Join(xdg.StateHome, appName))
}

func (s *Store) path(rec storage.Record) string {
	// Record names are a closed set, but sanitize anyway so a future
	// record name cannot escape the state dir.
	name := strings.ReplaceAll(string(rec), string(filepath.Separator), "_")
	return filepath.Join(s.dir, name+".json")
}

func (s *Store) Read(_ context.Context, rec storage.Record) ([]byte, error) {
	data, err := os.ReadFile(s.path(rec))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rec, err)
	}
	return data, nil
}

func (s *Store) Write(_ context.Context, rec storage.Record, data []byte) error {
	// Write through a temp file so a crash mid-write cannot corrupt the
	// previous record.
	tmp, err := os.CreateTemp(s.dir, string(rec)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", rec, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", rec, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", rec, err)
	}
	if err := os.Rename(tmp.Name(), s.path(rec)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", rec, err)
	}
	return nil
}

func (s *Store) Delete(_ context.Context, rec storage.Record) error {
	err := os.Remove(s.path(rec))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *Store) Close() error {
	return nil
}
