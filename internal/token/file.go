package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// FileStore keeps the token in a small JSON document keyed by storage key,
// so several keys can share one file the way browser storage does.
type FileStore struct {
	mu   sync.Mutex
	path string
	key  string
}

func NewFileStore(path, key string) *FileStore {
	return &FileStore{path: path, key: key}
}

func (s *FileStore) Save(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		// A corrupt document is replaced rather than blocking login.
		logrus.WithError(err).WithField("path", s.path).Warn("token file unreadable, overwriting")
		doc = map[string]string{}
	}
	doc[s.key] = token
	return s.write(doc)
}

func (s *FileStore) Read() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		logrus.WithError(err).WithField("path", s.path).Warn("token file unreadable")
		return "", false
	}
	tok, ok := doc[s.key]
	if !ok || tok == "" {
		return "", false
	}
	return tok, true
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		// Nothing trustworthy to keep.
		if rmErr := os.Remove(s.path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			return fmt.Errorf("remove token file: %w", rmErr)
		}
		return nil
	}
	if _, ok := doc[s.key]; !ok {
		return nil
	}
	delete(doc, s.key)
	return s.write(doc)
}

func (s *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	doc := map[string]string{}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode token file: %w", err)
	}
	return doc, nil
}

// write replaces the file atomically via rename.
func (s *FileStore) write(doc map[string]string) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".token-*")
	if err != nil {
		return fmt.Errorf("create temp token file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write token file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace token file: %w", err)
	}
	return nil
}
