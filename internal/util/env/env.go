package env

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Fixed keys for the last provider and model the user initialized with.
const (
	KeyProvider = "GOOSE_PROVIDER"
	KeyModel    = "GOOSE_MODEL"
)

// Store is a plain string key-value file in dotenv format.
type Store struct {
	path string
}

// NewStore returns a Store backed by the file at path. The file is created
// on the first Set.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Get returns the stored value for key, or "" when the key or file is missing.
// A file that exists but cannot be read or parsed is an error.
func (s *Store) Get(key string) (string, error) {
	values, err := s.read()
	if err != nil {
		return "", err
	}
	return values[key], nil
}

// Values returns every stored key.
func (s *Store) Values() (map[string]string, error) {
	return s.read()
}

// Set stores value under key, keeping every other key.
func (s *Store) Set(key, value string) error {
	return s.SetAll(map[string]string{key: value})
}

// SetAll stores several keys in one write.
func (s *Store) SetAll(kv map[string]string) error {
	values, err := s.read()
	if err != nil {
		return err
	}
	for k, v := range kv {
		values[k] = v
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}
	if err := godotenv.Write(values, s.path); err != nil {
		return err
	}
	return os.Chmod(s.path, 0600)
}

// Delete removes key from the store.
func (s *Store) Delete(key string) error {
	values, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return godotenv.Write(values, s.path)
}

func (s *Store) read() (map[string]string, error) {
	values, err := godotenv.Read(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	return values, nil
}
