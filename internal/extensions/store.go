// Package extensions keeps the user's extension settings and keeps the
// backend in step when an extension is switched on or off.
package extensions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/DevSymphony/goosectl/internal/goosed"
)

// Backend attaches and detaches extensions on the running agent.
type Backend interface {
	Extend(ctx context.Context, ext goosed.ExtensionConfig) error
	RemoveExtension(ctx context.Context, name string) error
}

// Defaults seeds a fresh settings file.
func Defaults() []goosed.FullExtensionConfig {
	return []goosed.FullExtensionConfig{
		{
			ExtensionConfig: goosed.Builtin("developer"),
			ID:              "developer",
			Description:     "General development tools useful for software engineering.",
			Enabled:         true,
		},
	}
}

// Store is a JSON file of extension settings, in display order.
type Store struct {
	path string
}

// NewStore returns a Store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// List returns all stored extensions, or Defaults when nothing is stored yet.
func (s *Store) List() ([]goosed.FullExtensionConfig, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults(), nil
		}
		return nil, err
	}

	var exts []goosed.FullExtensionConfig
	if err := json.Unmarshal(data, &exts); err != nil {
		return nil, fmt.Errorf("invalid extension settings %s: %w", s.path, err)
	}
	return exts, nil
}

// Get returns the extension with the given id.
func (s *Store) Get(id string) (goosed.FullExtensionConfig, error) {
	exts, err := s.List()
	if err != nil {
		return goosed.FullExtensionConfig{}, err
	}
	i := indexOf(exts, id)
	if i < 0 {
		return goosed.FullExtensionConfig{}, fmt.Errorf("extension %q not found", id)
	}
	return exts[i], nil
}

// Put inserts ext or replaces the entry with the same id.
func (s *Store) Put(ext goosed.FullExtensionConfig) error {
	if ext.ID == "" {
		return fmt.Errorf("extension id is required")
	}
	if err := ext.Validate(); err != nil {
		return err
	}
	exts, err := s.List()
	if err != nil {
		return err
	}
	if i := indexOf(exts, ext.ID); i >= 0 {
		exts[i] = ext
	} else {
		exts = append(exts, ext)
	}
	return s.save(exts)
}

// LinkBackend attaches an extension from a goose://extension deep link and
// reports the descriptor it sent.
type LinkBackend interface {
	ExtendFromURL(ctx context.Context, link string) (goosed.FullExtensionConfig, error)
}

// ErrNotSaved marks an extension that is attached but missing from the
// settings file.
var ErrNotSaved = errors.New("extension attached but not saved")

// AttachURL attaches the extension behind link and stores exactly what the
// backend received. If only the save fails, the extension is returned along
// with an error wrapping ErrNotSaved.
func (s *Store) AttachURL(ctx context.Context, backend LinkBackend, link string) (goosed.FullExtensionConfig, error) {
	ext, err := backend.ExtendFromURL(ctx, link)
	if err != nil {
		return goosed.FullExtensionConfig{}, err
	}
	if err := s.Put(ext); err != nil {
		return ext, fmt.Errorf("%w: %w", ErrNotSaved, err)
	}
	return ext, nil
}

// Toggle flips the enabled flag of extension id. The backend is told first;
// if it refuses, the stored state is left as it was.
func (s *Store) Toggle(ctx context.Context, backend Backend, id string) (goosed.FullExtensionConfig, error) {
	exts, err := s.List()
	if err != nil {
		return goosed.FullExtensionConfig{}, err
	}
	i := indexOf(exts, id)
	if i < 0 {
		return goosed.FullExtensionConfig{}, fmt.Errorf("extension %q not found", id)
	}

	ext := exts[i]
	if ext.Enabled {
		err = backend.RemoveExtension(ctx, ext.Name)
	} else {
		err = backend.Extend(ctx, ext.ExtensionConfig)
	}
	if err != nil {
		return ext, err
	}

	ext.Enabled = !ext.Enabled
	exts[i] = ext
	return ext, s.save(exts)
}

// Enabled returns the extensions that should be attached to a new agent.
func (s *Store) Enabled() ([]goosed.FullExtensionConfig, error) {
	exts, err := s.List()
	if err != nil {
		return nil, err
	}
	var enabled []goosed.FullExtensionConfig
	for _, ext := range exts {
		if ext.Enabled {
			enabled = append(enabled, ext)
		}
	}
	return enabled, nil
}

func (s *Store) save(exts []goosed.FullExtensionConfig) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(exts, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

func indexOf(exts []goosed.FullExtensionConfig, id string) int {
	for i, ext := range exts {
		if ext.ID == id {
			return i
		}
	}
	return -1
}
