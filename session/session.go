// Package session provides the durable, client-generated session tag sent to
// the todo API in the x-session-id header.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	nanoid "github.com/jaevor/go-nanoid"
	"github.com/spf13/viper"
)

const (
	alphabet  = "0123456789abcdefghijklmnopqrstuvwxyz"
	tagLength = 22
	key       = "session_id"
)

// ErrNoStorage is returned by a ViperStore without a file path.
var ErrNoStorage = errors.New("no durable storage available")

// Store persists the session tag between runs.
type Store interface {
	// Load returns the stored tag, or "" when none has been saved yet.
	Load() (string, error)
	Save(tag string) error
}

// Provider hands out the session tag, generating and saving one on first use.
type Provider struct {
	store Store
	gen   func() string

	mu  sync.Mutex
	tag string
}

// NewProvider creates a provider backed by store. A nil store yields a
// provider whose SessionID is always "".
func NewProvider(store Store) (*Provider, error) {
	gen, err := nanoid.CustomASCII(alphabet, tagLength)
	if err != nil {
		return nil, fmt.Errorf("failed to create id generator: %w", err)
	}
	return &Provider{store: store, gen: gen}, nil
}

// SessionID returns the stored tag, creating it on the first call. It returns
// "" when there is no usable storage; callers must treat that as "no session".
func (p *Provider) SessionID() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.tag != "" {
		return p.tag
	}
	if p.store == nil {
		return ""
	}

	tag, err := p.store.Load()
	if err != nil {
		return ""
	}
	if tag == "" {
		tag = p.gen()
		if err := p.store.Save(tag); err != nil {
			return ""
		}
	}
	p.tag = tag
	return tag
}

// DefaultPath returns ~/.config/todo/session.yaml, or "" without a home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "todo", "session.yaml")
}

// ViperStore keeps the tag in a YAML file.
type ViperStore struct {
	path string
}

// NewViperStore returns a store writing to path. An empty path returns nil.
func NewViperStore(path string) *ViperStore {
	if path == "" {
		return nil
	}
	return &ViperStore{path: path}
}

// Load reads the tag from the file. A missing file is not an error.
func (s *ViperStore) Load() (string, error) {
	if s == nil {
		return "", ErrNoStorage
	}
	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("reading session file %s: %w", s.path, err)
	}
	return v.GetString(key), nil
}

// Save writes the tag, creating parent directories as needed.
func (s *ViperStore) Save(tag string) error {
	if s == nil {
		return ErrNoStorage
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating session directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set(key, tag)
	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("writing session file %s: %w", s.path, err)
	}
	return nil
}
