package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"nbedit/internal/logger"
)

// Storage keeps credentials per provider in a JSON file only the user can
// read.
type Storage struct {
	mu   sync.RWMutex
	path string
}

// DefaultPath is ~/.local/share/nbedit/auth.json
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "nbedit", "auth.json"), nil
}

// NewStorage uses the file at path, created on first write
func NewStorage(path string) *Storage {
	return &Storage{path: path}
}

// Path returns the storage file
func (s *Storage) Path() string {
	return s.path
}

// Get returns the credential for provider, or nil when none is stored
func (s *Storage) Get(provider string) (*Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.read()
	if err != nil {
		return nil, err
	}
	c, ok := data[provider]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// Set stores c for provider, replacing any previous credential
func (s *Storage) Set(provider string, c Credential) error {
	if !c.IsValid() {
		return errors.New("auth: refusing to store an empty credential")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}
	data[provider] = c
	logger.Info("Storing credential for %s in %s", provider, s.path)
	return s.write(data)
}

// Remove deletes the credential for provider. It reports whether one was
// stored.
func (s *Storage) Remove(provider string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return false, err
	}
	if _, ok := data[provider]; !ok {
		return false, nil
	}
	delete(data, provider)
	return true, s.write(data)
}

// Providers lists the providers with a stored credential
func (s *Storage) Providers() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.read()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(data))
	for p := range data {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

func (s *Storage) read() (map[string]Credential, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]Credential), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read auth file: %w", err)
	}

	data := make(map[string]Credential)
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse auth file %s: %w", s.path, err)
	}
	return data, nil
}

func (s *Storage) write(data map[string]Credential) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create auth directory: %w", err)
	}

	// Write to temp file first, then rename over the real one
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0600); err != nil {
		logger.Error("Failed to write temp file %s: %v", tmp, err)
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		logger.Error("Failed to rename %s: %v", tmp, err)
		return err
	}
	return nil
}
