package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"nbedit/internal/logger"
)

var (
	// ErrInvalidName is returned for a document name that sanitizes to nothing
	ErrInvalidName = errors.New("store: invalid document name")
	// ErrEmptyDocument is returned when saving blank content
	ErrEmptyDocument = errors.New("store: document is empty")
	// ErrUnsupportedType is returned for an upload with a disallowed extension
	ErrUnsupportedType = errors.New("store: unsupported file type")
	// ErrNotFound is returned for a missing document or image
	ErrNotFound = errors.New("store: not found")
)

// DocumentFile is the markdown file inside each document folder
const DocumentFile = "index.md"

var (
	unsafeChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// SanitizeName turns a document title into its folder name: path-unsafe
// characters and whitespace become hyphens and the result is lowercased.
func SanitizeName(name string) (string, error) {
	s := strings.TrimSpace(name)
	if s == "" {
		return "", ErrInvalidName
	}
	s = unsafeChars.ReplaceAllString(s, "-")
	s = whitespace.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	s = strings.ToLower(s)
	if s == "" || s == "." || s == ".." {
		return "", ErrInvalidName
	}
	return s, nil
}

// Store keeps documents and their images under one write folder, one
// folder per document.
type Store struct {
	root  string
	index *Index
	now   func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithIndex records saves and uploads in idx
func WithIndex(idx *Index) Option {
	return func(s *Store) {
		s.index = idx
	}
}

// WithClock overrides the time source used for frontmatter dates
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New opens a store rooted at root, creating the folder if needed
func New(root string, opts ...Option) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("store: write folder not configured")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve write folder: %w", err)
	}
	info, err := os.Stat(abs)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(abs, 0755); err != nil {
			return nil, fmt.Errorf("failed to create write folder %s: %w", abs, err)
		}
		logger.Info("Created write folder: %s", abs)
	case err != nil:
		return nil, fmt.Errorf("failed to stat write folder: %w", err)
	case !info.IsDir():
		return nil, fmt.Errorf("write folder path exists but is not a directory: %s", abs)
	}

	s := &Store{root: abs, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Root returns the absolute write folder
func (s *Store) Root() string {
	return s.root
}

// Index returns the attached index, or nil
func (s *Store) Index() *Index {
	return s.index
}

// Folder returns the folder for a document name
func (s *Store) Folder(name string) (string, error) {
	slug, err := SanitizeName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, slug), nil
}

// Saved describes a written document
type Saved struct {
	Name   string
	Slug   string
	Path   string
	Folder string
}

// SaveDocument writes content with frontmatter to <folder>/index.md. The
// file is replaced atomically so a failed save never leaves half a
// document behind.
func (s *Store) SaveDocument(name, content string) (Saved, error) {
	name = strings.TrimSpace(name)
	slug, err := SanitizeName(name)
	if err != nil {
		return Saved{}, err
	}
	if strings.TrimSpace(content) == "" {
		return Saved{}, ErrEmptyDocument
	}

	folder := filepath.Join(s.root, slug)
	if err := os.MkdirAll(folder, 0755); err != nil {
		return Saved{}, fmt.Errorf("failed to create document folder: %w", err)
	}

	data, err := withFrontmatter(Frontmatter{Title: name, Date: s.now()}, content)
	if err != nil {
		return Saved{}, err
	}

	path := filepath.Join(folder, DocumentFile)
	if err := writeAtomic(path, data); err != nil {
		return Saved{}, err
	}
	logger.Info("Saved document: %s", path)

	if s.index != nil {
		if err := s.index.RecordSave(slug, name, path, s.now()); err != nil {
			logger.Error("Failed to index save of %s: %v", slug, err)
		}
	}
	return Saved{Name: name, Slug: slug, Path: path, Folder: folder}, nil
}

// Document is a saved document read back from disk
type Document struct {
	Frontmatter
	Slug    string
	Path    string
	Content string
}

// LoadDocument reads a saved document and splits off its frontmatter
func (s *Store) LoadDocument(name string) (Document, error) {
	slug, err := SanitizeName(name)
	if err != nil {
		return Document{}, err
	}
	path := filepath.Join(s.root, slug, DocumentFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Document{}, fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	if err != nil {
		return Document{}, fmt.Errorf("failed to read document: %w", err)
	}

	fm, body, err := splitFrontmatter(data)
	if err != nil {
		return Document{}, err
	}
	return Document{Frontmatter: fm, Slug: slug, Path: path, Content: body}, nil
}

// ImagePath resolves an image inside a document folder. Filenames that
// would leave the folder are rejected.
func (s *Store) ImagePath(doc, file string) (string, error) {
	folder, err := s.Folder(doc)
	if err != nil {
		return "", err
	}
	if file == "" || file != filepath.Base(file) || file == "." || file == ".." {
		return "", fmt.Errorf("%w: %q", ErrNotFound, file)
	}
	path := filepath.Join(folder, file)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return path, nil
}

// writeAtomic writes to a temp file beside path and renames it over path
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".nbedit-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
