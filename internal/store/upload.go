package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"nbedit/internal/editor"
	"nbedit/internal/logger"
)

// AllowedExtensions are the image types accepted for upload
var AllowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// Upload describes a stored image
type Upload struct {
	Filename string
	Markup   string
	Path     string
	Document string
}

// FigureMarkup is the HTML block inserted for an uploaded image, with the
// caption left for the writer.
func FigureMarkup(filename string) string {
	return "<figure>\n" +
		"    <img src=\"" + filename + "\" alt=\"Uploaded image\" />\n" +
		"    <figcaption>" + editor.CaptionPlaceholder + "</figcaption>\n" +
		"</figure>"
}

// UploadImage stores data in the document's folder under a fresh unique
// name that keeps the original extension.
func (s *Store) UploadImage(docName, filename string, data []byte) (Upload, error) {
	slug, err := SanitizeName(docName)
	if err != nil {
		return Upload{}, err
	}
	if strings.TrimSpace(filename) == "" {
		return Upload{}, fmt.Errorf("%w: no file selected", ErrUnsupportedType)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !AllowedExtensions[ext] {
		return Upload{}, fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}

	folder := filepath.Join(s.root, slug)
	if err := os.MkdirAll(folder, 0755); err != nil {
		return Upload{}, fmt.Errorf("failed to create document folder: %w", err)
	}

	unique := generateFileID() + ext
	path := filepath.Join(folder, unique)
	if err := writeAtomic(path, data); err != nil {
		return Upload{}, err
	}
	logger.Info("Successfully saved image: %s", path)

	if s.index != nil {
		if err := s.index.RecordUpload(slug, unique, filename, int64(len(data)), s.now()); err != nil {
			logger.Error("Failed to index upload %s: %v", unique, err)
		}
	}

	return Upload{
		Filename: unique,
		Markup:   FigureMarkup(unique),
		Path:     path,
		Document: slug,
	}, nil
}

// generateFileID creates a UUIDv7 so uploads sort by time
func generateFileID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to a timestamp-based ID if UUID generation fails
		return fmt.Sprintf("img_%d", time.Now().UnixNano())
	}
	return id.String()
}

// Uploader adapts a Store to editor.Uploader. The document name is read
// when each upload starts, since the host owns it and it may change.
type Uploader struct {
	store *Store
	name  func() string
}

// NewUploader creates an uploader saving into the document named by name
func NewUploader(s *Store, name func() string) *Uploader {
	return &Uploader{store: s, name: name}
}

// Upload stores one dropped file
func (u *Uploader) Upload(ctx context.Context, file editor.DroppedFile) (editor.UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return editor.UploadResult{}, err
	}
	doc := u.name()
	if strings.TrimSpace(doc) == "" {
		return editor.UploadResult{}, fmt.Errorf("please enter a document name before uploading images: %w", ErrInvalidName)
	}

	up, err := u.store.UploadImage(doc, file.Name, file.Data)
	if err != nil {
		return editor.UploadResult{}, fmt.Errorf("image upload failed: %w", err)
	}
	return editor.UploadResult{Markup: up.Markup, Filename: up.Filename}, nil
}
