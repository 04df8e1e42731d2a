package server

import (
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"strings"

	"nbedit/internal/assist"
	"nbedit/internal/logger"
	"nbedit/internal/store"
)

type processRequest struct {
	Text    string `json:"text"`
	Prompt  string `json:"prompt"`
	Attempt int    `json:"attempt"`
	Context struct {
		Before string `json:"before"`
		After  string `json:"after"`
	} `json:"context"`
}

type processMetadata struct {
	Model   string `json:"model"`
	Tokens  int    `json:"tokens"`
	Success bool   `json:"success"`
}

type processResponse struct {
	ID       string          `json:"id"`
	Original string          `json:"original"`
	Result   string          `json:"result"`
	Prompt   string          `json:"prompt"`
	Attempt  int             `json:"attempt"`
	Metadata processMetadata `json:"metadata"`
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if s.processor == nil {
		writeError(w, http.StatusServiceUnavailable, "AI processing is not configured")
		return
	}

	var body processRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	req := assist.Request{
		Text:          strings.TrimSpace(body.Text),
		Prompt:        strings.TrimSpace(body.Prompt),
		Attempt:       body.Attempt,
		ContextBefore: body.Context.Before,
		ContextAfter:  body.Context.After,
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "Prompt is required")
		return
	}
	if req.Attempt < 1 {
		req.Attempt = 1
	}

	result, err := s.processor.Process(r.Context(), req)
	if err != nil {
		logger.Error("Error processing text: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "Failed to process text",
			"message": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, processResponse{
		ID:       resultID(req),
		Original: req.Text,
		Result:   result,
		Prompt:   req.Prompt,
		Attempt:  req.Attempt,
		Metadata: processMetadata{
			Model:   s.model,
			Tokens:  len(strings.Fields(assist.BuildPrompt(req, ""))) + len(strings.Fields(result)),
			Success: true,
		},
	})
}

func resultID(req assist.Request) string {
	h := fnv.New32a()
	h.Write([]byte(req.Text + req.Prompt))
	return fmt.Sprintf("result_%d_%d", req.Attempt, h.Sum32()%10000)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.processor == nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"status": "unhealthy",
			"error":  "AI processing is not configured",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"model":     s.model,
		"available": true,
	})
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	models := []map[string]string{}
	if s.model != "" {
		models = append(models, map[string]string{"id": s.model, "name": s.model})
	}
	writeJSON(w, http.StatusOK, map[string]any{"models": models})
}

func (s *Server) handleValidateName(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if strings.TrimSpace(body.Name) == "" {
		writeJSON(w, http.StatusOK, map[string]any{
			"valid":   false,
			"warning": "Document name cannot be empty",
		})
		return
	}
	sanitized, err := store.SanitizeName(body.Name)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"valid":   false,
			"warning": "Document name contains only invalid characters",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"valid":     true,
		"sanitized": sanitized,
	})
}

func (s *Server) handleSaveDocument(w http.ResponseWriter, r *http.Request) {
	var body struct {
		DocumentName string `json:"documentName"`
		Content      string `json:"content"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if strings.TrimSpace(body.DocumentName) == "" {
		writeError(w, http.StatusBadRequest, "Document name is required")
		return
	}

	saved, err := s.store.SaveDocument(body.DocumentName, body.Content)
	switch {
	case errors.Is(err, store.ErrInvalidName):
		writeError(w, http.StatusBadRequest, "Invalid document name")
		return
	case errors.Is(err, store.ErrEmptyDocument):
		writeError(w, http.StatusBadRequest, "Document is empty")
		return
	case err != nil:
		logger.Error("Error saving document: %v", err)
		writeError(w, http.StatusInternalServerError, "Save failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"path":    saved.Path,
		"folder":  saved.Folder,
	})
}

func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid upload")
		return
	}

	docName := strings.TrimSpace(r.FormValue("documentName"))
	if docName == "" {
		writeError(w, http.StatusBadRequest, "Document name is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()
	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No file selected")
		return
	}
	logger.Info("File received: %s, Content-Type: %s", header.Filename, header.Header.Get("Content-Type"))

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read upload")
		return
	}

	up, err := s.store.UploadImage(docName, header.Filename, data)
	switch {
	case errors.Is(err, store.ErrInvalidName):
		writeError(w, http.StatusBadRequest, "Invalid document name")
		return
	case errors.Is(err, store.ErrUnsupportedType):
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unsupported file type: %s", extOf(header.Filename)))
		return
	case err != nil:
		logger.Error("Error uploading image: %v", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Image upload failed: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"filename":      up.Filename,
		"markdown":      up.Markup,
		"path":          up.Path,
		"document_name": up.Document,
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content      string `json:"content"`
		DocumentName string `json:"documentName"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	html, err := s.preview.HTML(body.Content, body.DocumentName)
	if err != nil {
		logger.Error("Error rendering preview: %v", err)
		writeJSON(w, http.StatusOK, map[string]any{
			"html": `<p class="error">Error rendering markdown preview</p>`,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"html": html})
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	doc, file := r.PathValue("doc"), r.PathValue("file")
	logger.Info("Image request: %s/%s", doc, file)

	path, err := s.store.ImagePath(doc, file)
	switch {
	case errors.Is(err, store.ErrInvalidName):
		http.Error(w, "Invalid document name", http.StatusBadRequest)
		return
	case err != nil:
		logger.Error("Image not found: %v", err)
		http.Error(w, "Image file not found", http.StatusNotFound)
		return
	}
	http.ServeFile(w, r, path)
}

func extOf(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return strings.ToLower(name[i:])
	}
	return ""
}
