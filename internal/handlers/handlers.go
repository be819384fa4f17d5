package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"deepfake-detector/internal/core"
	"deepfake-detector/internal/scratch"
)

// Handler serves the HTTP surface: the demo page, the detection endpoint
// and the health check.
type Handler struct {
	service        *core.DetectionService
	store          *scratch.Store
	logger         *zap.Logger
	maxUploadBytes int64
}

// NewHandler creates a new Handler.
func NewHandler(service *core.DetectionService, store *scratch.Store, logger *zap.Logger, maxUploadBytes int64) *Handler {
	return &Handler{
		service:        service,
		store:          store,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// Index serves the demo upload page.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexPage)
}

// Detect handles POST /detect: saves the uploaded image to a scratch
// file, runs detection and returns the JSON verdict. The scratch file is
// removed on every path.
func (h *Handler) Detect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Reject oversize uploads before reading the body.
	if r.ContentLength > h.maxUploadBytes {
		respondError(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, "File too large", http.StatusRequestEntityTooLarge)
			return
		}
		respondError(w, "No image provided", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		// A part sent with an empty filename is parsed as a plain form
		// value, which is how browsers submit an empty file input.
		if r.MultipartForm != nil && len(r.MultipartForm.Value["image"]) > 0 {
			respondError(w, "No image selected", http.StatusBadRequest)
			return
		}
		respondError(w, "No image provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Filename == "" {
		respondError(w, "No image selected", http.StatusBadRequest)
		return
	}

	path, err := h.store.Save(header.Filename, file)
	if err != nil {
		h.logger.Error("Failed to save upload", zap.Error(err))
		respondError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer func() {
		if err := h.store.Remove(path); err != nil {
			h.logger.Error("Failed to remove scratch file", zap.Error(err), zap.String("path", path))
		}
	}()

	h.logger.Info("Received image",
		zap.String("filename", header.Filename),
		zap.Int64("size", header.Size))

	result, err := h.service.Detect(r.Context(), path)
	if err != nil {
		h.logger.Error("Detection failed", zap.Error(err))
		respondError(w, core.ClientMessage(err), statusFor(err))
		return
	}

	respondJSON(w, result, http.StatusOK)
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]any{
		"status":       "healthy",
		"model_loaded": true,
		"threshold":    h.service.Threshold(),
		"device":       h.service.Device(),
	}, http.StatusOK)
}

func statusFor(err error) int {
	switch core.KindOf(err) {
	case core.KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, map[string]string{"error": message, "status": "error"}, status)
}
