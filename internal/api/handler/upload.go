package handler

import (
	"net/http"

	"github.com/Rrens/chatpdf-local/internal/api/response"
	"github.com/Rrens/chatpdf-local/internal/apiclient"
	"github.com/Rrens/chatpdf-local/internal/store"
)

// UploadHandler drives the upload store from multipart requests
type UploadHandler struct {
	uploads *store.UploadStore
}

func NewUploadHandler(uploads *store.UploadStore) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// Upload forwards a multipart file to the remote endpoint and reports the
// resulting store state. Upload failures land in the store's error field,
// not in the HTTP status.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// Limit upload to 50MB
	r.ParseMultipartForm(50 << 20)

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "no file uploaded")
		return
	}
	defer file.Close()

	h.uploads.Upload(r.Context(), &apiclient.File{
		Name:    header.Filename,
		Size:    header.Size,
		Content: file,
	})

	h.writeState(w)
}

// Status reports the upload store state
func (h *UploadHandler) Status(w http.ResponseWriter, r *http.Request) {
	h.writeState(w)
}

// Reset returns the upload store to idle
func (h *UploadHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.uploads.Reset()
	h.writeState(w)
}

func (h *UploadHandler) writeState(w http.ResponseWriter) {
	var errVal any
	if msg := h.uploads.Err(); msg != "" {
		errVal = msg
	}
	response.OK(w, map[string]any{
		"status":      h.uploads.Status(),
		"error":       errVal,
		"isUploading": h.uploads.IsUploading(),
		"activePdf":   h.uploads.ActivePdf(),
	})
}
