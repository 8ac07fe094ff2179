package domain

// UploadStatus represents the lifecycle state of a file upload
type UploadStatus string

const (
	UploadIdle      UploadStatus = "idle"
	UploadUploading UploadStatus = "uploading"
	UploadSuccess   UploadStatus = "success"
	UploadError     UploadStatus = "error"
)

// UploadedPdf describes the document the chat currently targets.
// Size always reflects the local file; Name prefers the server's value.
type UploadedPdf struct {
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	UploadedAt int64  `json:"uploadedAt"`
	Path       string `json:"path,omitempty"`
	ID         string `json:"id,omitempty"`
	Message    string `json:"message,omitempty"`
}
