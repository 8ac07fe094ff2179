package store

import (
	"context"
	"sync"

	"github.com/Rrens/chatpdf-local/internal/apiclient"
	"github.com/Rrens/chatpdf-local/internal/domain"
)

const uploadFallbackError = "Upload failed. Please try again."

// UploadClient performs the remote file upload round trip
type UploadClient interface {
	UploadFile(ctx context.Context, f *apiclient.File) (*apiclient.UploadResult, error)
}

// UploadStore tracks the lifecycle of a single file upload:
// idle -> uploading -> success/error, with reset back to idle.
// Safe for concurrent use.
type UploadStore struct {
	client UploadClient

	mu     sync.Mutex
	status domain.UploadStatus
	err    string
	active *domain.UploadedPdf
	now    func() int64
}

// NewUploadStore creates an idle store backed by the given client
func NewUploadStore(client UploadClient) *UploadStore {
	return &UploadStore{
		client: client,
		status: domain.UploadIdle,
		now:    nowMillis,
	}
}

// Upload runs one upload and records the terminal state. A nil file is a
// no-op. The terminal error, if any, is both stored and returned; callers
// that only observe store state may ignore the return value.
func (s *UploadStore) Upload(ctx context.Context, f *apiclient.File) error {
	if f == nil {
		return nil
	}

	s.mu.Lock()
	s.status = domain.UploadUploading
	s.err = ""
	s.mu.Unlock()

	res, err := s.client.UploadFile(ctx, f)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.status = domain.UploadError
		s.err = errorText(err)
		return err
	}

	pdf := &domain.UploadedPdf{
		Name:       f.Name,
		Size:       f.Size,
		UploadedAt: s.now(),
	}
	if res != nil {
		if res.Name != "" {
			pdf.Name = res.Name
		}
		pdf.ID = res.ID
		pdf.Path = res.Path
		pdf.Message = res.Message
	}

	s.active = pdf
	s.status = domain.UploadSuccess
	return nil
}

// Reset unconditionally returns to idle, clearing the error and the active
// document. Idempotent and safe from any state.
func (s *UploadStore) Reset() {
	s.mu.Lock()
	s.status = domain.UploadIdle
	s.err = ""
	s.active = nil
	s.mu.Unlock()
}

// Status returns the current lifecycle state
func (s *UploadStore) Status() domain.UploadStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Err returns the stored error message, which is non-empty only in the
// error state
func (s *UploadStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// IsUploading reports whether an upload is in flight
func (s *UploadStore) IsUploading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status == domain.UploadUploading
}

// ActivePdf returns a copy of the last successful upload, or nil
func (s *UploadStore) ActivePdf() *domain.UploadedPdf {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil
	}
	pdf := *s.active
	return &pdf
}

func errorText(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return uploadFallbackError
}
