package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultFileID is the placeholder document id the ask endpoint accepts
// before a real upload exists.
const DefaultFileID = "9dc50dff"

const maxErrorBody = 4 << 10

// Client performs single-shot round trips against the remote ask and upload
// endpoints. It holds no state beyond configuration and never retries.
type Client struct {
	askURL        string
	uploadURL     string
	defaultFileID string
	httpClient    *http.Client
}

// NewClient creates a client for the given endpoints. An empty defaultFileID
// falls back to DefaultFileID.
func NewClient(askURL, uploadURL, defaultFileID string, timeout time.Duration) *Client {
	if defaultFileID == "" {
		defaultFileID = DefaultFileID
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		askURL:        askURL,
		uploadURL:     uploadURL,
		defaultFileID: defaultFileID,
		httpClient:    &http.Client{Timeout: timeout},
	}
}

// AskResult is the normalized response of a successful question round trip
type AskResult struct {
	Question string `json:"question"`
	FileID   string `json:"fileId"`
	Message  string `json:"message,omitempty"`
	Answer   string `json:"answer"`
}

type askResponseBody struct {
	Question string          `json:"question"`
	FileID   string          `json:"file_id"`
	Message  string          `json:"message"`
	Answer   json.RawMessage `json:"answer"`
}

// File is a local file handed to UploadFile
type File struct {
	Name    string
	Size    int64
	Content io.Reader
}

// UploadResult is the normalized response of a successful upload
type UploadResult struct {
	Name    string
	ID      string
	Path    string
	Message string
}

type uploadResponseBody struct {
	Message string `json:"message"`
	File    struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"file"`
	// legacy response shape
	Path     string `json:"path"`
	FilePath string `json:"filePath"`
}

// AskQuestion sends one question about a document and normalizes the answer.
// A blank question fails with ErrEmptyQuestion before any network call; an
// empty fileID uses the client default.
func (c *Client) AskQuestion(ctx context.Context, question, fileID string) (*AskResult, error) {
	trimmed := strings.TrimSpace(question)
	if trimmed == "" {
		return nil, ErrEmptyQuestion
	}
	if fileID == "" {
		fileID = c.defaultFileID
	}

	payload, err := json.Marshal(map[string]string{
		"file_id":  fileID,
		"question": trimmed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.askURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ask request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestFailedError{Status: resp.StatusCode, Message: errorMessage(resp)}
	}

	// Malformed bodies degrade to an empty object rather than failing.
	var body askResponseBody
	if data, readErr := io.ReadAll(resp.Body); readErr == nil {
		_ = json.Unmarshal(data, &body)
	}

	answer := normalizeAnswer(body.Answer)
	if answer == "" {
		return nil, ErrEmptyAnswer
	}

	return &AskResult{
		Question: firstNonEmpty(body.Question, trimmed),
		FileID:   firstNonEmpty(body.FileID, fileID),
		Message:  body.Message,
		Answer:   answer,
	}, nil
}

// UploadFile sends one file as a multipart request. A nil file is a no-op
// convenience guard, not an error.
func (c *Client) UploadFile(ctx context.Context, f *File) (*UploadResult, error) {
	if f == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", f.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if f.Content != nil {
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestFailedError{Status: resp.StatusCode, Message: errorMessage(resp)}
	}

	var body uploadResponseBody
	if data, readErr := io.ReadAll(resp.Body); readErr == nil {
		_ = json.Unmarshal(data, &body)
	}

	return &UploadResult{
		Name:    firstNonEmpty(body.File.Name, f.Name),
		ID:      body.File.ID,
		Path:    firstNonEmpty(body.File.URL, body.Path, body.FilePath),
		Message: body.Message,
	}, nil
}

// errorMessage extracts the best available description from a failed
// response: body text, then the status reason phrase, then a synthesized
// default. The reason phrase is often empty over HTTP/2, which is why the
// synthesized form is part of the contract.
func errorMessage(resp *http.Response) string {
	if data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)); err == nil {
		if msg := strings.TrimSpace(string(data)); msg != "" {
			return msg
		}
	}
	reason := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))
	if msg := strings.TrimSpace(reason); msg != "" {
		return msg
	}
	return fmt.Sprintf("Request failed with status %d", resp.StatusCode)
}

// normalizeAnswer accepts either a plain string or a nested {answer: string}
func normalizeAnswer(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var nested struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil {
		return nested.Answer
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
