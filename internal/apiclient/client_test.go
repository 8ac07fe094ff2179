package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(srv.URL+"/ask", srv.URL+"/upload", "", 5*time.Second)
}

func TestAskQuestion_Success(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]string{"answer": "It is a test."})
	}))
	defer srv.Close()

	res, err := newTestClient(srv).AskQuestion(context.Background(), "  What is this?  ", "")
	require.NoError(t, err)

	assert.Equal(t, "What is this?", gotBody["question"], "question must be trimmed before sending")
	assert.Equal(t, DefaultFileID, gotBody["file_id"])
	assert.Equal(t, "It is a test.", res.Answer)
	assert.Equal(t, "What is this?", res.Question)
	assert.Equal(t, DefaultFileID, res.FileID)
}

func TestAskQuestion_NestedAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"answer": {"answer": "nested"}, "question": "echoed", "file_id": "abc", "message": "ok"}`)
	}))
	defer srv.Close()

	res, err := newTestClient(srv).AskQuestion(context.Background(), "hi", "xyz")
	require.NoError(t, err)

	assert.Equal(t, "nested", res.Answer)
	assert.Equal(t, "echoed", res.Question, "server-provided question wins")
	assert.Equal(t, "abc", res.FileID, "server-provided file id wins")
	assert.Equal(t, "ok", res.Message)
}

func TestAskQuestion_EmptyQuestion(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	_, err := newTestClient(srv).AskQuestion(context.Background(), "   \t\n ", "")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
	assert.Zero(t, calls, "validation must short-circuit before any network call")
}

func TestAskQuestion_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "upstream exploded")
	}))
	defer srv.Close()

	_, err := newTestClient(srv).AskQuestion(context.Background(), "hi", "")

	var reqErr *RequestFailedError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusBadGateway, reqErr.Status)
	assert.Equal(t, "upstream exploded", reqErr.Message)
}

func TestAskQuestion_EmptyAnswer(t *testing.T) {
	for name, body := range map[string]string{
		"missing answer": `{"question": "hi"}`,
		"blank answer":   `{"answer": ""}`,
		"malformed body": `{not json`,
		"empty body":     ``,
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, body)
			}))
			defer srv.Close()

			_, err := newTestClient(srv).AskQuestion(context.Background(), "hi", "")
			assert.ErrorIs(t, err, ErrEmptyAnswer)
		})
	}
}

func TestAskQuestion_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := newTestClient(srv).AskQuestion(context.Background(), "hi", "")
	require.Error(t, err)
	var reqErr *RequestFailedError
	assert.False(t, errors.As(err, &reqErr), "transport failures are not RequestFailedError")
}

func TestErrorMessage_FallbackChain(t *testing.T) {
	tests := []struct {
		name   string
		status string
		body   string
		want   string
	}{
		{"body text wins", "500 Internal Server Error", "detailed reason", "detailed reason"},
		{"reason phrase next", "500 Internal Server Error", "", "Internal Server Error"},
		{"synthesized default", "500", "   ", "Request failed with status 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{
				Status:     tt.status,
				StatusCode: 500,
				Body:       io.NopCloser(strings.NewReader(tt.body)),
			}
			assert.Equal(t, tt.want, errorMessage(resp))
		})
	}
}

func TestUploadFile_NilFile(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	res, err := newTestClient(srv).UploadFile(context.Background(), nil)
	assert.NoError(t, err)
	assert.Nil(t, res)
	assert.Zero(t, calls)
}

func TestUploadFile_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()

		data, _ := io.ReadAll(file)
		assert.Equal(t, "report.pdf", header.Filename)
		assert.Equal(t, "%PDF-fake", string(data))

		json.NewEncoder(w).Encode(map[string]any{
			"message": "stored",
			"file":    map[string]string{"id": "f-1", "name": "server-name.pdf", "url": "/files/f-1"},
		})
	}))
	defer srv.Close()

	res, err := newTestClient(srv).UploadFile(context.Background(), &File{
		Name:    "report.pdf",
		Size:    9,
		Content: strings.NewReader("%PDF-fake"),
	})
	require.NoError(t, err)

	assert.Equal(t, "server-name.pdf", res.Name)
	assert.Equal(t, "f-1", res.ID)
	assert.Equal(t, "/files/f-1", res.Path)
	assert.Equal(t, "stored", res.Message)
}

func TestUploadFile_LegacyResponseShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"filePath": "/legacy/spot.pdf"}`)
	}))
	defer srv.Close()

	res, err := newTestClient(srv).UploadFile(context.Background(), &File{
		Name:    "spot.pdf",
		Content: strings.NewReader("x"),
	})
	require.NoError(t, err)

	assert.Equal(t, "spot.pdf", res.Name, "name falls back to the local file")
	assert.Equal(t, "/legacy/spot.pdf", res.Path)
	assert.Empty(t, res.ID)
}

func TestUploadFile_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "not json at all")
	}))
	defer srv.Close()

	res, err := newTestClient(srv).UploadFile(context.Background(), &File{
		Name:    "spot.pdf",
		Content: strings.NewReader("x"),
	})
	require.NoError(t, err, "malformed success bodies degrade to an empty object")
	assert.Equal(t, "spot.pdf", res.Name)
}

func TestUploadFile_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		io.WriteString(w, "file too large")
	}))
	defer srv.Close()

	_, err := newTestClient(srv).UploadFile(context.Background(), &File{
		Name:    "big.pdf",
		Content: strings.NewReader("x"),
	})

	var reqErr *RequestFailedError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "file too large", reqErr.Message)
}
