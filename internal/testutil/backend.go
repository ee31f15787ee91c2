package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"kairosconsole/internal/config"
)

// RecordedRequest is what the fake backend saw for one call
type RecordedRequest struct {
	Method   string
	Path     string
	Fields   map[string]string
	FileName string
	FileData []byte
}

// FakeBackend is an httptest server standing in for the envio_comando service
type FakeBackend struct {
	Server *httptest.Server

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	requests []RecordedRequest
}

// NewFakeBackend starts a fake backend that answers 404 until handlers are set
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()

	fb := &FakeBackend{handlers: make(map[string]http.HandlerFunc)}
	fb.Server = httptest.NewServer(http.HandlerFunc(fb.serve))
	t.Cleanup(fb.Server.Close)
	return fb
}

// BackendConfig points a client at the fake backend
func (fb *FakeBackend) BackendConfig() config.BackendConfig {
	return config.BackendConfig{BaseURL: fb.Server.URL, UserAgent: "kairosconsole-test"}
}

// Handle sets the handler for a path
func (fb *FakeBackend) Handle(path string, handler http.HandlerFunc) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.handlers[path] = handler
}

// RespondJSON makes path answer with status and the JSON encoding of body
func (fb *FakeBackend) RespondJSON(path string, status int, body interface{}) {
	fb.Handle(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	})
}

// RespondRaw makes path answer with status and a raw body
func (fb *FakeBackend) RespondRaw(path string, status int, body string) {
	fb.Handle(path, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		io.WriteString(w, body)
	})
}

// Requests returns a copy of every request received so far
func (fb *FakeBackend) Requests() []RecordedRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]RecordedRequest(nil), fb.requests...)
}

// LastRequest returns the most recent request, nil when none arrived
func (fb *FakeBackend) LastRequest() *RecordedRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if len(fb.requests) == 0 {
		return nil
	}
	req := fb.requests[len(fb.requests)-1]
	return &req
}

func (fb *FakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	recorded := RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Fields: map[string]string{},
	}

	if err := r.ParseMultipartForm(32 << 20); err == nil {
		for key, values := range r.MultipartForm.Value {
			if len(values) > 0 {
				recorded.Fields[key] = values[0]
			}
		}
		if files := r.MultipartForm.File["arquivo"]; len(files) > 0 {
			recorded.FileName = files[0].Filename
			if f, err := files[0].Open(); err == nil {
				recorded.FileData, _ = io.ReadAll(f)
				f.Close()
			}
		}
	}

	fb.mu.Lock()
	fb.requests = append(fb.requests, recorded)
	handler, ok := fb.handlers[r.URL.Path]
	fb.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	handler(w, r)
}
