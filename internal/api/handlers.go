package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"kairosconsole/internal/config"
	"kairosconsole/internal/interfaces"
	"kairosconsole/internal/submission"

	"github.com/gorilla/mux"
)

// maxUploadSize bounds the multipart body accepted from the console forms
const maxUploadSize = 32 << 20

type Handlers struct {
	config *config.Config
	client interfaces.EnvioClient
	runner *submission.Runner
	static http.Handler
	// appointments is nil when the Kairos credentials are not configured
	appointments interfaces.AppointmentSource
}

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

func NewHandlers(cfg *config.Config, client interfaces.EnvioClient, runner *submission.Runner, appointments interfaces.AppointmentSource) (*Handlers, error) {
	static, err := newArtifactProxy(client.BaseURL())
	if err != nil {
		return nil, err
	}

	return &Handlers{
		config:       cfg,
		client:       client,
		runner:       runner,
		static:       static,
		appointments: appointments,
	}, nil
}

// Router builds the console router with every middleware applied
func (h *Handlers) Router() http.Handler {
	r := mux.NewRouter()
	h.RegisterRoutes(r)
	return chain(r, loggingMiddleware, securityHeadersMiddleware)
}

func (h *Handlers) RegisterRoutes(r *mux.Router) {
	h.registerWebRoutes(r)
	h.registerReportRoutes(r)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", h.HealthCheck).Methods("GET")
	api.HandleFunc("/console/{form}/estado", h.GetSubmissionState).Methods("GET")

	api.Use(jsonContentTypeMiddleware)
}

// GetSubmissionState reports the progress and last outcome of one form
func (h *Handlers) GetSubmissionState(w http.ResponseWriter, r *http.Request) {
	form, err := submission.ParseForm(mux.Vars(r)["form"])
	if err != nil {
		h.writeError(w, http.StatusNotFound, "Unknown form", nil)
		return
	}

	h.writeSuccess(w, http.StatusOK, h.runner.State(form), "")
}

func (h *Handlers) writeSuccess(w http.ResponseWriter, statusCode int, data interface{}, message string) {
	w.WriteHeader(statusCode)
	response := APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, statusCode int, message string, err error) {
	w.WriteHeader(statusCode)
	response := APIResponse{
		Success: false,
		Error:   message,
	}

	if err != nil {
		slog.Error("API error", "message", message, "error", err)
	} else {
		slog.Warn("API error", "message", message)
	}

	if jsonErr := json.NewEncoder(w).Encode(response); jsonErr != nil {
		slog.Error("failed to encode error response", "error", jsonErr)
	}
}
