package api

import (
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"kairosconsole/internal/models"
	"kairosconsole/internal/render"
	"kairosconsole/internal/submission"

	"github.com/gorilla/mux"
)

// SubmitForm runs one console form and answers with its result panel.
// Validation problems answer 422 with the alert text and send nothing.
func (h *Handlers) SubmitForm(w http.ResponseWriter, r *http.Request) {
	form, err := submission.ParseForm(mux.Vars(r)["form"])
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := parseForm(r); err != nil {
		writeAlert(w, http.StatusBadRequest, "Formulário inválido.")
		slog.Warn("failed to parse submission form", "form", form, "error", err)
		return
	}

	request, err := buildRequest(form, r)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			writeAlert(w, http.StatusUnprocessableEntity, verr.Message)
			return
		}
		writeAlert(w, http.StatusBadRequest, "Formulário inválido.")
		slog.Warn("invalid submission form", "form", form, "error", err)
		return
	}

	outcome := h.runner.Submit(r.Context(), form, request)
	if outcome.Blocked() {
		writeAlert(w, http.StatusUnprocessableEntity, outcome.Alert)
		return
	}

	fragment, err := renderOutcome(outcome)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		slog.Error("failed to render result", "form", form, "error", err)
		return
	}

	writeHTML(w, http.StatusOK, fragment)
}

// renderOutcome returns the filled result panel, preceded by the completion
// alert when the form raises one.
func renderOutcome(outcome submission.Outcome) (string, error) {
	_, panel, err := render.NewPanel(outcome.Form.ResultPanel())
	if err != nil {
		return "", err
	}
	render.RenderResult(panel, outcome.View)

	fragment, err := render.OuterHTML(panel)
	if err != nil {
		return "", fmt.Errorf("failed to render result panel: %w", err)
	}

	if outcome.CompletionAlert != "" {
		fragment = fmt.Sprintf(`<div class="alert" role="alert">%s</div>`, html.EscapeString(outcome.CompletionAlert)) + fragment
	}
	return fragment, nil
}

func buildRequest(form submission.Form, r *http.Request) (interface{ Validate() error }, error) {
	upload, err := readUpload(r, "arquivo")
	if err != nil {
		return nil, err
	}

	if form == submission.FormDesligar {
		return &models.DismissalRequest{Arquivo: upload}, nil
	}

	source, err := models.NewIdentifierSource(upload, r.FormValue("matriculas"))
	if err != nil {
		return nil, err
	}

	clocks, err := parseClockIDs(r.Form["relogios"])
	if err != nil {
		return nil, err
	}

	if form == submission.FormAssociar {
		return &models.BadgeAssociationRequest{Source: source, Relogios: clocks}, nil
	}

	return &models.CommandDispatchRequest{
		Source:   source,
		Comandos: models.NewCommandSet(r.Form["comandos"]...),
		Relogios: clocks,
	}, nil
}

// parseForm accepts both multipart and urlencoded bodies
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(maxUploadSize)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	return nil
}

// readUpload returns nil when no file was picked
func readUpload(r *http.Request, field string) (*models.Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	defer file.Close()

	if header.Filename == "" {
		return nil, nil
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	return &models.Upload{Name: header.Filename, Data: data}, nil
}

func parseClockIDs(values []string) ([]int, error) {
	ids := make([]int, 0, len(values))
	for _, value := range values {
		id, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid clock id %q: %w", value, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
