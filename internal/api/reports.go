package api

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"kairosconsole/internal/envio"
	"kairosconsole/internal/models"
	"kairosconsole/internal/render"
	"kairosconsole/internal/workbook"

	"github.com/gorilla/mux"
)

const (
	// reportResultID is the element the report table is rendered into
	reportResultID = "resultRelatorio"

	reportsUnavailable = "Relatórios indisponíveis: credenciais da API Kairos não configuradas."
)

func (h *Handlers) registerReportRoutes(r *mux.Router) {
	r.HandleFunc("/relatorios", h.serveReports).Methods("GET")
	r.HandleFunc("/relatorios/apontamentos", h.ListAppointments).Methods("POST")
	r.HandleFunc("/relatorios/exportar", h.ExportAppointments).Methods("POST")
}

func (h *Handlers) serveReports(w http.ResponseWriter, r *http.Request) {
	writeHTML(w, http.StatusOK, reportsPage)
}

// ListAppointments answers with the punch table for the submitted period
func (h *Handlers) ListAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, ok := h.fetchAppointments(w, r)
	if !ok {
		return
	}

	_, panel, err := render.NewPanel(reportResultID)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		slog.Error("failed to create report panel", "error", err)
		return
	}
	render.RenderAppointments(panel, appointments)

	fragment, err := render.OuterHTML(panel)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		slog.Error("failed to render report", "error", err)
		return
	}

	writeHTML(w, http.StatusOK, fragment)
}

// ExportAppointments streams the punches of the submitted period as a workbook
func (h *Handlers) ExportAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, ok := h.fetchAppointments(w, r)
	if !ok {
		return
	}
	if len(appointments) == 0 {
		writeAlert(w, http.StatusBadRequest, models.AlertNoReportData)
		return
	}

	var buf bytes.Buffer
	if err := workbook.WriteAppointments(&buf, appointments); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		slog.Error("failed to build report workbook", "error", err)
		return
	}

	w.Header().Set("Content-Type", workbook.ReportContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, workbook.ReportFileName))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write report workbook", "error", err)
	}
}

// fetchAppointments validates the report form and queries Kairos. When it
// returns false the answer has already been written.
func (h *Handlers) fetchAppointments(w http.ResponseWriter, r *http.Request) ([]models.Appointment, bool) {
	if h.appointments == nil {
		writeAlert(w, http.StatusServiceUnavailable, reportsUnavailable)
		return nil, false
	}

	if err := parseForm(r); err != nil {
		writeAlert(w, http.StatusBadRequest, "Formulário inválido.")
		slog.Warn("failed to parse report form", "error", err)
		return nil, false
	}

	query, err := models.NewAppointmentQuery(r.FormValue("inicio"), r.FormValue("fim"), r.FormValue("matricula"))
	if err != nil {
		writeAlert(w, http.StatusUnprocessableEntity, envio.ErrorText(err))
		return nil, false
	}

	appointments, err := h.appointments.Appointments(r.Context(), query)
	if err != nil {
		if envio.IsValidation(err) {
			writeAlert(w, http.StatusUnprocessableEntity, envio.ErrorText(err))
			return nil, false
		}
		slog.Error("appointment query failed", "error", err)
		writeAlert(w, http.StatusBadGateway, envio.ErrorText(err))
		return nil, false
	}

	slog.Info("appointment report",
		"inicio", query.Inicio.Format(models.KairosDateLayout),
		"fim", query.Fim.Format(models.KairosDateLayout),
		"cracha", query.Cracha,
		"count", len(appointments))
	return appointments, true
}
