package api

import (
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strings"

	"kairosconsole/internal/models"
	"kairosconsole/internal/panels"
	"kairosconsole/internal/render"
	"kairosconsole/internal/sanitizer"
	"kairosconsole/internal/selection"
	"kairosconsole/internal/submission"

	"github.com/PuerkitoBio/goquery"
	"github.com/gorilla/mux"
)

const (
	actionSelectAll   = "selecionar_todos"
	actionDeselectAll = "desmarcar_todos"
)

// submitButtons maps the buttons of the page to the form they submit
var submitButtons = map[string]submission.Form{
	"enviarComandos":     submission.FormComandos,
	"associarRelogios":   submission.FormAssociar,
	"enviarDesligamento": submission.FormDesligar,
}

// blockingAlerts are the checks the page runs before showing the progress bar,
// keyed by the button attribute carrying the alert text. The server repeats
// them when the form arrives.
func blockingAlerts(form submission.Form) map[string]string {
	switch form {
	case submission.FormComandos:
		return map[string]string{
			"data-alerta-fonte":     models.AlertNoSource,
			"data-alerta-matricula": models.AlertNoValidMatricula,
			"data-alerta-comandos":  models.AlertNoCommand,
			"data-alerta-relogios":  models.AlertNoClock,
		}
	case submission.FormAssociar:
		return map[string]string{
			"data-alerta-fonte":     models.AlertNoSource,
			"data-alerta-matricula": models.AlertNoValidMatricula,
			"data-alerta-relogios":  models.AlertNoClockAssociate,
		}
	case submission.FormDesligar:
		return map[string]string{"data-alerta-arquivo": models.AlertNoDismissalFile}
	}
	return nil
}

func (h *Handlers) registerWebRoutes(r *mux.Router) {
	r.PathPrefix(sanitizer.StaticPrefix).Handler(h.static).Methods("GET", "HEAD")

	r.HandleFunc("/", h.serveConsole).Methods("GET")
	r.HandleFunc("/console", h.serveConsole).Methods("GET")
	r.HandleFunc("/console/relogios", h.serveClockList).Methods("GET")
	r.HandleFunc("/console/relogios", h.updateClockList).Methods("POST")
	r.HandleFunc("/console/{form:comandos|associar|desligar}", h.SubmitForm).Methods("POST")
}

// serveConsole renders the host page with the clock list already loaded
func (h *Handlers) serveConsole(w http.ResponseWriter, r *http.Request) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(consolePage))
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		slog.Error("failed to parse console page", "error", err)
		return
	}

	state := panels.FromURL(r.URL.String())
	for _, panel := range []panels.Panel{panels.PanelComandos, panels.PanelRelogios, panels.PanelDesligamento} {
		doc.Find("#"+string(panel)).SetAttr("style", "display: "+state.Display(panel))
	}

	var commands strings.Builder
	for _, name := range h.config.GetCommands() {
		escaped := html.EscapeString(name)
		fmt.Fprintf(&commands, `<label><input type="checkbox" name="comandos" value="%s"> %s</label>`, escaped, escaped)
	}
	doc.Find("#comandos").AppendHtml(commands.String())

	for id, form := range submitButtons {
		button := doc.Find("#"+id).
			SetAttr("data-progress-label", form.ProgressLabel()).
			SetAttr("data-progress-color", form.ProgressColor()).
			SetAttr("data-progress-bar", form.ProgressBar()).
			SetAttr("data-result", form.ResultPanel())
		for attr, text := range blockingAlerts(form) {
			button.SetAttr(attr, text)
		}
	}

	selector := h.loadSelector(r)
	render.RenderClockList(doc.Find("#"+clockListID), selector.Snapshot())

	groups, err := json.Marshal(selector.Groups())
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		slog.Error("failed to encode clock groups", "error", err)
		return
	}
	doc.Find("head").AppendHtml(fmt.Sprintf("<script>window.gruposRelogios = %s;</script>", groups))

	page, err := doc.Html()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		slog.Error("failed to render console page", "error", err)
		return
	}

	writeHTML(w, http.StatusOK, page)
}

// serveClockList re-fetches the clocks and returns the clock list fragment
func (h *Handlers) serveClockList(w http.ResponseWriter, r *http.Request) {
	h.writeClockList(w, h.loadSelector(r))
}

// updateClockList replays the submitted clock checkboxes. Group checkboxes that
// changed cascade to their clocks, and the select all / deselect all buttons
// arrive as the acao field.
func (h *Handlers) updateClockList(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		writeAlert(w, http.StatusBadRequest, "Formulário inválido.")
		slog.Warn("failed to parse clock form", "error", err)
		return
	}

	ids, err := parseClockIDs(r.Form["relogios"])
	if err != nil {
		writeAlert(w, http.StatusBadRequest, "Formulário inválido.")
		slog.Warn("invalid clock id in form", "error", err)
		return
	}

	selector := h.loadSelector(r)
	selector.ApplyForm(ids, r.Form["grupos_anteriores"], r.Form["grupos"])

	switch r.FormValue("acao") {
	case actionSelectAll:
		selector.SelectAll()
	case actionDeselectAll:
		selector.DeselectAll()
	}

	h.writeClockList(w, selector)
}

// loadSelector builds the clock selector for one request. Load failures are
// rendered inline, so they are only logged here.
func (h *Handlers) loadSelector(r *http.Request) *selection.Selector {
	selector := selection.NewSelector(h.config.GetGroups())
	if err := selector.Load(r.Context(), h.client); err != nil {
		slog.Warn("clock list unavailable", "error", err)
	}
	return selector
}

func (h *Handlers) writeClockList(w http.ResponseWriter, selector *selection.Selector) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		fmt.Sprintf(`<div id="%s"></div>`, clockListID)))
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	container := doc.Find("#" + clockListID)
	render.RenderClockList(container, selector.Snapshot())

	fragment, err := render.OuterHTML(container)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		slog.Error("failed to render clock list", "error", err)
		return
	}

	writeHTML(w, http.StatusOK, fragment)
}

func writeHTML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// writeAlert answers with the blocking message the page shows in an alert box
func writeAlert(w http.ResponseWriter, status int, message string) {
	writeHTML(w, status, fmt.Sprintf(`<div class="alert" role="alert">%s</div>`, html.EscapeString(message)))
}
