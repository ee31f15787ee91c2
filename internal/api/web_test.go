package api

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"kairosconsole/internal/envio"
	"kairosconsole/internal/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getDocument(t *testing.T, handler http.Handler, target string) (*httptest.ResponseRecorder, *goquery.Document) {
	t.Helper()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", target, nil))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
	require.NoError(t, err)
	return rec, doc
}

func postClockForm(t *testing.T, handler http.Handler, form url.Values) *goquery.Document {
	t.Helper()

	req := httptest.NewRequest("POST", "/console/relogios", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
	require.NoError(t, err)
	return doc
}

func checkedClocks(doc *goquery.Document) []string {
	var values []string
	doc.Find(`input[name="relogios"][checked]`).Each(func(i int, sel *goquery.Selection) {
		values = append(values, sel.AttrOr("value", ""))
	})
	return values
}

func TestServeConsole(t *testing.T) {
	h, _ := setupTestHandlers(t)
	router := h.Router()

	rec, doc := getDocument(t, router, "/console")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))

	assert.Equal(t, "display: block", doc.Find("#panel-envio-comandos").AttrOr("style", ""))
	assert.Equal(t, "display: block", doc.Find("#panel-envio-relogios").AttrOr("style", ""))
	assert.Equal(t, "display: none", doc.Find("#panel-desligamento").AttrOr("style", ""))

	assert.Equal(t, 2, doc.Find(`#comandos input[name="comandos"]`).Length())
	assert.Equal(t, 4, doc.Find(`#lista-relogios input[name="relogios"]`).Length())
	assert.Equal(t, 2, doc.Find(".grupo-relogio-checkbox").Length())
	assert.Contains(t, doc.Find("#lista-relogios").Text(), "1 - Portaria Principal")

	button := doc.Find("#enviarDesligamento")
	assert.Equal(t, "Processando Desligamento...", button.AttrOr("data-progress-label", ""))
	assert.Equal(t, "#e53e3e", button.AttrOr("data-progress-color", ""))
	assert.Equal(t, "resultDesligamento", button.AttrOr("data-result", ""))
	assert.Equal(t, "result", doc.Find("#associarRelogios").AttrOr("data-result", ""))

	script := doc.Find("head script").Text()
	assert.Contains(t, script, "window.gruposRelogios = ")
	assert.Contains(t, script, `"Matriz":[1,2,3]`)

	assert.Equal(t, "display: none", doc.Find("#result").AttrOr("style", ""))
}

func TestServeConsole_ButtonsCarryBlockingAlerts(t *testing.T) {
	h, backend := setupTestHandlers(t)

	_, doc := getDocument(t, h.Router(), "/console")

	comandos := doc.Find("#enviarComandos")
	assert.Equal(t, models.AlertNoSource, comandos.AttrOr("data-alerta-fonte", ""))
	assert.Equal(t, models.AlertNoValidMatricula, comandos.AttrOr("data-alerta-matricula", ""))
	assert.Equal(t, models.AlertNoCommand, comandos.AttrOr("data-alerta-comandos", ""))
	assert.Equal(t, models.AlertNoClock, comandos.AttrOr("data-alerta-relogios", ""))

	associar := doc.Find("#associarRelogios")
	assert.Equal(t, models.AlertNoSource, associar.AttrOr("data-alerta-fonte", ""))
	assert.Equal(t, models.AlertNoClockAssociate, associar.AttrOr("data-alerta-relogios", ""))
	_, hasCommandCheck := associar.Attr("data-alerta-comandos")
	assert.False(t, hasCommandCheck)

	desligar := doc.Find("#enviarDesligamento")
	assert.Equal(t, models.AlertNoDismissalFile, desligar.AttrOr("data-alerta-arquivo", ""))
	_, hasSourceCheck := desligar.Attr("data-alerta-fonte")
	assert.False(t, hasSourceCheck)

	// the page validates before showing the progress bar and reports
	// non-panel answers inside the result area
	script := doc.Find("body script").Text()
	assert.Less(t, strings.Index(script, "blockingAlert(form, button)"), strings.Index(script, `bar.style.display = "block"`))
	assert.Contains(t, script, "showError(result, text ||")

	// the server still refuses what the page would have blocked
	rec, _ := submit(t, h.Router(), "/console/desligar", nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Zero(t, postsTo(backend, envio.PathDesligar))
}

func TestServeConsole_DismissalTab(t *testing.T) {
	h, _ := setupTestHandlers(t)

	_, doc := getDocument(t, h.Router(), "/console?aba=desligamento")

	assert.Equal(t, "display: none", doc.Find("#panel-envio-comandos").AttrOr("style", ""))
	assert.Equal(t, "display: none", doc.Find("#panel-envio-relogios").AttrOr("style", ""))
	assert.Equal(t, "display: block", doc.Find("#panel-desligamento").AttrOr("style", ""))
}

func TestServeConsole_RootServesPage(t *testing.T) {
	h, _ := setupTestHandlers(t)

	rec, doc := getDocument(t, h.Router(), "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, doc.Find("#uploadForm").Length())
}

func TestServeConsole_ClockLoadFailure(t *testing.T) {
	h, backend := setupTestHandlers(t)
	backend.RespondRaw(envio.PathRelogios, http.StatusInternalServerError, "{}")

	rec, doc := getDocument(t, h.Router(), "/console")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Falha ao carregar a lista de relógios. Verifique a conexão.",
		doc.Find("#relogios span.error").Text())
	assert.Zero(t, doc.Find(`input[name="relogios"]`).Length())
}

func TestServeClockList(t *testing.T) {
	h, _ := setupTestHandlers(t)

	rec, doc := getDocument(t, h.Router(), "/console/relogios")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), `<div id="lista-relogios">`))
	assert.Equal(t, 4, doc.Find(`input[name="relogios"]`).Length())
	assert.Empty(t, checkedClocks(doc))
}

func TestUpdateClockList_GroupCascade(t *testing.T) {
	h, _ := setupTestHandlers(t)
	router := h.Router()

	// checking "Logística" adds clocks 3 and 4; clock 99 is not listed
	doc := postClockForm(t, router, url.Values{
		"relogios": {"1"},
		"grupos":   {"Logística"},
	})
	assert.Equal(t, []string{"1", "3", "4"}, checkedClocks(doc))
	assert.Equal(t, 1, doc.Find(`input[name="grupos_anteriores"][value="Logística"]`).Length())

	// unchecking it again clears only its clocks
	doc = postClockForm(t, router, url.Values{
		"relogios":          {"1", "3", "4"},
		"grupos_anteriores": {"Logística"},
	})
	assert.Equal(t, []string{"1"}, checkedClocks(doc))
}

func TestUpdateClockList_SelectAndDeselectAll(t *testing.T) {
	h, _ := setupTestHandlers(t)
	router := h.Router()

	doc := postClockForm(t, router, url.Values{"acao": {"selecionar_todos"}})
	assert.Equal(t, []string{"1", "2", "3", "4"}, checkedClocks(doc))

	doc = postClockForm(t, router, url.Values{
		"acao":              {"desmarcar_todos"},
		"relogios":          {"1", "2", "3"},
		"grupos":            {"Matriz"},
		"grupos_anteriores": {"Matriz"},
	})
	assert.Empty(t, checkedClocks(doc))
	assert.Zero(t, doc.Find(".grupo-relogio-checkbox[checked]").Length())
}

func TestUpdateClockList_InvalidID(t *testing.T) {
	h, _ := setupTestHandlers(t)

	req := httptest.NewRequest("POST", "/console/relogios", strings.NewReader("relogios=abc"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="alert"`)
}
