package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"kairosconsole/internal/config"
	"kairosconsole/internal/models"
	"kairosconsole/internal/workbook"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// setupReport points the configuration at a Kairos stand-in answering body
func setupReport(t *testing.T, body string) *atomic.Int32 {
	t.Helper()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		io.Copy(io.Discard, r.Body)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)

	cfg = config.Default("http://localhost:5000")
	cfg.Kairos = config.KairosConfig{APIURL: server.URL, Key: "chave", Identifier: "ident"}

	reportInicio, reportFim, reportMatricula, reportExport = "01-10-2026", "15-10-2026", "", ""
	t.Cleanup(func() { reportInicio, reportFim, reportMatricula, reportExport = "", "", "", "" })
	return &calls
}

const twoPunches = `{"Sucesso":true,"TotalPagina":1,"Obj":[
	{"Matricula":456,"RelogioID":1,"Dia":2,"Mes":10,"Ano":2026,"Hora":17,"Minuto":30},
	{"Matricula":123,"RelogioID":3,"NumeroSerieRep":"00004000","Dia":1,"Mes":10,"Ano":2026,"Hora":8,"Minuto":2}]}`

func TestApontamentos_Prints(t *testing.T) {
	setupReport(t, twoPunches)
	cmd, stdout, _ := testCommand()

	require.NoError(t, apontamentosCmd.RunE(cmd, nil))

	lines := strings.Split(strings.TrimRight(stdout.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"123", "3", "00004000", "01/10/2026", "08:02"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"456", "1", "02/10/2026", "17:30"}, strings.Fields(lines[2]))
}

func TestApontamentos_Exports(t *testing.T) {
	setupReport(t, twoPunches)
	reportExport = filepath.Join(t.TempDir(), workbook.ReportFileName)
	cmd, stdout, _ := testCommand()

	require.NoError(t, apontamentosCmd.RunE(cmd, nil))
	assert.Equal(t, "2 apontamento(s) exportado(s) para "+reportExport+"\n", stdout.String())

	f, err := excelize.OpenFile(reportExport)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(workbook.ReportSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestApontamentos_ExportWithoutData(t *testing.T) {
	setupReport(t, `{"Sucesso":true,"TotalPagina":1,"Obj":[]}`)
	reportExport = filepath.Join(t.TempDir(), workbook.ReportFileName)
	cmd, _, stderr := testCommand()

	err := apontamentosCmd.RunE(cmd, nil)

	assert.True(t, errors.Is(err, errReported))
	assert.Equal(t, "⚠ "+models.AlertNoReportData+"\n", stderr.String())
	assert.NoFileExists(t, reportExport)
}

func TestApontamentos_ValidationAlert(t *testing.T) {
	calls := setupReport(t, twoPunches)
	reportMatricula = "abc"
	cmd, _, stderr := testCommand()

	err := apontamentosCmd.RunE(cmd, nil)

	assert.True(t, errors.Is(err, errReported))
	assert.Equal(t, "⚠ "+models.AlertMatriculaNumeric+"\n", stderr.String())
	assert.Zero(t, calls.Load())
}

func TestApontamentos_KairosFailure(t *testing.T) {
	setupReport(t, `{"Sucesso":false,"Mensagem":"Chave inválida"}`)
	cmd, stdout, _ := testCommand()

	err := apontamentosCmd.RunE(cmd, nil)

	assert.EqualError(t, err, "Chave inválida")
	assert.Empty(t, stdout.String())
}

func TestApontamentos_RequiresCredentials(t *testing.T) {
	calls := setupReport(t, twoPunches)
	cfg.Kairos.Key = ""
	cmd, _, _ := testCommand()

	err := apontamentosCmd.RunE(cmd, nil)

	assert.ErrorContains(t, err, "kairos key and identifier must be configured")
	assert.Zero(t, calls.Load())
}
