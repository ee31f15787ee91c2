package workbook

import (
	"bytes"
	"testing"

	"kairosconsole/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleAppointments() []models.Appointment {
	return []models.Appointment{
		{Matricula: "123", RelogioID: "3", NumeroSerieRep: "00004000", Dia: 1, Mes: 10, Ano: 2026, Hora: 8, Minuto: 2},
		{Matricula: "456", RelogioID: "1", NumeroSerieRep: "00004001", Dia: 1, Mes: 10, Ano: 2026, Hora: 17, Minuto: 30},
	}
}

func TestWriteAppointments(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAppointments(&buf, sampleAppointments()))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{ReportSheet}, f.GetSheetList())

	rows, err := f.GetRows(ReportSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Matricula", "RelogioID", "NumeroSerieRep", "DataFormatada", "HoraFormatada"},
		{"123", "3", "00004000", "01/10/2026", "08:02"},
		{"456", "1", "00004001", "01/10/2026", "17:30"},
	}, rows)
}

func TestWriteAppointments_ReadsBackAsMatriculaList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAppointments(&buf, sampleAppointments()))

	summary, err := Inspect(ReportFileName, buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"123", "456"}, summary.Matriculas)
}

func TestWriteAppointments_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAppointments(&buf, nil))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ReportSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{models.ReportColumns}, rows)
}
