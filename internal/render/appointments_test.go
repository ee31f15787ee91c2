package render

import (
	"bytes"
	"strings"
	"testing"

	"kairosconsole/internal/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportArea(t *testing.T) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<div id="resultRelatorio" style="display: none"></div>`))
	require.NoError(t, err)
	return doc.Find("#resultRelatorio")
}

var punches = []models.Appointment{
	{Matricula: "123", RelogioID: "3", NumeroSerieRep: "00004000", Dia: 1, Mes: 10, Ano: 2026, Hora: 8, Minuto: 2},
	{Matricula: "<456>", RelogioID: "1", Dia: 2, Mes: 10, Ano: 2026, Hora: 17, Minuto: 30},
}

func TestRenderAppointments(t *testing.T) {
	area := reportArea(t)

	RenderAppointments(area, punches)

	assert.Equal(t, "display: block", area.AttrOr("style", ""))
	assert.Equal(t, "2 apontamento(s) encontrado(s).", area.Find("p").Text())

	var headers []string
	area.Find("thead th").Each(func(i int, sel *goquery.Selection) {
		headers = append(headers, sel.Text())
	})
	assert.Equal(t, models.ReportColumns, headers)

	rows := area.Find("tbody tr")
	require.Equal(t, 2, rows.Length())
	first := rows.First().Find("td")
	assert.Equal(t, "01/10/2026", first.Eq(3).Text())
	assert.Equal(t, "08:02", first.Eq(4).Text())
	assert.Equal(t, "<456>", rows.Last().Find("td").First().Text())
}

func TestRenderAppointments_Empty(t *testing.T) {
	area := reportArea(t)
	area.SetHtml("<table></table>")

	RenderAppointments(area, nil)

	assert.Equal(t, NoAppointmentsMessage, area.Text())
	assert.Equal(t, 0, area.Find("table").Length())
}

func TestWriteAppointmentsText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAppointmentsText(&buf, punches[:1]))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"Matricula", "RelogioID", "NumeroSerieRep", "DataFormatada", "HoraFormatada"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"123", "3", "00004000", "01/10/2026", "08:02"}, strings.Fields(lines[1]))

	buf.Reset()
	require.NoError(t, WriteAppointmentsText(&buf, nil))
	assert.Equal(t, NoAppointmentsMessage+"\n", buf.String())
}
