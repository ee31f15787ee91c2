package render

import (
	"fmt"
	"html"
	"io"
	"strings"
	"text/tabwriter"

	"kairosconsole/internal/models"

	"github.com/PuerkitoBio/goquery"
)

// NoAppointmentsMessage is shown when a report query returns no punches
const NoAppointmentsMessage = "Nenhum apontamento encontrado."

// RenderAppointments replaces the content of the report area with the punch
// table and shows it
func RenderAppointments(container *goquery.Selection, appointments []models.Appointment) {
	container.SetAttr("style", "display: block")

	if len(appointments) == 0 {
		container.SetHtml(fmt.Sprintf(`<p>%s</p>`, NoAppointmentsMessage))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<p>%d apontamento(s) encontrado(s).</p>`, len(appointments))
	b.WriteString(`<table class="apontamentos"><thead><tr>`)
	for _, column := range models.ReportColumns {
		fmt.Fprintf(&b, `<th>%s</th>`, html.EscapeString(column))
	}
	b.WriteString(`</tr></thead><tbody>`)
	for _, appointment := range appointments {
		b.WriteString(`<tr>`)
		for _, value := range appointment.ReportRow() {
			fmt.Fprintf(&b, `<td>%s</td>`, html.EscapeString(value))
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table>`)

	container.SetHtml(b.String())
}

// WriteAppointmentsText prints the punches as aligned columns
func WriteAppointmentsText(w io.Writer, appointments []models.Appointment) error {
	if len(appointments) == 0 {
		_, err := fmt.Fprintln(w, NoAppointmentsMessage)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(models.ReportColumns, "\t"))
	for _, appointment := range appointments {
		fmt.Fprintln(tw, strings.Join(appointment.ReportRow(), "\t"))
	}
	return tw.Flush()
}
