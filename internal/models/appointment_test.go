package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppointmentQuery(t *testing.T) {
	day := func(d, m, y int) time.Time { return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name      string
		inicio    string
		fim       string
		matricula string
		want      AppointmentQuery
		wantAlert string
	}{
		{"kairos format", "01-10-2026", "15-10-2026", "", AppointmentQuery{Inicio: day(1, 10, 2026), Fim: day(15, 10, 2026)}, ""},
		{"iso dates from the date input", "2026-10-01", "2026-10-31", " 123 ", AppointmentQuery{Inicio: day(1, 10, 2026), Fim: day(31, 10, 2026), Cracha: 123}, ""},
		{"slashes", "01/10/2026", "02/10/2026", "", AppointmentQuery{Inicio: day(1, 10, 2026), Fim: day(2, 10, 2026)}, ""},
		{"reversed dates are swapped", "15-10-2026", "01-10-2026", "", AppointmentQuery{Inicio: day(1, 10, 2026), Fim: day(15, 10, 2026)}, ""},
		{"missing start", "", "15-10-2026", "", AppointmentQuery{}, AlertNoDates},
		{"blank end", "01-10-2026", "  ", "", AppointmentQuery{}, AlertNoDates},
		{"garbage date", "31-02-2026", "01-03-2026", "", AppointmentQuery{}, AlertInvalidDate},
		{"thirty days is allowed", "01-10-2026", "31-10-2026", "", AppointmentQuery{Inicio: day(1, 10, 2026), Fim: day(31, 10, 2026)}, ""},
		{"thirty one days is not", "01-10-2026", "01-11-2026", "", AppointmentQuery{}, AlertRangeTooLong},
		{"reversed and too long", "01-11-2026", "01-10-2026", "", AppointmentQuery{}, AlertRangeTooLong},
		{"matricula must be numeric", "01-10-2026", "02-10-2026", "12a", AppointmentQuery{}, AlertMatriculaNumeric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := NewAppointmentQuery(tt.inicio, tt.fim, tt.matricula)
			if tt.wantAlert != "" {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.wantAlert, verr.Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, query)
			assert.NoError(t, query.Validate())
		})
	}
}

func TestAppointmentQuery_Validate(t *testing.T) {
	assert.Error(t, AppointmentQuery{}.Validate())

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Error(t, AppointmentQuery{Inicio: start, Fim: start.AddDate(0, 0, 31)}.Validate())
	assert.Error(t, AppointmentQuery{Inicio: start, Fim: start.AddDate(0, 0, -1)}.Validate())
	assert.NoError(t, AppointmentQuery{Inicio: start, Fim: start}.Validate())
}

func TestAppointment_Formatting(t *testing.T) {
	a := Appointment{Matricula: "77", RelogioID: "3", NumeroSerieRep: "00004000", Dia: 5, Mes: 9, Ano: 2026, Hora: 7, Minuto: 3}

	assert.Equal(t, "05/09/2026", a.DataFormatada())
	assert.Equal(t, "07:03", a.HoraFormatada())
	assert.Equal(t, []string{"77", "3", "00004000", "05/09/2026", "07:03"}, a.ReportRow())
	assert.Len(t, ReportColumns, len(a.ReportRow()))
}

func TestSortAppointments(t *testing.T) {
	appointments := []Appointment{
		{Matricula: "c", Dia: 2, Mes: 10, Ano: 2026, Hora: 8},
		{Matricula: "a", Dia: 30, Mes: 9, Ano: 2026, Hora: 17, Minuto: 59},
		{Matricula: "d", Dia: 2, Mes: 10, Ano: 2026, Hora: 7, Minuto: 45},
		{Matricula: "b", Dia: 2, Mes: 10, Ano: 2026, Hora: 7, Minuto: 45},
	}

	SortAppointments(appointments)

	var order []string
	for _, a := range appointments {
		order = append(order, a.Matricula)
	}
	// ties keep the order the API returned them in
	assert.Equal(t, []string{"a", "d", "b", "c"}, order)
}
