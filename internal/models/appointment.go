package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	AlertNoDates          = "Datas de início e fim são obrigatórias"
	AlertInvalidDate      = "Data inválida, use o formato DD-MM-AAAA"
	AlertRangeTooLong     = "O intervalo máximo é de 30 dias"
	AlertMatriculaNumeric = "Matrícula deve ser um número"
	AlertNoReportData     = "Sem dados para exportar"
)

// MaxAppointmentRange is the longest period a single query may cover
const MaxAppointmentRange = 30 * 24 * time.Hour

// KairosDateLayout is the date format the Kairos API expects
const KairosDateLayout = "02-01-2006"

// dateLayouts are accepted from operators; the HTML date input sends ISO dates
var dateLayouts = []string{KairosDateLayout, "02/01/2006", "2006-01-02"}

// AppointmentQuery selects the clock punches of a period, optionally for one badge
type AppointmentQuery struct {
	Inicio time.Time
	Fim    time.Time
	// Cracha is the badge number; zero means every employee
	Cracha int64
}

// NewAppointmentQuery validates the raw report form. Dates given in reverse
// order are swapped.
func NewAppointmentQuery(inicio, fim, matricula string) (AppointmentQuery, error) {
	inicio, fim = strings.TrimSpace(inicio), strings.TrimSpace(fim)
	if inicio == "" || fim == "" {
		return AppointmentQuery{}, newValidationError(AlertNoDates)
	}

	start, err := parseDate(inicio)
	if err != nil {
		return AppointmentQuery{}, err
	}
	end, err := parseDate(fim)
	if err != nil {
		return AppointmentQuery{}, err
	}
	if end.Before(start) {
		start, end = end, start
	}
	if end.Sub(start) > MaxAppointmentRange {
		return AppointmentQuery{}, newValidationError(AlertRangeTooLong)
	}

	query := AppointmentQuery{Inicio: start, Fim: end}
	if matricula = strings.TrimSpace(matricula); matricula != "" {
		cracha, err := strconv.ParseInt(matricula, 10, 64)
		if err != nil {
			return AppointmentQuery{}, newValidationError(AlertMatriculaNumeric)
		}
		query.Cracha = cracha
	}
	return query, nil
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, newValidationError(AlertInvalidDate)
}

// Validate re-checks a query built without NewAppointmentQuery
func (q AppointmentQuery) Validate() error {
	if q.Inicio.IsZero() || q.Fim.IsZero() {
		return newValidationError(AlertNoDates)
	}
	if q.Fim.Before(q.Inicio) || q.Fim.Sub(q.Inicio) > MaxAppointmentRange {
		return newValidationError(AlertRangeTooLong)
	}
	return nil
}

// Appointment is one clock punch
type Appointment struct {
	Matricula      string `json:"Matricula"`
	RelogioID      string `json:"RelogioID"`
	NumeroSerieRep string `json:"NumeroSerieRep"`
	Dia            int    `json:"Dia"`
	Mes            int    `json:"Mes"`
	Ano            int    `json:"Ano"`
	Hora           int    `json:"Hora"`
	Minuto         int    `json:"Minuto"`
}

// DataFormatada renders the punch date as DD/MM/YYYY
func (a Appointment) DataFormatada() string {
	return fmt.Sprintf("%02d/%02d/%d", a.Dia, a.Mes, a.Ano)
}

// HoraFormatada renders the punch time as HH:MM
func (a Appointment) HoraFormatada() string {
	return fmt.Sprintf("%02d:%02d", a.Hora, a.Minuto)
}

// ReportColumns are the columns of the appointment report, in order
var ReportColumns = []string{"Matricula", "RelogioID", "NumeroSerieRep", "DataFormatada", "HoraFormatada"}

// ReportRow returns the values of ReportColumns for a
func (a Appointment) ReportRow() []string {
	return []string{a.Matricula, a.RelogioID, a.NumeroSerieRep, a.DataFormatada(), a.HoraFormatada()}
}

// SortAppointments orders punches by date and time, keeping the API order for ties
func SortAppointments(appointments []Appointment) {
	sort.SliceStable(appointments, func(i, j int) bool {
		return appointments[i].sortKey() < appointments[j].sortKey()
	})
}

func (a Appointment) sortKey() int64 {
	return int64(a.Ano)*100000000 + int64(a.Mes)*1000000 + int64(a.Dia)*10000 + int64(a.Hora)*100 + int64(a.Minuto)
}
