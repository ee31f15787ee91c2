package envio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"kairosconsole/internal/config"
	"kairosconsole/internal/models"
)

const (
	appointmentsStatusError  = "Erro ao consultar API Kairos"
	appointmentsUnknownError = "Erro desconhecido na API"
	appointmentsParseError   = "Resposta inválida da API Kairos"

	// maxAppointmentPages stops a misbehaving TotalPagina from looping forever
	maxAppointmentPages = 1000
)

// AppointmentClient reads clock punches from the Kairos appointment API
type AppointmentClient struct {
	apiURL     string
	key        string
	identifier string
	userAgent  string
	httpClient *http.Client
}

// NewAppointmentClient creates a Kairos client. A zero timeout leaves requests unbounded.
func NewAppointmentClient(kairos config.KairosConfig, userAgent string) *AppointmentClient {
	return &AppointmentClient{
		apiURL:     kairos.APIURL,
		key:        kairos.Key,
		identifier: kairos.Identifier,
		userAgent:  userAgent,
		httpClient: &http.Client{
			Timeout: kairos.Timeout,
		},
	}
}

type appointmentsRequest struct {
	DataInicio           string  `json:"DataInicio"`
	DataFim              string  `json:"DataFim"`
	CalculoNaoAtualizado string  `json:"CalculoNaoAtualizado"`
	Pagina               int     `json:"Pagina"`
	ResponseType         string  `json:"ResponseType"`
	CrachasPessoa        []int64 `json:"CrachasPessoa,omitempty"`
	IdsPessoa            []int64 `json:"IdsPessoa,omitempty"`
}

type appointmentsResponse struct {
	Sucesso     bool                `json:"Sucesso"`
	Mensagem    string              `json:"Mensagem"`
	Obj         []appointmentRecord `json:"Obj"`
	TotalPagina int                 `json:"TotalPagina"`
}

// appointmentRecord tolerates identifiers sent either as numbers or as strings
type appointmentRecord struct {
	Matricula      flexText `json:"Matricula"`
	RelogioID      flexText `json:"RelogioID"`
	NumeroSerieRep flexText `json:"NumeroSerieRep"`
	Dia            int      `json:"Dia"`
	Mes            int      `json:"Mes"`
	Ano            int      `json:"Ano"`
	Hora           int      `json:"Hora"`
	Minuto         int      `json:"Minuto"`
}

type flexText string

func (f *flexText) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexText(n.String())
	return nil
}

// Appointments fetches every page of punches for query, sorted by date and time
func (c *AppointmentClient) Appointments(ctx context.Context, query models.AppointmentQuery) ([]models.Appointment, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var appointments []models.Appointment
	totalPages := 1
	for page := 1; page <= totalPages; page++ {
		if page > maxAppointmentPages {
			return nil, fmt.Errorf("kairos reported more than %d pages", maxAppointmentPages)
		}

		resp, err := c.fetchPage(ctx, query, page)
		if err != nil {
			return nil, err
		}

		for _, record := range resp.Obj {
			appointments = append(appointments, models.Appointment{
				Matricula:      string(record.Matricula),
				RelogioID:      string(record.RelogioID),
				NumeroSerieRep: string(record.NumeroSerieRep),
				Dia:            record.Dia,
				Mes:            record.Mes,
				Ano:            record.Ano,
				Hora:           record.Hora,
				Minuto:         record.Minuto,
			})
		}

		if resp.TotalPagina > 0 {
			totalPages = resp.TotalPagina
		}
	}

	models.SortAppointments(appointments)

	slog.Debug("appointments fetched",
		"inicio", query.Inicio.Format(models.KairosDateLayout),
		"fim", query.Fim.Format(models.KairosDateLayout),
		"pages", totalPages,
		"count", len(appointments))

	return appointments, nil
}

func (c *AppointmentClient) fetchPage(ctx context.Context, query models.AppointmentQuery, page int) (*appointmentsResponse, error) {
	payload := appointmentsRequest{
		DataInicio:           query.Inicio.Format(models.KairosDateLayout),
		DataFim:              query.Fim.Format(models.KairosDateLayout),
		CalculoNaoAtualizado: "true",
		Pagina:               page,
		ResponseType:         "AS400V1",
	}
	if query.Cracha != 0 {
		payload.CrachasPessoa = []int64{query.Cracha}
	} else {
		payload.IdsPessoa = []int64{0}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode appointments request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("key", c.key)
	req.Header.Set("identifier", c.identifier)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		slog.Warn("kairos appointments request failed", "status", resp.StatusCode, "page", page)
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: appointmentsStatusError}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return nil, &ResponseParseError{Message: appointmentsParseError, Err: errNotObject}
	}

	var decoded appointmentsResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, &ResponseParseError{Message: appointmentsParseError, Err: err}
	}

	if !decoded.Sucesso {
		message := strings.TrimSpace(decoded.Mensagem)
		if message == "" {
			message = appointmentsUnknownError
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: message}
	}

	return &decoded, nil
}
