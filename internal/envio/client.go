package envio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"kairosconsole/internal/config"
	"kairosconsole/internal/models"
)

const (
	PathProcessar = "/api/envio_comando/processar"
	PathAssociar  = "/api/envio_comando/associar"
	PathRelogios  = "/api/envio_comando/relogios"
	PathDesligar  = "/api/envio_comando/desligar"
)

// endpoint carries the texts the console shows when an endpoint misbehaves
type endpoint struct {
	path           string
	parseError     string
	statusFallback string
}

var (
	processarEndpoint = endpoint{
		path:           PathProcessar,
		parseError:     "Resposta do servidor não pôde ser interpretada.",
		statusFallback: "Erro ao processar a requisição no servidor.",
	}
	associarEndpoint = endpoint{
		path:           PathAssociar,
		parseError:     "Resposta inválida do servidor.",
		statusFallback: "Erro de servidor ao processar.",
	}
	desligarEndpoint = endpoint{
		path:           PathDesligar,
		parseError:     "Erro de parse na resposta do servidor.",
		statusFallback: "Erro na requisição.",
	}
	relogiosEndpoint = endpoint{
		path:           PathRelogios,
		parseError:     "Falha ao buscar relógios.",
		statusFallback: "Falha ao buscar relógios.",
	}
)

// Client talks to the envio_comando backend
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewClient creates a backend client. A zero timeout leaves requests unbounded.
func NewClient(backend config.BackendConfig) *Client {
	return &Client{
		baseURL:   strings.TrimRight(backend.BaseURL, "/"),
		userAgent: backend.UserAgent,
		httpClient: &http.Client{
			Timeout: backend.Timeout,
		},
	}
}

// BaseURL returns the backend root the client posts to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListClocks fetches every clock known to the backend
func (c *Client) ListClocks(ctx context.Context) ([]models.Relogio, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+relogiosEndpoint.path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: relogiosEndpoint.statusFallback}
	}

	var clocks []models.Relogio
	if err := json.NewDecoder(resp.Body).Decode(&clocks); err != nil {
		return nil, &ResponseParseError{Message: relogiosEndpoint.parseError, Err: err}
	}

	return clocks, nil
}

// SendCommands schedules commands on the selected clocks
func (c *Client) SendCommands(ctx context.Context, request *models.CommandDispatchRequest) (*models.Result, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	form := newFormBuilder()
	form.source(request.Source)
	form.json("comandos", models.NewCommandSet(request.Comandos.Enabled()...))
	form.json("relogios", request.Relogios)

	return c.postForm(ctx, processarEndpoint, form)
}

// AssociateBadges associates the badges with the selected clocks
func (c *Client) AssociateBadges(ctx context.Context, request *models.BadgeAssociationRequest) (*models.Result, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	form := newFormBuilder()
	form.source(request.Source)
	form.json("relogios", request.Relogios)

	return c.postForm(ctx, associarEndpoint, form)
}

// Dismiss uploads a dismissal spreadsheet
func (c *Client) Dismiss(ctx context.Context, request *models.DismissalRequest) (*models.Result, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	form := newFormBuilder()
	form.file("arquivo", request.Arquivo)

	return c.postForm(ctx, desligarEndpoint, form)
}

func (c *Client) postForm(ctx context.Context, ep endpoint, form *formBuilder) (*models.Result, error) {
	body, contentType, err := form.finish()
	if err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ep.path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return decodeResult(ep, resp)
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	slog.Debug("sending backend request", "method", req.Method, "path", req.URL.Path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	return resp, nil
}

// decodeResult parses before looking at the status, so an HTML error page is a parse error
func decodeResult(ep endpoint, resp *http.Response) (*models.Result, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	// null, arrays and scalars decode into a zero Result without complaint
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		slog.Warn("backend response is not a JSON object",
			"path", ep.path,
			"status", resp.StatusCode)
		return nil, &ResponseParseError{Message: ep.parseError, Err: errNotObject}
	}

	var result models.Result
	if err := json.Unmarshal(data, &result); err != nil {
		slog.Warn("backend response is not JSON",
			"path", ep.path,
			"status", resp.StatusCode,
			"error", err)
		return nil, &ResponseParseError{Message: ep.parseError, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := result.Mensagem
		if message == "" {
			message = ep.statusFallback
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: message}
	}

	if !result.Sucesso && strings.TrimSpace(result.Mensagem) == "" {
		result.Mensagem = ep.statusFallback
	}

	return &result, nil
}

// formBuilder is the single place multipart payloads are assembled
type formBuilder struct {
	buf    *bytes.Buffer
	writer *multipart.Writer
	err    error
}

func newFormBuilder() *formBuilder {
	buf := &bytes.Buffer{}
	return &formBuilder{buf: buf, writer: multipart.NewWriter(buf)}
}

func (f *formBuilder) source(src models.IdentifierSource) {
	if src.Arquivo != nil {
		f.file("arquivo", src.Arquivo)
		return
	}
	f.json("matriculas", src.Matriculas)
}

func (f *formBuilder) file(field string, upload *models.Upload) {
	if f.err != nil {
		return
	}
	part, err := f.writer.CreateFormFile(field, upload.Name)
	if err != nil {
		f.err = err
		return
	}
	_, f.err = part.Write(upload.Data)
}

func (f *formBuilder) json(field string, value interface{}) {
	if f.err != nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		f.err = fmt.Errorf("failed to encode %s: %w", field, err)
		return
	}
	f.err = f.writer.WriteField(field, string(data))
}

func (f *formBuilder) finish() (io.Reader, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	if err := f.writer.Close(); err != nil {
		return nil, "", err
	}
	return f.buf, f.writer.FormDataContentType(), nil
}
