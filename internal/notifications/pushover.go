package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"kairosconsole/internal/config"
	"kairosconsole/internal/interfaces"
)

type PushoverNotifier struct {
	config     *config.Config
	httpClient *http.Client
	enabled    bool
	apiURL     string
}

type pushoverRequest struct {
	Token     string `json:"token"`
	User      string `json:"user"`
	Message   string `json:"message"`
	Title     string `json:"title,omitempty"`
	Priority  int    `json:"priority,omitempty"`
	URL       string `json:"url,omitempty"`
	URLTitle  string `json:"url_title,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
	Sound     string `json:"sound,omitempty"`
	Retry     int    `json:"retry,omitempty"`
	Expire    int    `json:"expire,omitempty"`
}

type pushoverResponse struct {
	Status  int      `json:"status"`
	Request string   `json:"request"`
	Errors  []string `json:"errors,omitempty"`
	Receipt string   `json:"receipt,omitempty"`
}

const pushoverAPIURL = "https://api.pushover.net/1/messages.json"

func NewPushoverNotifier(cfg *config.Config) *PushoverNotifier {
	return &PushoverNotifier{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		enabled: cfg.GetNotifications().Pushover.Enabled,
		apiURL:  pushoverAPIURL,
	}
}

func (p *PushoverNotifier) IsEnabled() bool {
	return p.enabled
}

// NotifySubmission reports a finished submission. Failures go out at high priority.
func (p *PushoverNotifier) NotifySubmission(event interfaces.SubmissionEvent) error {
	if !p.enabled {
		return nil
	}

	cfg := p.config.GetNotifications().Pushover

	req := pushoverRequest{
		Token:     cfg.Token,
		User:      cfg.User,
		Message:   buildSubmissionMessage(event),
		Priority:  cfg.Priority,
		Timestamp: time.Now().Unix(),
	}

	if event.Success {
		req.Title = fmt.Sprintf("Kairos: %s concluído", event.Form)
		req.Priority = -1
		req.Sound = "none"
	} else {
		req.Title = fmt.Sprintf("Kairos: %s falhou", event.Form)
		req.Priority = 1
		req.Sound = "falling"
	}

	return p.sendNotification(req)
}

func (p *PushoverNotifier) NotifySystemAlert(title, message string, priority int) error {
	if !p.enabled {
		return nil
	}

	cfg := p.config.GetNotifications().Pushover

	req := pushoverRequest{
		Token:     cfg.Token,
		User:      cfg.User,
		Message:   message,
		Title:     fmt.Sprintf("Kairos Console: %s", title),
		Priority:  priority,
		Timestamp: time.Now().Unix(),
		Sound:     "pushover",
	}

	switch priority {
	case -2, -1:
		req.Sound = "none"
	case 1:
		req.Sound = "persistent"
	case 2:
		req.Sound = "siren"
		req.Retry = int(cfg.RetryInterval.Seconds())
		req.Expire = int(cfg.ExpireTime.Seconds())
	}

	return p.sendNotification(req)
}

func (p *PushoverNotifier) sendNotification(req pushoverRequest) error {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal pushover request: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", "kairosconsole/1.0")

	slog.Debug("sending pushover notification",
		"title", req.Title,
		"priority", req.Priority)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send pushover notification: %w", err)
	}
	defer resp.Body.Close()

	var pushoverResp pushoverResponse
	if err := json.NewDecoder(resp.Body).Decode(&pushoverResp); err != nil {
		return fmt.Errorf("failed to decode pushover response: %w", err)
	}

	if pushoverResp.Status != 1 {
		return fmt.Errorf("pushover API error: %s", strings.Join(pushoverResp.Errors, ", "))
	}

	slog.Info("pushover notification sent successfully",
		"request_id", pushoverResp.Request,
		"receipt", pushoverResp.Receipt)

	return nil
}

func buildSubmissionMessage(event interfaces.SubmissionEvent) string {
	var msg strings.Builder

	msg.WriteString(fmt.Sprintf("Formulário: %s\n", event.Form))
	if event.Message != "" {
		msg.WriteString(fmt.Sprintf("Mensagem: %s\n", event.Message))
	}
	for _, artifact := range event.Artifacts {
		msg.WriteString(fmt.Sprintf("%s: %s\n", artifact.Title(), artifact.FileName))
	}

	return strings.TrimRight(msg.String(), "\n")
}
