package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"kairosconsole/internal/envio"
	"kairosconsole/internal/interfaces"
	"kairosconsole/internal/models"
	"kairosconsole/internal/render"
	"kairosconsole/internal/workbook"
)

// Outcome is everything the operator sees after pressing a form's button
type Outcome struct {
	Form Form
	// Alert is set when validation stopped the submission before any request
	Alert           string
	Result          *models.Result
	Err             error
	View            render.ResultView
	CompletionAlert string
}

// Blocked reports whether validation prevented the request
func (o Outcome) Blocked() bool {
	return o.Alert != ""
}

// Succeeded reports whether the backend answered with sucesso=true
func (o Outcome) Succeeded() bool {
	return o.Err == nil && o.Result != nil && o.Result.Sucesso
}

// Runner drives the three console forms against the backend and keeps the
// state of each one. Overlapping submissions of the same form are not
// serialized; the last one to finish wins.
type Runner struct {
	client   interfaces.EnvioClient
	notifier interfaces.Notifier

	mu     sync.RWMutex
	states map[Form]*models.Submission
}

func NewRunner(client interfaces.EnvioClient, notifier interfaces.Notifier) *Runner {
	states := make(map[Form]*models.Submission, len(formTable))
	for _, form := range Forms() {
		states[form] = models.NewSubmission()
	}
	return &Runner{
		client:   client,
		notifier: notifier,
		states:   states,
	}
}

// State returns a copy of the current state of a form
func (r *Runner) State(form Form) models.Submission {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.states[form]
	if !ok {
		return *models.NewSubmission()
	}
	return *state
}

// Submit validates request, sends it to the backend endpoint of form and
// records the outcome. request must be the request type of the form.
func (r *Runner) Submit(ctx context.Context, form Form, request interface{ Validate() error }) Outcome {
	if _, ok := formTable[form]; !ok {
		return Outcome{Form: form, Err: fmt.Errorf("unknown form: %q", form)}
	}

	if err := request.Validate(); err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			slog.Debug("submission blocked by validation", "form", form, "alert", verr.Message)
			return Outcome{Form: form, Alert: verr.Message}
		}
		return Outcome{Form: form, Err: err}
	}

	var send func(context.Context) (*models.Result, error)
	var upload *models.Upload

	switch req := request.(type) {
	case *models.CommandDispatchRequest:
		if form != FormComandos {
			return mismatch(form, request)
		}
		upload = req.Source.Arquivo
		send = func(ctx context.Context) (*models.Result, error) { return r.client.SendCommands(ctx, req) }
	case *models.BadgeAssociationRequest:
		if form != FormAssociar {
			return mismatch(form, request)
		}
		upload = req.Source.Arquivo
		send = func(ctx context.Context) (*models.Result, error) { return r.client.AssociateBadges(ctx, req) }
	case *models.DismissalRequest:
		if form != FormDesligar {
			return mismatch(form, request)
		}
		upload = req.Arquivo
		send = func(ctx context.Context) (*models.Result, error) { return r.client.Dismiss(ctx, req) }
	default:
		return mismatch(form, request)
	}

	r.update(form, func(s *models.Submission) {
		s.MarkSubmitting(progressLabel(form, upload), form.ProgressColor())
	})

	slog.Info("submitting form", "form", form)

	result, err := send(ctx)
	outcome := buildOutcome(form, result, err)

	r.update(form, func(s *models.Submission) {
		if outcome.Succeeded() {
			s.MarkSucceeded(outcome.Result)
		} else {
			s.MarkFailed(failureText(outcome), outcome.Result)
		}
	})

	if err != nil {
		slog.Error("submission failed", "form", form, "error", err)
	} else {
		slog.Info("submission completed",
			"form", form,
			"sucesso", result.Sucesso,
			"artifacts", len(result.Artifacts()))
	}

	r.notify(outcome)

	return outcome
}

func (r *Runner) update(form Form, fn func(*models.Submission)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.states[form])
}

func (r *Runner) notify(outcome Outcome) {
	if r.notifier == nil || !r.notifier.IsEnabled() {
		return
	}

	event := interfaces.SubmissionEvent{
		Form:      outcome.Form.Title(),
		Success:   outcome.Succeeded(),
		Message:   failureText(outcome),
		Artifacts: outcome.Result.Artifacts(),
	}
	if outcome.Succeeded() {
		event.Message = outcome.Result.Mensagem
	}

	if err := r.notifier.NotifySubmission(event); err != nil {
		slog.Error("failed to send submission notification", "form", outcome.Form, "error", err)
	}
}

func buildOutcome(form Form, result *models.Result, err error) Outcome {
	outcome := Outcome{Form: form, Result: result, Err: err}

	if err != nil {
		outcome.Result = nil
		outcome.View = render.ResultView{Lines: []string{envio.ErrorText(err)}}
		return outcome
	}

	if !result.Sucesso {
		outcome.View = render.ResultView{Lines: []string{result.Mensagem}, Result: result}
		return outcome
	}

	outcome.View = render.ResultView{
		Success: true,
		Lines:   []string{result.Mensagem, successDetail(form, result)},
		Result:  result,
	}

	if form != FormDesligar || result.HasOutputFiles() {
		outcome.CompletionAlert = formTable[form].completionAlert
	}

	return outcome
}

func successDetail(form Form, result *models.Result) string {
	switch form {
	case FormAssociar:
		return fmt.Sprintf("Crachás processados: %d", result.ProcessedBadges())
	case FormDesligar:
		return fmt.Sprintf("Funcionários processados: %d", result.ProcessedCount())
	default:
		return "Comandos agendados com sucesso para o relógio."
	}
}

func failureText(outcome Outcome) string {
	if outcome.Err != nil {
		return envio.ErrorText(outcome.Err)
	}
	if outcome.Result != nil && !outcome.Result.Sucesso {
		return outcome.Result.Mensagem
	}
	return ""
}

// progressLabel adds the row count of an uploaded spreadsheet when it can be read
func progressLabel(form Form, upload *models.Upload) string {
	label := form.ProgressLabel()
	if upload == nil {
		return label
	}

	summary, err := workbook.Inspect(upload.Name, upload.Data)
	if err != nil {
		slog.Debug("could not inspect upload", "form", form, "file", upload.Name, "error", err)
		return label
	}

	return fmt.Sprintf("%s (%d matrículas)", label, summary.Rows)
}

func mismatch(form Form, request interface{}) Outcome {
	return Outcome{Form: form, Err: fmt.Errorf("request %T does not belong to form %s", request, form)}
}
