package models

import "time"

type SubmissionStatus string

const (
	SubmissionIdle       SubmissionStatus = "idle"
	SubmissionSubmitting SubmissionStatus = "submitting"
	SubmissionSucceeded  SubmissionStatus = "success"
	SubmissionFailed     SubmissionStatus = "failure"
)

// Progress is the indicator shown while a submission is in flight
type Progress struct {
	Visible bool   `json:"visible"`
	Label   string `json:"label,omitempty"`
	Color   string `json:"color,omitempty"`
}

// Submission is the state of one console form
type Submission struct {
	Status        SubmissionStatus `json:"status"`
	Progress      Progress         `json:"progress"`
	ResultVisible bool             `json:"result_visible"`
	Result        *Result          `json:"result,omitempty"`
	ErrorMessage  string           `json:"error_message,omitempty"`
	StartedAt     *time.Time       `json:"started_at,omitempty"`
	CompletedAt   *time.Time       `json:"completed_at,omitempty"`
}

func NewSubmission() *Submission {
	return &Submission{Status: SubmissionIdle}
}

func (s *Submission) IsActive() bool {
	return s.Status == SubmissionSubmitting
}

func (s *Submission) IsCompleted() bool {
	return s.Status == SubmissionSucceeded || s.Status == SubmissionFailed
}

// MarkSubmitting clears the previous result and shows the progress indicator
func (s *Submission) MarkSubmitting(label, color string) {
	now := time.Now()
	s.Status = SubmissionSubmitting
	s.Progress = Progress{Visible: true, Label: label, Color: color}
	s.ResultVisible = false
	s.Result = nil
	s.ErrorMessage = ""
	s.StartedAt = &now
	s.CompletedAt = nil
}

// MarkSucceeded records a result the backend reported as successful
func (s *Submission) MarkSucceeded(result *Result) {
	s.finish(SubmissionSucceeded)
	s.Result = result
}

// MarkFailed records a failure. result is set when the backend answered with
// sucesso=false, nil for transport, status and parse errors.
func (s *Submission) MarkFailed(message string, result *Result) {
	s.finish(SubmissionFailed)
	s.ErrorMessage = message
	s.Result = result
}

func (s *Submission) finish(status SubmissionStatus) {
	now := time.Now()
	s.Status = status
	s.Progress.Visible = false
	s.ResultVisible = true
	s.CompletedAt = &now
}
