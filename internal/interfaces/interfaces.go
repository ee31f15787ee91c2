package interfaces

import (
	"context"

	"kairosconsole/internal/models"
)

// EnvioClient talks to the /api/envio_comando backend
type EnvioClient interface {
	ListClocks(ctx context.Context) ([]models.Relogio, error)
	SendCommands(ctx context.Context, request *models.CommandDispatchRequest) (*models.Result, error)
	AssociateBadges(ctx context.Context, request *models.BadgeAssociationRequest) (*models.Result, error)
	Dismiss(ctx context.Context, request *models.DismissalRequest) (*models.Result, error)
	BaseURL() string
}

// Notifier is told about every finished submission
type Notifier interface {
	NotifySubmission(event SubmissionEvent) error
	NotifySystemAlert(title, message string, priority int) error
	IsEnabled() bool
}

// SubmissionEvent describes a finished console submission
type SubmissionEvent struct {
	Form      string
	Success   bool
	Message   string
	Artifacts []models.Artifact
}

// Alerter shows a blocking message to the operator
type Alerter interface {
	Alert(message string)
}

// AppointmentSource reads clock punches for the report
type AppointmentSource interface {
	Appointments(ctx context.Context, query models.AppointmentQuery) ([]models.Appointment, error)
}
