package models

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	AlertNoSource         = "Por favor, selecione um arquivo ou digite as matrículas!"
	AlertNoValidMatricula = "Por favor, digite pelo menos uma matrícula válida!"
	AlertNoCommand        = "Por favor, selecione pelo menos um comando!"
	AlertNoClock          = "Por favor, selecione pelo menos um relógio!"
	AlertNoClockAssociate = "Por favor, selecione pelo menos um relógio."
	AlertNoDismissalFile  = "Por favor, selecione um arquivo para desligamento!"
)

// ValidationError is a form problem caught before any request is sent.
// Message is the alert text shown to the operator.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// Upload is a file picked by the operator
type Upload struct {
	Name string
	Data []byte
}

// LoadUpload reads a file from disk into an Upload
func LoadUpload(path string) (*Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload %s: %w", path, err)
	}
	return &Upload{Name: filepath.Base(path), Data: data}, nil
}

// ParseMatriculas splits a comma separated identifier list, trimming each entry
// and dropping empty ones.
func ParseMatriculas(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IdentifierSource is either an uploaded file or a typed matricula list.
// The file wins when both are present.
type IdentifierSource struct {
	Arquivo    *Upload
	Matriculas []string
}

// NewIdentifierSource resolves the file input and the raw matricula field
func NewIdentifierSource(upload *Upload, raw string) (IdentifierSource, error) {
	if upload != nil {
		return IdentifierSource{Arquivo: upload}, nil
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return IdentifierSource{}, newValidationError(AlertNoSource)
	}
	matriculas := ParseMatriculas(raw)
	if len(matriculas) == 0 {
		return IdentifierSource{}, newValidationError(AlertNoValidMatricula)
	}
	return IdentifierSource{Matriculas: matriculas}, nil
}

func (s IdentifierSource) validate() error {
	if s.Arquivo == nil && len(s.Matriculas) == 0 {
		return newValidationError(AlertNoSource)
	}
	return nil
}

// CommandDispatchRequest is posted to /api/envio_comando/processar
type CommandDispatchRequest struct {
	Source   IdentifierSource
	Comandos CommandSet
	Relogios []int
}

func (r *CommandDispatchRequest) Validate() error {
	if err := r.Source.validate(); err != nil {
		return err
	}
	if len(r.Comandos.Enabled()) == 0 {
		return newValidationError(AlertNoCommand)
	}
	if len(r.Relogios) == 0 {
		return newValidationError(AlertNoClock)
	}
	return nil
}

// BadgeAssociationRequest is posted to /api/envio_comando/associar
type BadgeAssociationRequest struct {
	Source   IdentifierSource
	Relogios []int
}

func (r *BadgeAssociationRequest) Validate() error {
	if err := r.Source.validate(); err != nil {
		return err
	}
	if len(r.Relogios) == 0 {
		return newValidationError(AlertNoClockAssociate)
	}
	return nil
}

// DismissalRequest is posted to /api/envio_comando/desligar
type DismissalRequest struct {
	Arquivo *Upload
}

func (r *DismissalRequest) Validate() error {
	if r.Arquivo == nil {
		return newValidationError(AlertNoDismissalFile)
	}
	return nil
}
