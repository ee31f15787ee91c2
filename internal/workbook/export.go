package workbook

import (
	"fmt"
	"io"

	"kairosconsole/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	// ReportSheet is the worksheet holding the appointment report
	ReportSheet = "Relatorio"
	// ReportFileName is the download name of the appointment report
	ReportFileName = "relatorio_ponto.xlsx"
	// ReportContentType is the MIME type of an .xlsx workbook
	ReportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// WriteAppointments writes the punches as a single-sheet workbook with a header row
func WriteAppointments(w io.Writer, appointments []models.Appointment) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ReportSheet); err != nil {
		return fmt.Errorf("failed to name report sheet: %w", err)
	}

	if err := writeRow(f, 1, models.ReportColumns); err != nil {
		return err
	}
	for i, appointment := range appointments {
		if err := writeRow(f, i+2, appointment.ReportRow()); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to address row %d: %w", row, err)
	}

	cells := make([]interface{}, len(values))
	for i, value := range values {
		cells[i] = value
	}
	if err := f.SetSheetRow(ReportSheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}
