package main

import (
	"context"
	"fmt"
	"os"

	"kairosconsole/internal/envio"
	"kairosconsole/internal/interfaces"
	"kairosconsole/internal/models"
	"kairosconsole/internal/notifications"
	"kairosconsole/internal/render"
	"kairosconsole/internal/workbook"

	"github.com/spf13/cobra"
)

var (
	reportInicio    string
	reportFim       string
	reportMatricula string
	reportExport    string
)

var apontamentosCmd = &cobra.Command{
	Use:   "apontamentos",
	Short: "Report clock punches from the Kairos API",
	Example: `  kairosconsole apontamentos --inicio 01-10-2026 --fim 15-10-2026
  kairosconsole apontamentos --inicio 2026-10-01 --fim 2026-10-31 --matricula 123 --exportar relatorio_ponto.xlsx`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		kairos := cfg.GetKairos()
		if !kairos.Enabled() {
			return fmt.Errorf("kairos key and identifier must be configured to query appointments")
		}

		query, err := models.NewAppointmentQuery(reportInicio, reportFim, reportMatricula)
		if err != nil {
			return alert(notifications.NewConsoleAlerter(cmd.ErrOrStderr()), err)
		}

		return runAppointments(ctx, cmd, envio.NewAppointmentClient(kairos, cfg.GetBackend().UserAgent), query)
	},
}

func init() {
	apontamentosCmd.Flags().StringVar(&reportInicio, "inicio", "", "First day of the period (DD-MM-AAAA)")
	apontamentosCmd.Flags().StringVar(&reportFim, "fim", "", "Last day of the period (DD-MM-AAAA)")
	apontamentosCmd.Flags().StringVar(&reportMatricula, "matricula", "", "Only the punches of this badge number")
	apontamentosCmd.Flags().StringVar(&reportExport, "exportar", "", "Write the report to this .xlsx file instead of printing it")
}

func runAppointments(ctx context.Context, cmd *cobra.Command, source interfaces.AppointmentSource, query models.AppointmentQuery) error {
	alerter := notifications.NewConsoleAlerter(cmd.ErrOrStderr())

	appointments, err := source.Appointments(ctx, query)
	if err != nil {
		if envio.IsValidation(err) {
			return alert(alerter, err)
		}
		return fmt.Errorf("%s", envio.ErrorText(err))
	}

	if reportExport == "" {
		return render.WriteAppointmentsText(cmd.OutOrStdout(), appointments)
	}

	if len(appointments) == 0 {
		alerter.Alert(models.AlertNoReportData)
		return errReported
	}

	file, err := os.Create(reportExport)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := workbook.WriteAppointments(file, appointments); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d apontamento(s) exportado(s) para %s\n", len(appointments), reportExport)
	return nil
}
