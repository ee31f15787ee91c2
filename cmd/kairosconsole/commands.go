package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"kairosconsole/internal/envio"
	"kairosconsole/internal/interfaces"
	"kairosconsole/internal/models"
	"kairosconsole/internal/notifications"
	"kairosconsole/internal/render"
	"kairosconsole/internal/selection"
	"kairosconsole/internal/submission"
	"kairosconsole/internal/workbook"

	"github.com/spf13/cobra"
)

var (
	arquivo       string
	matriculas    string
	matriculasDe  string
	comandos      []string
	relogios      []int
	grupos        []string
	todosRelogios bool
)

var relogiosCmd = &cobra.Command{
	Use:   "relogios",
	Short: "List the clocks and the configured clock groups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		selector, err := loadSelector(ctx, envio.NewClient(cfg.GetBackend()))
		if err != nil {
			return err
		}
		return writeClocks(cmd.OutOrStdout(), selector.Snapshot())
	},
}

var comandosCmd = &cobra.Command{
	Use:   "comandos",
	Short: "Schedule commands on clocks for a list of employees",
	Example: `  kairosconsole comandos --matriculas "123,456" --comando EnviarPessoas --relogio 1 --relogio 3
  kairosconsole comandos --arquivo lote.xlsx --comando ColetarMarcacoes --grupo Matriz`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		client := envio.NewClient(cfg.GetBackend())
		alerter := notifications.NewConsoleAlerter(cmd.ErrOrStderr())

		source, err := identifierSource()
		if err != nil {
			return alert(alerter, err)
		}

		selector, err := loadSelector(ctx, client)
		if err != nil {
			return err
		}
		clocks, err := selectClocks(selector)
		if err != nil {
			return err
		}

		request := &models.CommandDispatchRequest{
			Source:   source,
			Comandos: models.NewCommandSet(comandos...),
			Relogios: clocks,
		}
		if request.Validate() == nil {
			fmt.Fprint(cmd.OutOrStdout(), models.ProcessingHeader(time.Now(), selector.Clocks(), clocks, request.Comandos))
		}

		return submit(ctx, cmd, client, submission.FormComandos, request)
	},
}

var associarCmd = &cobra.Command{
	Use:   "associar",
	Short: "Associate employee badges with clocks",
	Example: `  kairosconsole associar --matriculas "123,456" --relogio 2
  kairosconsole associar --matriculas-de crachas.xls --grupo Logística`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		client := envio.NewClient(cfg.GetBackend())
		alerter := notifications.NewConsoleAlerter(cmd.ErrOrStderr())

		if matriculasDe != "" {
			list, err := workbook.MatriculasFromFile(matriculasDe)
			if err != nil {
				return err
			}
			matriculas = strings.Join(list, ",")
		}

		source, err := identifierSource()
		if err != nil {
			return alert(alerter, err)
		}

		selector, err := loadSelector(ctx, client)
		if err != nil {
			return err
		}
		clocks, err := selectClocks(selector)
		if err != nil {
			return err
		}

		request := &models.BadgeAssociationRequest{Source: source, Relogios: clocks}
		return submit(ctx, cmd, client, submission.FormAssociar, request)
	},
}

var desligarCmd = &cobra.Command{
	Use:     "desligar",
	Short:   "Process employee dismissals from a spreadsheet",
	Example: `  kairosconsole desligar --arquivo desligados.xlsx`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		client := envio.NewClient(cfg.GetBackend())

		request := &models.DismissalRequest{}
		if arquivo != "" {
			upload, err := models.LoadUpload(arquivo)
			if err != nil {
				return err
			}
			request.Arquivo = upload
		}

		return submit(ctx, cmd, client, submission.FormDesligar, request)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{comandosCmd, associarCmd} {
		cmd.Flags().StringVar(&arquivo, "arquivo", "", "Spreadsheet with the employee identifiers")
		cmd.Flags().StringVar(&matriculas, "matriculas", "", "Comma separated employee identifiers")
		cmd.Flags().IntSliceVar(&relogios, "relogio", nil, "Clock number (repeatable)")
		cmd.Flags().StringSliceVar(&grupos, "grupo", nil, "Clock group from the configuration (repeatable)")
		cmd.Flags().BoolVar(&todosRelogios, "todos", false, "Select every listed clock")
	}
	comandosCmd.Flags().StringSliceVar(&comandos, "comando", nil, "Command to schedule (repeatable)")
	associarCmd.Flags().StringVar(&matriculasDe, "matriculas-de", "", "Read the identifiers from a spreadsheet and send them as a list")
	associarCmd.MarkFlagsMutuallyExclusive("matriculas", "matriculas-de")

	desligarCmd.Flags().StringVar(&arquivo, "arquivo", "", "Dismissal spreadsheet")
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func identifierSource() (models.IdentifierSource, error) {
	var upload *models.Upload
	if arquivo != "" {
		loaded, err := models.LoadUpload(arquivo)
		if err != nil {
			return models.IdentifierSource{}, err
		}
		upload = loaded
	}
	return models.NewIdentifierSource(upload, matriculas)
}

func loadSelector(ctx context.Context, lister selection.ClockLister) (*selection.Selector, error) {
	selector := selection.NewSelector(cfg.GetGroups())
	if err := selector.Load(ctx, lister); err != nil {
		return nil, fmt.Errorf("%s (%s)", selection.LoadErrorMessage, envio.ErrorText(err))
	}
	return selector, nil
}

// selectClocks applies --relogio, --grupo and --todos the way the checkboxes would
func selectClocks(selector *selection.Selector) ([]int, error) {
	groups := selector.Groups()
	for _, name := range grupos {
		if _, ok := groups[name]; !ok {
			return nil, fmt.Errorf("unknown clock group %q", name)
		}
		selector.ToggleGroup(name, true)
	}

	for _, id := range relogios {
		if !containsClock(selector.Clocks(), id) {
			return nil, fmt.Errorf("clock %d is not listed by the backend", id)
		}
		selector.SetClock(id, true)
	}

	if todosRelogios {
		selector.SelectAll()
	}

	return selector.Selected(), nil
}

func containsClock(clocks []models.Relogio, id int) bool {
	for _, clock := range clocks {
		if clock.RelogioNumero == id {
			return true
		}
	}
	return false
}

func submit(ctx context.Context, cmd *cobra.Command, client *envio.Client, form submission.Form, request interface{ Validate() error }) error {
	alerter := notifications.NewConsoleAlerter(cmd.ErrOrStderr())
	runner := submission.NewRunner(client, notifications.NewPushoverNotifier(cfg))

	if request.Validate() == nil {
		fmt.Fprintln(cmd.ErrOrStderr(), form.ProgressLabel())
	}

	outcome := runner.Submit(ctx, form, request)
	if outcome.Blocked() {
		alerter.Alert(outcome.Alert)
		return errReported
	}

	if err := render.WriteText(cmd.OutOrStdout(), outcome.View, client.BaseURL()); err != nil {
		return err
	}

	if outcome.CompletionAlert != "" {
		alerter.Alert(outcome.CompletionAlert)
	}

	if !outcome.Succeeded() {
		return errReported
	}
	return nil
}

func alert(alerter interfaces.Alerter, err error) error {
	if envio.IsValidation(err) {
		alerter.Alert(envio.ErrorText(err))
		return errReported
	}
	return err
}

func writeClocks(w io.Writer, snap selection.Snapshot) error {
	for _, clock := range snap.Clocks {
		if _, err := fmt.Fprintln(w, clock.Label()); err != nil {
			return err
		}
	}

	names := snap.Groups.Names()
	if len(names) == 0 {
		return nil
	}

	if _, err := fmt.Fprintln(w, "\nGrupos:"); err != nil {
		return err
	}
	for _, name := range names {
		ids := make([]string, 0, len(snap.Groups[name]))
		for _, id := range snap.Groups[name] {
			ids = append(ids, fmt.Sprint(id))
		}
		if _, err := fmt.Fprintf(w, "  %s: %s\n", name, strings.Join(ids, ", ")); err != nil {
			return err
		}
	}
	return nil
}
