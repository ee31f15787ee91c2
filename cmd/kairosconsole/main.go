package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"kairosconsole/internal/config"

	"github.com/spf13/cobra"
)

const defaultBackendURL = "http://localhost:5000"

var (
	configPath string
	backendURL string
	verbose    bool

	cfg     *config.Config
	logFile *os.File

	logFileCloseDelay = 5 * time.Second
)

// errReported means the problem was already shown to the operator
var errReported = errors.New("reported")

var rootCmd = &cobra.Command{
	Use:   "kairosconsole",
	Short: "Time-clock command console",
	Long: `kairosconsole drives the envio_comando backend: it sends commands to
time clocks, associates badges with clocks and processes dismissals.

Run "kairosconsole serve" for the web console, or use the subcommands
to run the same flows from a terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// one-shot commands keep stdout for results
		var logOut io.Writer = os.Stderr
		if cmd.Name() == "serve" {
			logOut = os.Stdout
		}

		loaded, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = loaded

		setupLogging(logOut, cfg.GetLogging(), verbose)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file (default: $KAIROSCONSOLE_CONFIG, /config/config.yaml, ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "Backend base URL, overrides the configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(relogiosCmd)
	rootCmd.AddCommand(comandosCmd)
	rootCmd.AddCommand(associarCmd)
	rootCmd.AddCommand(desligarCmd)
	rootCmd.AddCommand(apontamentosCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// loadConfig reads the configuration file when one exists and falls back to
// defaults pointing at the local backend otherwise.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = getConfigPath()
	}

	var loaded *config.Config
	if path == "" {
		url := backendURL
		if url == "" {
			url = defaultBackendURL
		}
		loaded = config.Default(url)
	} else {
		var err error
		loaded, err = config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
	}

	if backendURL != "" {
		loaded.Backend.BaseURL = backendURL
	}

	return loaded, nil
}

func getConfigPath() string {
	if path := os.Getenv("KAIROSCONSOLE_CONFIG"); path != "" {
		return path
	}

	candidates := []string{
		"/config/config.yaml",
		"./config.yaml",
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

func setupLogging(w io.Writer, logConfig config.LoggingConfig, debug bool) {
	var level slog.Level
	switch logConfig.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	if debug {
		level = slog.LevelDebug
	}

	previous := logFile
	if previous != nil && previous.Name() != logConfig.File {
		logFile = nil
	}
	if logConfig.File != "" && logFile == nil {
		file, err := os.OpenFile(logConfig.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			slog.Warn("failed to open log file, logging to console only", "file", logConfig.File, "error", err)
		} else {
			logFile = file
		}
	}
	if logFile != nil {
		w = io.MultiWriter(w, logFile)
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{
		Level: level,
	}

	if logConfig.Format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))

	if previous != nil && previous != logFile {
		retireLogFile(previous)
	}
}

// retireLogFile closes a replaced log file once loggers captured before the
// switch have had time to finish writing through it.
func retireLogFile(file *os.File) {
	time.AfterFunc(logFileCloseDelay, func() {
		file.Close()
	})
}
