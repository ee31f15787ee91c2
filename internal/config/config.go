package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/goccy/go-yaml"
)

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Backend       BackendConfig       `yaml:"backend"`
	Kairos        KairosConfig        `yaml:"kairos"`
	Groups        map[string][]int    `yaml:"groups"`
	Commands      []string            `yaml:"commands"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`

	mu       sync.RWMutex
	watchers []chan<- struct{}
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	Host            string        `yaml:"host"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// BackendConfig points at the service exposing /api/envio_comando/*
type BackendConfig struct {
	BaseURL   string `yaml:"base_url"`
	UserAgent string `yaml:"user_agent"`
	// Timeout of zero means requests never time out
	Timeout time.Duration `yaml:"timeout"`
}

// KairosConfig points at the Kairos appointment API used by the punch report
type KairosConfig struct {
	APIURL     string        `yaml:"api_url"`
	Key        string        `yaml:"key"`
	Identifier string        `yaml:"identifier"`
	Timeout    time.Duration `yaml:"timeout"`
}

// Enabled reports whether the credentials needed by the report are present
func (k KairosConfig) Enabled() bool {
	return k.Key != "" && k.Identifier != "" &&
		!strings.HasPrefix(k.Key, "${") && !strings.HasPrefix(k.Identifier, "${")
}

type NotificationsConfig struct {
	Pushover PushoverConfig `yaml:"pushover"`
}

type PushoverConfig struct {
	Token         string        `yaml:"token"`
	User          string        `yaml:"user"`
	Enabled       bool          `yaml:"enabled"`
	Priority      int           `yaml:"priority"`
	RetryInterval time.Duration `yaml:"retry_interval"`
	ExpireTime    time.Duration `yaml:"expire_time"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// DefaultKairosAPIURL is the Kairos appointment endpoint
const DefaultKairosAPIURL = "https://www.dimepkairos.com.br/RestServiceApi/Appointment/GetAppointmentsV2"

// DefaultCommands are the clock command flags offered when none are configured
var DefaultCommands = []string{
	"EnviarPessoas",
	"EnviarBiometrias",
	"ColetarMarcacoes",
	"ColetarBiometrias",
	"EnviarDataHora",
	"EnviarEmpresa",
}

var (
	globalConfig *Config
	configOnce   sync.Once
)

// Load loads configuration from file with environment variable expansion
func Load(configPath string) (*Config, error) {
	var err error
	configOnce.Do(func() {
		globalConfig, err = loadConfig(configPath)
		if err == nil && globalConfig != nil {
			go globalConfig.watchConfig(configPath)
		}
	})
	return globalConfig, err
}

// Default is used by the CLI when no configuration file exists
func Default(baseURL string) *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ShutdownTimeout: 30 * time.Second,
		},
		Backend: BackendConfig{
			BaseURL:   baseURL,
			UserAgent: "kairosconsole/1.0",
		},
		Kairos:   KairosConfig{APIURL: DefaultKairosAPIURL},
		Groups:   map[string][]int{},
		Commands: append([]string(nil), DefaultCommands...),
		Logging:  LoggingConfig{Level: "info", Format: "text"},
	}
}

func loadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables
	content := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(content), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := config.ensureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 30 * time.Second
	}
	if c.Backend.UserAgent == "" {
		c.Backend.UserAgent = "kairosconsole/1.0"
	}
	c.Backend.BaseURL = strings.TrimRight(c.Backend.BaseURL, "/")
	if c.Kairos.APIURL == "" {
		c.Kairos.APIURL = DefaultKairosAPIURL
	}
	if c.Groups == nil {
		c.Groups = map[string][]int{}
	}
	if len(c.Commands) == 0 {
		c.Commands = append([]string(nil), DefaultCommands...)
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend base_url is required")
	}
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid backend base_url: %q", c.Backend.BaseURL)
	}

	if c.Backend.Timeout < 0 {
		return fmt.Errorf("backend timeout cannot be negative")
	}

	if c.Kairos.APIURL != "" {
		k, err := url.Parse(c.Kairos.APIURL)
		if err != nil || (k.Scheme != "http" && k.Scheme != "https") || k.Host == "" {
			return fmt.Errorf("invalid kairos api_url: %q", c.Kairos.APIURL)
		}
	}
	if c.Kairos.Timeout < 0 {
		return fmt.Errorf("kairos timeout cannot be negative")
	}

	for name, ids := range c.Groups {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("group name cannot be empty")
		}
		for _, id := range ids {
			if id <= 0 {
				return fmt.Errorf("group %q has invalid clock id %d", name, id)
			}
		}
	}

	for _, name := range c.Commands {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("command name cannot be empty")
		}
	}

	if c.Notifications.Pushover.Enabled {
		if c.Notifications.Pushover.Token == "" || strings.HasPrefix(c.Notifications.Pushover.Token, "${") {
			return fmt.Errorf("pushover token is required when notifications are enabled")
		}
		if c.Notifications.Pushover.User == "" || strings.HasPrefix(c.Notifications.Pushover.User, "${") {
			return fmt.Errorf("pushover user is required when notifications are enabled")
		}
	}

	return nil
}

func (c *Config) ensureDirectories() error {
	if c.Logging.File == "" {
		return nil
	}

	dir := filepath.Dir(c.Logging.File)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	return nil
}

// WatchForChanges registers a channel to receive notifications when config changes
func (c *Config) WatchForChanges() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan struct{}, 1)
	c.watchers = append(c.watchers, ch)
	return ch
}

func (c *Config) watchConfig(configPath string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Error("failed to create config watcher", "error", err)
		return
	}
	defer watcher.Close()

	configDir := filepath.Dir(configPath)
	if err := watcher.Add(configDir); err != nil {
		slog.Error("failed to watch config directory", "error", err, "path", configDir)
		return
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) == filepath.Base(configPath) &&
				(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				slog.Info("config file changed, reloading", "file", configPath)

				// Small delay to ensure file write is complete
				time.Sleep(100 * time.Millisecond)

				if err := c.reload(configPath); err != nil {
					slog.Error("failed to reload config", "error", err)
				} else {
					c.notifyWatchers()
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Error("config watcher error", "error", err)
		}
	}
}

// reload swaps in everything except the listen address, which needs a restart
func (c *Config) reload(configPath string) error {
	newConfig, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.Backend = newConfig.Backend
	c.Kairos = newConfig.Kairos
	c.Groups = newConfig.Groups
	c.Commands = newConfig.Commands
	c.Notifications = newConfig.Notifications
	c.Logging = newConfig.Logging

	slog.Info("configuration reloaded successfully", "groups", len(c.Groups))
	return nil
}

func (c *Config) notifyWatchers() {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, watcher := range c.watchers {
		select {
		case watcher <- struct{}{}:
		default:
			// Non-blocking send - if buffer is full, skip
		}
	}
}

// GetServer returns a copy of the server configuration
func (c *Config) GetServer() ServerConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Server
}

// GetBackend returns a copy of the backend configuration
func (c *Config) GetBackend() BackendConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Backend
}

// GetKairos returns a copy of the Kairos API configuration
func (c *Config) GetKairos() KairosConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Kairos
}

// GetGroups returns a deep copy of the clock groups
func (c *Config) GetGroups() map[string][]int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	groups := make(map[string][]int, len(c.Groups))
	for name, ids := range c.Groups {
		groups[name] = append([]int(nil), ids...)
	}
	return groups
}

// GetCommands returns a copy of the command flags offered on the console
func (c *Config) GetCommands() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.Commands...)
}

// GetNotifications returns a copy of the notifications configuration
func (c *Config) GetNotifications() NotificationsConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Notifications
}

// GetLogging returns a copy of the logging configuration
func (c *Config) GetLogging() LoggingConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Logging
}
