package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"PassProbeBot/model"
	"PassProbeBot/password"
)

// DefaultFile is read when no --config flag is given and the file exists.
const DefaultFile = "bot.toml"

// ErrMissingConfig is wrapped by Validate when a required value is absent.
var ErrMissingConfig = errors.New("missing required configuration")

type AckPolicy string

const (
	// AckAlways clears the button spinner after every callback that produced a reply.
	AckAlways AckPolicy = "always"
	// AckExplicit only acknowledges in branches that ask for it (check_google).
	AckExplicit AckPolicy = "explicit"
)

// Duration lets probe_timeout be written as "5s" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	dur, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = dur
	return nil
}

type Config struct {
	BotToken      string `toml:"-"`
	AdminID       string `toml:"-"`
	WebhookSecret string `toml:"-"`

	ListenAddr     string    `toml:"listen_addr"`
	WebhookPath    string    `toml:"webhook_path"`
	APIBaseURL     string    `toml:"api_base_url"`
	AckPolicy      AckPolicy `toml:"ack_policy"`
	PasswordLength int       `toml:"password_length"`
	ProbeTarget    string    `toml:"probe_target"`
	ProbeTimeout   Duration  `toml:"probe_timeout"`
}

func Default() *Config {
	return &Config{
		ListenAddr:     ":8080",
		WebhookPath:    "/bot",
		APIBaseURL:     "https://api.telegram.org",
		AckPolicy:      AckAlways,
		PasswordLength: password.DefaultLength,
		ProbeTarget:    "https://google.com",
	}
}

// Replaceable for testing.
var (
	lookupEnv  = os.LookupEnv
	loadDotEnv = func() error { return godotenv.Load(".env") }
	statFile   = os.Stat
)

// Load builds the configuration from defaults, the TOML file at path, .env and
// the process environment, in increasing order of precedence. An empty path
// falls back to DefaultFile when it exists. Load does not validate.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	_, err := statFile(path)
	switch {
	case err == nil:
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config: load: %w", err)
		}
		slog.Info("config file loaded", "component", "config", "operation", "load", "path", path)
	case explicit || !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("config: load: %w", err)
	}

	// .env is optional.
	_ = loadDotEnv()

	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("config: load: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := lookupEnv("BOT_TOKEN"); ok {
		c.BotToken = strings.TrimSpace(v)
	}
	if v, ok := lookupEnv("ADMIN_ID"); ok {
		c.AdminID = v
	}
	if v, ok := lookupEnv("WEBHOOK_SECRET"); ok {
		c.WebhookSecret = strings.TrimSpace(v)
	}
	if v, ok := lookupEnv("PORT"); ok && v != "" {
		if strings.Contains(v, ":") {
			c.ListenAddr = v
		} else {
			c.ListenAddr = ":" + v
		}
	}
	if v, ok := lookupEnv("API_BASE_URL"); ok && v != "" {
		c.APIBaseURL = v
	}
	if v, ok := lookupEnv("ACK_POLICY"); ok && v != "" {
		c.AckPolicy = AckPolicy(strings.ToLower(strings.TrimSpace(v)))
	}
	if v, ok := lookupEnv("PASSWORD_LENGTH"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PASSWORD_LENGTH: %w", err)
		}
		c.PasswordLength = n
	}
	if v, ok := lookupEnv("PROBE_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("PROBE_TIMEOUT: %w", err)
		}
		c.ProbeTimeout.Duration = d
	}
	return nil
}

// Admin returns the configured admin identity in canonical form.
func (c *Config) Admin() model.ID {
	return model.CanonicalID(c.AdminID)
}

// Validate checks the configuration once, before any update is routed.
func (c *Config) Validate() error {
	var missing []string
	if c.BotToken == "" {
		missing = append(missing, "BOT_TOKEN")
	}
	if c.Admin() == "" {
		missing = append(missing, "ADMIN_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: %w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}

	switch c.AckPolicy {
	case AckAlways, AckExplicit:
	default:
		return fmt.Errorf("config: ack_policy %q: want %q or %q", c.AckPolicy, AckAlways, AckExplicit)
	}
	if c.PasswordLength < 4 || c.PasswordLength > 128 {
		return fmt.Errorf("config: password_length %d: want 4..128", c.PasswordLength)
	}
	if c.ProbeTimeout.Duration < 0 {
		return fmt.Errorf("config: probe_timeout %s: must not be negative", c.ProbeTimeout)
	}
	if !strings.HasPrefix(c.WebhookPath, "/") {
		return fmt.Errorf("config: webhook_path %q: must start with /", c.WebhookPath)
	}
	if c.ProbeTarget == "" {
		return errors.New("config: probe_target is empty")
	}
	return nil
}
