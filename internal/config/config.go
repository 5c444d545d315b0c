package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

// Config is the process configuration. Environment variables come first;
// keys set in viper (config file or command-line flags) override them.
type Config struct {
	BotToken      string `env:"BOT_TOKEN"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
	WebhookBase   string `env:"WEBHOOK_BASE"`
	ListenAddr    string `env:"LISTEN_ADDR" envDefault:":8080"`
	Content       string `env:"QUEST_CONTENT"`
	Journal       string `env:"QUEST_JOURNAL"`
	Seed          int64  `env:"QUEST_SEED"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"LOG_FORMAT" envDefault:"console"`
	PollTimeout   int    `env:"POLL_TIMEOUT" envDefault:"25"`
}

// Viper keys that override the environment.
const (
	KeyToken         = "telegram_token"
	KeyWebhookSecret = "webhook_secret"
	KeyWebhookBase   = "webhook_base"
	KeyListen        = "listen"
	KeyContent       = "content"
	KeyJournal       = "journal"
	KeySeed          = "seed"
	KeyLogLevel      = "log_level"
	KeyLogFormat     = "log_format"
	KeyPollTimeout   = "poll_timeout"
)

// Load reads the environment, then applies every key set in v. A nil v
// means environment only.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if v != nil {
		overrideString(v, KeyToken, &cfg.BotToken)
		overrideString(v, KeyWebhookSecret, &cfg.WebhookSecret)
		overrideString(v, KeyWebhookBase, &cfg.WebhookBase)
		overrideString(v, KeyListen, &cfg.ListenAddr)
		overrideString(v, KeyContent, &cfg.Content)
		overrideString(v, KeyJournal, &cfg.Journal)
		overrideString(v, KeyLogLevel, &cfg.LogLevel)
		overrideString(v, KeyLogFormat, &cfg.LogFormat)
		if v.IsSet(KeySeed) {
			cfg.Seed = v.GetInt64(KeySeed)
		}
		if v.IsSet(KeyPollTimeout) {
			cfg.PollTimeout = v.GetInt(KeyPollTimeout)
		}
	}
	return cfg, cfg.Validate()
}

func overrideString(v *viper.Viper, key string, dst *string) {
	if v.IsSet(key) {
		*dst = v.GetString(key)
	}
}

// Validate reports every inconsistent setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.PollTimeout < 0 {
		errs = append(errs, fmt.Errorf("poll timeout must not be negative, got %d", c.PollTimeout))
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log format must be console or json, got %q", c.LogFormat))
	}
	if c.WebhookBase != "" {
		if !strings.HasPrefix(c.WebhookBase, "https://") {
			errs = append(errs, fmt.Errorf("webhook base must be an https URL, got %q", c.WebhookBase))
		}
		if c.WebhookSecret == "" {
			errs = append(errs, errors.New("webhook secret is required with a webhook base"))
		}
	}
	return errors.Join(errs...)
}

// Webhook reports whether Telegram should push updates instead of being polled.
func (c Config) Webhook() bool {
	return c.WebhookBase != ""
}

// WebhookPath is the path the webhook is served on.
func (c Config) WebhookPath() string {
	return "/webhook/" + c.WebhookSecret
}

// WebhookURL is the address registered with Telegram.
func (c Config) WebhookURL() string {
	return strings.TrimRight(c.WebhookBase, "/") + c.WebhookPath()
}

// ContentDirs lists the directories searched for quest content.
func (c Config) ContentDirs() []string {
	if c.Content == "" {
		return nil
	}
	return strings.Split(c.Content, ",")
}
