package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Mailbox protocol identifiers.
const (
	ProtocolIMAP    = "imap"
	ProtocolIMAPSSL = "imap-ssl"
	ProtocolPOP3    = "pop3"
	ProtocolPOP3SSL = "pop3-ssl"
)

// MailboxConfig holds the connection settings for one mailbox account.
type MailboxConfig struct {
	// Protocol is one of "imap", "imap-ssl", "pop3", "pop3-ssl".
	Protocol string `mapstructure:"protocol" yaml:"protocol"`

	Host string `mapstructure:"host" yaml:"host"`

	// Port overrides the protocol default (143/993/110/995) when non-zero.
	Port int `mapstructure:"port" yaml:"port"`

	User string `mapstructure:"user" yaml:"user"`

	// Password may be empty, in which case it is resolved from the OS
	// keyring under the account's user@host key.
	Password string `mapstructure:"password" yaml:"password"`

	// CheckpointOverride, when set (YYYY-MM-DD), replaces the persisted
	// sync checkpoint for the next run.
	CheckpointOverride string `mapstructure:"checkpoint_override" yaml:"checkpoint_override"`

	// PollIntervalSec is how often (in seconds) to run the pipeline.
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`
}

// TLS reports whether the configured protocol uses implicit TLS.
func (c MailboxConfig) TLS() bool {
	return c.Protocol == ProtocolIMAPSSL || c.Protocol == ProtocolPOP3SSL
}

// IsIMAP reports whether the configured protocol is an IMAP variant.
func (c MailboxConfig) IsIMAP() bool {
	return strings.HasPrefix(c.Protocol, "imap")
}

// EffectivePort returns the configured port, or the protocol default
// when no host-specific port is given.
func (c MailboxConfig) EffectivePort() int {
	if c.Port != 0 {
		return c.Port
	}
	switch c.Protocol {
	case ProtocolIMAP:
		return 143
	case ProtocolIMAPSSL:
		return 993
	case ProtocolPOP3:
		return 110
	case ProtocolPOP3SSL:
		return 995
	default:
		return 0
	}
}

// Validate checks that the mailbox configuration is usable.
func (c MailboxConfig) Validate() error {
	switch c.Protocol {
	case ProtocolIMAP, ProtocolIMAPSSL, ProtocolPOP3, ProtocolPOP3SSL:
	default:
		return fmt.Errorf("unknown mailbox protocol %q", c.Protocol)
	}
	if c.Host == "" {
		return fmt.Errorf("mailbox host must not be empty")
	}
	if c.User == "" {
		return fmt.Errorf("mailbox user must not be empty")
	}
	return nil
}

// ClassifierConfig holds user-tunable classification settings.
type ClassifierConfig struct {
	// BlockList is the advertising suppression term list. When empty,
	// the built-in defaults apply.
	BlockList []string `mapstructure:"block_list" yaml:"block_list"`

	// ScorerEnabled controls whether the corpus-trained scorer signal
	// participates in classification.
	ScorerEnabled bool `mapstructure:"scorer_enabled" yaml:"scorer_enabled"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Mailbox    MailboxConfig    `mapstructure:"mailbox" yaml:"mailbox"`
	Classifier ClassifierConfig `mapstructure:"classifier" yaml:"classifier"`

	// DBPath is the SQLite database location.
	DBPath string `mapstructure:"db_path" yaml:"db_path"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/mailtodo/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "mailtodo", "config.yaml")
}

// DefaultDBPath returns the default SQLite database path.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "mailtodo.db")
	}
	return filepath.Join(home, ".config", "mailtodo", "mailtodo.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Mailbox: MailboxConfig{
			Protocol:        ProtocolIMAPSSL,
			PollIntervalSec: 300,
		},
		DBPath: DefaultDBPath(),
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("mailbox.protocol", ProtocolIMAPSSL)
	v.SetDefault("mailbox.poll_interval_sec", 300)
	v.SetDefault("classifier.scorer_enabled", true)
	v.SetDefault("db_path", DefaultDBPath())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Mailbox.PollIntervalSec <= 0 {
		cfg.Mailbox.PollIntervalSec = 300
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("mailbox", cfg.Mailbox)
	v.Set("classifier", cfg.Classifier)
	v.Set("db_path", cfg.DBPath)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
