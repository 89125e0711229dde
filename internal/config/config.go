package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	CatalogSourceStore = "store"
	CatalogSourceHTTP  = "http"
)

type Config struct {
	Database   DatabaseConfig `mapstructure:"database"`
	Server     ServerConfig   `mapstructure:"server"`
	Import     ImportConfig   `mapstructure:"import"`
	AI         AIConfig       `mapstructure:"ai"`
	Catalog    CatalogConfig  `mapstructure:"catalog"`
	Training   TrainingConfig `mapstructure:"training"`
	Ledger     LedgerConfig   `mapstructure:"ledger"`
	Review     ReviewConfig   `mapstructure:"review"`
	Log        LogConfig      `mapstructure:"log"`
	ConfigPath string         `mapstructure:"-"`
}

type DatabaseConfig struct {
	Path        string        `mapstructure:"path"`
	BusyTimeout time.Duration `mapstructure:"busy_timeout"`
}

type ServerConfig struct {
	Addr           string `mapstructure:"addr"`
	Mode           string `mapstructure:"mode"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
}

type ImportConfig struct {
	BatchSize           int  `mapstructure:"batch_size"`
	Concurrency         int  `mapstructure:"concurrency"`
	TrustQBSECategories bool `mapstructure:"trust_qbse_categories"`
}

type AIConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	MaxTokens int64         `mapstructure:"max_tokens"`
}

// CatalogConfig selects where the chart of accounts is read from.
// "store" reads the local accounts table, "http" calls {url}/accounts.
type CatalogConfig struct {
	Source  string        `mapstructure:"source"`
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type TrainingConfig struct {
	Path        string `mapstructure:"path"`
	MaxExamples int    `mapstructure:"max_examples"`
	PrefixLen   int    `mapstructure:"prefix_len"`
}

type LedgerConfig struct {
	EnsureEquityAccounts bool   `mapstructure:"ensure_equity_accounts"`
	SystemActor          string `mapstructure:"system_actor"`
}

type ReviewConfig struct {
	AutoApproveThreshold int `mapstructure:"auto_approve_threshold"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func NewDefault() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "", BusyTimeout: 5 * time.Second},
		Server: ServerConfig{
			Addr:           ":3001",
			Mode:           "release",
			MaxUploadBytes: 10 << 20,
		},
		Import: ImportConfig{
			BatchSize:           10,
			Concurrency:         4,
			TrustQBSECategories: true,
		},
		AI: AIConfig{
			Model:     "claude-sonnet-4-5-20250929",
			Timeout:   30 * time.Second,
			MaxTokens: 500,
		},
		Catalog: CatalogConfig{
			Source:  CatalogSourceStore,
			Timeout: 10 * time.Second,
		},
		Training: TrainingConfig{
			Path:        "QBSE_Transactions.csv",
			MaxExamples: 5,
			PrefixLen:   15,
		},
		Ledger: LedgerConfig{
			EnsureEquityAccounts: true,
			SystemActor:          "System Import",
		},
		Review: ReviewConfig{AutoApproveThreshold: 80},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// SetDefaults registers every default with v so that config files written
// on first run and env overrides (TALLY_IMPORT_BATCH_SIZE...) see all keys.
func SetDefaults(v *viper.Viper) {
	d := NewDefault()

	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("database.busy_timeout", d.Database.BusyTimeout)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("server.max_upload_bytes", d.Server.MaxUploadBytes)

	v.SetDefault("import.batch_size", d.Import.BatchSize)
	v.SetDefault("import.concurrency", d.Import.Concurrency)
	v.SetDefault("import.trust_qbse_categories", d.Import.TrustQBSECategories)

	v.SetDefault("ai.api_key", d.AI.APIKey)
	v.SetDefault("ai.model", d.AI.Model)
	v.SetDefault("ai.base_url", d.AI.BaseURL)
	v.SetDefault("ai.timeout", d.AI.Timeout)
	v.SetDefault("ai.max_tokens", d.AI.MaxTokens)

	v.SetDefault("catalog.source", d.Catalog.Source)
	v.SetDefault("catalog.url", d.Catalog.URL)
	v.SetDefault("catalog.timeout", d.Catalog.Timeout)

	v.SetDefault("training.path", d.Training.Path)
	v.SetDefault("training.max_examples", d.Training.MaxExamples)
	v.SetDefault("training.prefix_len", d.Training.PrefixLen)

	v.SetDefault("ledger.ensure_equity_accounts", d.Ledger.EnsureEquityAccounts)
	v.SetDefault("ledger.system_actor", d.Ledger.SystemActor)

	v.SetDefault("review.auto_approve_threshold", d.Review.AutoApproveThreshold)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

func (c *Config) Validate() error {
	if c.Import.BatchSize <= 0 {
		return fmt.Errorf("import.batch_size must be positive (got %d)", c.Import.BatchSize)
	}
	if c.Import.Concurrency <= 0 {
		return fmt.Errorf("import.concurrency must be positive (got %d)", c.Import.Concurrency)
	}
	switch c.Catalog.Source {
	case CatalogSourceStore:
	case CatalogSourceHTTP:
		if c.Catalog.URL == "" {
			return fmt.Errorf("catalog.url is required when catalog.source is %q", CatalogSourceHTTP)
		}
	default:
		return fmt.Errorf("unknown catalog.source %q (must be %q or %q)", c.Catalog.Source, CatalogSourceStore, CatalogSourceHTTP)
	}
	if c.Review.AutoApproveThreshold < 0 || c.Review.AutoApproveThreshold > 100 {
		return fmt.Errorf("review.auto_approve_threshold must be within 0..100 (got %d)", c.Review.AutoApproveThreshold)
	}
	if c.Training.PrefixLen <= 0 {
		return fmt.Errorf("training.prefix_len must be positive (got %d)", c.Training.PrefixLen)
	}
	return nil
}
