package config

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

type RubricConfig struct {
	Driver   string `yaml:"driver" env:"RUBRIC_DRIVER,overwrite"` // fs|s3
	BasePath string `yaml:"base_path" env:"RUBRIC_BASE_PATH,overwrite"`
	Source   string `yaml:"source" env:"RUBRIC_SOURCE,overwrite"`
	Sheet    string `yaml:"sheet" env:"RUBRIC_SHEET,overwrite"`
	// HeaderRow is the 1-based header row; 0 detects it.
	HeaderRow int `yaml:"header_row" env:"RUBRIC_HEADER_ROW,overwrite"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket" env:"S3_BUCKET,overwrite"`
	Region    string `yaml:"region" env:"S3_REGION,overwrite"`
	Endpoint  string `yaml:"endpoint" env:"S3_ENDPOINT,overwrite"` // MinIO and friends
	AccessKey string `yaml:"access_key" env:"S3_ACCESS_KEY,overwrite"`
	SecretKey string `yaml:"secret_key" env:"S3_SECRET_KEY,overwrite"`
}

type DBConfig struct {
	Driver string `yaml:"driver" env:"DB_DRIVER,overwrite"` // sqlite|postgres
	DSN    string `yaml:"dsn" env:"DB_DSN,overwrite"`
}

type GrammarConfig struct {
	Enabled  bool          `yaml:"enabled" env:"GRAMMAR_ENABLED,overwrite"`
	URL      string        `yaml:"url" env:"GRAMMAR_URL,overwrite"`
	Language string        `yaml:"language" env:"GRAMMAR_LANGUAGE,overwrite"`
	Timeout  time.Duration `yaml:"timeout" env:"GRAMMAR_TIMEOUT,overwrite"`

	TokenURL     string `yaml:"token_url" env:"GRAMMAR_TOKEN_URL,overwrite"`
	ClientID     string `yaml:"client_id" env:"GRAMMAR_CLIENT_ID,overwrite"`
	ClientSecret string `yaml:"client_secret" env:"GRAMMAR_CLIENT_SECRET,overwrite"`
}

type Config struct {
	HTTPAddr       string        `yaml:"http_addr" env:"HTTP_ADDR,overwrite"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT,overwrite"`
	CORSOrigins    []string      `yaml:"cors_origins" env:"CORS_ORIGINS,overwrite"`

	// DefaultDurationSec applies when a request has no speaking duration.
	DefaultDurationSec float64 `yaml:"default_duration_sec" env:"DEFAULT_DURATION_SEC,overwrite"`

	Rubric  RubricConfig  `yaml:"rubric"`
	S3      S3Config      `yaml:"s3"`
	DB      DBConfig      `yaml:"db"`
	Grammar GrammarConfig `yaml:"grammar"`
}

func Defaults() Config {
	return Config{
		HTTPAddr:           ":8080",
		RequestTimeout:     30 * time.Second,
		CORSOrigins:        []string{"*"},
		DefaultDurationSec: 60,
		Rubric: RubricConfig{
			Driver:   "fs",
			BasePath: ".",
			Source:   "rubric.xlsx",
		},
		S3: S3Config{Region: "us-east-1"},
		DB: DBConfig{Driver: "sqlite"},
		Grammar: GrammarConfig{
			Enabled:  true,
			URL:      "https://api.languagetool.org",
			Language: "en-US",
			Timeout:  5 * time.Second,
		},
	}
}

// Load starts from Defaults, applies the YAML file at path when path is
// non-empty, then environment overrides.
func Load(ctx context.Context, path string) (Config, error) {
	return LoadWith(ctx, path, envconfig.OsLookuper())
}

func LoadWith(ctx context.Context, path string, l envconfig.Lookuper) (Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrap(err, "read config file")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "parse config file %s", path)
		}
	}
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return Config{}, errors.Wrap(err, "process env")
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Rubric.Driver {
	case "fs", "":
	case "s3":
		if c.S3.Bucket == "" {
			return errors.New("rubric driver s3 needs S3_BUCKET")
		}
	default:
		return errors.Errorf("unknown rubric driver %q", c.Rubric.Driver)
	}
	if strings.TrimSpace(c.Rubric.Source) == "" {
		return errors.New("rubric source is empty")
	}
	if c.Rubric.HeaderRow < 0 {
		return errors.Errorf("header row %d is negative", c.Rubric.HeaderRow)
	}
	switch c.DB.Driver {
	case "sqlite", "postgres":
	default:
		return errors.Errorf("unknown db driver %q", c.DB.Driver)
	}
	if c.DefaultDurationSec <= 0 {
		return errors.Errorf("default duration %v must be positive", c.DefaultDurationSec)
	}
	if c.RequestTimeout < 0 || c.Grammar.Timeout < 0 {
		return errors.New("timeouts must not be negative")
	}
	if c.Grammar.Enabled && c.Grammar.URL == "" {
		return errors.New("grammar check enabled without GRAMMAR_URL")
	}
	return nil
}

// HeaderRowIndex converts the configured row to a 0-based index, -1 to
// detect.
func (r RubricConfig) HeaderRowIndex() int { return r.HeaderRow - 1 }
