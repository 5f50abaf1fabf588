package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"competitors/datasources"
	"competitors/export"
	"competitors/query"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no config file is named.
const DefaultPath = "config.yaml"

type Config struct {
	App struct {
		Name    string `yaml:"name" toml:"name"`
		Version string `yaml:"version" toml:"version"`
	} `yaml:"app" toml:"app"`
	Data struct {
		Source     string              `yaml:"source" toml:"source"` // "tsv" or "postgres"
		Path       string              `yaml:"path" toml:"path"`
		SkipHeader bool                `yaml:"skip_header" toml:"skip_header"`
		Columns    datasources.Columns `yaml:"columns" toml:"columns"`
		Postgres   struct {
			DSN     string                      `yaml:"dsn" toml:"dsn"`
			Table   string                      `yaml:"table" toml:"table"`
			Columns datasources.PostgresColumns `yaml:"columns" toml:"columns"`
		} `yaml:"postgres" toml:"postgres"`
	} `yaml:"data" toml:"data"`
	Lookup struct {
		Source string `yaml:"source" toml:"source"` // "tsv", "html", "comtrade" or "" for none
		Path   string `yaml:"path" toml:"path"`
		URL    string `yaml:"url" toml:"url"`
	} `yaml:"lookup" toml:"lookup"`
	Query struct {
		Default query.Pair         `yaml:"default" toml:"default"`
		Report  query.ReportConfig `yaml:"report" toml:"report"`
	} `yaml:"query" toml:"query"`
	Export struct {
		Enabled bool            `yaml:"enabled" toml:"enabled"`
		Format  string          `yaml:"format" toml:"format"`
		Path    string          `yaml:"path" toml:"path"`
		S3      export.S3Config `yaml:"s3" toml:"s3"`
	} `yaml:"export" toml:"export"`
	Server struct {
		Port        string   `yaml:"port" toml:"port"`
		CORSOrigins []string `yaml:"cors_origins" toml:"cors_origins"`
	} `yaml:"server" toml:"server"`
	Redis struct {
		URL        string `yaml:"url" toml:"url"`
		TTLSeconds int    `yaml:"ttl_seconds" toml:"ttl_seconds"`
	} `yaml:"redis" toml:"redis"`
	NATS struct {
		URL string `yaml:"url" toml:"url"`
	} `yaml:"nats" toml:"nats"`
	Logging struct {
		Level        string `yaml:"level" toml:"level"`
		EnableColors bool   `yaml:"enable_colors" toml:"enable_colors"`
	} `yaml:"logging" toml:"logging"`
	Classifier struct {
		Chapters map[string]string `yaml:"chapters" toml:"chapters"`
	} `yaml:"classifier" toml:"classifier"`
}

var Global Config

// Default returns the configuration used for anything a file leaves out.
func Default() Config {
	var c Config
	c.App.Name = "competitors"
	c.App.Version = "1.0.0"
	c.Data.Source = "tsv"
	c.Data.Path = "Export_combined_summary.csv"
	c.Data.SkipHeader = true
	c.Data.Columns = datasources.DefaultColumns
	c.Data.Postgres.Table = "trade_rows"
	c.Data.Postgres.Columns = datasources.DefaultPostgresColumns
	c.Lookup.Source = "tsv"
	c.Lookup.Path = "2017_CN.txt"
	c.Query.Default = query.DefaultPair
	c.Query.Report = query.DefaultReportConfig
	c.Export.Enabled = true
	c.Export.Format = string(export.FormatGEXF)
	c.Export.Path = export.DefaultFileName
	c.Server.Port = "8080"
	c.Server.CORSOrigins = []string{"*"}
	c.Redis.TTLSeconds = 300
	c.Logging.Level = "info"
	c.Logging.EnableColors = true
	return c
}

// Load reads path (DefaultPath when empty) into Global. A missing default
// file is not an error; the defaults and environment are used instead.
func Load(path string) error {
	c, err := Read(path)
	if err != nil {
		return err
	}
	Global = c
	return nil
}

// Read decodes a YAML or TOML file, chosen by extension, over the defaults
// and applies COMPETITORS_* environment overrides.
func Read(path string) (Config, error) {
	c := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(path, data, &c); err != nil {
			return Config{}, err
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	if err := applyEnv(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}

func decode(path string, data []byte, c *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), c); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	return nil
}

func applyEnv(c *Config) error {
	c.Data.Source = envOrDefault("COMPETITORS_DATA_SOURCE", c.Data.Source)
	c.Data.Path = envOrDefault("COMPETITORS_DATA_PATH", c.Data.Path)
	c.Data.Postgres.DSN = envOrDefault("COMPETITORS_DATABASE_URL", c.Data.Postgres.DSN)
	c.Lookup.Path = envOrDefault("COMPETITORS_LOOKUP_PATH", c.Lookup.Path)
	c.Export.Path = envOrDefault("COMPETITORS_EXPORT_PATH", c.Export.Path)
	c.Export.S3.Bucket = envOrDefault("COMPETITORS_S3_BUCKET", c.Export.S3.Bucket)
	c.Export.S3.Endpoint = envOrDefault("COMPETITORS_S3_ENDPOINT", c.Export.S3.Endpoint)
	c.Server.Port = envOrDefault("COMPETITORS_PORT", c.Server.Port)
	c.Redis.URL = envOrDefault("COMPETITORS_REDIS_URL", c.Redis.URL)
	c.NATS.URL = envOrDefault("COMPETITORS_NATS_URL", c.NATS.URL)
	c.Logging.Level = envOrDefault("COMPETITORS_LOG_LEVEL", c.Logging.Level)

	if v := os.Getenv("COMPETITORS_REDIS_TTL"); v != "" {
		ttl, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("COMPETITORS_REDIS_TTL: %w", err)
		}
		c.Redis.TTLSeconds = ttl
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
