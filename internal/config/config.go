package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type Config struct {
	Server struct {
		Port           int      `yaml:"port"`
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"server"`

	Database struct {
		Driver   string `yaml:"driver"`
		Path     string `yaml:"path"` // sqlite file
		DSN      string `yaml:"dsn"`  // overrides the fields below
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	Seed struct {
		// local file, or s3://bucket/key read through minio
		Path string `yaml:"path"`
	} `yaml:"seed"`

	Minio struct {
		Endpoint  string `yaml:"endpoint"`
		AccessKey string `yaml:"accessKey"`
		SecretKey string `yaml:"secretKey"`
		Region    string `yaml:"region"`
		UseSSL    bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	RateLimit struct {
		Enabled    bool `yaml:"enabled"`
		Capacity   int  `yaml:"capacity"`
		RefillRate int  `yaml:"refillRate"`
	} `yaml:"rateLimit"`

	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file or env says otherwise.
func Default() *Config {
	var c Config
	c.Server.Port = 8000
	c.Server.AllowedOrigins = []string{"*"}
	c.Database.Driver = DriverSQLite
	c.Database.Path = "analysis.db"
	c.Database.SSLMode = "disable"
	c.Seed.Path = "analysis_data.json"
	c.RateLimit.Capacity = 60
	c.RateLimit.RefillRate = 1
	c.Log.Level = "info"
	return &c
}

// Load builds the config: defaults, then the yaml file at path (skipped when
// missing and not required), then environment overrides.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config file %s", path)
		}
	case os.IsNotExist(err) && !required:
	default:
		return nil, errors.Wrapf(err, "read config file %s", path)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// LoadDotEnv reads KEY=VALUE pairs from path into the environment when the file
// exists. Variables already set are kept.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return gotenv.Load(path)
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ANALYSIS_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("ANALYSIS_DATA_JSON"); v != "" {
		c.Seed.Path = v
	}
	if v := os.Getenv("ANALYSIS_DB_DRIVER"); v != "" {
		c.Database.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("ANALYSIS_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		} else {
			c.Server.Port = -1 // reported by Validate
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("MINIO_ENDPOINT"); v != "" {
		c.Minio.Endpoint = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		c.Minio.AccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		c.Minio.SecretKey = v
	}
}

// Validate returns every problem found, not just the first.
func (c *Config) Validate() []error {
	errs := make([]error, 0)
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, errors.Errorf("invalid server port %d", c.Server.Port))
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if strings.TrimSpace(c.Database.Path) == "" {
			errs = append(errs, errors.New("database path cannot be empty"))
		}
	case DriverMySQL, DriverPostgres:
		if c.Database.DSN == "" && c.Database.Host == "" {
			errs = append(errs, errors.Errorf("%s driver needs database.dsn or database.host", c.Database.Driver))
		}
	default:
		errs = append(errs, errors.Errorf("unknown database driver %q (allowed: sqlite, mysql, postgres)", c.Database.Driver))
	}

	if strings.TrimSpace(c.Seed.Path) == "" {
		errs = append(errs, errors.New("seed path cannot be empty"))
	} else if IsObjectPath(c.Seed.Path) && c.Minio.Endpoint == "" {
		errs = append(errs, errors.Errorf("seed path %s needs minio.endpoint", c.Seed.Path))
	}

	if c.RateLimit.Enabled && (c.RateLimit.Capacity <= 0 || c.RateLimit.RefillRate <= 0) {
		errs = append(errs, errors.New("rate limit capacity and refillRate must be positive"))
	}
	return errs
}

// IsObjectPath reports whether a seed path points into object storage.
func IsObjectPath(p string) bool {
	return strings.HasPrefix(p, "s3://")
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	if c.Database.DSN != "" {
		return c.Database.DSN
	}
	port := c.Database.Port
	if port == 0 {
		port = 3306
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		port,
		c.Database.Name,
	)
}

// PostgresDSN builds a lib/pq URL
func (c *Config) PostgresDSN() string {
	if c.Database.DSN != "" {
		return c.Database.DSN
	}
	port := c.Database.Port
	if port == 0 {
		port = 5432
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     fmt.Sprintf("%s:%d", c.Database.Host, port),
		Path:     "/" + c.Database.Name,
		RawQuery: url.Values{"sslmode": {c.Database.SSLMode}}.Encode(),
	}
	return u.String()
}
