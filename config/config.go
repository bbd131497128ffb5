package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Token storage backends.
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StorageDatabase = "database"
)

// AppConfig holds file and environment driven configuration values.
// Secrets have no defaults in code and must come from the config file or the environment.
type AppConfig struct {
	App      AppSection      `json:"app"`
	API      APISection      `json:"api"`
	Cookie   CookieSection   `json:"cookie"`
	Redis    RedisSection    `json:"redis"`
	Database DatabaseSection `json:"database"`
	Log      LogSection      `json:"log"`
}

type AppSection struct {
	AppPort        string   `json:"AppPort" env:"APP_PORT" env-default:"8080"`
	GinMode        string   `json:"GinMode" env:"GIN_MODE" env-default:"release"`
	AllowedOrigins []string `json:"AllowedOrigins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
	// TokenStorage selects where browser tokens are persisted: memory, redis or database.
	TokenStorage string        `json:"TokenStorage" env:"TOKEN_STORAGE" env-default:"memory"`
	TokenTTL     time.Duration `json:"TokenTTL" env:"TOKEN_TTL" env-default:"168h"`
}

// APISection points at the remote forum API.
type APISection struct {
	BaseURL string        `json:"BaseURL" env:"API_BASE_URL"`
	Timeout time.Duration `json:"Timeout" env:"API_TIMEOUT" env-default:"15s"`
}

type CookieSection struct {
	SessionCookie string `json:"SessionCookie" env:"SESSION_COOKIE" env-default:"gossip_sid"`
	TokenCookie   string `json:"TokenCookie" env:"TOKEN_COOKIE" env-default:"access_token"`
	Domain        string `json:"Domain" env:"COOKIE_DOMAIN"`
	Secure        bool   `json:"Secure" env:"COOKIE_SECURE" env-default:"false"`
}

type RedisSection struct {
	RedisHost     string `json:"RedisHost" env:"REDIS_HOST" env-default:"127.0.0.1"`
	RedisPort     int    `json:"RedisPort" env:"REDIS_PORT" env-default:"6379"`
	RedisDB       int    `json:"RedisDB" env:"REDIS_DB" env-default:"0"`
	RedisPassword string `json:"RedisPassword" env:"REDIS_PASSWORD"`
}

type DatabaseSection struct {
	DatabaseURI string `json:"DatabaseURI" env:"DATABASE_URI"`
	DBHost      string `json:"DBHost" env:"DB_HOST" env-default:"127.0.0.1"`
	DBPort      string `json:"DBPort" env:"DB_PORT" env-default:"3306"`
	DBUser      string `json:"DBUser" env:"DB_USER" env-default:"root"`
	DBPassword  string `json:"DBPassword" env:"DB_PASSWORD"`
	DBName      string `json:"DBName" env:"DB_NAME" env-default:"gossip"`
}

// LogSection configures zap and the rolling file sinks.
type LogSection struct {
	Level      string `json:"Level" env:"LOG_LEVEL" env-default:"info"`
	Path       string `json:"Path" env:"LOG_PATH"`
	GinPath    string `json:"GinPath" env:"GIN_PATH" env-default:"logs/go_gin.log"`
	MaxSizeMB  int    `json:"MaxSizeMB" env:"LOG_MAX_SIZE_MB" env-default:"100"`
	MaxBackups int    `json:"MaxBackups" env:"LOG_MAX_BACKUPS" env-default:"3"`
	MaxAgeDays int    `json:"MaxAgeDays" env:"LOG_MAX_AGE_DAYS" env-default:"7"`
	Compress   bool   `json:"Compress" env:"LOG_COMPRESS" env-default:"false"`
}

var cfg AppConfig
var loaded bool

// Load loads the application configuration. It should be called once during boot.
//
// Precedence: config/config.json (or CONFIG_PATH) -> env-default tags -> environment variables.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	path := os.Getenv("CONFIG_PATH")
	explicit := path != ""
	if !explicit {
		path = filepath.Join("config", "config.json")
	}

	c, err := LoadFrom(path, explicit)
	if err != nil {
		log.Fatal(err)
	}

	cfg = c
	loaded = true
	return cfg
}

// LoadFrom reads path (when present) and the environment into a validated AppConfig.
// A missing file is only an error when required is true.
func LoadFrom(path string, required bool) (AppConfig, error) {
	var c AppConfig
	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &c); err != nil {
			return AppConfig{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if required {
		return AppConfig{}, fmt.Errorf("config: file %s: %w", path, err)
	} else if err := cleanenv.ReadEnv(&c); err != nil {
		return AppConfig{}, fmt.Errorf("config: read env: %w", err)
	}

	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	c.App.AllowedOrigins = trimList(c.App.AllowedOrigins)

	if err := c.Validate(); err != nil {
		return AppConfig{}, fmt.Errorf("config: validate: %w", err)
	}
	return c, nil
}

// Validate rejects configurations the front-end cannot run with.
func (c AppConfig) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("API_BASE_URL must be set")
	}
	switch c.App.TokenStorage {
	case StorageMemory, StorageRedis, StorageDatabase:
	default:
		return fmt.Errorf("unknown token storage %q", c.App.TokenStorage)
	}
	if c.App.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	return nil
}

func trimList(items []string) []string {
	out := []string{}
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
