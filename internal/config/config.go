package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Media    MediaConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port        string
	Mode        string
	UploadDir   string
	// MaxUploadMB caps the request body of signup and video upload/update.
	MaxUploadMB int64
}

type DatabaseConfig struct {
	Driver string
	DSN    string
}

type AuthConfig struct {
	Secret   string
	TokenTTL time.Duration
}

// MediaConfig describes the S3-compatible media host. Bucket plays the role of the
// provider account name.
type MediaConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	PublicURL string
	UseSSL    bool
}

type LogConfig struct {
	Level  string
	Format string
}

// envKeys maps every config key to the environment variable that overrides it.
var envKeys = map[string]string{
	"server.port":          "SERVER_PORT",
	"server.mode":          "GIN_MODE",
	"server.upload_dir":    "UPLOAD_TMP_DIR",
	"server.max_upload_mb": "MAX_UPLOAD_MB",
	"database.driver":      "DB_DRIVER",
	"database.dsn":         "DB_DSN",
	"auth.secret":          "JWT_SECRET",
	"auth.token_ttl":       "TOKEN_TTL",
	"media.endpoint":       "MEDIA_ENDPOINT",
	"media.access_key":     "MEDIA_ACCESS_KEY",
	"media.secret_key":     "MEDIA_SECRET_KEY",
	"media.bucket":         "MEDIA_BUCKET",
	"media.region":         "MEDIA_REGION",
	"media.public_url":     "MEDIA_PUBLIC_URL",
	"media.use_ssl":        "MEDIA_USE_SSL",
	"log.level":            "LOG_LEVEL",
	"log.format":           "LOG_FORMAT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.upload_dir", os.TempDir())
	v.SetDefault("server.max_upload_mb", 100)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "videotube.db?_busy_timeout=5000")
	v.SetDefault("auth.token_ttl", 365*24*time.Hour)
	v.SetDefault("media.endpoint", "localhost:9000")
	v.SetDefault("media.bucket", "videotube")
	v.SetDefault("media.region", "us-east-1")
	v.SetDefault("media.use_ssl", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads .env (if present), an optional config.yml and the environment, in
// increasing order of precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	setDefaults(v)
	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        v.GetString("server.port"),
			Mode:        v.GetString("server.mode"),
			UploadDir:   v.GetString("server.upload_dir"),
			MaxUploadMB: v.GetInt64("server.max_upload_mb"),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(v.GetString("database.driver")),
			DSN:    v.GetString("database.dsn"),
		},
		Auth: AuthConfig{
			Secret:   v.GetString("auth.secret"),
			TokenTTL: v.GetDuration("auth.token_ttl"),
		},
		Media: MediaConfig{
			Endpoint:  v.GetString("media.endpoint"),
			AccessKey: v.GetString("media.access_key"),
			SecretKey: v.GetString("media.secret_key"),
			Bucket:    v.GetString("media.bucket"),
			Region:    v.GetString("media.region"),
			PublicURL: strings.TrimRight(v.GetString("media.public_url"), "/"),
			UseSSL:    v.GetBool("media.use_ssl"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.Secret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	switch c.Database.Driver {
	case "sqlite", "mysql":
	default:
		return errors.New("DB_DRIVER must be sqlite or mysql, got " + c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("DB_DSN must be set")
	}
	return nil
}

// NewLogger builds the process logger. Unknown levels fall back to info.
func NewLogger(cfg LogConfig) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	if strings.EqualFold(cfg.Format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}
