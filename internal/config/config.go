// Package config reads the configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rentals-co/servicios/internal/storage"
	"github.com/spf13/viper"
)

type Config struct {
	Port             string
	GinMode          string
	LogFormat        string
	APIURL           *url.URL
	CORSAllowOrigins []string
	EnablePprof      bool
	Database         Database
	Storage          Storage
}

type Database struct {
	Driver   string // sqlite or postgres
	Path     string // SQLite database file
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns the data source name for PostgreSQL.
func (d Database) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type Storage struct {
	Driver          string // local or oss
	Dir             string
	PublicURL       string
	OSSEndpoint     string
	OSSAccessKeyID  string
	OSSAccessSecret string
	OSSBucket       string
	MaxUploadSize   int64
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverLocal    = "local"
	DriverOSS      = "oss"
)

// Load reads the configuration. Values from a .env file in the working
// directory are used for variables that are not set in the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("API_URL", "http://localhost:8080")
	v.SetDefault("ENABLE_PPROF", false)
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DB_PATH", "data/servicios.db")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("STORAGE_DRIVER", DriverLocal)
	v.SetDefault("STORAGE_DIR", "data/uploads")
	v.SetDefault("UPLOAD_MAX_BYTES", storage.DefaultMaxSize)

	apiURL, err := url.Parse(v.GetString("API_URL"))
	if err != nil || apiURL.Scheme == "" || apiURL.Host == "" {
		return Config{}, fmt.Errorf("environment variable API_URL must be a valid URL, got %q", v.GetString("API_URL"))
	}

	c := Config{
		Port:             v.GetString("PORT"),
		GinMode:          v.GetString("GIN_MODE"),
		LogFormat:        v.GetString("LOG_FORMAT"),
		APIURL:           apiURL,
		CORSAllowOrigins: strings.Fields(v.GetString("CORS_ALLOW_ORIGINS")),
		EnablePprof:      v.GetBool("ENABLE_PPROF"),
		Database: Database{
			Driver:   strings.ToLower(v.GetString("DB_DRIVER")),
			Path:     v.GetString("DB_PATH"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Storage: Storage{
			Driver:          strings.ToLower(v.GetString("STORAGE_DRIVER")),
			Dir:             v.GetString("STORAGE_DIR"),
			PublicURL:       v.GetString("STORAGE_PUBLIC_URL"),
			OSSEndpoint:     v.GetString("OSS_ENDPOINT"),
			OSSAccessKeyID:  v.GetString("OSS_ACCESS_KEY_ID"),
			OSSAccessSecret: v.GetString("OSS_ACCESS_KEY_SECRET"),
			OSSBucket:       v.GetString("OSS_BUCKET"),
			MaxUploadSize:   v.GetInt64("UPLOAD_MAX_BYTES"),
		},
	}

	// Files stored on disk are served by the backend itself
	if c.Storage.PublicURL == "" && c.Storage.Driver == DriverLocal {
		c.Storage.PublicURL = strings.TrimRight(apiURL.String(), "/") + "/files"
	}

	return c, c.validate()
}

func (c Config) validate() error {
	switch c.GinMode {
	case "", gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return fmt.Errorf("unknown GIN_MODE %q, use %s, %s or %s", c.GinMode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}

	switch c.Database.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST must be set for the %s driver", DriverPostgres)
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q, use %s or %s", c.Database.Driver, DriverSQLite, DriverPostgres)
	}

	switch c.Storage.Driver {
	case DriverLocal:
	case DriverOSS:
		if c.Storage.OSSEndpoint == "" || c.Storage.OSSAccessKeyID == "" || c.Storage.OSSAccessSecret == "" || c.Storage.OSSBucket == "" {
			return fmt.Errorf("OSS_ENDPOINT, OSS_ACCESS_KEY_ID, OSS_ACCESS_KEY_SECRET and OSS_BUCKET must be set for the %s driver", DriverOSS)
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q, use %s or %s", c.Storage.Driver, DriverLocal, DriverOSS)
	}

	if c.Storage.MaxUploadSize <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}

	return nil
}
