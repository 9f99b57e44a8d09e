// Package config loads engine configuration from luma.yaml, the
// environment (LUMA_*), and an optional .env file, in that order of
// discovery.
package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/lumapress/luma/pkg/storage"
)

// Backend selection values.
const (
	BackendAuto = "auto"
	BackendFs   = "fs"
	BackendS3   = "s3"
)

// Config is the full runtime configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Server  ServerConfig  `mapstructure:"server"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Log     LogConfig     `mapstructure:"log"`
}

// StorageConfig selects and parameterizes the backend.
type StorageConfig struct {
	// Backend is "fs", "s3" or "auto". Auto picks S3 when a bucket is
	// configured and the local filesystem otherwise. Absent cloud
	// credentials are a valid configuration, not an error.
	Backend string `mapstructure:"backend"`
	// Root is the content root directory for the fs backend.
	Root string `mapstructure:"root"`

	S3 S3Config `mapstructure:"s3"`
}

// S3Config carries bucket identity and credentials.
type S3Config struct {
	Bucket      string `mapstructure:"bucket"`
	Region      string `mapstructure:"region"`
	EndpointURL string `mapstructure:"endpoint_url"`
	AccessKey   string `mapstructure:"access_key"`
	SecretKey   string `mapstructure:"secret_key"`
	Prefix      string `mapstructure:"prefix"`
}

// ServerConfig parameterizes the HTTP server.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// AuthConfig carries the admin-token secret. Empty disables the admin
// routes entirely.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// Load reads configuration from cfgFile (or ./luma.yaml when empty) plus
// the environment. A missing config file is fine; defaults and env apply.
func Load(cfgFile string) (Config, error) {
	// Optional .env for local development; absence is not an error.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("storage.backend", BackendAuto)
	v.SetDefault("storage.root", "content")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("luma")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("LUMA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if cfgFile != "" {
			return Config{}, fmt.Errorf("config file %s not found: %w", cfgFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// ResolveBackend returns the effective backend for cfg.
func (c *StorageConfig) ResolveBackend() string {
	switch c.Backend {
	case BackendFs, BackendS3:
		return c.Backend
	default:
		if c.S3.Bucket != "" {
			return BackendS3
		}
		return BackendFs
	}
}

// OpenStore builds the configured storage adapter.
func OpenStore(ctx context.Context, cfg StorageConfig) (storage.Store, error) {
	switch cfg.ResolveBackend() {
	case BackendS3:
		return storage.NewS3Store(ctx, storage.S3Config{
			Bucket:      cfg.S3.Bucket,
			Region:      cfg.S3.Region,
			EndpointURL: cfg.S3.EndpointURL,
			AccessKey:   cfg.S3.AccessKey,
			SecretKey:   cfg.S3.SecretKey,
			Prefix:      cfg.S3.Prefix,
		})
	default:
		return storage.NewFsStore(cfg.Root), nil
	}
}
