package config

import (
  "fmt"
  "os"
  "gopkg.in/yaml.v3"
  "github.com/quorumdesk/quorumdesk-backend/internal/logger"
  "github.com/quorumdesk/quorumdesk-backend/internal/utils"
)

type PostgresConfig struct {
  Host       string   `yaml:"host"`
  Port       string   `yaml:"port"`
  User       string   `yaml:"user"`
  Password   string   `yaml:"password"`
  Name       string   `yaml:"name"`
  SSLMode    string   `yaml:"sslmode"`
}

type RedisConfig struct {
  Addr       string   `yaml:"addr"`
  Channel    string   `yaml:"channel"`
}

type MinioConfig struct {
  Endpoint    string   `yaml:"endpoint"`
  AccessKey   string   `yaml:"access_key"`
  SecretKey   string   `yaml:"secret_key"`
  Bucket      string   `yaml:"bucket"`
  UseSSL      bool     `yaml:"use_ssl"`
}

type Config struct {
  Postgres   PostgresConfig   `yaml:"postgres"`
  Redis      RedisConfig      `yaml:"redis"`
  Minio      MinioConfig      `yaml:"minio"`
}

// Load reads environment variables, then overlays an optional yaml file
// named by CONFIG_FILE. Values present in the file win.
func Load(log *logger.Logger) (*Config, error) {
  cfg := &Config{
    Postgres: PostgresConfig{
      Host:     utils.GetEnv("POSTGRES_HOST", "localhost", log),
      Port:     utils.GetEnv("POSTGRES_PORT", "5432", log),
      User:     utils.GetEnv("POSTGRES_USER", "postgres", log),
      Password: utils.GetEnv("POSTGRES_PASSWORD", "", log),
      Name:     utils.GetEnv("POSTGRES_NAME", "quorumdesk", log),
      SSLMode:  utils.GetEnv("POSTGRES_SSLMODE", "disable", log),
    },
    Redis: RedisConfig{
      Addr:    utils.GetEnv("REDIS_ADDR", "", log),
      Channel: utils.GetEnv("REDIS_CHANNEL", "sse", log),
    },
    Minio: MinioConfig{
      Endpoint:  utils.GetEnv("MINIO_ENDPOINT", "localhost:9000", log),
      AccessKey: utils.GetEnv("MINIO_ACCESS_KEY", "", log),
      SecretKey: utils.GetEnv("MINIO_SECRET_KEY", "", log),
      Bucket:    utils.GetEnv("MINIO_BUCKET", "quorumdesk-documents", log),
      UseSSL:    utils.GetEnv("MINIO_USE_SSL", "false", log) == "true",
    },
  }

  path := utils.GetEnv("CONFIG_FILE", "", log)
  if path == "" {
    return cfg, nil
  }
  raw, err := os.ReadFile(path)
  if err != nil {
    return nil, fmt.Errorf("Failed to read config file %s: %w", path, err)
  }
  if err := yaml.Unmarshal(raw, cfg); err != nil {
    return nil, fmt.Errorf("Failed to parse config file %s: %w", path, err)
  }
  if log != nil {
    log.Info("Loaded config file overrides", "path", path)
  }
  return cfg, nil
}
