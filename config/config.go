package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultNationality        = "Nepalese"
	defaultSessionTTLMinutes  = 720
	defaultDebounceMillis     = 300
	defaultLookupLimit        = 20
	defaultDirectoryTTLSecond = 300
)

type Config struct {
	App       AppConfig       `yaml:"app"`
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Draft     DraftConfig     `yaml:"draft"`
	Lookup    LookupConfig    `yaml:"lookup"`
	Directory DirectoryConfig `yaml:"directory"`
}

type AppConfig struct {
	Env string `yaml:"env"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// URL renders the connection in the postgres:// form expected by golang-migrate.
func (d DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.Name,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers    []string `yaml:"brokers"`
	AuditTopic string   `yaml:"audit_topic"`
	GroupID    string   `yaml:"group_id"`
}

type DraftConfig struct {
	DefaultNationality string `yaml:"default_nationality"`
	SessionTTLMinutes  int    `yaml:"session_ttl_minutes"`
	SchemaPath         string `yaml:"schema_path"`
}

type LookupConfig struct {
	DebounceMillis int `yaml:"debounce_ms"`
	Limit          int `yaml:"limit"`
}

type DirectoryConfig struct {
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// .env is optional; secrets usually come from the environment directly.
	_ = godotenv.Load()
	cfg.applyEnv()
	cfg.ApplyDefaults()

	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv("DATABASE_PASSWORD"); ok && v != "" {
		c.Database.Password = v
	}
	if v, ok := os.LookupEnv("REDIS_PASSWORD"); ok && v != "" {
		c.Redis.Password = v
	}
	if v, ok := os.LookupEnv("KAFKA_BROKERS"); ok && v != "" {
		brokers := make([]string, 0)
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
		c.Kafka.Brokers = brokers
	}
}

func (c *Config) ApplyDefaults() {
	if c.Draft.DefaultNationality == "" {
		c.Draft.DefaultNationality = DefaultNationality
	}
	if c.Draft.SessionTTLMinutes <= 0 {
		c.Draft.SessionTTLMinutes = defaultSessionTTLMinutes
	}
	// negative disables debouncing
	if c.Lookup.DebounceMillis == 0 {
		c.Lookup.DebounceMillis = defaultDebounceMillis
	}
	if c.Lookup.Limit <= 0 {
		c.Lookup.Limit = defaultLookupLimit
	}
	if c.Directory.CacheTTLSeconds <= 0 {
		c.Directory.CacheTTLSeconds = defaultDirectoryTTLSecond
	}
}
