// Package config は config.yaml と .env から設定を読む。
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath = "config/config.yaml"

	ModeDev     = "dev"
	ModeRelease = "release"

	SourceCSV   = "csv"
	SourceMySQL = "mysql"
)

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type Certs struct {
	Cert string `yaml:"cert"`
	Key  string `yaml:"key"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	Certificate Certs    `yaml:"certificate"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// SourceConfig: 出勤データの読み込み元
type SourceConfig struct {
	Kind            string `yaml:"kind"` // csv | mysql
	DataCSV         string `yaml:"data_csv"`
	Encoding        string `yaml:"encoding"`
	UsersXML        string `yaml:"users_xml"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
}

// SyncConfig: 空の URL は同期対象外
type SyncConfig struct {
	DataURL        string `yaml:"data_url"`
	UsersURL       string `yaml:"users_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type Account struct {
	ID           string `yaml:"id"`
	PasswordHash string `yaml:"password_hash"` // bcrypt
	Role         string `yaml:"role"`
	Disabled     bool   `yaml:"disabled"`
}

type AuthConfig struct {
	Secret        string    `yaml:"secret"`
	TokenTTLHours int       `yaml:"token_ttl_hours"`
	Accounts      []Account `yaml:"accounts"`
}

type LogConfig struct {
	Debug bool `yaml:"debug"`
}

type Config struct {
	Version string         `yaml:"version"`
	Mode    string         `yaml:"mode"`
	Server  ServerConfig   `yaml:"server"`
	Source  SourceConfig   `yaml:"source"`
	Sync    SyncConfig     `yaml:"sync"`
	DB      DatabaseConfig `yaml:"database"`
	Auth    AuthConfig     `yaml:"auth"`
	Log     LogConfig      `yaml:"log"`
}

// Path: PRESENCE_CONFIG があればそれ、なければ既定パス
func Path() string {
	_ = godotenv.Load()
	if p := os.Getenv("PRESENCE_CONFIG"); p != "" {
		return p
	}
	return DefaultPath
}

func Load(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("設定ファイルの読み込み失敗: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, fmt.Errorf("設定ファイルのパース失敗: %w", err)
	}
	if v := os.Getenv("PRESENCE_JWT_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Mode == "" {
		c.Mode = ModeDev
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"http://localhost:3000"}
	}
	c.Source.Kind = strings.ToLower(strings.TrimSpace(c.Source.Kind))
	if c.Source.Kind == "" {
		c.Source.Kind = SourceCSV
	}
	if c.Source.DataCSV == "" {
		c.Source.DataCSV = "runtime/data/sample_data.csv"
	}
	if c.Source.UsersXML == "" {
		c.Source.UsersXML = "runtime/data/users.xml"
	}
	if c.Source.CacheTTLSeconds <= 0 {
		c.Source.CacheTTLSeconds = 600
	}
	if c.Sync.TimeoutSeconds <= 0 {
		c.Sync.TimeoutSeconds = 60
	}
	if c.Auth.TokenTTLHours <= 0 {
		c.Auth.TokenTTLHours = 24
	}
}

func (c *Config) validate() error {
	if c.Mode != ModeDev && c.Mode != ModeRelease {
		return fmt.Errorf("mode must be %q or %q, got %q", ModeDev, ModeRelease, c.Mode)
	}
	switch c.Source.Kind {
	case SourceCSV:
	case SourceMySQL:
		if c.DB.DBName == "" {
			return errors.New("database.dbname is required when source.kind is mysql")
		}
	default:
		return fmt.Errorf("source.kind must be %q or %q, got %q", SourceCSV, SourceMySQL, c.Source.Kind)
	}
	// 空の鍵だと HS256 トークンを誰でも作れる
	if len(c.Auth.Accounts) > 0 && strings.TrimSpace(c.Auth.Secret) == "" {
		return errors.New("auth.secret (or PRESENCE_JWT_SECRET) is required when auth.accounts are configured")
	}
	return nil
}

// CacheTTL: source.cache_ttl_seconds
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Source.CacheTTLSeconds) * time.Second
}

func (c *Config) SyncTimeout() time.Duration {
	return time.Duration(c.Sync.TimeoutSeconds) * time.Second
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLHours) * time.Hour
}

// TLSEnabled: 証明書が両方指定されているときだけ HTTPS で起動する
func (c *Config) TLSEnabled() bool {
	return c.Server.Certificate.Cert != "" && c.Server.Certificate.Key != ""
}
