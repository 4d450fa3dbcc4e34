package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func write(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(write(t, "version: \"1\"\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != ModeDev {
		t.Errorf("expected dev mode, got %q", cfg.Mode)
	}
	if cfg.Source.Kind != SourceCSV {
		t.Errorf("expected csv source, got %q", cfg.Source.Kind)
	}
	if cfg.CacheTTL() != 600*time.Second {
		t.Errorf("expected 600s TTL, got %s", cfg.CacheTTL())
	}
	if cfg.TLSEnabled() {
		t.Error("TLS should be off without certificates")
	}
}

func TestLoadFull(t *testing.T) {
	body := `
mode: release
server:
  addr: ":9443"
  certificate:
    cert: server.crt
    key: server.key
source:
  kind: MySQL
  cache_ttl_seconds: 30
database:
  host: 127.0.0.1
  port: 3306
  user: presence
  password: secret
  dbname: presence
auth:
  secret: s3cr3t
  accounts:
    - id: admin
      password_hash: "$2a$10$abc"
      role: admin
`
	cfg, err := Load(write(t, body))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Source.Kind != SourceMySQL {
		t.Errorf("kind should be normalized, got %q", cfg.Source.Kind)
	}
	if cfg.CacheTTL() != 30*time.Second {
		t.Errorf("unexpected TTL %s", cfg.CacheTTL())
	}
	if !cfg.TLSEnabled() {
		t.Error("expected TLS enabled")
	}
	if len(cfg.Auth.Accounts) != 1 || cfg.Auth.Accounts[0].Role != "admin" {
		t.Errorf("unexpected accounts %+v", cfg.Auth.Accounts)
	}
}

func TestLoadSecretFromEnv(t *testing.T) {
	t.Setenv("PRESENCE_JWT_SECRET", "from-env")
	cfg, err := Load(write(t, "auth:\n  secret: from-file\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Auth.Secret != "from-env" {
		t.Errorf("expected env override, got %q", cfg.Auth.Secret)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("PRESENCE_JWT_SECRET", "")
	cases := map[string]string{
		"mode":          "mode: staging\n",
		"source":        "source:\n  kind: xml\n",
		"mysql no db":   "source:\n  kind: mysql\n",
		"release nokey": "mode: release\nauth:\n  accounts:\n    - id: a\n",
		"dev nokey":     "mode: dev\nauth:\n  accounts:\n    - id: a\n",
		"default nokey": "auth:\n  secret: \"  \"\n  accounts:\n    - id: a\n",
	}
	for name, body := range cases {
		if _, err := Load(write(t, body)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestPathFromEnv(t *testing.T) {
	t.Setenv("PRESENCE_CONFIG", "/etc/presence.yaml")
	if got := Path(); got != "/etc/presence.yaml" {
		t.Errorf("got %q", got)
	}
}

func TestLoadNoAccountsNoSecret(t *testing.T) {
	t.Setenv("PRESENCE_JWT_SECRET", "")
	// アカウントが無ければ鍵は不要（ログインできないだけ）
	if _, err := Load(write(t, "mode: dev\n")); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestLoadAccountsWithEnvSecret(t *testing.T) {
	t.Setenv("PRESENCE_JWT_SECRET", "from-env")
	cfg, err := Load(write(t, "mode: dev\nauth:\n  accounts:\n    - id: a\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Auth.Secret != "from-env" {
		t.Errorf("got %q", cfg.Auth.Secret)
	}
}
