package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envMap(nil))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "3000" || cfg.DBDriver != "sqlite" || cfg.DSN() != "nutri-track.db" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.JWTTTL != 72*time.Hour || cfg.Location != time.UTC {
		t.Errorf("ttl = %v, location = %v", cfg.JWTTTL, cfg.Location)
	}
}

func TestFromEnv_Postgres(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"DB_DRIVER": "postgres",
		"DB_URL":    "postgres://localhost/nutri",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DSN() != "postgres://localhost/nutri" {
		t.Errorf("dsn = %q", cfg.DSN())
	}
}

func TestFromEnv_Errors(t *testing.T) {
	cases := map[string]map[string]string{
		"postgres without url": {"DB_DRIVER": "postgres"},
		"unknown driver":       {"DB_DRIVER": "mysql"},
		"bad ttl":              {"JWT_TTL_HOURS": "soon"},
		"zero ttl":             {"JWT_TTL_HOURS": "0"},
		"bad timezone":         {"LOG_TIMEZONE": "Mars/Olympus"},
	}
	for name, env := range cases {
		if _, err := FromEnv(envMap(env)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("CHAT_MODEL=from-file\nPORT=8088\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv never overrides variables that are already set.
	t.Setenv("PORT", "9090")
	t.Setenv("CHAT_MODEL", "")
	os.Unsetenv("CHAT_MODEL")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ChatModel != "from-file" || cfg.Port != "9090" {
		t.Errorf("model = %q, port = %q", cfg.ChatModel, cfg.Port)
	}
}

func TestLoad_MissingFileIgnored(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("missing env file should be ignored: %v", err)
	}
}
