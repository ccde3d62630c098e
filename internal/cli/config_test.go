package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/screenflow/pkg/errors"
)

// isolate points every XDG directory and SCREENFLOW_* variable at t's temp
// dir so tests never see the developer's config.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv(envAddr, "")
	t.Setenv(envRedisAddr, "")
	t.Setenv(envMongoURI, "")
	return dir
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_MissingDefault(t *testing.T) {
	isolate(t)

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Server.Addr != defaultAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, defaultAddr)
	}
	if cfg.Tier != "" || cfg.Cache.Backend != "" {
		t.Errorf("expected zero config, got %+v", cfg)
	}
}

func TestLoadConfig_DefaultLocation(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "config", appName, "config.toml"), `
tier = "pro"
direction = "TB"

[layout]
card_width = 200
rank_sep = 90

[cache]
backend = "none"

[server]
addr = ":9090"
`)

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Tier != "pro" || cfg.Direction != "TB" {
		t.Errorf("tier/direction = %q/%q", cfg.Tier, cfg.Direction)
	}
	if cfg.Layout.CardWidth != 200 || cfg.Layout.RankSep != 90 {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Cache.Backend != "none" || cfg.Server.Addr != ":9090" {
		t.Errorf("cache/server = %q/%q", cfg.Cache.Backend, cfg.Server.Addr)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad tier", `tier = "enterprise"`, "tier"},
		{"bad direction", `direction = "RL"`, "direction"},
		{"bad cache backend", "[cache]\nbackend = \"memcached\"", "backend"},
		{"redis without addr", "[cache]\nbackend = \"redis\"", "redisaddr"},
		{"mongo without uri", "[store]\nbackend = \"mongo\"", "mongouri"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			path := writeFile(t, filepath.Join(dir, "screenflow.toml"), tt.content)

			_, err := loadConfig(path)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Fatalf("loadConfig error = %v, want INVALID_INPUT", err)
			}
			if msg := errors.UserMessage(err); !strings.Contains(msg, tt.want) {
				t.Errorf("message %q does not mention %q", msg, tt.want)
			}
		})
	}
}

func TestLoadConfig_ExplicitMissing(t *testing.T) {
	dir := isolate(t)

	_, err := loadConfig(filepath.Join(dir, "nope.toml"))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("loadConfig error = %v, want INVALID_INPUT", err)
	}
}

func TestLoadConfig_Malformed(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, filepath.Join(dir, "broken.toml"), "tier = ")

	if _, err := loadConfig(path); err == nil {
		t.Fatal("expected an error for malformed TOML")
	}
}

func TestApplyEnv(t *testing.T) {
	isolate(t)
	t.Setenv(envAddr, "127.0.0.1:7000")
	t.Setenv(envRedisAddr, "redis:6379")
	t.Setenv(envMongoURI, "mongodb://mongo:27017")

	cfg := Config{Cache: CacheConfig{Backend: "file"}}
	cfg.applyEnv()

	if cfg.Server.Addr != "127.0.0.1:7000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Cache.Backend != "file" || cfg.Cache.RedisAddr != "redis:6379" {
		t.Errorf("an explicit cache backend must be kept: %+v", cfg.Cache)
	}
	if cfg.Store.Backend != "mongo" || cfg.Store.MongoURI != "mongodb://mongo:27017" {
		t.Errorf("a mongo uri must select the mongo store: %+v", cfg.Store)
	}
}
