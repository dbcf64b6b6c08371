package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"antenna/internal/channel"
	"antenna/internal/config"
	"antenna/internal/testsupport"
)

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	encoded, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, error) {
	t.Helper()

	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "config.toml")

	out, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	out, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}

func TestConfigShow(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := filepath.Join(t.TempDir(), "config.toml")
	writeTestConfig(t, configPath, cfg)

	out, err := runCLI(t, []string{"config", "show"}, configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "[server]")
	requireContains(t, out, "bind = '127.0.0.1:0'")
}

func TestChannelsCommandJSON(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := filepath.Join(t.TempDir(), "config.toml")
	writeTestConfig(t, configPath, cfg)

	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedChannels(t, st, []channel.Channel{
		{ID: "rai1-abc", Name: "RAI 1 .I", CleanName: "RAI 1", URL: "https://vavoo.to/play/1/index.m3u8", Genre: "general", Category: "RAI", Logo: "https://logos/rai1.png"},
		{ID: "sky-def", Name: "SKY SPORT UNO .I", CleanName: "SKY SPORT UNO", URL: "https://vavoo.to/play/2/index.m3u8", Genre: "sports", Category: "SPORT", Logo: ""},
	})

	out, err := runCLI(t, []string{"channels", "--json", "--category", "rai"}, configPath)
	if err != nil {
		t.Fatalf("channels: %v", err)
	}

	var decoded []channel.Channel
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("decode channels output: %v\n%s", err, out)
	}
	if len(decoded) != 1 || decoded[0].ID != "rai1-abc" {
		t.Fatalf("unexpected channels: %+v", decoded)
	}
}

func TestPlaylistCommandWritesFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := filepath.Join(t.TempDir(), "config.toml")
	writeTestConfig(t, configPath, cfg)

	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedChannels(t, st, []channel.Channel{
		{ID: "rai1-abc", Name: "RAI 1", CleanName: "RAI 1", URL: "https://vavoo.to/play/1/index.m3u8", Genre: "general", Category: "RAI", Logo: "https://logos/rai1.png"},
	})

	target := filepath.Join(t.TempDir(), "channels.m3u8")
	out, err := runCLI(t, []string{"playlist", "-o", target}, configPath)
	if err != nil {
		t.Fatalf("playlist: %v", err)
	}
	requireContains(t, out, "Wrote 1 channels")

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read playlist: %v", err)
	}
	requireContains(t, string(data), `#EXTM3U url-tvg="http://epg-guide.com/it.gz"`)
	requireContains(t, string(data), `group-title="RAI",Rai 1`)
}

func TestResolveCommandJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ping":
			_ = json.NewEncoder(w).Encode(map[string]any{"addonSig": "sig-abc"})
		case "/resolve":
			_ = json.NewEncoder(w).Encode([]map[string]any{{"url": "https://edge.example/stream.m3u8"}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t)
	cfg.Vavoo.PingURL = server.URL + "/ping"
	cfg.Vavoo.ResolveURL = server.URL + "/resolve"
	configPath := filepath.Join(t.TempDir(), "config.toml")
	writeTestConfig(t, configPath, cfg)

	out, err := runCLI(t, []string{"resolve", "--json", "https://vavoo.to/play/1/index.m3u8"}, configPath)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	var result resolveResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode resolve output: %v\n%s", err, out)
	}
	if !result.Success || result.ResolvedURL != "https://edge.example/stream.m3u8" {
		t.Fatalf("unexpected resolve result: %+v", result)
	}
}
