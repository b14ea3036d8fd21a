package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	pkgerrors "github.com/matzehuels/adminstack/pkg/errors"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		check   func(*testing.T, *Config)
		wantErr bool
	}{
		{
			name:  "empty uses defaults",
			input: "",
			check: func(t *testing.T, c *Config) {
				if c.Table.PageSize != DefaultPageSize {
					t.Errorf("PageSize = %d", c.Table.PageSize)
				}
				if c.Session.TTL != DefaultSessionTTL {
					t.Errorf("TTL = %v", c.Session.TTL)
				}
				if c.Server.Addr != DefaultServerAddr {
					t.Errorf("Addr = %q", c.Server.Addr)
				}
				if c.UI.TopLevelTitle != DefaultTopLevelTitle || c.UI.TopLevelURL != "/" {
					t.Errorf("UI = %+v", c.UI)
				}
			},
		},
		{
			name: "full",
			input: `
[graphql]
endpoint = "https://admin.example.com/graphql"
cache_ttl = "5m"

[graphql.headers]
Authorization = "Bearer x"

[table]
page_size = 50

[session]
redis_addr = "localhost:6379"
ttl = "1h"

[ui]
top_level_title = "Dashboard"
`,
			check: func(t *testing.T, c *Config) {
				if c.GraphQL.Endpoint != "https://admin.example.com/graphql" {
					t.Errorf("Endpoint = %q", c.GraphQL.Endpoint)
				}
				if c.GraphQL.CacheTTL != 5*time.Minute {
					t.Errorf("CacheTTL = %v", c.GraphQL.CacheTTL)
				}
				if c.GraphQL.Headers["Authorization"] != "Bearer x" {
					t.Errorf("Headers = %v", c.GraphQL.Headers)
				}
				if c.Table.PageSize != 50 || c.Session.TTL != time.Hour {
					t.Errorf("PageSize = %d, TTL = %v", c.Table.PageSize, c.Session.TTL)
				}
				if c.UI.TopLevelTitle != "Dashboard" {
					t.Errorf("TopLevelTitle = %q", c.UI.TopLevelTitle)
				}
			},
		},
		{name: "bad endpoint", input: "[graphql]\nendpoint = \"ftp://x\"", wantErr: true},
		{name: "page size too large", input: "[table]\npage_size = 5000", wantErr: true},
		{name: "unknown key", input: "[table]\nrows = 5", wantErr: true},
		{name: "syntax", input: "[table", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Decode(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, c)
			}
		})
	}
}

func TestLoad_MissingDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvGraphQLEndpoint, "")

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Table.PageSize != DefaultPageSize {
		t.Errorf("PageSize = %d", c.Table.PageSize)
	}
}

func TestLoad_MissingExplicit(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !pkgerrors.Is(err, pkgerrors.ErrCodeInvalidConfig) {
		t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[graphql]\nendpoint = \"https://a.example.com/graphql\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvGraphQLEndpoint, "https://b.example.com/graphql")

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.GraphQL.Endpoint != "https://b.example.com/graphql" {
		t.Errorf("Endpoint = %q, want env override", c.GraphQL.Endpoint)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	p, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if p != filepath.Join("/tmp/xdg", "adminstack", "config.toml") {
		t.Errorf("DefaultPath() = %q", p)
	}
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	if err := Default().Encode(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "page_size = 25") {
		t.Errorf("Encode() = %s", buf.String())
	}
}
