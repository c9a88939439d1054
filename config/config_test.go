package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/btcagentorg/libbtcagent-go/derivation"
)

// ---------------------------------------------------------------------------
// DefaultConfig tests
// ---------------------------------------------------------------------------

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"Network", cfg.Network, "mainnet"},
		{"AddressType", cfg.AddressType, "p2pkh"},
		{"MinConfirmations", cfg.MinConfirmations, uint32(6)},
		{"OracleURL", cfg.OracleURL, "http://localhost:8332"},
		{"OracleUser", cfg.OracleUser, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("got %v, want %v", tc.got, tc.want)
			}
		})
	}

	// DataDir should not be empty (we don't assert the full path since it
	// depends on the home directory).
	if cfg.DataDir == "" {
		t.Error("DataDir should not be empty")
	}
	if err := ValidateConfig(cfg); err != nil {
		t.Errorf("DefaultConfig should validate: %v", err)
	}
}

// ---------------------------------------------------------------------------
// SaveConfig / LoadConfig round-trip tests
// ---------------------------------------------------------------------------

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	original := Config{
		DataDir:          "/tmp/test-btcagent",
		Network:          "testnet",
		AddressType:      "p2pkh",
		MinConfirmations: 3,
		OracleURL:        "https://oracle.example:8443",
		OracleUser:       "agent",
		OraclePassword:   "secret",
	}

	if err := SaveConfig(path, original); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if loaded != original {
		t.Errorf("got %+v, want %+v", loaded, original)
	}
}

func TestSaveConfigCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "config")

	cfg := DefaultConfig()
	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Config file not created: %v", err)
	}
}

// ---------------------------------------------------------------------------
// LoadConfig error tests
// ---------------------------------------------------------------------------

func TestLoadConfigNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config")
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadConfig nonexistent: got %v, want ErrConfigNotFound", err)
	}
}

func TestLoadConfigInvalidLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	content := "this-is-not-key-value\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig(path)
	if !errors.Is(err, ErrInvalidConfigLine) {
		t.Errorf("LoadConfig bad line: got %v, want ErrInvalidConfigLine", err)
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	if err := os.WriteFile(path, []byte("listenaddr = :8080\n"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig(path)
	if !errors.Is(err, ErrInvalidConfigLine) {
		t.Errorf("LoadConfig unknown key: got %v, want ErrInvalidConfigLine", err)
	}
}

func TestLoadConfigCommentsAndBlanks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	content := `# This is a comment
network = testnet

# Another comment
minconfirmations = 2
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Network != "testnet" {
		t.Errorf("Network: got %q, want testnet", cfg.Network)
	}
	if cfg.MinConfirmations != 2 {
		t.Errorf("MinConfirmations: got %d, want 2", cfg.MinConfirmations)
	}
	// Untouched keys keep their defaults.
	if cfg.AddressType != "p2pkh" {
		t.Errorf("AddressType: got %q, want p2pkh", cfg.AddressType)
	}
}

// ---------------------------------------------------------------------------
// ValidateConfig tests
// ---------------------------------------------------------------------------

func TestValidateConfig(t *testing.T) {
	base := DefaultConfig()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid", func(c *Config) {}, nil},
		{"empty datadir", func(c *Config) { c.DataDir = "" }, ErrEmptyDataDir},
		{"bad network", func(c *Config) { c.Network = "moonnet" }, ErrInvalidNetwork},
		{"bad address type", func(c *Config) { c.AddressType = "p2tr" }, ErrInvalidAddressType},
		{"min conf too high", func(c *Config) { c.MinConfirmations = 7 }, ErrMinConfirmationsTooHigh},
		{"bad oracle url", func(c *Config) { c.OracleURL = "ftp://oracle" }, ErrInvalidOracleURL},
		{"empty oracle url", func(c *Config) { c.OracleURL = "" }, ErrInvalidOracleURL},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			err := ValidateConfig(cfg)
			if tc.wantErr == nil {
				if err != nil {
					t.Errorf("got %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestResolveNetwork(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Network = "regtest"
	network, err := cfg.ResolveNetwork()
	if err != nil {
		t.Fatalf("ResolveNetwork: %v", err)
	}
	if network != derivation.Regtest {
		t.Errorf("got %v, want regtest", network)
	}

	cfg.Network = "moonnet"
	if _, err := cfg.ResolveNetwork(); !errors.Is(err, ErrInvalidNetwork) {
		t.Errorf("got %v, want ErrInvalidNetwork", err)
	}
}
