// Package config holds the library configuration: network, address defaults,
// oracle endpoint and data directory, persisted in a simple key = value file.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config collects everything a host needs to construct an agent and its
// oracle client.
type Config struct {
	// DataDir is the directory holding the state database.
	DataDir string

	// Network is "mainnet", "testnet" or "regtest".
	Network string

	// AddressType is the default address encoding for derived addresses.
	AddressType string

	// MinConfirmations is the default confirmation threshold for tracked
	// addresses.
	MinConfirmations uint32

	// Oracle endpoint.
	OracleURL      string
	OracleUser     string
	OraclePassword string
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		DataDir:          filepath.Join(home, ".btcagent"),
		Network:          "mainnet",
		AddressType:      "p2pkh",
		MinConfirmations: 6,
		OracleURL:        "http://localhost:8332",
	}
}

// LoadConfig reads a config file. Lines are "key = value"; blank lines and
// lines starting with # are ignored. Keys not present keep their default.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, lineNo, line)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "datadir":
			cfg.DataDir = value
		case "network":
			cfg.Network = value
		case "addresstype":
			cfg.AddressType = value
		case "minconfirmations":
			n, err := strconv.ParseUint(value, 10, 32)
			if err != nil {
				return cfg, fmt.Errorf("%w: line %d: minconfirmations %q", ErrInvalidConfigLine, lineNo, value)
			}
			cfg.MinConfirmations = uint32(n)
		case "oracleurl":
			cfg.OracleURL = value
		case "oracleuser":
			cfg.OracleUser = value
		case "oraclepassword":
			cfg.OraclePassword = value
		default:
			return cfg, fmt.Errorf("%w: line %d: unknown key %q", ErrInvalidConfigLine, lineNo, key)
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the configuration to path, creating parent directories as
// needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# btcagent configuration\n")
	fmt.Fprintf(&b, "datadir = %s\n", cfg.DataDir)
	fmt.Fprintf(&b, "network = %s\n", cfg.Network)
	fmt.Fprintf(&b, "addresstype = %s\n", cfg.AddressType)
	fmt.Fprintf(&b, "minconfirmations = %d\n", cfg.MinConfirmations)
	fmt.Fprintf(&b, "oracleurl = %s\n", cfg.OracleURL)
	if cfg.OracleUser != "" {
		fmt.Fprintf(&b, "oracleuser = %s\n", cfg.OracleUser)
	}
	if cfg.OraclePassword != "" {
		fmt.Fprintf(&b, "oraclepassword = %s\n", cfg.OraclePassword)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
