package config

import (
	"fmt"
	"net/url"

	"github.com/btcagentorg/libbtcagent-go/derivation"
	"github.com/btcagentorg/libbtcagent-go/oracle"
)

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if _, err := cfg.ResolveNetwork(); err != nil {
		return err
	}
	if _, err := cfg.ResolveAddressType(); err != nil {
		return err
	}

	if cfg.MinConfirmations > oracle.MinConfirmationsUpperBound {
		return fmt.Errorf("%w: %d > %d", ErrMinConfirmationsTooHigh,
			cfg.MinConfirmations, oracle.MinConfirmationsUpperBound)
	}

	if err := validateURL(cfg.OracleURL); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOracleURL, err)
	}

	return nil
}

// ResolveNetwork maps the configured network name to its derivation constant.
func (cfg Config) ResolveNetwork() (derivation.Network, error) {
	network, err := derivation.ParseNetwork(cfg.Network)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNetwork, cfg.Network)
	}
	return network, nil
}

// ResolveAddressType maps the configured address type name to its derivation
// constant.
func (cfg Config) ResolveAddressType() (derivation.AddressType, error) {
	addrType, err := derivation.ParseAddressType(cfg.AddressType)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAddressType, cfg.AddressType)
	}
	return addrType, nil
}

// validateURL checks that addr is an absolute http or https URL.
func validateURL(addr string) error {
	u, err := url.Parse(addr)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}
