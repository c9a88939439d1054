package config

import "errors"

var (
	// ErrInvalidNetwork indicates the network name is not recognized.
	ErrInvalidNetwork = errors.New("config: invalid network (must be \"mainnet\", \"testnet\", or \"regtest\")")

	// ErrInvalidAddressType indicates the address type is not recognized.
	ErrInvalidAddressType = errors.New("config: invalid address type (must be \"p2pkh\")")

	// ErrMinConfirmationsTooHigh indicates the confirmation threshold is
	// above the oracle's upper bound.
	ErrMinConfirmationsTooHigh = errors.New("config: min confirmations above upper bound")

	// ErrInvalidOracleURL indicates the oracle endpoint URL is malformed.
	ErrInvalidOracleURL = errors.New("config: invalid oracle URL")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigLine indicates a line in the config file is malformed.
	ErrInvalidConfigLine = errors.New("config: invalid configuration line")
)
