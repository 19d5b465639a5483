package config

import (
	"fmt"
	"time"
)

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the server address used by the client.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
}

// ClientConfig is the configuration of the command-line client.
type ClientConfig struct {
	// Adapter contains client transport address and timeout.
	Adapter ClientAdapter
	// Args holds the positional arguments left after flag parsing:
	// the command name and its operands.
	Args []string
}

// GetClientConfig builds and validates the client configuration from
// defaults, a .env file, environment variables, an optional JSON file and
// the client flags found in args.
func GetClientConfig(args []string) (*ClientConfig, error) {
	b := newConfigBuilder().
		withDotEnv(defaultDotEnvFile).
		withEnv()

	flagsCfg, rest, err := parseClientFlags(args)
	if err != nil {
		return nil, fmt.Errorf("error get client config: %w", err)
	}
	b.flags = flagsCfg

	cfg, err := b.withJSON().build()
	if err != nil {
		return nil, fmt.Errorf("error get client config: %w", err)
	}

	clientCfg := &ClientConfig{
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Args: rest,
	}

	if err = clientCfg.validate(); err != nil {
		return nil, err
	}

	return clientCfg, nil
}
