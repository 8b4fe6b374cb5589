package configs

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

var (
	//go:embed config.example.yaml
	defaultConfigYAML string

	defaultConfigOnce sync.Once
	defaultConfig     Config
	defaultConfigErr  error
)

// DefaultConfig returns the parsed configuration from the embedded config.example.yaml.
func DefaultConfig() (Config, error) {
	defaultConfigOnce.Do(func() {
		v := viper.New()
		v.SetConfigType("yaml")
		if err := v.ReadConfig(strings.NewReader(defaultConfigYAML)); err != nil {
			defaultConfigErr = fmt.Errorf("failed to read embedded config.example.yaml: %w", err)
			return
		}

		if err := v.Unmarshal(&defaultConfig); err != nil {
			defaultConfigErr = fmt.Errorf("failed to decode embedded config.example.yaml: %w", err)
			return
		}
	})

	if defaultConfigErr != nil {
		return Config{}, defaultConfigErr
	}

	return defaultConfig, nil
}

// MustDefaultConfig returns embedded defaults or panics if they cannot be loaded.
func MustDefaultConfig() Config {
	cfg, err := DefaultConfig()
	if err != nil {
		panic(err)
	}
	return cfg
}

// ApplyDefaults fills zero values of the bridge section with the built-in constants.
func (c *Bridge) ApplyDefaults() {
	if c.ValidatorPower == 0 {
		c.ValidatorPower = DefaultValidatorPower
	}
	if c.NetworkDescriptor == 0 {
		c.NetworkDescriptor = DefaultNetworkDescriptor
	}
	if c.BridgeBankNetworkDescriptor == 0 {
		c.BridgeBankNetworkDescriptor = c.NetworkDescriptor
	}
}

// ApplyDefaults fills zero values of the stack section with the built-in constants.
func (c *Stack) ApplyDefaults() {
	if c.ReadyMarker == "" {
		c.ReadyMarker = DefaultReadyMarker
	}
	if c.ProcessNames == nil {
		c.ProcessNames = DefaultProcessNames
	}
}
