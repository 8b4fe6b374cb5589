package configs

import (
	"errors"
	"fmt"
	"time"
)

var Values Config

type (
	Config struct {
		Log    Log    `mapstructure:"log"`
		Bridge Bridge `mapstructure:"bridge"`
		Node   Node   `mapstructure:"node"`
		Stack  Stack  `mapstructure:"stack"`
	}

	Log struct {
		Level string `mapstructure:"level"`
	}

	// Bridge configures the deployment. BridgeBankNetworkDescriptor overrides NetworkDescriptor for BridgeBank only.
	Bridge struct {
		RPCURL                      string        `mapstructure:"rpc-url"`
		ArtifactsPath               string        `mapstructure:"artifacts-path"`
		ContractsDir                string        `mapstructure:"contracts-dir"`
		ContractsRepo               Repository    `mapstructure:"contracts-repo"`
		OutputDir                   string        `mapstructure:"output-dir"`
		Accounts                    Accounts      `mapstructure:"accounts"`
		ValidatorPower              int64         `mapstructure:"validator-power"`
		NetworkDescriptor           int32         `mapstructure:"network-descriptor"`
		BridgeBankNetworkDescriptor int32         `mapstructure:"bridge-bank-network-descriptor"`
		GasLimit                    uint64        `mapstructure:"gas-limit"`
		ConfirmationTimeout         time.Duration `mapstructure:"confirmation-timeout"`
	}

	Repository struct {
		URL string `mapstructure:"url"`
		Ref string `mapstructure:"ref"`
	}

	// Accounts holds hex encoded private keys of the accounts used by the deployment.
	Accounts struct {
		OperatorKey   string   `mapstructure:"operator-key"`
		OwnerKey      string   `mapstructure:"owner-key"`
		PauserKey     string   `mapstructure:"pauser-key"`
		ValidatorKeys []string `mapstructure:"validator-keys"`
	}

	Node struct {
		Image         string `mapstructure:"image"`
		ContainerName string `mapstructure:"container-name"`
		RPCPort       int    `mapstructure:"rpc-port"`
		ChainID       int    `mapstructure:"chain-id"`
	}

	Stack struct {
		Script       string        `mapstructure:"script"`
		WorkDir      string        `mapstructure:"work-dir"`
		ReadyMarker  string        `mapstructure:"ready-marker"`
		ProcessNames []string      `mapstructure:"process-names"`
		GracePeriod  time.Duration `mapstructure:"grace-period"`
	}
)

const (
	DefaultValidatorPower    int64 = 100
	DefaultNetworkDescriptor int32 = 9999
	DefaultReadyMarker             = "cosmos process events for blocks"
)

// DefaultProcessNames is the set of processes terminated when the stack is torn down.
var DefaultProcessNames = []string{"sifnoded", "sifnodecli", "ebrelayer", "ganache-cli"}

func (c *Bridge) Validate() error {
	var errs []error

	if c.RPCURL == "" {
		errs = append(errs, errors.New("bridge.rpc-url is required"))
	}
	if c.ArtifactsPath == "" {
		errs = append(errs, errors.New("bridge.artifacts-path is required"))
	}
	if c.OutputDir == "" {
		errs = append(errs, errors.New("bridge.output-dir is required"))
	}
	if c.Accounts.OperatorKey == "" {
		errs = append(errs, errors.New("bridge.accounts.operator-key is required"))
	}
	if c.Accounts.OwnerKey == "" {
		errs = append(errs, errors.New("bridge.accounts.owner-key is required"))
	}
	if c.Accounts.PauserKey == "" {
		errs = append(errs, errors.New("bridge.accounts.pauser-key is required"))
	}
	if len(c.Accounts.ValidatorKeys) == 0 {
		errs = append(errs, errors.New("bridge.accounts.validator-keys requires at least one key"))
	}
	if c.ValidatorPower < 0 {
		errs = append(errs, errors.New("bridge.validator-power must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("bridge configuration validation failed: %w", errors.Join(errs...))
	}

	return nil
}

func (c *Node) Validate() error {
	var errs []error

	if c.Image == "" {
		errs = append(errs, errors.New("node.image is required"))
	}
	if c.ContainerName == "" {
		errs = append(errs, errors.New("node.container-name is required"))
	}
	if c.RPCPort <= 0 || c.RPCPort > 65535 {
		errs = append(errs, fmt.Errorf("node.rpc-port %d is out of range", c.RPCPort))
	}
	if c.ChainID == 0 {
		errs = append(errs, errors.New("node.chain-id is required"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("node configuration validation failed: %w", errors.Join(errs...))
	}

	return nil
}

func (c *Stack) Validate() error {
	var errs []error

	if c.Script == "" {
		errs = append(errs, errors.New("stack.script is required"))
	}
	if c.ReadyMarker == "" {
		errs = append(errs, errors.New("stack.ready-marker is required"))
	}
	if c.GracePeriod < 0 {
		errs = append(errs, errors.New("stack.grace-period must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("stack configuration validation failed: %w", errors.Join(errs...))
	}

	return nil
}
