package bridge

import (
	"github.com/spf13/viper"
)

// flagDef defines a command-line flag with its configuration.
type (
	flagType interface {
		string | int | []string
	}

	flagDef[T flagType] struct {
		name         string
		viperKey     string
		defaultValue T
		description  string
	}
)

var (
	stringFlags = []flagDef[string]{
		{"rpc-url", "bridge.rpc-url", "http://localhost:8545", "RPC URL of the EVM node the bridge is deployed to"},
		{"artifacts-path", "bridge.artifacts-path", ".localnet/compiled/contracts.json", "Path of the compiled contracts.json"},
		{"contracts-dir", "bridge.contracts-dir", ".localnet/services/smart-contracts", "Foundry project holding the bridge contracts"},
		{"contracts-repo-url", "bridge.contracts-repo.url", "", "Git URL of the Foundry project cloned into contracts-dir"},
		{"contracts-repo-ref", "bridge.contracts-repo.ref", "", "Branch or tag of the contracts repository"},
		{"output-dir", "bridge.output-dir", ".localnet/deployments", "Directory receiving deployments.yaml and deployments.json"},
		{"confirmation-timeout", "bridge.confirmation-timeout", "2m", "How long to wait for each transaction receipt"},

		// Accounts (no defaults - must be explicitly set in config or via CLI)
		{"operator-key", "bridge.accounts.operator-key", "", "Operator private key"},
		{"owner-key", "bridge.accounts.owner-key", "", "Owner private key"},
		{"pauser-key", "bridge.accounts.pauser-key", "", "Pauser private key"},
	}

	intFlags = []flagDef[int]{
		{"validator-power", "bridge.validator-power", 100, "Consensus power assigned to each validator"},
		{"network-descriptor", "bridge.network-descriptor", 9999, "Network descriptor passed to CosmosBridge and, unless overridden, BridgeBank"},
		{"bridge-bank-network-descriptor", "bridge.bridge-bank-network-descriptor", 0, "Network descriptor passed to BridgeBank, 0 reuses network-descriptor"},
		{"gas-limit", "bridge.gas-limit", 6_000_000, "Gas limit of every deployment transaction"},
	}

	stringSliceFlags = []flagDef[[]string]{
		{"validator-keys", "bridge.accounts.validator-keys", nil, "Validator private keys"},
	}
)

func init() {
	if err := declareFlags(stringFlags); err != nil {
		panic(err)
	}
	if err := declareFlags(intFlags); err != nil {
		panic(err)
	}
	if err := declareFlags(stringSliceFlags); err != nil {
		panic(err)
	}
	CMD.AddCommand(compileCmd)
	CMD.AddCommand(balanceCmd)
}

// declareFlags declares multiple flags and binds them to viper configuration keys.
func declareFlags[T flagType](flags []flagDef[T]) error {
	for _, flag := range flags {
		if err := declareFlag(flag.name, flag.viperKey, flag.defaultValue, flag.description); err != nil {
			return err
		}
	}
	return nil
}

// declareFlag declares a persistent flag shared by the bridge subcommands and binds it to a viper key.
func declareFlag[T flagType](flagName, viperKey string, defaultValue T, description string) error {
	flags := CMD.PersistentFlags()

	switch value := any(defaultValue).(type) {
	case string:
		flags.String(flagName, value, description)
	case int:
		flags.Int(flagName, value, description)
	case []string:
		flags.StringSlice(flagName, value, description)
	}
	return viper.BindPFlag(viperKey, flags.Lookup(flagName))
}
