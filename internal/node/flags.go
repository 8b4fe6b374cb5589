package node

import (
	"github.com/compose-network/peggy-localnet/configs"
	"github.com/spf13/viper"
)

func init() {
	defaults := configs.MustDefaultConfig().Node

	declareStringFlag("image", "node.image", defaults.Image, "Docker image providing the anvil binary")
	declareStringFlag("container-name", "node.container-name", defaults.ContainerName, "Name of the node container")
	declareIntFlag("rpc-port", "node.rpc-port", defaults.RPCPort, "Host port the node RPC is published on")
	declareIntFlag("chain-id", "node.chain-id", defaults.ChainID, "Chain ID of the local node")
}

func declareStringFlag(name, key, defaultValue, description string) {
	CMD.PersistentFlags().String(name, defaultValue, description)
	if err := viper.BindPFlag(key, CMD.PersistentFlags().Lookup(name)); err != nil {
		panic(err)
	}
}

func declareIntFlag(name, key string, defaultValue int, description string) {
	CMD.PersistentFlags().Int(name, defaultValue, description)
	if err := viper.BindPFlag(key, CMD.PersistentFlags().Lookup(name)); err != nil {
		panic(err)
	}
}
