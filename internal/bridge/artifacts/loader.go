package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// LoadArtifacts reads a contracts.json file produced by the compiler.
func LoadArtifacts(path string) (map[ContractName]Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read compiled contracts: %w", err)
	}

	return parseArtifacts(data)
}

// parseArtifacts parses contract JSON data into an Artifact map. Unknown contracts are skipped.
func parseArtifacts(data []byte) (map[ContractName]Artifact, error) {
	var result map[string]compiledContract

	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse compiled contracts: %w", err)
	}

	loaded := make(map[ContractName]Artifact)

	for name, contract := range result {
		if _, ok := Contracts[ContractName(name)]; !ok {
			continue
		}

		parsedABI, err := abi.JSON(strings.NewReader(string(contract.ABI)))
		if err != nil {
			return nil, fmt.Errorf("failed to parse ABI for %s: %w", name, err)
		}

		bytecode := common.FromHex(strings.TrimSpace(contract.Bytecode))
		if len(bytecode) == 0 {
			return nil, fmt.Errorf("%s: %w", name, ErrEmptyBytecode)
		}

		loaded[ContractName(name)] = Artifact{
			Name:     ContractName(name),
			ABI:      parsedABI,
			RawABI:   string(contract.ABI),
			Bytecode: bytecode,
		}
	}

	return loaded, nil
}
