package artifacts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/compose-network/peggy-localnet/internal/infra/filesystem"
	"github.com/compose-network/peggy-localnet/internal/logger"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ErrEmptyBytecode is returned for contracts that compile to no creation code, such as abstract contracts.
var ErrEmptyBytecode = errors.New("contract has no deployable bytecode")

type (
	// Forge runs a forge subcommand inside dir and returns its standard output.
	Forge func(ctx context.Context, dir string, args ...string) ([]byte, error)

	// compiledContract is one entry of contracts.json
	compiledContract struct {
		ABI      json.RawMessage `json:"abi"`
		Bytecode string          `json:"bytecode"`
	}

	// Compiler builds the bridge contracts with forge and writes the artifacts file read by FileSource
	Compiler struct {
		contractsDir string
		outputPath   string
		forge        Forge
		writer       filesystem.Writer
		logger       *slog.Logger
	}
)

func NewCompiler(contractsDir, outputPath string, writer filesystem.Writer) *Compiler {
	return &Compiler{
		contractsDir: contractsDir,
		outputPath:   outputPath,
		forge:        runForge,
		writer:       writer,
		logger:       logger.Named("contracts_compiler"),
	}
}

// Compile builds the project once, inspects every named contract and writes them to the output path.
// Nothing is written unless every contract has an ABI and creation code.
func (c *Compiler) Compile(ctx context.Context, names []ContractName) (string, error) {
	c.logger.With("contracts_dir", c.contractsDir).Info("installing forge dependencies")
	if _, err := c.forge(ctx, c.contractsDir, "install"); err != nil {
		return "", fmt.Errorf("failed to install dependencies: %w", err)
	}

	c.logger.Info("building contracts")
	if _, err := c.forge(ctx, c.contractsDir, "build"); err != nil {
		return "", fmt.Errorf("failed to build contracts: %w", err)
	}

	compiled := make(map[ContractName]compiledContract, len(names))
	var errs []error
	for _, name := range names {
		contract, err := c.inspect(ctx, name)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		compiled[name] = contract
	}
	if err := errors.Join(errs...); err != nil {
		return "", fmt.Errorf("failed to compile contracts: %w", err)
	}

	if err := c.writer.WriteJSON(c.outputPath, compiled); err != nil {
		return "", err
	}

	c.logger.
		With("path", c.outputPath).
		With("contracts", len(compiled)).
		Info("contracts compiled")

	return c.outputPath, nil
}

func (c *Compiler) inspect(ctx context.Context, name ContractName) (compiledContract, error) {
	abiOutput, err := c.forge(ctx, c.contractsDir, "inspect", string(name), "abi", "--json")
	if err != nil {
		return compiledContract{}, fmt.Errorf("failed to get ABI: %w", err)
	}
	abiOutput = bytes.TrimSpace(abiOutput)
	if _, err := abi.JSON(bytes.NewReader(abiOutput)); err != nil {
		return compiledContract{}, fmt.Errorf("failed to parse ABI: %w", err)
	}

	bytecodeOutput, err := c.forge(ctx, c.contractsDir, "inspect", string(name), "bytecode")
	if err != nil {
		return compiledContract{}, fmt.Errorf("failed to get bytecode: %w", err)
	}
	bytecode := strings.TrimSpace(string(bytecodeOutput))
	if len(common.FromHex(bytecode)) == 0 {
		return compiledContract{}, ErrEmptyBytecode
	}

	c.logger.
		With("name", name).
		With("bytecode_size", len(common.FromHex(bytecode))).
		Debug("contract inspected")

	return compiledContract{ABI: json.RawMessage(abiOutput), Bytecode: bytecode}, nil
}

func runForge(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "forge", args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("forge %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}

	return output, nil
}
