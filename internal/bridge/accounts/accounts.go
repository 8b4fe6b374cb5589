package accounts

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/compose-network/peggy-localnet/configs"
	"github.com/compose-network/peggy-localnet/internal/logger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

type Role string

const (
	RoleOperator  Role = "operator"
	RoleOwner     Role = "owner"
	RolePauser    Role = "pauser"
	RoleValidator Role = "validator"
)

type (
	// Account is a signing account with the role it plays in the bridge deployment.
	Account struct {
		Role    Role
		Address common.Address
		Key     *ecdsa.PrivateKey
	}

	// Accounts is the fixed set of named accounts used as deployment arguments.
	Accounts struct {
		Operator   Account
		Owner      Account
		Pauser     Account
		Validators []Account
	}

	Source interface {
		Accounts(ctx context.Context) (Accounts, error)
	}

	// KeySource derives the accounts from configured private keys. Keys are parsed once.
	KeySource struct {
		cfg      configs.Accounts
		once     sync.Once
		accounts Accounts
		err      error
		logger   *slog.Logger
	}
)

var ErrNoValidators = errors.New("validator set is empty")

// NewKeySource creates an account source backed by hex encoded private keys
func NewKeySource(cfg configs.Accounts) *KeySource {
	return &KeySource{
		cfg:    cfg,
		logger: logger.Named("account_source"),
	}
}

func (s *KeySource) Accounts(_ context.Context) (Accounts, error) {
	s.once.Do(func() {
		s.accounts, s.err = s.load()
		if s.err == nil {
			s.logger.
				With("operator", s.accounts.Operator.Address).
				With("owner", s.accounts.Owner.Address).
				With("pauser", s.accounts.Pauser.Address).
				With("validators", len(s.accounts.Validators)).
				Info("accounts loaded")
		}
	})

	return s.accounts, s.err
}

func (s *KeySource) load() (Accounts, error) {
	operator, err := FromKey(RoleOperator, s.cfg.OperatorKey)
	if err != nil {
		return Accounts{}, err
	}
	owner, err := FromKey(RoleOwner, s.cfg.OwnerKey)
	if err != nil {
		return Accounts{}, err
	}
	pauser, err := FromKey(RolePauser, s.cfg.PauserKey)
	if err != nil {
		return Accounts{}, err
	}

	if len(s.cfg.ValidatorKeys) == 0 {
		return Accounts{}, ErrNoValidators
	}

	validators := make([]Account, 0, len(s.cfg.ValidatorKeys))
	for i, key := range s.cfg.ValidatorKeys {
		validator, err := FromKey(RoleValidator, key)
		if err != nil {
			return Accounts{}, fmt.Errorf("validator %d: %w", i, err)
		}
		validators = append(validators, validator)
	}

	return Accounts{
		Operator:   operator,
		Owner:      owner,
		Pauser:     pauser,
		Validators: validators,
	}, nil
}

// FromKey derives an account from a hex encoded private key
func FromKey(role Role, privateKeyHex string) (Account, error) {
	privateKeyHex = strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x")

	privateKey, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return Account{}, fmt.Errorf("failed to parse %s private key: %w", role, err)
	}

	publicKeyECDSA, ok := privateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return Account{}, fmt.Errorf("failed to cast %s public key to ECDSA", role)
	}

	return Account{
		Role:    role,
		Address: crypto.PubkeyToAddress(*publicKeyECDSA),
		Key:     privateKey,
	}, nil
}

// ValidatorAddresses returns the validator addresses in configuration order
func (a Accounts) ValidatorAddresses() []common.Address {
	addresses := make([]common.Address, 0, len(a.Validators))
	for _, validator := range a.Validators {
		addresses = append(addresses, validator.Address)
	}
	return addresses
}
