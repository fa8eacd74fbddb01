package drips

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/radicle-dev/drips-go/contract"
)

// UserMetadata is one key-value pair emitted with EmitUserMetadata. The
// protocol stores nothing; the pairs only surface as an on-chain event
// for indexers to pick up.
type UserMetadata struct {
	Key   [32]byte
	Value []byte
}

var (
	maxUint128 = maxForBits(128)
	minInt128  = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	maxInt128  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
)

// AddressDriverClient is the user-facing client for the AddressDriver
// contract, the driver that derives user IDs from plain addresses.
//
// A client is immutable once constructed: concurrent calls never race on
// client state. Clients built without a signer are read-only; write
// operations on them fail with ErrSignerMissing before any network call.
type AddressDriverClient struct {
	network NetworkConfig
	backend bind.ContractBackend
	driver  *contract.AddressDriver
	signer  *Signer
	opts    *bind.TransactOpts
	metrics *Metrics
	logger  Logger
}

// NewAddressDriverClient connects to the given RPC endpoint and builds a
// signing-capable (Ready-Write) client for the chain's AddressDriver
// deployment, resolved from the default network registry.
func NewAddressDriverClient(rpcURL string, chainID uint32, signer *Signer, logger Logger) (*AddressDriverClient, error) {
	if signer == nil {
		return nil, errArgumentMissing("signer")
	}
	backend, network, err := dialNetwork(rpcURL, chainID, DefaultRegistry())
	if err != nil {
		return nil, err
	}
	return NewAddressDriverClientWithBackend(backend, network, signer, logger)
}

// NewAddressDriverReadonly connects to the given RPC endpoint and builds
// a query-only (Ready-Read) client.
func NewAddressDriverReadonly(rpcURL string, chainID uint32, logger Logger) (*AddressDriverClient, error) {
	backend, network, err := dialNetwork(rpcURL, chainID, DefaultRegistry())
	if err != nil {
		return nil, err
	}
	return NewAddressDriverClientWithBackend(backend, network, nil, logger)
}

// NewAddressDriverClientWithBackend builds a client over an injected
// backend and network metadata. A nil signer produces a read-only client.
func NewAddressDriverClientWithBackend(backend bind.ContractBackend, network NetworkConfig, signer *Signer, logger Logger) (*AddressDriverClient, error) {
	driverAddr, err := ParseAddress(network.ContractAddresses.AddressDriver)
	if err != nil {
		return nil, err
	}
	driver, err := contract.NewAddressDriver(driverAddr, backend)
	if err != nil {
		return nil, fmt.Errorf("failed to bind address driver contract: %w", err)
	}

	var opts *bind.TransactOpts
	if signer != nil {
		opts, err = signer.TransactOpts(network.ChainID)
		if err != nil {
			return nil, err
		}
	}
	if logger == nil {
		logger = NewLogger("drips")
	}

	return &AddressDriverClient{
		network: network,
		backend: backend,
		driver:  driver,
		signer:  signer,
		opts:    opts,
		logger:  logger.NewSystem("address-driver").With("chainID", network.ChainID),
	}, nil
}

// WithMetrics attaches a metrics sink to the client and returns it.
func (c *AddressDriverClient) WithMetrics(metrics *Metrics) *AddressDriverClient {
	c.metrics = metrics
	return c
}

// Network returns the immutable network metadata the client was
// constructed with.
func (c *AddressDriverClient) Network() NetworkConfig { return c.network }

// Readonly reports whether the client was constructed without a signer.
func (c *AddressDriverClient) Readonly() bool { return c.signer == nil }

// dialNetwork resolves the chain metadata and connects the RPC transport.
func dialNetwork(rpcURL string, chainID uint32, registry Registry) (bind.ContractBackend, NetworkConfig, error) {
	network, err := registry.Resolve(chainID)
	if err != nil {
		return nil, NetworkConfig{}, err
	}
	if rpcURL == "" {
		rpcURL = network.RPCURL
	}
	if rpcURL == "" {
		return nil, NetworkConfig{}, errArgumentMissing("rpcURL")
	}
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, NetworkConfig{}, fmt.Errorf("failed to connect to blockchain node: %w", err)
	}
	return client, network, nil
}

// requireSigner guards every write operation. Failing here is the whole
// point: a read-only client must not cost the caller a network round trip
// before reporting it cannot sign.
func (c *AddressDriverClient) requireSigner() error {
	if c.signer == nil {
		return newError(ErrCodeSignerMissing,
			"operation requires a signer but the client is read-only", "", nil)
	}
	return nil
}

// transactOpts clones the construction-time options with the call context
// so the immutable client state is never mutated per call.
func (c *AddressDriverClient) transactOpts(ctx context.Context) *bind.TransactOpts {
	opts := *c.opts
	opts.Context = ctx
	return &opts
}

func validateUint128(argument string, value *big.Int) error {
	if value == nil {
		return errArgumentMissing(argument)
	}
	if value.Sign() < 0 {
		return errArgumentRange("value must not be negative", argument, value.String())
	}
	if value.Cmp(maxUint128) > 0 {
		return errArgumentRange("value does not fit in 128 bits", argument, value.String())
	}
	return nil
}

// UserID returns the protocol user identifier minted for the signer's
// address.
func (c *AddressDriverClient) UserID(ctx context.Context) (*big.Int, error) {
	if err := c.requireSigner(); err != nil {
		return nil, err
	}
	return c.UserIDByAddress(ctx, c.signer.Address())
}

// UserIDByAddress returns the protocol user identifier minted for the
// given address. The mapping is deterministic: the same address always
// yields the same identifier on every chain.
func (c *AddressDriverClient) UserIDByAddress(ctx context.Context, addr common.Address) (*big.Int, error) {
	userID, err := c.driver.CalcUserId(&bind.CallOpts{Context: ctx}, addr)
	c.metrics.observeCall(c.network.ChainID, "calcUserId", err)
	if err != nil {
		return nil, errContract("calcUserId", err)
	}
	return userID, nil
}

// Give transfers the given amount of the token to another user's
// splittable balance, a one-off payment outside any stream.
//
// Returns the submitted transaction unresolved; confirmation is the
// caller's concern.
func (c *AddressDriverClient) Give(ctx context.Context, receiverID *big.Int, token common.Address, amount *big.Int) (*types.Transaction, error) {
	if err := c.requireSigner(); err != nil {
		return nil, err
	}
	if receiverID == nil {
		return nil, errArgumentMissing("receiverID")
	}
	if receiverID.Sign() < 0 || receiverID.Cmp(maxUint256) > 0 {
		return nil, errArgumentRange("receiverID does not fit in 256 bits", "receiverID", receiverID.String())
	}
	if err := validateUint128("amount", amount); err != nil {
		return nil, err
	}

	tx, err := c.driver.Give(c.transactOpts(ctx), receiverID, token, amount)
	c.metrics.observeCall(c.network.ChainID, "give", err)
	if err != nil {
		return nil, errContract("give", err)
	}
	c.logger.Debug("submitted give", "txHash", tx.Hash().Hex(), "receiverID", receiverID.String())
	return tx, nil
}

// SetDrips replaces the signer's drips configuration for the token.
//
// currReceivers must be the receivers from the previous SetDrips call
// (empty on first use): the contract hashes them to verify the caller
// knows the current state. balanceDelta moves funds into (positive) or
// out of (negative) the streaming balance; withdrawn funds go to
// transferTo. Both lists are validated and normalized before submission.
func (c *AddressDriverClient) SetDrips(
	ctx context.Context,
	token common.Address,
	currReceivers []DripsReceiver,
	newReceivers []DripsReceiver,
	balanceDelta *big.Int,
	transferTo common.Address,
) (*types.Transaction, error) {
	if err := c.requireSigner(); err != nil {
		return nil, err
	}
	if balanceDelta == nil {
		return nil, errArgumentMissing("balanceDelta")
	}
	if balanceDelta.Cmp(minInt128) < 0 || balanceDelta.Cmp(maxInt128) > 0 {
		return nil, errArgumentRange("balanceDelta does not fit in 128 bits", "balanceDelta", balanceDelta.String())
	}
	curr, err := FormatDripsReceivers(currReceivers)
	if err != nil {
		return nil, err
	}
	next, err := FormatDripsReceivers(newReceivers)
	if err != nil {
		return nil, err
	}

	tx, err := c.driver.SetDrips(c.transactOpts(ctx), token, curr, balanceDelta, next, 0, 0, transferTo)
	c.metrics.observeCall(c.network.ChainID, "setDrips", err)
	if err != nil {
		return nil, errContract("setDrips", err)
	}
	c.logger.Debug("submitted setDrips", "txHash", tx.Hash().Hex(),
		"token", token.Hex(), "receivers", len(next))
	return tx, nil
}

// SetSplits replaces the signer's splits configuration. The list is
// validated and normalized before submission; an empty list clears the
// configuration.
func (c *AddressDriverClient) SetSplits(ctx context.Context, receivers []SplitsReceiver) (*types.Transaction, error) {
	if err := c.requireSigner(); err != nil {
		return nil, err
	}
	formatted, err := FormatSplitsReceivers(receivers)
	if err != nil {
		return nil, err
	}

	tx, err := c.driver.SetSplits(c.transactOpts(ctx), formatted)
	c.metrics.observeCall(c.network.ChainID, "setSplits", err)
	if err != nil {
		return nil, errContract("setSplits", err)
	}
	c.logger.Debug("submitted setSplits", "txHash", tx.Hash().Hex(), "receivers", len(formatted))
	return tx, nil
}

// Collect transfers the signer's already-split collectable balance of the
// token to transferTo.
func (c *AddressDriverClient) Collect(ctx context.Context, token common.Address, transferTo common.Address) (*types.Transaction, error) {
	if err := c.requireSigner(); err != nil {
		return nil, err
	}

	tx, err := c.driver.Collect(c.transactOpts(ctx), token, transferTo)
	c.metrics.observeCall(c.network.ChainID, "collect", err)
	if err != nil {
		return nil, errContract("collect", err)
	}
	c.logger.Debug("submitted collect", "txHash", tx.Hash().Hex(), "token", token.Hex())
	return tx, nil
}

// EmitUserMetadata emits the given key-value pairs as an on-chain event
// attributed to the signer's user ID.
func (c *AddressDriverClient) EmitUserMetadata(ctx context.Context, metadata []UserMetadata) (*types.Transaction, error) {
	if err := c.requireSigner(); err != nil {
		return nil, err
	}
	if len(metadata) == 0 {
		return nil, errArgumentMissing("metadata")
	}
	entries := make([]contract.UserMetadataEntry, len(metadata))
	for i, m := range metadata {
		entries[i] = contract.UserMetadataEntry{Key: m.Key, Value: m.Value}
	}

	tx, err := c.driver.EmitUserMetadata(c.transactOpts(ctx), entries)
	c.metrics.observeCall(c.network.ChainID, "emitUserMetadata", err)
	if err != nil {
		return nil, errContract("emitUserMetadata", err)
	}
	return tx, nil
}

// Allowance returns how much of the token the owner has approved the
// AddressDriver to spend. Available on read-only clients.
func (c *AddressDriverClient) Allowance(ctx context.Context, token common.Address, owner common.Address) (*big.Int, error) {
	erc20, err := contract.NewERC20(token, c.backend)
	if err != nil {
		return nil, errContract("allowance", err)
	}
	driverAddr := common.HexToAddress(c.network.ContractAddresses.AddressDriver)
	allowance, err := erc20.Allowance(&bind.CallOpts{Context: ctx}, owner, driverAddr)
	c.metrics.observeCall(c.network.ChainID, "allowance", err)
	if err != nil {
		return nil, errContract("allowance", err)
	}
	return allowance, nil
}

// Approve approves the AddressDriver to spend the given amount of the
// token on the signer's behalf. Required before SetDrips or Give can
// move funds.
func (c *AddressDriverClient) Approve(ctx context.Context, token common.Address, amount *big.Int) (*types.Transaction, error) {
	if err := c.requireSigner(); err != nil {
		return nil, err
	}
	if amount == nil {
		return nil, errArgumentMissing("amount")
	}
	if amount.Sign() < 0 || amount.Cmp(maxUint256) > 0 {
		return nil, errArgumentRange("amount does not fit in 256 bits", "amount", amount.String())
	}

	erc20, err := contract.NewERC20(token, c.backend)
	if err != nil {
		return nil, errContract("approve", err)
	}
	driverAddr := common.HexToAddress(c.network.ContractAddresses.AddressDriver)
	tx, err := erc20.Approve(c.transactOpts(ctx), driverAddr, amount)
	c.metrics.observeCall(c.network.ChainID, "approve", err)
	if err != nil {
		return nil, errContract("approve", err)
	}
	c.logger.Debug("submitted approve", "txHash", tx.Hash().Hex(), "token", token.Hex())
	return tx, nil
}
