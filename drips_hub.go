package drips

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/radicle-dev/drips-go/contract"
	"github.com/radicle-dev/drips-go/subgraph"
)

// SubgraphReader is the slice of the subgraph client the hub client
// depends on.
type SubgraphReader interface {
	DripsSetEventsByUserID(ctx context.Context, userID *big.Int) ([]subgraph.DripsSetEvent, error)
}

// UserBalance is a user's receivable balance in one asset.
type UserBalance struct {
	AssetID    *big.Int
	Token      common.Address
	Receivable *big.Int
}

// DripsHistoryEntry is one entry of a sender's drips history, used to
// prove current-cycle amounts when estimating a squeeze.
type DripsHistoryEntry struct {
	DripsHash  [32]byte
	Receivers  []DripsReceiver
	UpdateTime uint32
	MaxEnd     uint32
}

// DripsState is a user's current streaming state for one asset as stored
// by the hub.
type DripsState struct {
	DripsHash        [32]byte
	DripsHistoryHash [32]byte
	UpdateTime       time.Time
	Balance          *big.Int
	MaxEnd           uint32
}

// SplitResult is the outcome of simulating a split of the given amount
// through a user's splits configuration.
type SplitResult struct {
	Collectable *big.Int
	Split       *big.Int
}

// DripsHubClient is a read-only client for the DripsHub contract, the
// protocol core that accounts for all streamed and split funds.
//
// All operations are queries; moving funds goes through a driver client.
// The client is immutable once constructed and safe for concurrent use.
type DripsHubClient struct {
	network  NetworkConfig
	hub      *contract.DripsHub
	subgraph SubgraphReader
	clock    clockwork.Clock
	metrics  *Metrics
	logger   Logger
}

// NewDripsHubClient connects to the given RPC endpoint and builds a hub
// client for the chain's DripsHub deployment, resolved from the default
// network registry. The network's subgraph endpoint backs the aggregate
// balance queries.
func NewDripsHubClient(rpcURL string, chainID uint32, logger Logger) (*DripsHubClient, error) {
	backend, network, err := dialNetwork(rpcURL, chainID, DefaultRegistry())
	if err != nil {
		return nil, err
	}
	var reader SubgraphReader
	if network.SubgraphURL != "" {
		reader = subgraph.NewClient(network.SubgraphURL)
	}
	return NewDripsHubClientWithBackend(backend, network, reader, logger)
}

// NewDripsHubClientWithBackend builds a hub client over an injected
// backend, network metadata and subgraph reader. A nil reader disables
// the aggregate balance queries.
func NewDripsHubClientWithBackend(backend bind.ContractBackend, network NetworkConfig, reader SubgraphReader, logger Logger) (*DripsHubClient, error) {
	hubAddr, err := ParseAddress(network.ContractAddresses.Hub)
	if err != nil {
		return nil, err
	}
	hub, err := contract.NewDripsHub(hubAddr, backend)
	if err != nil {
		return nil, fmt.Errorf("failed to bind drips hub contract: %w", err)
	}
	if logger == nil {
		logger = NewLogger("drips")
	}

	return &DripsHubClient{
		network:  network,
		hub:      hub,
		subgraph: reader,
		clock:    clockwork.NewRealClock(),
		logger:   logger.NewSystem("drips-hub").With("chainID", network.ChainID),
	}, nil
}

// WithMetrics attaches a metrics sink to the client and returns it.
func (c *DripsHubClient) WithMetrics(metrics *Metrics) *DripsHubClient {
	c.metrics = metrics
	return c
}

// WithClock replaces the client's time source and returns it. Used by
// tests to pin CurrentCycleInfo to a fake clock.
func (c *DripsHubClient) WithClock(clock clockwork.Clock) *DripsHubClient {
	c.clock = clock
	return c
}

// Network returns the immutable network metadata the client was
// constructed with.
func (c *DripsHubClient) Network() NetworkConfig { return c.network }

// CycleSecs returns the cycle length the hub was deployed with. The
// value is a contract immutable so callers may cache it for the life of
// the process.
func (c *DripsHubClient) CycleSecs(ctx context.Context) (uint32, error) {
	secs, err := c.hub.CycleSecs(&bind.CallOpts{Context: ctx})
	c.metrics.observeCall(c.network.ChainID, "cycleSecs", err)
	if err != nil {
		return 0, errContract("cycleSecs", err)
	}
	return secs, nil
}

// ReceivableCycles returns how many already-finished cycles hold funds
// streamed to the user in the asset that have not been received yet.
func (c *DripsHubClient) ReceivableCycles(ctx context.Context, userID, assetID *big.Int) (uint32, error) {
	if err := validateIDPair(userID, assetID); err != nil {
		return 0, err
	}
	cycles, err := c.hub.ReceivableDripsCycles(&bind.CallOpts{Context: ctx}, userID, assetID)
	c.metrics.observeCall(c.network.ChainID, "receivableDripsCycles", err)
	if err != nil {
		return 0, errContract("receivableDripsCycles", err)
	}
	return cycles, nil
}

// ReceivableBalance returns the amount the user could receive in the
// asset from up to maxCycles finished cycles. Pass the maximum uint32 to
// cover all cycles.
func (c *DripsHubClient) ReceivableBalance(ctx context.Context, userID, assetID *big.Int, maxCycles uint32) (*big.Int, error) {
	if err := validateIDPair(userID, assetID); err != nil {
		return nil, err
	}
	amt, err := c.hub.ReceiveDripsResult(&bind.CallOpts{Context: ctx}, userID, assetID, maxCycles)
	c.metrics.observeCall(c.network.ChainID, "receiveDripsResult", err)
	if err != nil {
		return nil, errContract("receiveDripsResult", err)
	}
	return amt, nil
}

// SqueezableBalance returns the amount the user could squeeze from the
// sender's still-running cycle, proven by the sender's drips history
// starting after historyHash.
func (c *DripsHubClient) SqueezableBalance(
	ctx context.Context,
	userID, assetID, senderID *big.Int,
	historyHash [32]byte,
	history []DripsHistoryEntry,
) (*big.Int, error) {
	if err := validateIDPair(userID, assetID); err != nil {
		return nil, err
	}
	if senderID == nil {
		return nil, errArgumentMissing("senderID")
	}

	entries := make([]contract.DripsHistoryEntry, len(history))
	for i, h := range history {
		receivers, err := FormatDripsReceivers(h.Receivers)
		if err != nil {
			return nil, err
		}
		entries[i] = contract.DripsHistoryEntry{
			DripsHash:  h.DripsHash,
			Receivers:  receivers,
			UpdateTime: h.UpdateTime,
			MaxEnd:     h.MaxEnd,
		}
	}

	amt, err := c.hub.SqueezeDripsResult(&bind.CallOpts{Context: ctx}, userID, assetID, senderID, historyHash, entries)
	c.metrics.observeCall(c.network.ChainID, "squeezeDripsResult", err)
	if err != nil {
		return nil, errContract("squeezeDripsResult", err)
	}
	return amt, nil
}

// SplittableBalance returns the user's balance in the asset that awaits
// splitting: received streams, gives and incoming splits.
func (c *DripsHubClient) SplittableBalance(ctx context.Context, userID, assetID *big.Int) (*big.Int, error) {
	if err := validateIDPair(userID, assetID); err != nil {
		return nil, err
	}
	amt, err := c.hub.Splittable(&bind.CallOpts{Context: ctx}, userID, assetID)
	c.metrics.observeCall(c.network.ChainID, "splittable", err)
	if err != nil {
		return nil, errContract("splittable", err)
	}
	return amt, nil
}

// SplitResult simulates splitting the given amount through the user's
// current splits receivers, returning the part the user keeps and the
// part forwarded to the receivers.
func (c *DripsHubClient) SplitResult(ctx context.Context, userID *big.Int, currReceivers []SplitsReceiver, amount *big.Int) (SplitResult, error) {
	if userID == nil {
		return SplitResult{}, errArgumentMissing("userID")
	}
	if err := validateUint128("amount", amount); err != nil {
		return SplitResult{}, err
	}
	receivers, err := FormatSplitsReceivers(currReceivers)
	if err != nil {
		return SplitResult{}, err
	}

	result, err := c.hub.SplitResult(&bind.CallOpts{Context: ctx}, userID, receivers, amount)
	c.metrics.observeCall(c.network.ChainID, "splitResult", err)
	if err != nil {
		return SplitResult{}, errContract("splitResult", err)
	}
	return SplitResult{Collectable: result.CollectableAmt, Split: result.SplitAmt}, nil
}

// CollectableBalance returns the user's already-split balance in the
// asset, ready to be collected through a driver.
func (c *DripsHubClient) CollectableBalance(ctx context.Context, userID, assetID *big.Int) (*big.Int, error) {
	if err := validateIDPair(userID, assetID); err != nil {
		return nil, err
	}
	amt, err := c.hub.Collectable(&bind.CallOpts{Context: ctx}, userID, assetID)
	c.metrics.observeCall(c.network.ChainID, "collectable", err)
	if err != nil {
		return nil, errContract("collectable", err)
	}
	return amt, nil
}

// State returns the user's current streaming state for the asset.
func (c *DripsHubClient) State(ctx context.Context, userID, assetID *big.Int) (DripsState, error) {
	if err := validateIDPair(userID, assetID); err != nil {
		return DripsState{}, err
	}
	state, err := c.hub.DripsState(&bind.CallOpts{Context: ctx}, userID, assetID)
	c.metrics.observeCall(c.network.ChainID, "dripsState", err)
	if err != nil {
		return DripsState{}, errContract("dripsState", err)
	}
	return DripsState{
		DripsHash:        state.DripsHash,
		DripsHistoryHash: state.DripsHistoryHash,
		UpdateTime:       time.Unix(int64(state.UpdateTime), 0).UTC(),
		Balance:          state.Balance,
		MaxEnd:           state.MaxEnd,
	}, nil
}

// BalanceAt returns the user's streaming balance in the asset at the
// given timestamp, assuming the supplied receivers are the user's current
// configuration. The timestamp must not precede the configuration's
// update time.
func (c *DripsHubClient) BalanceAt(ctx context.Context, userID, assetID *big.Int, receivers []DripsReceiver, timestamp time.Time) (*big.Int, error) {
	if err := validateIDPair(userID, assetID); err != nil {
		return nil, err
	}
	unix := timestamp.Unix()
	if unix < 0 || unix > int64(^uint32(0)) {
		return nil, errArgumentRange("timestamp does not fit in 32 bits", "timestamp", timestamp.String())
	}
	formatted, err := FormatDripsReceivers(receivers)
	if err != nil {
		return nil, err
	}

	balance, err := c.hub.BalanceAt(&bind.CallOpts{Context: ctx}, userID, assetID, formatted, uint32(unix))
	c.metrics.observeCall(c.network.ChainID, "balanceAt", err)
	if err != nil {
		return nil, errContract("balanceAt", err)
	}
	return balance, nil
}

// CurrentCycleInfo returns the position of the client's clock within the
// network's configured cycle. Purely local; no network calls.
func (c *DripsHubClient) CurrentCycleInfo() (CycleInfo, error) {
	return CurrentCycleInfo(c.network.CycleSecs, c.clock.Now())
}

// GetAllBalancesForUser discovers every asset the user has ever been
// configured to receive, via the subgraph, and queries the hub for the
// receivable balance in each. Per-asset queries run concurrently; any
// failure fails the whole call so partial results never masquerade as
// complete ones.
func (c *DripsHubClient) GetAllBalancesForUser(ctx context.Context, userID *big.Int) ([]UserBalance, error) {
	if userID == nil {
		return nil, errArgumentMissing("userID")
	}
	if c.subgraph == nil {
		return nil, errArgumentMissing("subgraph")
	}

	events, err := c.subgraph.DripsSetEventsByUserID(ctx, userID)
	c.metrics.observeSubgraph(c.network.ChainID, "dripsSetEvents", err)
	if err != nil {
		return nil, newError(ErrCodeSubgraph, "failed to query drips configuration events", "userID", userID.String()).wrap(err)
	}

	// Distinct asset IDs in first-seen order, so the result order is
	// stable across calls for the same history.
	seen := make(map[string]struct{})
	var assetIDs []*big.Int
	for _, event := range events {
		key := event.AssetID.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		assetIDs = append(assetIDs, event.AssetID)
	}

	balances := make([]UserBalance, len(assetIDs))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, assetID := range assetIDs {
		group.Go(func() error {
			receivable, err := c.ReceivableBalance(groupCtx, userID, assetID, ^uint32(0))
			if err != nil {
				return err
			}
			token, err := TokenFromAssetID(assetID)
			if err != nil {
				return err
			}
			balances[i] = UserBalance{AssetID: assetID, Token: token, Receivable: receivable}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	c.logger.Debug("aggregated user balances", "userID", userID.String(), "assets", len(balances))
	return balances, nil
}

func validateIDPair(userID, assetID *big.Int) error {
	if userID == nil {
		return errArgumentMissing("userID")
	}
	if assetID == nil {
		return errArgumentMissing("assetID")
	}
	return nil
}
