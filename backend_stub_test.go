package drips

import (
	"context"
	"errors"
	"math/big"
	"sync"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// stubBackend is an in-memory bind.ContractBackend. Read calls are
// answered by callFn with pre-encoded return data; the transact path is
// served with static gas and nonce values so submitted transactions can
// be captured without a node.
type stubBackend struct {
	mu     sync.Mutex
	callFn func(call ethereum.CallMsg) ([]byte, error)
	calls  int
	sent   []*types.Transaction
}

func (b *stubBackend) record() {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
}

func (b *stubBackend) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

func (b *stubBackend) sentTransactions() []*types.Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sent
}

func (b *stubBackend) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	b.record()
	return []byte{0x01}, nil
}

func (b *stubBackend) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	b.record()
	if b.callFn == nil {
		return nil, errors.New("unexpected contract call")
	}
	return b.callFn(call)
}

func (b *stubBackend) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	b.record()
	return &types.Header{BaseFee: big.NewInt(1), Number: big.NewInt(1)}, nil
}

func (b *stubBackend) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	b.record()
	return []byte{0x01}, nil
}

func (b *stubBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	b.record()
	return 0, nil
}

func (b *stubBackend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	b.record()
	return big.NewInt(1), nil
}

func (b *stubBackend) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	b.record()
	return big.NewInt(1), nil
}

func (b *stubBackend) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	b.record()
	return 100_000, nil
}

func (b *stubBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	b.sent = append(b.sent, tx)
	return nil
}

func (b *stubBackend) FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	b.record()
	return nil, nil
}

func (b *stubBackend) SubscribeFilterLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	return nil, errors.New("not supported")
}

// encodeWord ABI-encodes a single unsigned integer return value.
func encodeWord(v *big.Int) []byte {
	return common.LeftPadBytes(v.Bytes(), 32)
}

func testNetwork() NetworkConfig {
	return NetworkConfig{
		Name:      "testnet",
		ChainID:   1337,
		CycleSecs: 604_800,
		ContractAddresses: ContractAddressesConfig{
			Hub:           "0x1111111111111111111111111111111111111111",
			AddressDriver: "0x2222222222222222222222222222222222222222",
		},
	}
}
