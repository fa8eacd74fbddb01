package drips

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radicle-dev/drips-go/subgraph"
)

type stubSubgraph struct {
	events []subgraph.DripsSetEvent
	err    error
}

func (s *stubSubgraph) DripsSetEventsByUserID(ctx context.Context, userID *big.Int) ([]subgraph.DripsSetEvent, error) {
	return s.events, s.err
}

func newHubClient(t *testing.T, backend *stubBackend, reader SubgraphReader) *DripsHubClient {
	t.Helper()
	client, err := NewDripsHubClientWithBackend(backend, testNetwork(), reader, nil)
	require.NoError(t, err)
	return client
}

func TestDripsHubClient_CycleSecs(t *testing.T) {
	backend := &stubBackend{
		callFn: func(call ethereum.CallMsg) ([]byte, error) {
			return encodeWord(big.NewInt(604_800)), nil
		},
	}
	client := newHubClient(t, backend, nil)

	secs, err := client.CycleSecs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint32(604_800), secs)
}

func TestDripsHubClient_Balances(t *testing.T) {
	userID := big.NewInt(77)
	assetID := AssetIDFromToken(common.HexToAddress("0x6b175474e89094c44da98b954eedeac495271d0f"))

	t.Run("receivable balance", func(t *testing.T) {
		backend := &stubBackend{
			callFn: func(call ethereum.CallMsg) ([]byte, error) {
				return encodeWord(big.NewInt(1_234)), nil
			},
		}
		client := newHubClient(t, backend, nil)

		amt, err := client.ReceivableBalance(context.Background(), userID, assetID, ^uint32(0))
		require.NoError(t, err)
		assert.Equal(t, int64(1_234), amt.Int64())
	})

	t.Run("splittable balance", func(t *testing.T) {
		backend := &stubBackend{
			callFn: func(call ethereum.CallMsg) ([]byte, error) {
				return encodeWord(big.NewInt(88)), nil
			},
		}
		client := newHubClient(t, backend, nil)

		amt, err := client.SplittableBalance(context.Background(), userID, assetID)
		require.NoError(t, err)
		assert.Equal(t, int64(88), amt.Int64())
	})

	t.Run("collectable balance", func(t *testing.T) {
		backend := &stubBackend{
			callFn: func(call ethereum.CallMsg) ([]byte, error) {
				return encodeWord(big.NewInt(99)), nil
			},
		}
		client := newHubClient(t, backend, nil)

		amt, err := client.CollectableBalance(context.Background(), userID, assetID)
		require.NoError(t, err)
		assert.Equal(t, int64(99), amt.Int64())
	})

	t.Run("nil IDs are rejected locally", func(t *testing.T) {
		backend := &stubBackend{}
		client := newHubClient(t, backend, nil)

		_, err := client.ReceivableBalance(context.Background(), nil, assetID, 1)
		assert.ErrorIs(t, err, ErrArgumentMissing)
		_, err = client.SplittableBalance(context.Background(), userID, nil)
		assert.ErrorIs(t, err, ErrArgumentMissing)
		assert.Zero(t, backend.callCount())
	})

	t.Run("contract failure is wrapped", func(t *testing.T) {
		cause := errors.New("execution reverted")
		backend := &stubBackend{
			callFn: func(call ethereum.CallMsg) ([]byte, error) {
				return nil, cause
			},
		}
		client := newHubClient(t, backend, nil)

		_, err := client.CollectableBalance(context.Background(), userID, assetID)
		require.Error(t, err)
		assert.ErrorIs(t, err, cause)

		var dripsErr *Error
		require.True(t, errors.As(err, &dripsErr))
		assert.Equal(t, ErrCodeContract, dripsErr.Code)
	})
}

func TestDripsHubClient_SplitResult(t *testing.T) {
	backend := &stubBackend{
		callFn: func(call ethereum.CallMsg) ([]byte, error) {
			out := append(encodeWord(big.NewInt(700)), encodeWord(big.NewInt(300))...)
			return out, nil
		},
	}
	client := newHubClient(t, backend, nil)

	result, err := client.SplitResult(context.Background(), big.NewInt(1), []SplitsReceiver{
		{UserID: big.NewInt(2), Weight: 300_000},
	}, big.NewInt(1_000))
	require.NoError(t, err)

	assert.Equal(t, int64(700), result.Collectable.Int64())
	assert.Equal(t, int64(300), result.Split.Int64())
}

func TestDripsHubClient_State(t *testing.T) {
	var dripsHash, historyHash [32]byte
	dripsHash[0] = 0xaa
	historyHash[0] = 0xbb
	updateTime := big.NewInt(1_672_876_800)

	backend := &stubBackend{
		callFn: func(call ethereum.CallMsg) ([]byte, error) {
			out := dripsHash[:]
			out = append(out, historyHash[:]...)
			out = append(out, encodeWord(updateTime)...)
			out = append(out, encodeWord(big.NewInt(5_000))...)
			out = append(out, encodeWord(big.NewInt(123))...)
			return out, nil
		},
	}
	client := newHubClient(t, backend, nil)

	state, err := client.State(context.Background(), big.NewInt(1), big.NewInt(2))
	require.NoError(t, err)

	assert.Equal(t, dripsHash, state.DripsHash)
	assert.Equal(t, historyHash, state.DripsHistoryHash)
	assert.Equal(t, time.Unix(1_672_876_800, 0).UTC(), state.UpdateTime)
	assert.Equal(t, int64(5_000), state.Balance.Int64())
	assert.Equal(t, uint32(123), state.MaxEnd)
}

func TestDripsHubClient_BalanceAt(t *testing.T) {
	backend := &stubBackend{
		callFn: func(call ethereum.CallMsg) ([]byte, error) {
			return encodeWord(big.NewInt(42)), nil
		},
	}
	client := newHubClient(t, backend, nil)

	receivers := []DripsReceiver{
		{UserID: big.NewInt(2), Config: DripsReceiverConfig{AmountPerSec: big.NewInt(10)}},
	}

	t.Run("queries the balance at a timestamp", func(t *testing.T) {
		balance, err := client.BalanceAt(context.Background(), big.NewInt(1), big.NewInt(2),
			receivers, time.Unix(1_672_876_800, 0))
		require.NoError(t, err)
		assert.Equal(t, int64(42), balance.Int64())
	})

	t.Run("rejects a timestamp outside 32 bits", func(t *testing.T) {
		_, err := client.BalanceAt(context.Background(), big.NewInt(1), big.NewInt(2),
			receivers, time.Unix(1<<33, 0))
		assert.ErrorIs(t, err, ErrArgumentRange)
	})
}

func TestDripsHubClient_CurrentCycleInfo(t *testing.T) {
	boundary := time.Unix(1_672_876_800, 0).UTC()
	clock := clockwork.NewFakeClockAt(boundary.Add(3 * time.Hour))

	client := newHubClient(t, &stubBackend{}, nil).WithClock(clock)

	info, err := client.CurrentCycleInfo()
	require.NoError(t, err)

	assert.Equal(t, uint32(604_800), info.CycleDurationSecs)
	assert.Equal(t, uint32(3*3600), info.CurrentCycleSecs)
	assert.Equal(t, boundary, info.CurrentCycleStart)
}

func TestDripsHubClient_GetAllBalancesForUser(t *testing.T) {
	userID := big.NewInt(77)
	tokenA := common.HexToAddress("0x6b175474e89094c44da98b954eedeac495271d0f")
	tokenB := common.HexToAddress("0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48")
	assetA := AssetIDFromToken(tokenA)
	assetB := AssetIDFromToken(tokenB)

	events := []subgraph.DripsSetEvent{
		{UserID: userID, AssetID: assetA},
		{UserID: userID, AssetID: assetB},
		{UserID: userID, AssetID: assetA}, // reconfiguration of an already-seen asset
	}

	// Echo the queried asset ID back as the receivable amount so the test
	// can tell the per-asset results apart. Calldata layout is the 4-byte
	// selector followed by the uint256 arguments.
	echoBackend := func() *stubBackend {
		return &stubBackend{
			callFn: func(call ethereum.CallMsg) ([]byte, error) {
				return encodeWord(new(big.Int).SetBytes(call.Data[36:68])), nil
			},
		}
	}

	t.Run("aggregates distinct assets in first-seen order", func(t *testing.T) {
		client := newHubClient(t, echoBackend(), &stubSubgraph{events: events})

		balances, err := client.GetAllBalancesForUser(context.Background(), userID)
		require.NoError(t, err)

		require.Len(t, balances, 2)
		assert.Zero(t, balances[0].AssetID.Cmp(assetA))
		assert.Equal(t, tokenA, balances[0].Token)
		assert.Zero(t, balances[0].Receivable.Cmp(assetA))
		assert.Zero(t, balances[1].AssetID.Cmp(assetB))
		assert.Equal(t, tokenB, balances[1].Token)
	})

	t.Run("no history yields an empty result", func(t *testing.T) {
		client := newHubClient(t, &stubBackend{}, &stubSubgraph{})

		balances, err := client.GetAllBalancesForUser(context.Background(), userID)
		require.NoError(t, err)
		assert.Empty(t, balances)
	})

	t.Run("subgraph failure fails the call", func(t *testing.T) {
		client := newHubClient(t, &stubBackend{}, &stubSubgraph{err: errors.New("indexer down")})

		_, err := client.GetAllBalancesForUser(context.Background(), userID)
		require.Error(t, err)

		var dripsErr *Error
		require.True(t, errors.As(err, &dripsErr))
		assert.Equal(t, ErrCodeSubgraph, dripsErr.Code)
	})

	t.Run("any contract failure fails the whole call", func(t *testing.T) {
		cause := errors.New("execution reverted")
		backend := &stubBackend{
			callFn: func(call ethereum.CallMsg) ([]byte, error) {
				if new(big.Int).SetBytes(call.Data[36:68]).Cmp(assetB) == 0 {
					return nil, cause
				}
				return encodeWord(big.NewInt(1)), nil
			},
		}
		client := newHubClient(t, backend, &stubSubgraph{events: events})

		_, err := client.GetAllBalancesForUser(context.Background(), userID)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("missing subgraph reader", func(t *testing.T) {
		client := newHubClient(t, &stubBackend{}, nil)

		_, err := client.GetAllBalancesForUser(context.Background(), userID)
		assert.ErrorIs(t, err, ErrArgumentMissing)
	})
}
