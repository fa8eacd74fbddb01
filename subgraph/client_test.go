package subgraph

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler func(t *testing.T, req graphqlRequest) (int, string)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req graphqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		status, body := handler(t, req)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestClient_DripsSetEventsByUserID(t *testing.T) {
	t.Run("decodes events", func(t *testing.T) {
		server := newTestServer(t, func(t *testing.T, req graphqlRequest) (int, string) {
			assert.Equal(t, "77", req.Variables["userId"])

			return http.StatusOK, `{"data": {"dripsSetEvents": [
				{
					"userId": "77",
					"assetId": "613162980869536676376821515013437147183700485391",
					"balance": "1000000000000000000",
					"blockTimestamp": "1672876800",
					"maxEnd": "1675468800",
					"dripsHistoryHash": "0xabc123",
					"dripsReceiverSeenEvents": [
						{"receiverUserId": "42", "config": "774763251095801167872"}
					]
				}
			]}}`
		})

		client := NewClient(server.URL)
		events, err := client.DripsSetEventsByUserID(context.Background(), big.NewInt(77))
		require.NoError(t, err)

		require.Len(t, events, 1)
		event := events[0]
		assert.Equal(t, int64(77), event.UserID.Int64())
		assert.Equal(t, "613162980869536676376821515013437147183700485391", event.AssetID.String())
		assert.Equal(t, "1000000000000000000", event.Balance.String())
		assert.Equal(t, time.Unix(1_672_876_800, 0).UTC(), event.BlockTimestamp)
		assert.Equal(t, uint64(1_675_468_800), event.MaxEnd)
		assert.Equal(t, "0xabc123", event.DripsHistoryHash)
		require.Len(t, event.Receivers, 1)
		assert.Equal(t, int64(42), event.Receivers[0].ReceiverUserID.Int64())
		assert.Equal(t, "774763251095801167872", event.Receivers[0].Config.String())
	})

	t.Run("empty history", func(t *testing.T) {
		server := newTestServer(t, func(t *testing.T, req graphqlRequest) (int, string) {
			return http.StatusOK, `{"data": {"dripsSetEvents": []}}`
		})

		client := NewClient(server.URL)
		events, err := client.DripsSetEventsByUserID(context.Background(), big.NewInt(1))
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("graphql error envelope", func(t *testing.T) {
		server := newTestServer(t, func(t *testing.T, req graphqlRequest) (int, string) {
			return http.StatusOK, `{"errors": [{"message": "indexing error"}]}`
		})

		client := NewClient(server.URL)
		_, err := client.DripsSetEventsByUserID(context.Background(), big.NewInt(1))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "indexing error")
	})

	t.Run("http error status", func(t *testing.T) {
		server := newTestServer(t, func(t *testing.T, req graphqlRequest) (int, string) {
			return http.StatusBadGateway, `upstream unavailable`
		})

		client := NewClient(server.URL)
		_, err := client.DripsSetEventsByUserID(context.Background(), big.NewInt(1))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("malformed numeric field", func(t *testing.T) {
		server := newTestServer(t, func(t *testing.T, req graphqlRequest) (int, string) {
			return http.StatusOK, `{"data": {"dripsSetEvents": [
				{"userId": "not-a-number", "assetId": "1", "balance": "0", "blockTimestamp": "0", "maxEnd": "0"}
			]}}`
		})

		client := NewClient(server.URL)
		_, err := client.DripsSetEventsByUserID(context.Background(), big.NewInt(1))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "userId")
	})

	t.Run("nil user ID", func(t *testing.T) {
		client := NewClient("http://localhost:0")
		_, err := client.DripsSetEventsByUserID(context.Background(), nil)
		assert.Error(t, err)
	})

	t.Run("context cancellation", func(t *testing.T) {
		server := newTestServer(t, func(t *testing.T, req graphqlRequest) (int, string) {
			return http.StatusOK, `{"data": {"dripsSetEvents": []}}`
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := NewClient(server.URL)
		_, err := client.DripsSetEventsByUserID(ctx, big.NewInt(1))
		assert.Error(t, err)
	})
}

func TestClient_SplitsEntriesByUserID(t *testing.T) {
	t.Run("decodes entries", func(t *testing.T) {
		server := newTestServer(t, func(t *testing.T, req graphqlRequest) (int, string) {
			assert.Equal(t, "9", req.Variables["userId"])

			return http.StatusOK, `{"data": {"splitsEntries": [
				{"senderId": "9", "userId": "11", "weight": "250000"},
				{"senderId": "9", "userId": "12", "weight": "750000"}
			]}}`
		})

		client := NewClient(server.URL)
		entries, err := client.SplitsEntriesByUserID(context.Background(), big.NewInt(9))
		require.NoError(t, err)

		require.Len(t, entries, 2)
		assert.Equal(t, int64(9), entries[0].SenderID.Int64())
		assert.Equal(t, int64(11), entries[0].UserID.Int64())
		assert.Equal(t, uint32(250_000), entries[0].Weight)
		assert.Equal(t, uint32(750_000), entries[1].Weight)
	})

	t.Run("weight out of range", func(t *testing.T) {
		server := newTestServer(t, func(t *testing.T, req graphqlRequest) (int, string) {
			return http.StatusOK, `{"data": {"splitsEntries": [
				{"senderId": "9", "userId": "11", "weight": "4294967296"}
			]}}`
		})

		client := NewClient(server.URL)
		_, err := client.SplitsEntriesByUserID(context.Background(), big.NewInt(9))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "weight")
	})
}

func TestClient_AssetConfigsByUserID(t *testing.T) {
	t.Run("decodes configs", func(t *testing.T) {
		server := newTestServer(t, func(t *testing.T, req graphqlRequest) (int, string) {
			assert.Equal(t, "77", req.Variables["userId"])

			return http.StatusOK, `{"data": {"userAssetConfigs": [
				{
					"userId": "77",
					"assetId": "613162980869536676376821515013437147183700485391",
					"balance": "5000000",
					"amountCollected": "120000",
					"lastUpdatedBlockTimestamp": "1672876800"
				}
			]}}`
		})

		client := NewClient(server.URL)
		configs, err := client.AssetConfigsByUserID(context.Background(), big.NewInt(77))
		require.NoError(t, err)

		require.Len(t, configs, 1)
		config := configs[0]
		assert.Equal(t, int64(77), config.UserID.Int64())
		assert.Equal(t, int64(5_000_000), config.Balance.Int64())
		assert.Equal(t, int64(120_000), config.AmountCollected.Int64())
		assert.Equal(t, time.Unix(1_672_876_800, 0).UTC(), config.LastUpdated)
	})

	t.Run("malformed balance", func(t *testing.T) {
		server := newTestServer(t, func(t *testing.T, req graphqlRequest) (int, string) {
			return http.StatusOK, `{"data": {"userAssetConfigs": [
				{"userId": "1", "assetId": "2", "balance": "x", "amountCollected": "0", "lastUpdatedBlockTimestamp": "0"}
			]}}`
		})

		client := NewClient(server.URL)
		_, err := client.AssetConfigsByUserID(context.Background(), big.NewInt(1))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "balance")
	})
}

func TestNewClientWithHTTP(t *testing.T) {
	custom := &http.Client{Timeout: time.Second}
	client := NewClientWithHTTP(custom, "http://example.invalid/subgraph")

	assert.Equal(t, "http://example.invalid/subgraph", client.URL())
	assert.Same(t, custom, client.httpClient)
}
