// Package subgraph queries the Drips indexing service for historical
// configuration-change events. The subgraph is a collaborator, not a
// source of truth: the client only uses it to discover which assets and
// receiver lists a user has touched, then verifies amounts against the
// contracts.
package subgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/ipfs/go-log/v2"
	"github.com/pkg/errors"
)

var logger = log.Logger("drips-subgraph")

const defaultHTTPTimeout = 30 * time.Second

// Client is a Drips subgraph API client.
type Client struct {
	httpClient *http.Client
	url        string
}

// NewClient creates a subgraph client for the given endpoint with a
// default 30-second HTTP timeout.
func NewClient(url string) *Client {
	return NewClientWithHTTP(&http.Client{Timeout: defaultHTTPTimeout}, url)
}

// NewClientWithHTTP creates a subgraph client with a custom HTTP client.
// Timeout and retry policy belong to the supplied client; this package
// performs exactly one attempt per query.
func NewClientWithHTTP(httpClient *http.Client, url string) *Client {
	return &Client{
		httpClient: httpClient,
		url:        url,
	}
}

// URL returns the endpoint this client queries.
func (c *Client) URL() string { return c.url }

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// query executes a single GraphQL request and decodes the data envelope
// into out.
func (c *Client) query(ctx context.Context, operation, query string, variables map[string]any, out any) error {
	requestID := uuid.NewString()
	lg := logger.With("operation", operation, "requestID", requestID)

	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return errors.Wrapf(err, "marshaling %s query", operation)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrapf(err, "creating %s request", operation)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return errors.Wrapf(err, "querying subgraph for %s", operation)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("subgraph returned status %d for %s", resp.StatusCode, operation)
	}

	var envelope graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return errors.Wrapf(err, "decoding %s response", operation)
	}
	if len(envelope.Errors) > 0 {
		lg.Warnw("subgraph query failed", "error", envelope.Errors[0].Message)
		return errors.Errorf("subgraph error for %s: %s", operation, envelope.Errors[0].Message)
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return errors.Wrapf(err, "decoding %s data", operation)
	}
	lg.Debugw("subgraph query completed")
	return nil
}

const dripsSetEventsQuery = `query dripsSetEvents($userId: String!) {
  dripsSetEvents(where: {userId: $userId}, orderBy: blockTimestamp, orderDirection: asc) {
    userId
    assetId
    balance
    blockTimestamp
    maxEnd
    dripsHistoryHash
    dripsReceiverSeenEvents {
      receiverUserId
      config
    }
  }
}`

// DripsSetEventsByUserID returns every historical drips configuration
// change recorded for the user, ordered by block timestamp ascending.
func (c *Client) DripsSetEventsByUserID(ctx context.Context, userID *big.Int) ([]DripsSetEvent, error) {
	if userID == nil {
		return nil, errors.New("userID must not be nil")
	}

	var data struct {
		DripsSetEvents []dripsSetEventJSON `json:"dripsSetEvents"`
	}
	err := c.query(ctx, "dripsSetEvents", dripsSetEventsQuery,
		map[string]any{"userId": userID.String()}, &data)
	if err != nil {
		return nil, err
	}

	events := make([]DripsSetEvent, 0, len(data.DripsSetEvents))
	for i, raw := range data.DripsSetEvents {
		event, err := raw.toEvent()
		if err != nil {
			return nil, errors.Wrapf(err, "decoding dripsSetEvents[%d]", i)
		}
		events = append(events, event)
	}
	return events, nil
}

const userAssetConfigsQuery = `query userAssetConfigs($userId: String!) {
  userAssetConfigs(where: {userId: $userId}) {
    userId
    assetId
    balance
    amountCollected
    lastUpdatedBlockTimestamp
  }
}`

// AssetConfigsByUserID returns the user's current per-asset state as last
// indexed, one entry per asset the user has ever streamed.
func (c *Client) AssetConfigsByUserID(ctx context.Context, userID *big.Int) ([]UserAssetConfig, error) {
	if userID == nil {
		return nil, errors.New("userID must not be nil")
	}

	var data struct {
		UserAssetConfigs []userAssetConfigJSON `json:"userAssetConfigs"`
	}
	err := c.query(ctx, "userAssetConfigs", userAssetConfigsQuery,
		map[string]any{"userId": userID.String()}, &data)
	if err != nil {
		return nil, err
	}

	configs := make([]UserAssetConfig, 0, len(data.UserAssetConfigs))
	for i, raw := range data.UserAssetConfigs {
		config, err := raw.toConfig()
		if err != nil {
			return nil, errors.Wrapf(err, "decoding userAssetConfigs[%d]", i)
		}
		configs = append(configs, config)
	}
	return configs, nil
}

const splitsEntriesQuery = `query splitsEntries($userId: String!) {
  splitsEntries(where: {senderId: $userId}) {
    senderId
    userId
    weight
  }
}`

// SplitsEntriesByUserID returns the user's currently configured splits
// receivers as last indexed.
func (c *Client) SplitsEntriesByUserID(ctx context.Context, userID *big.Int) ([]SplitsEntry, error) {
	if userID == nil {
		return nil, errors.New("userID must not be nil")
	}

	var data struct {
		SplitsEntries []splitsEntryJSON `json:"splitsEntries"`
	}
	err := c.query(ctx, "splitsEntries", splitsEntriesQuery,
		map[string]any{"userId": userID.String()}, &data)
	if err != nil {
		return nil, err
	}

	entries := make([]SplitsEntry, 0, len(data.SplitsEntries))
	for i, raw := range data.SplitsEntries {
		entry, err := raw.toEntry()
		if err != nil {
			return nil, errors.Wrapf(err, "decoding splitsEntries[%d]", i)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
