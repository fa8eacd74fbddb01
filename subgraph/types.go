package subgraph

import (
	"math/big"
	"time"

	"github.com/pkg/errors"
)

// DripsReceiverSeen is one receiver entry of a historical drips
// configuration snapshot, with the configuration still in its packed
// on-chain form.
type DripsReceiverSeen struct {
	ReceiverUserID *big.Int
	Config         *big.Int
}

// DripsSetEvent is a historical drips configuration change: which asset,
// what balance remained, and the receiver list snapshot at that point.
type DripsSetEvent struct {
	UserID           *big.Int
	AssetID          *big.Int
	Balance          *big.Int
	BlockTimestamp   time.Time
	MaxEnd           uint64
	DripsHistoryHash string
	Receivers        []DripsReceiverSeen
}

// SplitsEntry is one currently-configured splits receiver of a sender.
type SplitsEntry struct {
	SenderID *big.Int
	UserID   *big.Int
	Weight   uint32
}

// UserAssetConfig is a user's current per-asset state as last indexed:
// the remaining streaming balance and the lifetime collected amount.
type UserAssetConfig struct {
	UserID          *big.Int
	AssetID         *big.Int
	Balance         *big.Int
	AmountCollected *big.Int
	LastUpdated     time.Time
}

// The subgraph serialises every numeric field as a decimal string; the
// JSON shapes below keep that representation and conversion to semantic
// types happens in one explicit place per field.

type dripsReceiverSeenJSON struct {
	ReceiverUserID string `json:"receiverUserId"`
	Config         string `json:"config"`
}

type dripsSetEventJSON struct {
	UserID           string                  `json:"userId"`
	AssetID          string                  `json:"assetId"`
	Balance          string                  `json:"balance"`
	BlockTimestamp   string                  `json:"blockTimestamp"`
	MaxEnd           string                  `json:"maxEnd"`
	DripsHistoryHash string                  `json:"dripsHistoryHash"`
	Receivers        []dripsReceiverSeenJSON `json:"dripsReceiverSeenEvents"`
}

type splitsEntryJSON struct {
	SenderID string `json:"senderId"`
	UserID   string `json:"userId"`
	Weight   string `json:"weight"`
}

type userAssetConfigJSON struct {
	UserID                    string `json:"userId"`
	AssetID                   string `json:"assetId"`
	Balance                   string `json:"balance"`
	AmountCollected           string `json:"amountCollected"`
	LastUpdatedBlockTimestamp string `json:"lastUpdatedBlockTimestamp"`
}

func parseBigInt(field, value string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, errors.Errorf("invalid numeric value for %s: %q", field, value)
	}
	return n, nil
}

func (j dripsSetEventJSON) toEvent() (DripsSetEvent, error) {
	userID, err := parseBigInt("userId", j.UserID)
	if err != nil {
		return DripsSetEvent{}, err
	}
	assetID, err := parseBigInt("assetId", j.AssetID)
	if err != nil {
		return DripsSetEvent{}, err
	}
	balance, err := parseBigInt("balance", j.Balance)
	if err != nil {
		return DripsSetEvent{}, err
	}
	timestamp, err := parseBigInt("blockTimestamp", j.BlockTimestamp)
	if err != nil {
		return DripsSetEvent{}, err
	}
	maxEnd, err := parseBigInt("maxEnd", j.MaxEnd)
	if err != nil {
		return DripsSetEvent{}, err
	}

	receivers := make([]DripsReceiverSeen, 0, len(j.Receivers))
	for _, r := range j.Receivers {
		receiverID, err := parseBigInt("receiverUserId", r.ReceiverUserID)
		if err != nil {
			return DripsSetEvent{}, err
		}
		config, err := parseBigInt("config", r.Config)
		if err != nil {
			return DripsSetEvent{}, err
		}
		receivers = append(receivers, DripsReceiverSeen{ReceiverUserID: receiverID, Config: config})
	}

	return DripsSetEvent{
		UserID:           userID,
		AssetID:          assetID,
		Balance:          balance,
		BlockTimestamp:   time.Unix(timestamp.Int64(), 0).UTC(),
		MaxEnd:           maxEnd.Uint64(),
		DripsHistoryHash: j.DripsHistoryHash,
		Receivers:        receivers,
	}, nil
}

func (j userAssetConfigJSON) toConfig() (UserAssetConfig, error) {
	userID, err := parseBigInt("userId", j.UserID)
	if err != nil {
		return UserAssetConfig{}, err
	}
	assetID, err := parseBigInt("assetId", j.AssetID)
	if err != nil {
		return UserAssetConfig{}, err
	}
	balance, err := parseBigInt("balance", j.Balance)
	if err != nil {
		return UserAssetConfig{}, err
	}
	collected, err := parseBigInt("amountCollected", j.AmountCollected)
	if err != nil {
		return UserAssetConfig{}, err
	}
	timestamp, err := parseBigInt("lastUpdatedBlockTimestamp", j.LastUpdatedBlockTimestamp)
	if err != nil {
		return UserAssetConfig{}, err
	}
	return UserAssetConfig{
		UserID:          userID,
		AssetID:         assetID,
		Balance:         balance,
		AmountCollected: collected,
		LastUpdated:     time.Unix(timestamp.Int64(), 0).UTC(),
	}, nil
}

func (j splitsEntryJSON) toEntry() (SplitsEntry, error) {
	senderID, err := parseBigInt("senderId", j.SenderID)
	if err != nil {
		return SplitsEntry{}, err
	}
	userID, err := parseBigInt("userId", j.UserID)
	if err != nil {
		return SplitsEntry{}, err
	}
	weight, err := parseBigInt("weight", j.Weight)
	if err != nil {
		return SplitsEntry{}, err
	}
	if !weight.IsUint64() || weight.Uint64() > 1<<32-1 {
		return SplitsEntry{}, errors.Errorf("weight out of range: %s", weight)
	}
	return SplitsEntry{
		SenderID: senderID,
		UserID:   userID,
		Weight:   uint32(weight.Uint64()),
	}, nil
}
