package drips

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/radicle-dev/drips-go/contract"
)

// Protocol-wide receiver list limits. The contracts reject longer lists,
// so the client enforces them before a transaction is ever built.
const (
	// MaxDripsReceivers is the maximum number of drips receivers per
	// sender and token.
	MaxDripsReceivers = 100
	// MaxSplitsReceivers is the maximum number of splits receivers per
	// user.
	MaxSplitsReceivers = 200
	// TotalSplitsWeight is the weight denominator: a splits receiver with
	// weight TotalSplitsWeight/10 is forwarded 10% of collected funds.
	TotalSplitsWeight = 1_000_000
)

// DripsReceiver pairs the receiving user with the stream configuration
// dripped to them. Lists of these are owned transiently by the caller and
// passed into driver operations; the client never stores them.
type DripsReceiver struct {
	UserID *big.Int
	Config DripsReceiverConfig
}

// SplitsReceiver directs a share of collected funds to another user.
// Weight is relative to TotalSplitsWeight.
type SplitsReceiver struct {
	UserID *big.Int
	Weight uint32
}

func receiverField(index int, field string) string {
	return fmt.Sprintf("receivers[%d].%s", index, field)
}

func validateUserID(index int, userID *big.Int) error {
	if userID == nil {
		return errArgumentMissing(receiverField(index, "userId"))
	}
	if userID.Sign() < 0 {
		return errArgumentRange("userId must not be negative", receiverField(index, "userId"), userID.String())
	}
	if userID.Cmp(maxUint256) > 0 {
		return errArgumentRange("userId does not fit in 256 bits", receiverField(index, "userId"), userID.String())
	}
	return nil
}

// ValidateDripsReceivers checks a drips receiver list against every
// invariant the protocol enforces on chain: cardinality, per-entry config
// ranges (a zero rate is never valid) and uniqueness of the
// (userId, packed config) key. An empty list is valid and clears the
// sender's configuration.
//
// The policy is reject, never repair: duplicates are surfaced as errors,
// not merged, because silently guessing intent loses configurations.
func ValidateDripsReceivers(receivers []DripsReceiver) error {
	if len(receivers) > MaxDripsReceivers {
		return newError(ErrCodeTooManyReceivers,
			fmt.Sprintf("at most %d drips receivers are allowed", MaxDripsReceivers),
			"receivers", len(receivers))
	}

	seen := make(map[string]struct{}, len(receivers))
	for i, r := range receivers {
		if err := validateUserID(i, r.UserID); err != nil {
			return err
		}
		if err := r.Config.validate(i); err != nil {
			return err
		}
		key := r.UserID.String() + ":" + r.Config.MustPack().String()
		if _, dup := seen[key]; dup {
			return newError(ErrCodeDuplicateReceiver,
				"drips receivers must have unique (userId, config) pairs",
				receiverField(i, "userId"), r.UserID.String())
		}
		seen[key] = struct{}{}
	}
	return nil
}

// ValidateSplitsReceivers checks a splits receiver list: cardinality,
// positive bounded weights and uniqueness of userId. An empty list is
// valid and clears the user's splits.
func ValidateSplitsReceivers(receivers []SplitsReceiver) error {
	if len(receivers) > MaxSplitsReceivers {
		return newError(ErrCodeTooManySplitsReceivers,
			fmt.Sprintf("at most %d splits receivers are allowed", MaxSplitsReceivers),
			"receivers", len(receivers))
	}

	seen := make(map[string]struct{}, len(receivers))
	for i, r := range receivers {
		if err := validateUserID(i, r.UserID); err != nil {
			return err
		}
		if r.Weight == 0 {
			return newError(ErrCodeSplitsReceiver, "splits weight must be positive",
				receiverField(i, "weight"), r.Weight)
		}
		if r.Weight > TotalSplitsWeight {
			return newError(ErrCodeSplitsReceiver,
				fmt.Sprintf("splits weight must not exceed %d", TotalSplitsWeight),
				receiverField(i, "weight"), r.Weight)
		}
		key := r.UserID.String()
		if _, dup := seen[key]; dup {
			return newError(ErrCodeDuplicateReceiver,
				"splits receivers must have unique user IDs",
				receiverField(i, "userId"), r.UserID.String())
		}
		seen[key] = struct{}{}
	}
	return nil
}

// NormalizeDripsReceivers returns a copy of the list in the canonical
// on-chain order: ascending by userId, ties broken by the packed config
// value. The contracts hash the submitted list, so two equal sets in
// different orders produce different hashes and fail the
// current-receivers check; callers must always submit normalized lists.
//
// Duplicates are not removed; validation rejects them instead. The sort
// is stable and idempotent. Receivers must already be valid (configs must
// pack), so validate before normalizing.
func NormalizeDripsReceivers(receivers []DripsReceiver) []DripsReceiver {
	normalized := make([]DripsReceiver, len(receivers))
	copy(normalized, receivers)
	sort.SliceStable(normalized, func(i, j int) bool {
		byUser := normalized[i].UserID.Cmp(normalized[j].UserID)
		if byUser != 0 {
			return byUser < 0
		}
		return normalized[i].Config.MustPack().Cmp(normalized[j].Config.MustPack()) < 0
	})
	return normalized
}

// NormalizeSplitsReceivers returns a copy of the list sorted ascending by
// userId, the canonical order the splits hash is computed over. Stable
// and idempotent; duplicates are a validation error, not merged here.
func NormalizeSplitsReceivers(receivers []SplitsReceiver) []SplitsReceiver {
	normalized := make([]SplitsReceiver, len(receivers))
	copy(normalized, receivers)
	sort.SliceStable(normalized, func(i, j int) bool {
		return normalized[i].UserID.Cmp(normalized[j].UserID) < 0
	})
	return normalized
}

// FormatDripsReceivers validates, normalizes and packs a drips receiver
// list into the exact tuple shape the contract interface expects.
func FormatDripsReceivers(receivers []DripsReceiver) ([]contract.DripsReceiver, error) {
	if err := ValidateDripsReceivers(receivers); err != nil {
		return nil, err
	}
	normalized := NormalizeDripsReceivers(receivers)
	formatted := make([]contract.DripsReceiver, len(normalized))
	for i, r := range normalized {
		formatted[i] = contract.DripsReceiver{
			UserId: new(big.Int).Set(r.UserID),
			Config: r.Config.MustPack(),
		}
	}
	return formatted, nil
}

// FormatSplitsReceivers validates and normalizes a splits receiver list
// into the contract tuple shape.
func FormatSplitsReceivers(receivers []SplitsReceiver) ([]contract.SplitsReceiver, error) {
	if err := ValidateSplitsReceivers(receivers); err != nil {
		return nil, err
	}
	normalized := NormalizeSplitsReceivers(receivers)
	formatted := make([]contract.SplitsReceiver, len(normalized))
	for i, r := range normalized {
		formatted[i] = contract.SplitsReceiver{
			UserId: new(big.Int).Set(r.UserID),
			Weight: r.Weight,
		}
	}
	return formatted, nil
}
