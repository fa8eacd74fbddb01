package drips

import (
	"time"
)

// CycleInfo describes where a point in time falls within the network's
// fixed accounting cycle. Drip amounts become receivable in cycle-sized
// batches, so callers use this to reason about when funds settle.
type CycleInfo struct {
	// CycleDurationSecs is the network-wide cycle length.
	CycleDurationSecs uint32
	// CurrentCycleSecs is the number of seconds elapsed in the cycle
	// containing the queried instant.
	CurrentCycleSecs uint32
	// CurrentCycleStart is the instant the containing cycle began.
	CurrentCycleStart time.Time
	// NextCycleStart is the instant the next cycle begins. Funds dripped
	// in the current cycle settle (become receivable without squeezing)
	// at this point.
	NextCycleStart time.Time
}

// CurrentCycleInfo computes the cycle boundaries around now for a network
// with the given cycle length. Pure function of its inputs; sub-second
// precision of now is discarded because the protocol accounts in whole
// seconds.
//
// Returns ErrInvalidCycleLength when cycleDurationSecs is zero, which
// would otherwise be a division by zero caused by a misconfigured
// network.
func CurrentCycleInfo(cycleDurationSecs uint32, now time.Time) (CycleInfo, error) {
	if cycleDurationSecs == 0 {
		return CycleInfo{}, newError(ErrCodeInvalidCycleLength,
			"cycle duration must be positive", "cycleDurationSecs", cycleDurationSecs)
	}

	nowSecs := now.Unix()
	currentCycleSecs := uint32(nowSecs % int64(cycleDurationSecs))
	currentCycleStart := time.Unix(nowSecs-int64(currentCycleSecs), 0).UTC()

	return CycleInfo{
		CycleDurationSecs: cycleDurationSecs,
		CurrentCycleSecs:  currentCycleSecs,
		CurrentCycleStart: currentCycleStart,
		NextCycleStart:    currentCycleStart.Add(time.Duration(cycleDurationSecs) * time.Second),
	}, nil
}
