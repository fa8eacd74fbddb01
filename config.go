package drips

import (
	"math/big"
)

// AmtPerSecMultiplier is the fixed scaling factor applied to per-second
// drip rates. A rate of 1 smallest-token-unit per second is represented as
// 1 * AmtPerSecMultiplier in DripsReceiverConfig.AmountPerSec.
var AmtPerSecMultiplier = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// Bit widths of the packed config segments. The packed value is
//
//	reserved (32) | amtPerSec (160) | start (32) | duration (32)
//
// from the most significant bits down. The reserved segment must be zero
// when encoding and is ignored when decoding, so configs produced by newer
// contract versions that populate it still decode.
const (
	configDurationBits  = 32
	configStartBits     = 32
	configAmtPerSecBits = 160
)

var (
	maxConfigAmtPerSec = maxForBits(configAmtPerSecBits)
	maxConfigStart     = maxForBits(configStartBits)
	maxConfigDuration  = maxForBits(configDurationBits)
	maxUint256         = maxForBits(256)
)

// maxForBits returns 2^bits - 1.
func maxForBits(bits uint) *big.Int {
	max := new(big.Int).Lsh(big.NewInt(1), bits)
	return max.Sub(max, big.NewInt(1))
}

// DripsReceiverConfig describes a single drip stream: when it starts, how
// long it runs and how fast it pays out.
//
// Start is a unix timestamp in seconds; zero means "start at the moment
// the configuration transaction is processed". Duration is in seconds;
// zero means "drip until the sender's balance runs out". AmountPerSec is
// the rate in smallest token units per second, scaled by
// AmtPerSecMultiplier.
type DripsReceiverConfig struct {
	Start        uint64
	Duration     uint64
	AmountPerSec *big.Int
}

// Pack encodes the config into the single 256-bit integer the protocol
// stores on chain. Field order and offsets must agree bit-for-bit with the
// contract, otherwise previously stored configurations become
// unrecoverable.
//
// Returns ErrConfigRange when any field is negative or does not fit its
// bit segment.
func (c DripsReceiverConfig) Pack() (*big.Int, error) {
	if c.AmountPerSec == nil {
		return nil, errArgumentMissing("amountPerSec")
	}
	if c.AmountPerSec.Sign() < 0 {
		return nil, errConfigRange("amountPerSec must not be negative", "amountPerSec", c.AmountPerSec.String())
	}
	if c.AmountPerSec.Cmp(maxConfigAmtPerSec) > 0 {
		return nil, errConfigRange("amountPerSec does not fit in 160 bits", "amountPerSec", c.AmountPerSec.String())
	}
	if new(big.Int).SetUint64(c.Start).Cmp(maxConfigStart) > 0 {
		return nil, errConfigRange("start does not fit in 32 bits", "start", c.Start)
	}
	if new(big.Int).SetUint64(c.Duration).Cmp(maxConfigDuration) > 0 {
		return nil, errConfigRange("duration does not fit in 32 bits", "duration", c.Duration)
	}

	packed := new(big.Int).Lsh(c.AmountPerSec, configStartBits+configDurationBits)
	packed.Or(packed, new(big.Int).Lsh(new(big.Int).SetUint64(c.Start), configDurationBits))
	packed.Or(packed, new(big.Int).SetUint64(c.Duration))
	return packed, nil
}

// MustPack is Pack for configs already known to be valid, typically after
// list validation. It panics on a range error.
func (c DripsReceiverConfig) MustPack() *big.Int {
	packed, err := c.Pack()
	if err != nil {
		panic(err)
	}
	return packed
}

// UnpackDripsReceiverConfig decodes a packed on-chain config. Any value
// representable in 256 bits is accepted; bits above the defined layout
// (the reserved top segment) are ignored.
func UnpackDripsReceiverConfig(packed *big.Int) (DripsReceiverConfig, error) {
	if packed == nil {
		return DripsReceiverConfig{}, errArgumentMissing("packed")
	}
	if packed.Sign() < 0 {
		return DripsReceiverConfig{}, errConfigRange("packed config must not be negative", "packed", packed.String())
	}
	if packed.Cmp(maxUint256) > 0 {
		return DripsReceiverConfig{}, errConfigRange("packed config does not fit in 256 bits", "packed", packed.String())
	}

	duration := new(big.Int).And(packed, maxConfigDuration)
	start := new(big.Int).And(new(big.Int).Rsh(packed, configDurationBits), maxConfigStart)
	amtPerSec := new(big.Int).And(
		new(big.Int).Rsh(packed, configStartBits+configDurationBits),
		maxConfigAmtPerSec,
	)

	return DripsReceiverConfig{
		Start:        start.Uint64(),
		Duration:     duration.Uint64(),
		AmountPerSec: amtPerSec,
	}, nil
}

// validate runs the same range checks as Pack plus the protocol rule that
// a zero rate is never a valid stream, reporting failures as receiver
// config errors addressed by list index.
func (c DripsReceiverConfig) validate(index int) error {
	if c.AmountPerSec == nil {
		return newError(ErrCodeReceiverConfig, "missing amountPerSec", receiverField(index, "amountPerSec"), nil)
	}
	if c.AmountPerSec.Sign() <= 0 {
		return newError(ErrCodeReceiverConfig, "amountPerSec must be positive", receiverField(index, "amountPerSec"), c.AmountPerSec.String())
	}
	if _, err := c.Pack(); err != nil {
		return newError(ErrCodeReceiverConfig, "invalid receiver config", receiverField(index, "config"), err.Error())
	}
	return nil
}
