package drips

import (
	"math/big"
	"regexp"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

var addressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// ParseAddress validates and parses a hex-encoded Ethereum address.
// Returns ErrInvalidAddress naming the offending value on failure. Use
// this at the string boundary; the client APIs themselves take
// common.Address so an invalid address is unrepresentable past this
// point.
func ParseAddress(s string) (common.Address, error) {
	if s == "" {
		return common.Address{}, errArgumentMissing("address")
	}
	if !addressRegex.MatchString(s) {
		return common.Address{}, newError(ErrCodeAddress, "invalid address format", "address", s)
	}
	return common.HexToAddress(s), nil
}

// AssetIDFromToken returns the protocol asset identifier for an ERC-20
// token: the numeric reinterpretation of its 20-byte address. The mapping
// is bijective over valid addresses.
func AssetIDFromToken(token common.Address) *big.Int {
	return new(big.Int).SetBytes(token.Bytes())
}

// TokenFromAssetID is the inverse of AssetIDFromToken.
// Returns ErrArgumentRange when the identifier does not fit in 160 bits
// and therefore cannot be an asset ID.
func TokenFromAssetID(assetID *big.Int) (common.Address, error) {
	if assetID == nil {
		return common.Address{}, errArgumentMissing("assetId")
	}
	if assetID.Sign() < 0 || assetID.BitLen() > 160 {
		return common.Address{}, errArgumentRange("asset ID does not fit in 160 bits", "assetId", assetID.String())
	}
	return common.BigToAddress(assetID), nil
}

// UserAddress extracts the low 160 bits of a user identifier and formats
// them as a checksummed address.
//
// This is only meaningful for identifiers minted by the address driver,
// which embeds the owning address in the low bits. Applying it to an
// identifier from any other driver scheme yields a value with no defined
// meaning; the protocol leaves that case undefined and so does this
// function.
func UserAddress(userID *big.Int) (common.Address, error) {
	if userID == nil {
		return common.Address{}, errArgumentMissing("userId")
	}
	if userID.Sign() < 0 || userID.Cmp(maxUint256) > 0 {
		return common.Address{}, errArgumentRange("userId does not fit in 256 bits", "userId", userID.String())
	}
	low := new(big.Int).And(userID, maxForBits(160))
	return common.BigToAddress(low), nil
}

// AmountToDecimal converts a raw smallest-unit amount into a decimal in
// human token units. Explicit conversion only; the accounting path never
// uses floating point, this exists for display at the edge.
func AmountToDecimal(raw *big.Int, decimals uint8) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -int32(decimals))
}

// DecimalToAmount converts a human-unit decimal into the raw smallest-unit
// integer used everywhere inside the protocol, truncating any fractional
// smallest unit.
func DecimalToAmount(amount decimal.Decimal, decimals uint8) *big.Int {
	return amount.Shift(int32(decimals)).Truncate(0).BigInt()
}
