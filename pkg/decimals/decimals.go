// Package decimals converts between base unit amounts and their human readable decimal form.
package decimals

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/auctionhouse/common/errs"
	"github.com/gaze-network/uint128"
	"github.com/shopspring/decimal"
)

// NativeDecimals is the number of decimals of the native value unit, the substitute token shares it.
const NativeDecimals = 18

const DefaultDivPrecision = 36

func init() {
	decimal.DivisionPrecision = DefaultDivPrecision
}

// PowerOfTen returns 10^n.
func PowerOfTen(n int32) decimal.Decimal {
	return decimal.New(1, n)
}

// FromUint128 returns amount shifted right by decimals, 1e18 base units with 18 decimals is 1.
func FromUint128(amount uint128.Uint128, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(amount.Big(), -int32(decimals))
}

// ToUint128 converts a decimal amount to base units.
func ToUint128(amount decimal.Decimal, decimals uint8) (uint128.Uint128, error) {
	scaled := amount.Shift(int32(decimals))
	if scaled.IsNegative() {
		return uint128.Zero, errors.Wrapf(errs.InvalidArgument, "negative amount %s", amount)
	}
	if !scaled.Equal(scaled.Truncate(0)) {
		return uint128.Zero, errors.Wrapf(errs.InvalidArgument, "amount %s has more than %d decimals", amount, decimals)
	}
	value := scaled.BigInt()
	if value.BitLen() > 128 {
		return uint128.Zero, errors.Wrapf(errs.OverflowUint128, "amount %s", amount)
	}
	result, err := uint128.FromString(value.String())
	if err != nil {
		return uint128.Zero, errors.WithStack(err)
	}
	return result, nil
}

// Parse parses a decimal string such as "1.5" into base units.
func Parse(s string, decimals uint8) (uint128.Uint128, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return uint128.Zero, errors.Wrapf(errors.Mark(err, errs.InvalidArgument), "invalid amount %q", s)
	}
	return ToUint128(amount, decimals)
}
