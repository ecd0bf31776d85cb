package decimals

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/auctionhouse/common/errs"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPowerOfTen(t *testing.T) {
	assert.Equal(t, "1", PowerOfTen(0).String())
	assert.Equal(t, "1000000000000000000", PowerOfTen(18).String())
	assert.Equal(t, "0.001", PowerOfTen(-3).String())
}

func TestFromUint128(t *testing.T) {
	testcases := []struct {
		decimals uint8
		value    uint128.Uint128
		expected string
	}{
		{0, uint128.From64(1), "1"},
		{1, uint128.From64(1), "0.1"},
		{18, uint128.From64(1), "0.000000000000000001"},
		{18, uint128.From64(1_500_000_000_000_000_000), "1.5"},
		{18, uint128.Zero, "0"},
		{0, uint128.Max, "340282366920938463463374607431768211455"},
		{18, uint128.Max, "340282366920938463463.374607431768211455"},
		{36, uint128.Max, "340.282366920938463463374607431768211455"},
	}
	for _, tc := range testcases {
		t.Run(fmt.Sprintf("%d_%s", tc.decimals, tc.value), func(t *testing.T) {
			assert.Equal(t, tc.expected, FromUint128(tc.value, tc.decimals).String())
		})
	}
}

func TestParse(t *testing.T) {
	testcases := []struct {
		input    string
		expected string
	}{
		{"1", "1000000000000000000"},
		{"1.5", "1500000000000000000"},
		{"0.000000000000000001", "1"},
		{"0", "0"},
		{"340282366920938463463.374607431768211455", uint128.Max.String()},
	}
	for _, tc := range testcases {
		t.Run(tc.input, func(t *testing.T) {
			amount, err := Parse(tc.input, NativeDecimals)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, amount.String())
		})
	}

	errcases := []struct {
		name  string
		input string
		kind  error
	}{
		{"not_a_number", "one", errs.InvalidArgument},
		{"negative", "-1", errs.InvalidArgument},
		{"too_precise", "0.0000000000000000001", errs.InvalidArgument},
		{"overflow", "340282366920938463463.374607431768211456", errs.OverflowUint128},
	}
	for _, tc := range errcases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.input, NativeDecimals)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.kind), err.Error())
		})
	}
}
