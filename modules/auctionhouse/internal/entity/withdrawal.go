package entity

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/uint128"
)

// PendingWithdrawal is value owed to an account whose payout couldn't be delivered.
type PendingWithdrawal struct {
	Account  common.Address
	Currency common.Address
	Amount   uint128.Uint128
}
