package pebble

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
)

var (
	keyAdministrator     = []byte("role/administrator")
	keyPublicAuctions    = []byte("role/public_auctions")
	keyNextAuctionID     = []byte("seq/auction")
	keyNextEventSequence = []byte("seq/event")

	prefixAuction      = []byte("auction/")
	prefixRoyalty      = []byte("royalty/")
	prefixWithdrawal   = []byte("withdrawal/")
	prefixAuctioneer   = []byte("role/auctioneer/")
	prefixWhitelist    = []byte("role/whitelist/")
	prefixEvent        = []byte("event/")
	prefixAuctionEvent = []byte("auction_event/")
)

// key concatenates parts, fixed width parts keep keys ordered.
func key(parts ...[]byte) []byte {
	size := 0
	for _, part := range parts {
		size += len(part)
	}
	k := make([]byte, 0, size)
	for _, part := range parts {
		k = append(k, part...)
	}
	return k
}

func uint64Bytes(v uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, v)
}

func auctionKey(id uint64) []byte {
	return key(prefixAuction, uint64Bytes(id))
}

func royaltyKey(assetContract common.Address) []byte {
	return key(prefixRoyalty, assetContract.Bytes())
}

func withdrawalKey(account, currency common.Address) []byte {
	return key(prefixWithdrawal, account.Bytes(), currency.Bytes())
}

func auctioneerKey(account common.Address) []byte {
	return key(prefixAuctioneer, account.Bytes())
}

func whitelistKey(account common.Address) []byte {
	return key(prefixWhitelist, account.Bytes())
}

func eventKey(sequence uint64) []byte {
	return key(prefixEvent, uint64Bytes(sequence))
}

func auctionEventKey(auctionID, sequence uint64) []byte {
	return key(prefixAuctionEvent, uint64Bytes(auctionID), uint64Bytes(sequence))
}

// prefixUpperBound returns the smallest key greater than every key with prefix.
func prefixUpperBound(prefix []byte) []byte {
	upper := make([]byte, len(prefix))
	copy(upper, prefix)
	for i := len(upper) - 1; i >= 0; i-- {
		upper[i]++
		if upper[i] != 0 {
			return upper[:i+1]
		}
	}
	return nil
}
