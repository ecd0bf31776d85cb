package auctionhouse

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/internal/entity"
)

const eventHashSeparator = "|"

// getEventString returns the canonical form of an event, it must not change
// without bumping EventHashVersion.
func getEventString(event entity.Event) (string, error) {
	data, err := entity.EncodeEventData(event.Data)
	if err != nil {
		return "", errors.WithStack(err)
	}
	auctionID := "-"
	if event.AuctionID != nil {
		auctionID = strconv.FormatUint(*event.AuctionID, 10)
	}
	var sb strings.Builder
	sb.WriteString(strconv.FormatUint(event.Sequence, 10) + ";")
	sb.WriteString(string(event.Kind) + ";")
	sb.WriteString(auctionID + ";")
	sb.WriteString(strconv.FormatUint(event.Timestamp, 10) + ";")
	sb.Write(data)
	return sb.String(), nil
}

// hashEvents returns the keccak256 hash of the events joined in order.
func hashEvents(events []entity.Event) (common.Hash, error) {
	eventStrs := make([]string, 0, len(events))
	for _, event := range events {
		s, err := getEventString(event)
		if err != nil {
			return common.Hash{}, errors.Wrapf(err, "can't get string of event %d", event.Sequence)
		}
		eventStrs = append(eventStrs, s)
	}
	return ethcrypto.Keccak256Hash([]byte(strings.Join(eventStrs, eventHashSeparator))), nil
}

// chainEventHash folds the hash of a range of events into the cumulative hash of every previous range.
func chainEventHash(cumulative, eventHash common.Hash) common.Hash {
	return ethcrypto.Keccak256Hash(cumulative.Bytes(), eventHash.Bytes())
}
