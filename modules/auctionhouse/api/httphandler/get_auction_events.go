package httphandler

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/internal/entity"
	"github.com/gofiber/fiber/v2"
)

type event struct {
	Sequence  uint64           `json:"sequence"`
	Kind      entity.EventKind `json:"kind"`
	AuctionId *uint64          `json:"auctionId"`
	Timestamp uint64           `json:"timestamp"`
	Data      json.RawMessage  `json:"data"`
}

type getAuctionEventsResult struct {
	List []event `json:"list"`
}

type getAuctionEventsResponse = HttpResponse[getAuctionEventsResult]

func (h *HttpHandler) GetAuctionEvents(ctx *fiber.Ctx) (err error) {
	id, err := parseAuctionID(ctx.Params("id"))
	if err != nil {
		return errors.WithStack(err)
	}
	events, err := h.engine.Events(ctx.UserContext(), id)
	if err != nil {
		return errors.Wrap(err, "error during Events")
	}
	list := make([]event, 0, len(events))
	for _, e := range events {
		data, err := entity.EncodeEventData(e.Data)
		if err != nil {
			return errors.WithStack(err)
		}
		list = append(list, event{
			Sequence:  e.Sequence,
			Kind:      e.Kind,
			AuctionId: e.AuctionID,
			Timestamp: e.Timestamp,
			Data:      data,
		})
	}
	return errors.WithStack(ctx.JSON(getAuctionEventsResponse{
		Result: &getAuctionEventsResult{List: list},
	}))
}
