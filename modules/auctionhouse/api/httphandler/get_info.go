package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/auctionhouse/core/constants"
	"github.com/gofiber/fiber/v2"
)

type getInfoResult struct {
	Version                   string         `json:"version"`
	Address                   common.Address `json:"address"`
	SubstituteToken           common.Address `json:"substituteToken"`
	Administrator             common.Address `json:"administrator"`
	PublicAuctionsEnabled     bool           `json:"publicAuctionsEnabled"`
	MinBidIncrementPercentage uint64         `json:"minBidIncrementPercentage"`
	TimeBuffer                uint64         `json:"timeBuffer"`
}

type getInfoResponse = HttpResponse[getInfoResult]

func (h *HttpHandler) GetInfo(ctx *fiber.Ctx) (err error) {
	administrator, err := h.engine.Administrator(ctx.UserContext())
	if err != nil {
		return errors.Wrap(err, "error during Administrator")
	}
	enabled, err := h.engine.PublicAuctionsEnabled(ctx.UserContext())
	if err != nil {
		return errors.Wrap(err, "error during PublicAuctionsEnabled")
	}
	resp := getInfoResponse{
		Result: &getInfoResult{
			Version:                   constants.Version,
			Address:                   h.engine.Address(),
			SubstituteToken:           h.engine.SubstituteToken(),
			Administrator:             administrator,
			PublicAuctionsEnabled:     enabled,
			MinBidIncrementPercentage: h.engine.MinBidIncrementPercentage(),
			TimeBuffer:                h.engine.TimeBuffer(),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
