package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/auctionhouse/common/errs"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/internal/entity"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type auction struct {
	Id            uint64         `json:"id"`
	AssetId       string         `json:"assetId"`
	AssetContract common.Address `json:"assetContract"`
	TokenOwner    common.Address `json:"tokenOwner"`
	Duration      uint64         `json:"duration"`
	FirstBidTime  uint64         `json:"firstBidTime"`
	EndTime       *uint64        `json:"endTime"` // nil until the first bid
	ReservePrice  amount         `json:"reservePrice"`
	Amount        amount         `json:"amount"`
	Bidder        common.Address `json:"bidder"`
	Currency      common.Address `json:"currency"`
}

func mapAuction(src entity.Auction) auction {
	return auction{
		Id:            src.ID,
		AssetId:       src.AssetID.String(),
		AssetContract: src.AssetContract,
		TokenOwner:    src.TokenOwner,
		Duration:      src.Duration,
		FirstBidTime:  src.FirstBidTime,
		EndTime:       lo.Ternary(src.Started(), lo.ToPtr(src.EndTime()), nil),
		ReservePrice:  newAmount(src.ReservePrice),
		Amount:        newAmount(src.Amount),
		Bidder:        src.Bidder,
		Currency:      src.Currency,
	}
}

type getAuctionsResult struct {
	List []auction `json:"list"`
}

type getAuctionsResponse = HttpResponse[getAuctionsResult]

func (h *HttpHandler) GetAuctions(ctx *fiber.Ctx) (err error) {
	auctions, err := h.engine.Auctions(ctx.UserContext())
	if err != nil {
		return errors.Wrap(err, "error during Auctions")
	}
	resp := getAuctionsResponse{
		Result: &getAuctionsResult{
			List: lo.Map(auctions, func(item *entity.Auction, _ int) auction {
				return mapAuction(*item)
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

type getAuctionResponse = HttpResponse[auction]

func (h *HttpHandler) GetAuction(ctx *fiber.Ctx) (err error) {
	id, err := parseAuctionID(ctx.Params("id"))
	if err != nil {
		return errors.WithStack(err)
	}
	record, err := h.engine.Auction(ctx.UserContext(), id)
	if err != nil {
		return errors.Wrap(err, "error during Auction")
	}
	if !record.Exists() {
		return errs.WithPublicMessage(errors.WithStack(errs.NotFound), "auction not found")
	}
	result := mapAuction(record)
	return errors.WithStack(ctx.JSON(getAuctionResponse{Result: &result}))
}
