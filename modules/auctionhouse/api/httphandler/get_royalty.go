package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v2"
)

type getRoyaltyResult struct {
	AssetContract common.Address `json:"assetContract"`
	Beneficiary   common.Address `json:"beneficiary"`
	Percentage    uint8          `json:"percentage"`
}

type getRoyaltyResponse = HttpResponse[getRoyaltyResult]

func (h *HttpHandler) GetRoyalty(ctx *fiber.Ctx) (err error) {
	contract, err := parseAddress("contract", ctx.Params("contract"))
	if err != nil {
		return errors.WithStack(err)
	}
	royalty, err := h.engine.Royalty(ctx.UserContext(), contract)
	if err != nil {
		return errors.Wrap(err, "error during Royalty")
	}
	return errors.WithStack(ctx.JSON(getRoyaltyResponse{
		Result: &getRoyaltyResult{
			AssetContract: contract,
			Beneficiary:   royalty.Beneficiary,
			Percentage:    royalty.Percentage,
		},
	}))
}
