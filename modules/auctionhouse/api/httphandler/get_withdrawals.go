package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/internal/entity"
	"github.com/gofiber/fiber/v2"
)

type withdrawal struct {
	Currency common.Address `json:"currency"`
	Amount   amount         `json:"amount"`
}

type getWithdrawalsResult struct {
	Address common.Address `json:"address"`
	List    []withdrawal   `json:"list"`
}

type getWithdrawalsResponse = HttpResponse[getWithdrawalsResult]

// GetWithdrawals returns the value owed to an account in each supported currency.
func (h *HttpHandler) GetWithdrawals(ctx *fiber.Ctx) (err error) {
	address, err := parseAddress("address", ctx.Params("address"))
	if err != nil {
		return errors.WithStack(err)
	}
	list := make([]withdrawal, 0, 2)
	for _, currency := range []common.Address{entity.NativeCurrency, h.engine.SubstituteToken()} {
		pending, err := h.engine.PendingWithdrawal(ctx.UserContext(), address, currency)
		if err != nil {
			return errors.Wrap(err, "error during PendingWithdrawal")
		}
		if pending.IsZero() {
			continue
		}
		list = append(list, withdrawal{Currency: currency, Amount: newAmount(pending)})
	}
	return errors.WithStack(ctx.JSON(getWithdrawalsResponse{
		Result: &getWithdrawalsResult{Address: address, List: list},
	}))
}
