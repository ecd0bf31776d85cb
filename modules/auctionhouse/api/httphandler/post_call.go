package httphandler

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/auctionhouse/common/errs"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/internal/entity"
	"github.com/gofiber/fiber/v2"
)

type postCallResponse = HttpResponse[entity.Receipt]

// PostCall runs a call on behalf of the caller named in the request body. The
// caller isn't authenticated, the endpoint is for trusted deployments only.
func (h *HttpHandler) PostCall(ctx *fiber.Ctx) (err error) {
	var call entity.Call
	if err := json.Unmarshal(ctx.Body(), &call); err != nil {
		return errs.WithPublicMessage(errors.Mark(err, errs.InvalidArgument), "invalid call")
	}
	if call.Op == "" {
		return errs.NewPublicError("op is required")
	}

	receipt, err := h.executor.Execute(ctx.UserContext(), call)
	if err != nil {
		if _, ok := errs.KindOf(err); ok {
			return errs.WithPublicMessage(err, "call failed")
		}
		return errors.Wrap(err, "error during Execute")
	}
	return errors.WithStack(ctx.JSON(postCallResponse{Result: &receipt}))
}
