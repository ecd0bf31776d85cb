package httphandler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/v1/auctionhouse")

	r.Get("/info", h.GetInfo)
	r.Get("/auctions", h.GetAuctions)
	r.Get("/auctions/:id", h.GetAuction)
	r.Get("/auctions/:id/events", h.GetAuctionEvents)
	r.Get("/roles/:address", h.GetRoles)
	r.Get("/royalties/:contract", h.GetRoyalty)
	r.Get("/withdrawals/:address", h.GetWithdrawals)
	if h.executor != nil {
		r.Post("/calls", h.PostCall)
	}
	return nil
}
