package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
)

type getRolesResult struct {
	Address       common.Address `json:"address"`
	Administrator bool           `json:"administrator"`
	Auctioneer    bool           `json:"auctioneer"`
	Whitelisted   bool           `json:"whitelisted"`
	// CanCreateAuction is whether the account passes the auction creation gate.
	CanCreateAuction bool `json:"canCreateAuction"`
}

type getRolesResponse = HttpResponse[getRolesResult]

func (h *HttpHandler) GetRoles(ctx *fiber.Ctx) (err error) {
	address, err := parseAddress("address", ctx.Params("address"))
	if err != nil {
		return errors.WithStack(err)
	}
	group, groupctx := errgroup.WithContext(ctx.UserContext())
	var (
		administrator                   common.Address
		auctioneer, whitelisted, public bool
	)
	group.Go(func() (err error) {
		administrator, err = h.engine.Administrator(groupctx)
		return errors.Wrap(err, "error during Administrator")
	})
	group.Go(func() (err error) {
		auctioneer, err = h.engine.IsAuctioneer(groupctx, address)
		return errors.Wrap(err, "error during IsAuctioneer")
	})
	group.Go(func() (err error) {
		whitelisted, err = h.engine.IsWhitelisted(groupctx, address)
		return errors.Wrap(err, "error during IsWhitelisted")
	})
	group.Go(func() (err error) {
		public, err = h.engine.PublicAuctionsEnabled(groupctx)
		return errors.Wrap(err, "error during PublicAuctionsEnabled")
	})
	if err := group.Wait(); err != nil {
		return errors.WithStack(err)
	}

	isAdministrator := administrator == address
	resp := getRolesResponse{
		Result: &getRolesResult{
			Address:          address,
			Administrator:    isAdministrator,
			Auctioneer:       auctioneer,
			Whitelisted:      whitelisted,
			CanCreateAuction: isAdministrator || auctioneer || (public && whitelisted),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
