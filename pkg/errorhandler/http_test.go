package errorhandler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/auctionhouse/common/errs"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: NewHTTPErrorHandler()})
	app.Get("/not-found", func(c *fiber.Ctx) error {
		return errs.WithPublicMessage(errors.Wrap(errs.NotFound, "auction 1"), "auction not found")
	})
	app.Get("/public", func(c *fiber.Ctx) error {
		return errs.NewPublicError("invalid auction id")
	})
	app.Get("/internal", func(c *fiber.Ctx) error {
		return errors.New("database is down")
	})
	app.Get("/fiber", func(c *fiber.Ctx) error {
		return fiber.ErrMethodNotAllowed
	})

	testcases := []struct {
		path    string
		status  int
		message string
		code    any
	}{
		{"/not-found", http.StatusNotFound, "auction not found: auction 1: Not Found", "not_found"},
		{"/public", http.StatusBadRequest, "invalid auction id", "invalid_argument"},
		{"/internal", http.StatusInternalServerError, "Internal Server Error", nil},
		{"/fiber", http.StatusMethodNotAllowed, "Method Not Allowed", nil},
	}
	for _, tc := range testcases {
		t.Run(tc.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tc.path, nil))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			var result map[string]any
			require.NoError(t, json.Unmarshal(body, &result))
			assert.Equal(t, tc.message, result["error"])
			assert.Equal(t, tc.code, result["code"])
		})
	}
}
