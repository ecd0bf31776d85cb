package errs

import (
	"net/http"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	t.Run("marked", func(t *testing.T) {
		err := errors.Mark(errors.New("auction doesn't exist"), NotFound)
		kind, ok := KindOf(errors.Wrap(err, "can't cancel auction"))
		assert.True(t, ok)
		assert.Equal(t, NotFound, kind)
	})
	t.Run("wrapped", func(t *testing.T) {
		kind, ok := KindOf(errors.Wrapf(Unauthorized, "caller %s", "0x01"))
		assert.True(t, ok)
		assert.Equal(t, Unauthorized, kind)
	})
	t.Run("unknown", func(t *testing.T) {
		_, ok := KindOf(errors.New("boom"))
		assert.False(t, ok)
		_, ok = KindOf(nil)
		assert.False(t, ok)
	})
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, NotFound.HTTPStatus())
	assert.Equal(t, http.StatusForbidden, Unauthorized.HTTPStatus())
	assert.Equal(t, http.StatusConflict, InvalidState.HTTPStatus())
	assert.Equal(t, http.StatusUnprocessableEntity, InvalidAmount.HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, InvalidArgument.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, ErrorKind("other").HTTPStatus())
}

func TestErrorKindCode(t *testing.T) {
	assert.Equal(t, "not_found", NotFound.Code())
	assert.Equal(t, "transfer_failure", TransferFailure.Code())
	assert.Equal(t, "overflow_uint128", OverflowUint128.Code())
}
