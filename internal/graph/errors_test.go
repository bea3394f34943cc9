package graph

import (
	"fmt"
	"testing"
	"time"

	abstractions "github.com/microsoft/kiota-abstractions-go"
	"github.com/microsoftgraph/msgraph-sdk-go/models/odataerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m365ops/contactsync/internal/utils/ptr"
	"github.com/m365ops/contactsync/pkg/errors"
)

func newODataError(status int, code, message string) *odataerrors.ODataError {
	e := odataerrors.NewODataError()
	e.ResponseStatusCode = status
	if code != "" || message != "" {
		main := odataerrors.NewMainError()
		main.SetCode(ptr.To(code))
		main.SetMessage(ptr.To(message))
		e.SetErrorEscaped(main)
	}
	return e
}

func TestTransformError(t *testing.T) {
	assert.NoError(t, transformError(nil, "GET /contacts"))

	t.Run("odata error becomes APIError", func(t *testing.T) {
		err := transformError(newODataError(429, "TooManyRequests", "Slow down"), "POST /users/x/contacts")

		var apiErr *errors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, ServiceName, apiErr.Service)
		assert.Equal(t, 429, apiErr.StatusCode)
		assert.Equal(t, "TooManyRequests", apiErr.Code)
		assert.Equal(t, "Slow down", apiErr.Message)
		assert.True(t, errors.IsRateLimited(err))

		var odataErr *odataerrors.ODataError
		assert.ErrorAs(t, err, &odataErr)
	})

	t.Run("missing payload falls back to status", func(t *testing.T) {
		err := transformError(newODataError(503, "", ""), "GET /contacts")
		assert.True(t, errors.IsServiceUnavailable(err))
		assert.Contains(t, err.Error(), "HTTP status code 503")
	})

	t.Run("wrapped odata error is found", func(t *testing.T) {
		wrapped := fmt.Errorf("page 2: %w", newODataError(404, "ErrorItemNotFound", "gone"))
		assert.True(t, errors.IsNotFound(transformError(wrapped, "GET /contacts")))
	})

	t.Run("other errors keep their message", func(t *testing.T) {
		err := transformError(errors.New("connection reset"), "GET /contacts")
		assert.Contains(t, err.Error(), "connection reset")
		assert.Contains(t, err.Error(), "GET /contacts")
	})
}

func TestRetryAfter(t *testing.T) {
	e := newODataError(429, "TooManyRequests", "Slow down")
	assert.Zero(t, retryAfter(e))

	e.ResponseHeaders = abstractions.NewResponseHeaders()
	e.ResponseHeaders.Add("Retry-After", "7")
	assert.Equal(t, 7*time.Second, retryAfter(transformError(e, "GET /contacts")))

	assert.Zero(t, retryAfter(errors.New("plain")))
}
