package graph

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	cerrors "github.com/cockroachdb/errors"
	"github.com/microsoftgraph/msgraph-sdk-go/models/odataerrors"

	"github.com/m365ops/contactsync/internal/utils/ptr"
	"github.com/m365ops/contactsync/pkg/errors"
)

// transformError maps an OData error to *errors.APIError, keeping the
// original error in the chain. Anything else is wrapped with the endpoint.
func transformError(err error, endpoint string) error {
	if err == nil {
		return nil
	}

	var odataErr *odataerrors.ODataError
	if cerrors.As(err, &odataErr) {
		apiErr := &errors.APIError{
			Service:    ServiceName,
			StatusCode: odataErr.ResponseStatusCode,
			Endpoint:   endpoint,
			Err:        err,
		}
		if payload := odataErr.GetErrorEscaped(); payload != nil {
			apiErr.Code = ptr.Deref(payload.GetCode())
			apiErr.Message = ptr.Deref(payload.GetMessage())
		}
		if apiErr.Message == "" {
			apiErr.Message = fmt.Sprintf("HTTP status code %d", odataErr.ResponseStatusCode)
		}
		return apiErr
	}

	return cerrors.Wrapf(err, "%s request %s", ServiceName, endpoint)
}

// retryAfter reads the Retry-After header of a throttled response.
// Returns zero when the header is missing or not a number of seconds.
func retryAfter(err error) time.Duration {
	var odataErr *odataerrors.ODataError
	if !cerrors.As(err, &odataErr) || odataErr.ResponseHeaders == nil {
		return 0
	}
	for _, v := range odataErr.ResponseHeaders.Get("Retry-After") {
		if secs, convErr := strconv.Atoi(strings.TrimSpace(v)); convErr == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 0
}
