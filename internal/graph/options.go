package graph

import (
	"time"

	"github.com/m365ops/contactsync/pkg/constants"
)

// options configures a Client.
type options struct {
	baseURL        string
	rateLimit      RateLimitConfig
	pageSize       int32
	requestTimeout time.Duration
}

func defaultOptions() *options {
	return &options{
		baseURL:        constants.GraphBaseURL,
		rateLimit:      DefaultRateLimit,
		pageSize:       constants.GraphPageSize,
		requestTimeout: constants.DefaultHTTPTimeout,
	}
}

// Option configures a Client.
type Option func(*options)

// WithBaseURL points the client at another Graph endpoint, such as a national
// cloud or a test server. An empty url keeps the public v1.0 endpoint.
func WithBaseURL(url string) Option {
	return func(o *options) {
		if url != "" {
			o.baseURL = url
		}
	}
}

// WithRequestTimeout bounds each Graph request. Non-positive values keep the default.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.requestTimeout = d
		}
	}
}

// WithRateLimit overrides the request rate. Non-positive values keep the default.
func WithRateLimit(cfg RateLimitConfig) Option {
	return func(o *options) {
		if cfg.RequestsPerSecond > 0 {
			o.rateLimit.RequestsPerSecond = cfg.RequestsPerSecond
		}
		if cfg.BurstSize > 0 {
			o.rateLimit.BurstSize = cfg.BurstSize
		}
	}
}

// WithPageSize sets the $top value used when listing.
func WithPageSize(n int) Option {
	return func(o *options) {
		if n > 0 && n <= constants.GraphPageSize {
			o.pageSize = int32(n)
		}
	}
}
