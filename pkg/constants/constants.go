// Package constants holds the limits and defaults shared by the Graph client,
// the reconciler and the command.
package constants

import "time"

// Timeouts.
const (
	// DefaultHTTPTimeout bounds a single Graph request.
	DefaultHTTPTimeout = 30 * time.Second

	// RateLimitBackoff is the pause after a 429 that carries no Retry-After.
	RateLimitBackoff = 60 * time.Second
)

// Permissions for report files and their directories.
const (
	DirPermissions  = 0o755
	FilePermissions = 0o644
)

// Microsoft Graph.
const (
	// GraphScope requests every application permission granted to the app.
	GraphScope = "https://graph.microsoft.com/.default"

	GraphBaseURL = "https://graph.microsoft.com/v1.0"

	// GraphPageSize is the $top used for listing. orgContact pages stop at 999.
	GraphPageSize = 999

	// DefaultRequestsPerSecond stays under the Exchange Online per-mailbox
	// concurrency and rate limits.
	DefaultRequestsPerSecond = 4.0
	DefaultBurstSize         = 4
)

// Time layouts.
const (
	TimeFormatHuman    = "Jan 2, 2006 at 3:04pm MST"
	TimeFormatFilename = "20060102-150405"
)
