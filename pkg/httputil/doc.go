// Package httputil provides the HTTP client used to fetch remote assets such
// as table icons.
//
// # Overview
//
//   - [Client]: GET requests with default headers, retry and an optional
//     [cache.Cache] in front of the network
//   - [Retry]: automatic retry with exponential backoff
//
// # Retry
//
// Only failures wrapped in [RetryableError] are retried. [Client] marks
// transport errors, 429 and 5xx responses as retryable; any other non-200
// status fails immediately.
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return fetchIcon()
//	})
package httputil
