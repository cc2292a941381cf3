// Package requestid assigns a request ID to every HTTP request.
//
// A valid incoming X-Request-ID header (letters, digits, '-' and '_', at most
// 128 chars) is kept; anything else is replaced by a fresh UUIDv7. The ID is
// echoed in the response and stored in the request context:
//
//	r.Use(requestid.Middleware)
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	log.InfoContext(r.Context(), "handled") // carries request_id
package requestid
