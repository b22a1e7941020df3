package response

// Business status codes carried in the body; the HTTP status stays 200 so
// the storefront reads every outcome the same way.
const (
	CodeOK              = 0
	CodeBadRequest      = 400 // validation, empty cart, not enough stock
	CodeUnauthorized    = 401 // missing or expired admin session
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeConflict        = 409 // stock or order status changed under the request
	CodeTooManyRequests = 429 // rate limited; data.retry_after holds the wait
	CodeInternal        = 500
	CodeUnavailable     = 503 // storage backend down; nothing was applied
)

// IsServerSide reports codes the caller cannot fix by changing the request.
// Handlers log the cause for these.
func IsServerSide(code int) bool {
	return code >= CodeInternal
}
