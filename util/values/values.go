package values

type contextKey string

const (
	Success        = "success"
	Created        = "created"
	Error          = "error"
	SystemErr      = "system_error"
	BadRequestBody = "bad_request_body"
	Unprocessable  = "unprocessable"
	NotAllowed     = "not_allowed"
	Conflict       = "conflict"
	NotFound       = "not_found"
	NotAuthorised  = "not_authorised"
	TokenExpired   = "token_expired"
	Unavailable    = "unavailable"
)

const (
	HeaderRequestSource = "X-Request-Source"
	HeaderRequestID     = "X-Request-ID"
)

const ContextTracingKey contextKey = "tracing"
