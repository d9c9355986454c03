package auth

// Error codes carried in error envelopes, grouped by failure class.
// Validation codes are prefixed validation/ and name the offending
// field, e.g. validation/missing-username.
const (
	CodeInvalidCredentials = "auth/invalid-credentials"
	CodeUnauthenticated    = "auth/unauthenticated"
	CodeForbidden          = "auth/forbidden"
	CodeSessionCreate      = "session/create"
	CodeSessionDestroy     = "session/destroy"
	CodeLoginGeneral       = "login/general"
	CodeSignupGeneral      = "signup/general"

	CodeValidationPrefix = "validation/"
)
