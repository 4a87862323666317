package errs

// Error codes line up with the HTTP status the middleware answers with.
const (
	ArgsErrorCode       = 400
	UnauthenticatedCode = 401
	ForbiddenCode       = 403
	NotFoundCode        = 404
	InternalCode        = 500
)

var (
	ErrArgs            = NewCodeError(ArgsErrorCode, "invalid argument")
	ErrUnauthenticated = NewCodeError(UnauthenticatedCode, "not authenticated")
	ErrForbidden       = NewCodeError(ForbiddenCode, "not authorized")
	ErrNotFound        = NewCodeError(NotFoundCode, "not found")
	ErrInternal        = NewCodeError(InternalCode, "internal error")
)

// HTTPStatus picks the transport status for an envelope code. Codes outside
// the reserved range answer as 500.
func HTTPStatus(code int) int {
	switch code {
	case ArgsErrorCode, UnauthenticatedCode, ForbiddenCode, NotFoundCode:
		return code
	default:
		return InternalCode
	}
}
