package errutil

import "net/http"

// CoreStatus is the transport-agnostic error classifier carried by every
// domain error. Handlers map it to a protocol status at the edge.
type CoreStatus string

const (
	StatusBadRequest          CoreStatus = "BAD_REQUEST"
	StatusInvalidID           CoreStatus = "INVALID_ID"
	StatusValidationFailed    CoreStatus = "VALIDATION_FAILED"
	StatusUnauthorized        CoreStatus = "UNAUTHORIZED"
	StatusForbidden           CoreStatus = "FORBIDDEN"
	StatusNotFound            CoreStatus = "NOT_FOUND"
	StatusConflict            CoreStatus = "CONFLICT"
	StatusUnprocessableEntity CoreStatus = "UNPROCESSABLE_ENTITY"
	StatusTooManyRequests     CoreStatus = "TOO_MANY_REQUESTS"
	StatusClientClosedRequest CoreStatus = "CLIENT_CLOSED_REQUEST"

	// Configuration errors. Surfaced as 500-class failures on purpose:
	// an unknown condition or reward tag is a deployment problem, not
	// something a caller can retry around.
	StatusUnsupportedCondition CoreStatus = "UNSUPPORTED_CONDITION_TYPE"
	StatusUnsupportedReward    CoreStatus = "UNSUPPORTED_REWARD_TYPE"

	StatusInternal           CoreStatus = "INTERNAL"
	StatusNotImplemented     CoreStatus = "NOT_IMPLEMENTED"
	StatusTimeout            CoreStatus = "TIMEOUT"
	StatusBadGateway         CoreStatus = "BAD_GATEWAY"
	StatusGatewayTimeout     CoreStatus = "GATEWAY_TIMEOUT"
	StatusServiceUnavailable CoreStatus = "SERVICE_UNAVAILABLE"
	StatusUnknown            CoreStatus = "UNKNOWN"
)

// HTTPStatus converts the CoreStatus to its closest HTTP status code.
func (s CoreStatus) HTTPStatus() int {
	switch s {
	case StatusBadRequest, StatusInvalidID, StatusValidationFailed:
		return http.StatusBadRequest
	case StatusUnauthorized:
		return http.StatusUnauthorized
	case StatusForbidden:
		return http.StatusForbidden
	case StatusNotFound:
		return http.StatusNotFound
	case StatusConflict:
		return http.StatusConflict
	case StatusUnprocessableEntity:
		return http.StatusUnprocessableEntity
	case StatusTooManyRequests:
		return http.StatusTooManyRequests
	case StatusClientClosedRequest:
		return 499
	case StatusNotImplemented:
		return http.StatusNotImplemented
	case StatusTimeout, StatusGatewayTimeout:
		return http.StatusGatewayTimeout
	case StatusBadGateway:
		return http.StatusBadGateway
	case StatusServiceUnavailable:
		return http.StatusServiceUnavailable
	case StatusUnsupportedCondition, StatusUnsupportedReward, StatusInternal, StatusUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
