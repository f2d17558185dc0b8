package httputils

import (
	"net/http"

	"boscoin.io/roster/lib/errors"
)

// IsEventStream checks request header accept is text/event-stream
func IsEventStream(r *http.Request) bool {
	if r.Header.Get("Accept") == "text/event-stream" {
		return true

	}
	return false
}

var (
	// ErrorsToStatus overrides the status derived from the error kind.
	ErrorsToStatus = map[uint]int{
		errors.NotFound.Code:                  http.StatusNotFound,
		errors.NominationNotFound.Code:        http.StatusNotFound,
		errors.ProposalNotFound.Code:          http.StatusNotFound,
		errors.AccountNotFound.Code:           http.StatusNotFound,
		errors.PermissionDenied.Code:          http.StatusForbidden,
		errors.NotMember.Code:                 http.StatusForbidden,
		errors.LockedOut.Code:                 http.StatusForbidden,
		errors.InvalidSignature.Code:          http.StatusUnauthorized,
		errors.RateLimited.Code:               http.StatusTooManyRequests,
		errors.StorageRecordDoesNotExist.Code: http.StatusNotFound,
	}

	KindToStatus = map[errors.Kind]int{
		errors.KindValidation:   http.StatusBadRequest,
		errors.KindPrecondition: http.StatusConflict,
		errors.KindResource:     http.StatusPaymentRequired,
		errors.KindInvariant:    http.StatusUnprocessableEntity,
		errors.KindInternal:     http.StatusInternalServerError,
	}
)

func StatusCode(err error) int {
	e, ok := err.(*errors.Error)
	if !ok {
		return http.StatusInternalServerError
	}
	if status, found := ErrorsToStatus[e.Code]; found {
		return status
	}
	if status, found := KindToStatus[e.Kind()]; found {
		return status
	}

	return http.StatusInternalServerError
}
