package server

import (
	"errors"
	"net/http"
	"strings"

	orgdomain "github.com/avbinvest/staffsync/internal/organization/domain"
	persondomain "github.com/avbinvest/staffsync/internal/person/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ErrInvalidRequest reports a request body that could not be parsed at all,
// as opposed to a well-formed body with a bad field value.
var ErrInvalidRequest = errors.New("invalid_request")

// errorBody is the wire shape for failures: {"error":{"type","message"}}.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// MapError is the single translation point from domain sentinels to HTTP.
// Handlers never pick status codes themselves.
func MapError(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, ""

	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, persondomain.ErrInvalidID),
		errors.Is(err, persondomain.ErrInvalidFirstName),
		errors.Is(err, persondomain.ErrInvalidLastName),
		errors.Is(err, persondomain.ErrInvalidPhoneNumber),
		errors.Is(err, orgdomain.ErrInvalidID),
		errors.Is(err, orgdomain.ErrInvalidName),
		errors.Is(err, orgdomain.ErrInvalidBudget):
		return http.StatusBadRequest, sentinelType(err)

	case errors.Is(err, persondomain.ErrNotFound),
		errors.Is(err, persondomain.ErrOrganizationNotFound),
		errors.Is(err, persondomain.ErrMembershipNotFound),
		errors.Is(err, orgdomain.ErrNotFound),
		errors.Is(err, orgdomain.ErrMemberNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, sentinelType(err)

	case errors.Is(err, persondomain.ErrPhoneNumberExists),
		errors.Is(err, persondomain.ErrAlreadyAssigned),
		errors.Is(err, persondomain.ErrNotMember),
		errors.Is(err, orgdomain.ErrNameExists):
		return http.StatusConflict, sentinelType(err)

	// A peer that cannot be reached is a gateway failure, not a caller
	// mistake.
	case errors.Is(err, persondomain.ErrOrganizationUnavailable),
		errors.Is(err, orgdomain.ErrPersonServiceUnavailable):
		return http.StatusBadGateway, sentinelType(err)

	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// sentinelType digs the sentinel out of a wrapped error chain so the wire
// type stays stable no matter how much context was wrapped around it.
func sentinelType(err error) string {
	for _, sentinel := range []error{
		ErrInvalidRequest,
		persondomain.ErrInvalidID,
		persondomain.ErrInvalidFirstName,
		persondomain.ErrInvalidLastName,
		persondomain.ErrInvalidPhoneNumber,
		persondomain.ErrNotFound,
		persondomain.ErrPhoneNumberExists,
		persondomain.ErrAlreadyAssigned,
		persondomain.ErrNotMember,
		persondomain.ErrOrganizationNotFound,
		persondomain.ErrMembershipNotFound,
		persondomain.ErrOrganizationUnavailable,
		orgdomain.ErrInvalidID,
		orgdomain.ErrInvalidName,
		orgdomain.ErrInvalidBudget,
		orgdomain.ErrNotFound,
		orgdomain.ErrNameExists,
		orgdomain.ErrMemberNotFound,
		orgdomain.ErrPersonServiceUnavailable,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "record_not_found"
	}
	return "internal_error"
}

// ClassifyError feeds the request logger; it returns the error class and the
// stable wire type.
func ClassifyError(err error) (string, string) {
	status, errType := MapError(err)
	switch {
	case status == http.StatusBadGateway:
		return "upstream", errType
	case status >= http.StatusInternalServerError:
		return "server", errType
	default:
		return "client", errType
	}
}

// AbortWithError records err on the gin context and writes the error
// envelope in one place.
func AbortWithError(c *gin.Context, err error) {
	status, errType := MapError(err)
	_ = c.Error(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		// Internal details stay in the logs.
		message = "internal error"
	}
	c.AbortWithStatusJSON(status, errorBody{Error: errorDetail{
		Type:    errType,
		Message: strings.TrimSpace(message),
	}})
}
