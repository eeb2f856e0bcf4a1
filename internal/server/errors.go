package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	appwindowdomain "github.com/sevasetu/sevasetu/internal/appwindow/domain"
	auditdomain "github.com/sevasetu/sevasetu/internal/audit/domain"
	authdomain "github.com/sevasetu/sevasetu/internal/auth/domain"
	"github.com/sevasetu/sevasetu/internal/authorization"
	certdomain "github.com/sevasetu/sevasetu/internal/certificate/domain"
	contentdomain "github.com/sevasetu/sevasetu/internal/content/domain"
	donationdomain "github.com/sevasetu/sevasetu/internal/donation/domain"
	donordomain "github.com/sevasetu/sevasetu/internal/donor/domain"
	settingsdomain "github.com/sevasetu/sevasetu/internal/settings/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Success bool         `json:"success"`
	Error   errorPayload `json:"error"`
}

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInternal        = errors.New("internal_error")
	ErrNotFound        = errors.New("not_found")
	ErrInvalidRequest  = errors.New("invalid_request")
	ErrTooManyRequests = errors.New("too_many_requests")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Success: false, Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if mErr := asMissingFields(err); mErr != nil {
		fieldErrs := make([]ValidationError, 0, len(mErr.Fields))
		for _, field := range mErr.Fields {
			fieldErrs = append(fieldErrs, ValidationError{
				Field:   field,
				Code:    "required",
				Message: "missing required field",
			})
		}
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  fieldErrs,
		}
	}

	if isValidationError(err) {
		code := err.Error()
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: "invalid value",
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidSession),
		errors.Is(err, authdomain.ErrSessionExpired),
		errors.Is(err, authdomain.ErrSessionRevoked):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, authorization.ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "too_many_requests",
			Message: "too many requests",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func asMissingFields(err error) *donordomain.MissingFieldsError {
	var mErr *donordomain.MissingFieldsError
	if errors.As(err, &mErr) && mErr != nil {
		return mErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, donordomain.ErrInvalidID),
		errors.Is(err, donordomain.ErrInvalidType),
		errors.Is(err, donordomain.ErrInvalidCategory),
		errors.Is(err, donordomain.ErrTypeImmutable),
		errors.Is(err, donationdomain.ErrInvalidID),
		errors.Is(err, donationdomain.ErrInvalidDonor),
		errors.Is(err, donationdomain.ErrInvalidAmount),
		errors.Is(err, donationdomain.ErrInvalidCategory),
		errors.Is(err, donationdomain.ErrInvalidStatus),
		errors.Is(err, donationdomain.ErrPANRequired),
		errors.Is(err, certdomain.ErrInvalidID),
		errors.Is(err, certdomain.ErrVoidReasonRequired),
		errors.Is(err, appwindowdomain.ErrInvalidID),
		errors.Is(err, appwindowdomain.ErrInvalidDonor),
		errors.Is(err, appwindowdomain.ErrInvalidProgram),
		errors.Is(err, appwindowdomain.ErrInvalidCategory),
		errors.Is(err, appwindowdomain.ErrInvalidDateRange),
		errors.Is(err, contentdomain.ErrInvalidID),
		errors.Is(err, contentdomain.ErrInvalidCollection),
		errors.Is(err, contentdomain.ErrInvalidTitle),
		errors.Is(err, auditdomain.ErrInvalidAction),
		errors.Is(err, auditdomain.ErrInvalidTimeRange),
		errors.Is(err, settingsdomain.ErrInvalidName),
		errors.Is(err, authdomain.ErrInvalidRole):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, donationdomain.ErrInvalidTransition),
		errors.Is(err, appwindowdomain.ErrInvalidTransition),
		errors.Is(err, appwindowdomain.ErrDeleteNotAllowed),
		errors.Is(err, certdomain.ErrDonationNotEligible),
		errors.Is(err, certdomain.ErrCertificateAlreadyActive),
		errors.Is(err, certdomain.ErrCertificateAlreadyVoid),
		errors.Is(err, contentdomain.ErrSlugTaken),
		errors.Is(err, authdomain.ErrUserExists):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, donordomain.ErrNotFound),
		errors.Is(err, donationdomain.ErrNotFound),
		errors.Is(err, certdomain.ErrNotFound),
		errors.Is(err, appwindowdomain.ErrNotFound),
		errors.Is(err, contentdomain.ErrNotFound),
		errors.Is(err, settingsdomain.ErrProfileMissing),
		errors.Is(err, authdomain.ErrUserNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorField(code string) string {
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}
