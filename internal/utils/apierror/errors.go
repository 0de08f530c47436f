package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse abstracts all API error responses to the user.
//
// This interface does not implement `error`, since its only purpose
// is to be used for API responses and not for logging circumstances.
//
// In general, the whole ErrorResponse can be sent for serialization.
type ErrorResponse interface {
	// Code is the HTTP status code to be returned.
	Code() int
}

type APIError struct {
	Message string `json:"error"`
	Status  int    `json:"-"`
}

func (a *APIError) Code() int {
	return a.Status
}

type StructuredError struct {
	Errors map[string][]string `json:"errors"`
	Status int                 `json:"-"`
}

func (s *StructuredError) Code() int {
	return s.Status
}

func (s *StructuredError) Add(field, problem string) {
	s.Errors[field] = append(s.Errors[field], problem)
}

var (
	MalformedBodyError  = NewSimple(400, "Malformed JSON body")
	InternalServerError = NewSimple(500, "Internal server error")
	NotFoundError       = NewSimple(404, "Resource not found")

	/*
	 * Authentication / authorization
	 */
	AuthRequiredError        = NewSimple(401, "Authentication required")
	InvalidAuthTokenError    = NewSimple(401, "Invalid or expired auth token")
	CredentialsMismatchError = NewSimple(401, "Credentials mismatch")
	AdminRequiredError       = NewSimple(403, "Admin access required")
	ProRequiredError         = NewSimple(403, "Pro subscription required for this feature")
	AccessDeniedError        = NewSimple(403, "Access denied")
	RateLimitedError         = NewSimple(429, "Rate limit exceeded")

	/*
	 * Tenants / subscriptions
	 */
	EmailTakenError       = NewSimple(409, "User already exists")
	TenantNotFoundError   = NewSimple(404, "Tenant not found")
	InviteNotAllowedError = NewSimple(403, "Current plan does not allow inviting users")
	InvalidPlanError      = NewSimple(400, "Invalid subscription plan")
)

func FromValidationError(err error) *StructuredError {
	var ve validator.ValidationErrors
	ok := errors.As(err, &ve)
	if !ok {
		return nil
	}

	problems := map[string][]string{}
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())

		switch fe.Tag() {
		case "required":
			problems[field] = append(problems[field], "This field is required")
		case "min":
			problems[field] = append(problems[field], "Value is too short, min: "+fe.Param())
		case "max":
			problems[field] = append(problems[field], "Value is too long, max: "+fe.Param())
		case "oneof":
			problems[field] = append(problems[field], "Value must be one of: "+fe.Param())
		case "hasupper":
			problems[field] = append(problems[field], "Value must have at least one uppercase character")
		case "haslower":
			problems[field] = append(problems[field], "Value must have at least one lowercase character")
		case "hasdigit":
			problems[field] = append(problems[field], "Value must have at least one number")
		case "hasspecial":
			problems[field] = append(problems[field], "Value must have at least one special character")
		case "nodupes":
			problems[field] = append(problems[field], "Values must not repeat")
		case "nospaces":
			problems[field] = append(problems[field], "Value must not contain whitespace")
		case "email":
			problems[field] = append(problems[field], "Value must be a valid email address")

		default:
			problems[field] = append(problems[field], "Invalid value provided")
		}
	}

	return &StructuredError{
		Errors: problems,
		Status: http.StatusBadRequest,
	}
}

func NewSimple(status int, msg string, args ...any) *APIError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &APIError{Status: status, Message: msg}
}

func NewStructured(code int) *StructuredError {
	return &StructuredError{
		Errors: make(map[string][]string),
		Status: code,
	}
}

// NewLimitReachedError signals that the tenant's plan does not allow
// one more of the given resource.
func NewLimitReachedError(resource string, limit int) *APIError {
	return NewSimple(http.StatusForbidden, "Plan limit reached for %s (max: %d), upgrade to add more", resource, limit)
}

func NewInvalidParamTypeError(name, dataType string) *APIError {
	return NewSimple(http.StatusBadRequest, "Parameter '%s' has invalid type, expected: %s", name, dataType)
}

func NewMissingParamError(name string) *APIError {
	return NewSimple(http.StatusBadRequest, "Parameter '%s' is required", name)
}
