// Package apperr defines the closed set of domain error codes shared by all
// application services and the HTTP status each code maps to.
package apperr

import "errors"

// Code identifies a class of domain failure. Codes are part of the wire
// contract; new codes may be added, existing ones never change meaning.
type Code string

const (
	CodeValidation               Code = "VALIDATION_ERROR"
	CodeBadRequest               Code = "BAD_REQUEST"
	CodeAppointmentInvalidTime   Code = "APPOINTMENT_INVALID_TIME"
	CodeServiceNotOffered        Code = "SERVICE_NOT_OFFERED"
	CodeUnauthorized             Code = "UNAUTHORIZED"
	CodeInvalidCredentials       Code = "INVALID_CREDENTIALS"
	CodeForbidden                Code = "FORBIDDEN"
	CodeNotFound                 Code = "NOT_FOUND"
	CodeCompanyNotFound          Code = "COMPANY_NOT_FOUND"
	CodeServiceNotFound          Code = "SERVICE_NOT_FOUND"
	CodeProfessionalNotFound     Code = "PROFESSIONAL_NOT_FOUND"
	CodeClientNotFound           Code = "CLIENT_NOT_FOUND"
	CodeAppointmentNotFound      Code = "APPOINTMENT_NOT_FOUND"
	CodeMethodNotAllowed         Code = "METHOD_NOT_ALLOWED"
	CodeConflict                 Code = "CONFLICT"
	CodeEmailInUse               Code = "EMAIL_IN_USE"
	CodeCompanyAlreadyExists     Code = "COMPANY_ALREADY_EXISTS"
	CodeAppointmentConflict      Code = "APPOINTMENT_CONFLICT"
	CodeAppointmentInvalidStatus Code = "APPOINTMENT_INVALID_TRANSITION"
	CodeIdempotencyKeyReuse      Code = "IDEMPOTENCY_KEY_REUSE"
	CodeRateLimited              Code = "RATE_LIMITED"
	CodeInternal                 Code = "INTERNAL_ERROR"
	CodeAuthFailure              Code = "AUTH_FAILURE"
	CodeHealthCheckFailed        Code = "HEALTH_CHECK_FAILED"
	CodeCompanyUpdateFailed      Code = "COMPANY_UPDATE_FAILED"
	CodeCompanyDeleteFailed      Code = "COMPANY_DELETE_FAILED"
	CodeServiceUpdateFailed      Code = "SERVICE_UPDATE_FAILED"
	CodeServiceDeleteFailed      Code = "SERVICE_DELETE_FAILED"
	CodeProfessionalUpdateFailed Code = "PROFESSIONAL_UPDATE_FAILED"
	CodeProfessionalDeleteFailed Code = "PROFESSIONAL_DELETE_FAILED"
	CodeClientUpdateFailed       Code = "CLIENT_UPDATE_FAILED"
	CodeClientDeleteFailed       Code = "CLIENT_DELETE_FAILED"
	CodeAppointmentUpdateFailed  Code = "APPOINTMENT_UPDATE_FAILED"
	CodeAppointmentDeleteFailed  Code = "APPOINTMENT_DELETE_FAILED"
)

// Error is an application-layer failure carrying a stable code, a
// human-readable message and optional structured details.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
}

// New returns an error with code and message and no details.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithDetails returns a copy of e carrying details.
func (e *Error) WithDetails(details map[string]any) *Error {
	out := *e
	out.Details = details
	return &out
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

// Status is the HTTP status for e's code.
func (e *Error) Status() int {
	return StatusOf(e.Code)
}

// As reports whether err wraps an *Error and returns it.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) && ae != nil {
		return ae, true
	}
	return nil, false
}

// HasCode reports whether err wraps an *Error with the given code.
func HasCode(err error, code Code) bool {
	ae, ok := As(err)
	return ok && ae.Code == code
}

// Validation builds a VALIDATION_ERROR naming the offending field.
func Validation(field, reason string) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: "invalid " + field,
		Details: map[string]any{field: reason},
	}
}
