package apperr

import "net/http"

var statusByCode = map[Code]int{
	CodeValidation:               http.StatusBadRequest,
	CodeBadRequest:               http.StatusBadRequest,
	CodeAppointmentInvalidTime:   http.StatusBadRequest,
	CodeServiceNotOffered:        http.StatusBadRequest,
	CodeUnauthorized:             http.StatusUnauthorized,
	CodeInvalidCredentials:       http.StatusUnauthorized,
	CodeForbidden:                http.StatusForbidden,
	CodeNotFound:                 http.StatusNotFound,
	CodeCompanyNotFound:          http.StatusNotFound,
	CodeServiceNotFound:          http.StatusNotFound,
	CodeProfessionalNotFound:     http.StatusNotFound,
	CodeClientNotFound:           http.StatusNotFound,
	CodeAppointmentNotFound:      http.StatusNotFound,
	CodeMethodNotAllowed:         http.StatusMethodNotAllowed,
	CodeConflict:                 http.StatusConflict,
	CodeEmailInUse:               http.StatusConflict,
	CodeCompanyAlreadyExists:     http.StatusConflict,
	CodeAppointmentConflict:      http.StatusConflict,
	CodeAppointmentInvalidStatus: http.StatusConflict,
	CodeIdempotencyKeyReuse:      http.StatusConflict,
	CodeRateLimited:              http.StatusTooManyRequests,
	CodeInternal:                 http.StatusInternalServerError,
	CodeAuthFailure:              http.StatusInternalServerError,
	CodeHealthCheckFailed:        http.StatusInternalServerError,
	CodeCompanyUpdateFailed:      http.StatusInternalServerError,
	CodeCompanyDeleteFailed:      http.StatusInternalServerError,
	CodeServiceUpdateFailed:      http.StatusInternalServerError,
	CodeServiceDeleteFailed:      http.StatusInternalServerError,
	CodeProfessionalUpdateFailed: http.StatusInternalServerError,
	CodeProfessionalDeleteFailed: http.StatusInternalServerError,
	CodeClientUpdateFailed:       http.StatusInternalServerError,
	CodeClientDeleteFailed:       http.StatusInternalServerError,
	CodeAppointmentUpdateFailed:  http.StatusInternalServerError,
	CodeAppointmentDeleteFailed:  http.StatusInternalServerError,
}

// StatusOf maps a code to its HTTP status. Unknown codes map to 500.
func StatusOf(code Code) int {
	if s, ok := statusByCode[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}
