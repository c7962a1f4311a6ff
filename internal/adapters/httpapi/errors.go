package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/attend-app/attend-api/internal/app/apperr"
	"github.com/attend-app/attend-api/internal/platform/logging"
)

// handlerFunc is an http.HandlerFunc that reports failures instead of writing them.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle routes every handler error through writeError.
func handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			writeError(w, r, err)
		}
	}
}

// writeError is the single place errors become wire responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if ae, ok := apperr.As(err); ok {
		status := ae.Status()
		if status >= http.StatusInternalServerError {
			logging.FromContext(r.Context()).Error("request failed", "code", ae.Code, "err", err)
		}
		writeJSON(w, status, Fail(ae.Code, ae.Message, ae.Details, requestMeta(r)))
		return
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		ve := validationError(verrs)
		writeJSON(w, http.StatusBadRequest, Fail(ve.Code, ve.Message, ve.Details, requestMeta(r)))
		return
	}

	logging.FromContext(r.Context()).Error("unhandled error", "err", err)
	writeJSON(w, http.StatusInternalServerError, Fail(apperr.CodeInternal, "Internal server error.", nil, requestMeta(r)))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func requestMeta(r *http.Request) Meta {
	return Meta{RequestID: middleware.GetReqID(r.Context())}
}

func writeOK[T any](w http.ResponseWriter, r *http.Request, data T) error {
	writeJSON(w, http.StatusOK, Ok(data, requestMeta(r)))
	return nil
}

func writeCreated[T any](w http.ResponseWriter, r *http.Request, data T) error {
	writeJSON(w, http.StatusCreated, Created(data, requestMeta(r)))
	return nil
}

func writeNoContent(w http.ResponseWriter) error {
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, apperr.New(apperr.CodeNotFound, "Route "+r.Method+" "+r.URL.Path+" not found."))
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, apperr.New(apperr.CodeMethodNotAllowed, "Method "+r.Method+" not allowed on "+r.URL.Path+"."))
}
