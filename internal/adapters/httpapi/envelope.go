package httpapi

import (
	"time"

	"github.com/attend-app/attend-api/internal/app/apperr"
)

// Meta is attached to every envelope. Timestamp is RFC 3339 in UTC.
type Meta struct {
	Timestamp string `json:"timestamp"`
	RequestID string `json:"requestId,omitempty"`
}

// Success is the {success:true} envelope.
type Success[T any] struct {
	Success bool  `json:"success"`
	Data    T     `json:"data"`
	Meta    *Meta `json:"meta,omitempty"`
}

// ErrorBody describes a failure; details are omitted when empty.
type ErrorBody struct {
	Code    apperr.Code    `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Failure is the {success:false} envelope.
type Failure struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
	Meta    *Meta     `json:"meta,omitempty"`
}

// Ok wraps data in a success envelope; the caller picks the status (usually 200).
func Ok[T any](data T, meta ...Meta) Success[T] {
	return Success[T]{Success: true, Data: data, Meta: stampMeta(meta)}
}

// Created is Ok for responses paired with 201.
func Created[T any](data T, meta ...Meta) Success[T] {
	return Ok(data, meta...)
}

// Fail builds a failure envelope; the status comes from the code.
func Fail(code apperr.Code, message string, details map[string]any, meta ...Meta) Failure {
	return Failure{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
		Meta: stampMeta(meta),
	}
}

// stampMeta merges caller metadata over a fresh timestamp; later non-empty
// fields win.
func stampMeta(meta []Meta) *Meta {
	out := &Meta{Timestamp: time.Now().UTC().Format(time.RFC3339Nano)}
	for _, m := range meta {
		if m.Timestamp != "" {
			out.Timestamp = m.Timestamp
		}
		if m.RequestID != "" {
			out.RequestID = m.RequestID
		}
	}
	return out
}
