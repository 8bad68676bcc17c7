package httputil

import (
	"io"
	"log/slog"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
)

type failureBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	body, err := sonic.Marshal(v)
	if err != nil {
		InternalServerError(w, "Failed to encode response", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// DecodeJSON reads the request body into v. Oversized bodies report
// http.StatusRequestEntityTooLarge, anything else unreadable is a bad request.
func DecodeJSON(r *http.Request, v any) (int, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return http.StatusRequestEntityTooLarge, errors.Wrap(err, "read request body")
		}
		return http.StatusBadRequest, errors.Wrap(err, "read request body")
	}
	if err := sonic.Unmarshal(data, v); err != nil {
		return http.StatusBadRequest, errors.Wrap(err, "decode request body")
	}
	return http.StatusOK, nil
}

func writeFailure(w http.ResponseWriter, status int, msg string) {
	body, _ := sonic.Marshal(failureBody{Success: false, Error: msg})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func InternalServerError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	writeFailure(w, http.StatusInternalServerError, "Internal Server Error")
}

func BadRequest(w http.ResponseWriter, status int, msg string, err error) {
	if err != nil {
		slog.Warn("bad request", "message", msg, "error", err.Error())
	} else {
		slog.Warn("bad request", "message", msg)
	}
	writeFailure(w, status, msg)
}

func NotFound(w http.ResponseWriter, msg string) {
	slog.Warn("not found", "message", msg)
	writeFailure(w, http.StatusNotFound, msg)
}
