// Package boundary is the request/response contract the presentation layer
// talks to. Every operation answers with a Response: either
// {"success":true,...payload} or {"success":false,"error":"..."}.
package boundary

import (
	"net/http"

	"github.com/AdamBeresnev/tournament-store/internal/bracket"
	"github.com/AdamBeresnev/tournament-store/internal/store"
	"github.com/AdamBeresnev/tournament-store/internal/theme"
	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
)

// Response is the discriminated result of one boundary call. On success the
// fields of Data are inlined next to "success"; Data must encode as a JSON
// object.
type Response[T any] struct {
	Success bool
	Error   string
	Data    T

	err error
}

type TournamentList struct {
	Tournaments []bracket.Tournament `json:"tournaments"`
}

type TournamentPayload struct {
	Tournament bracket.Tournament `json:"tournament"`
}

type ImagePath struct {
	ImagePath string `json:"imagePath"`
}

type DataURL struct {
	DataURL string `json:"dataUrl"`
}

type ThemePayload struct {
	Theme theme.Palette `json:"theme"`
}

type Health struct {
	Status string `json:"status"`
}

func succeed[T any](data T) Response[T] {
	return Response[T]{Success: true, Data: data}
}

func failWith[T any](err error) Response[T] {
	return Response[T]{Error: err.Error(), err: err}
}

// Err returns the failure that produced r, if it was built from one.
func (r Response[T]) Err() error {
	return r.err
}

// StatusCode maps the failure category to an HTTP status.
func (r Response[T]) StatusCode() int {
	if r.Success {
		return http.StatusOK
	}
	return mapError(r.err).HTTPStatus
}

type failureBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (r Response[T]) MarshalJSON() ([]byte, error) {
	if !r.Success {
		return sonic.Marshal(failureBody{Success: false, Error: r.Error})
	}

	payload, err := sonic.Marshal(r.Data)
	if err != nil {
		return nil, errors.Wrap(err, "encode response payload")
	}
	if len(payload) < 2 || payload[0] != '{' {
		return nil, errors.Newf("response payload %T is not a JSON object", r.Data)
	}

	out := make([]byte, 0, len(payload)+16)
	out = append(out, `{"success":true`...)
	if len(payload) > 2 {
		out = append(out, ',')
	}
	return append(out, payload[1:]...), nil
}

func (r *Response[T]) UnmarshalJSON(data []byte) error {
	var head failureBody
	if err := sonic.Unmarshal(data, &head); err != nil {
		return errors.Wrap(err, "decode response")
	}
	r.Success = head.Success
	r.Error = head.Error
	if !head.Success {
		return nil
	}
	return sonic.Unmarshal(data, &r.Data)
}

type mappedError struct {
	HTTPStatus int
	Reason     string
}

func mapError(err error) mappedError {
	switch {
	case errors.Is(err, store.ErrInvalidInput):
		return mappedError{HTTPStatus: http.StatusBadRequest, Reason: "invalidInput"}
	case errors.Is(err, store.ErrNotFound):
		return mappedError{HTTPStatus: http.StatusNotFound, Reason: "notFound"}
	case errors.Is(err, store.ErrConflict):
		return mappedError{HTTPStatus: http.StatusConflict, Reason: "conflict"}
	case errors.Is(err, store.ErrMalformed):
		return mappedError{HTTPStatus: http.StatusUnprocessableEntity, Reason: "malformed"}
	default:
		return mappedError{HTTPStatus: http.StatusInternalServerError, Reason: "internalError"}
	}
}
