package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"

	"ukuvi-assistant/pkg/api"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
)

const (
	msgUnexpected  = "Ocurrió un error inesperado. Por favor, intenta de nuevo."
	msgInvalidBody = "El cuerpo de la solicitud no es válido."
)

type codedError struct {
	err     error
	code    int
	headers http.Header
}

func (e *codedError) Error() string {
	return e.err.Error()
}

func (e *codedError) Unwrap() error {
	return e.err
}

func CodedError(code int, err error) error {
	return &codedError{err: err, code: code}
}

func CodedErrorf(code int, format string, args ...any) error {
	return &codedError{err: fmt.Errorf(format, args...), code: code}
}

// codedErrorWithHeaders is a CodedError whose headers are copied onto the
// error response.
func codedErrorWithHeaders(code int, err error, headers http.Header) error {
	return &codedError{err: err, code: code, headers: headers}
}

func ParseRequest[T any](r *http.Request) (T, error) {
	var data T
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		slog.Error("error parsing request body", "error", err)
		return data, CodedErrorf(http.StatusBadRequest, msgInvalidBody)
	}
	return data, nil
}

func ParseRequestQueryParams[T any](r *http.Request) (T, error) {
	var data T
	if err := r.ParseForm(); err != nil {
		slog.Error("error parsing form", "error", err)
		return data, CodedErrorf(http.StatusBadRequest, "unable to parse request query params")
	}

	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	if err := decoder.Decode(&data, r.Form); err != nil {
		slog.Error("error decoding query params", "error", err)
		return data, CodedErrorf(http.StatusBadRequest, "unable to parse request query params")
	}

	return data, nil
}

// RestHandler adapts handler to an http.HandlerFunc. Errors are written as
// {"error": msg}. Coded errors keep their status and message, anything else
// (including a panic) becomes a 500 with a generic message.
func RestHandler(handler func(r *http.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				slog.Error("recovered panic in endpoint", "path", r.URL.Path, "panic", rec)
				WriteJsonResponseWithStatus(w, http.StatusInternalServerError, api.ErrorResponse{Error: msgUnexpected})
			}
		}()

		res, err := handler(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		if res == nil {
			res = struct{}{}
		}

		WriteJsonResponse(w, res)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var cerr *codedError
	if !errors.As(err, &cerr) {
		slog.Error("recieved non coded error from endpoint", "path", r.URL.Path, "error", err)
		WriteJsonResponseWithStatus(w, http.StatusInternalServerError, api.ErrorResponse{Error: msgUnexpected})
		return
	}

	if cerr.code == http.StatusInternalServerError {
		slog.Error("internal server error received in endpoint", "path", r.URL.Path, "error", err)
	}
	for key, values := range cerr.headers {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	WriteJsonResponseWithStatus(w, cerr.code, api.ErrorResponse{Error: err.Error()})
}

func WriteJsonResponse(w http.ResponseWriter, data interface{}) {
	WriteJsonResponseWithStatus(w, http.StatusOK, data)
}

func WriteJsonResponseWithStatus(w http.ResponseWriter, code int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("error serializing response body", "error", err)
		http.Error(w, fmt.Sprintf("error serializing response body: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(append(body, '\n')); err != nil {
		slog.Error("error writing response body", "error", err)
	}
}

var sessionIDPattern = regexp.MustCompile(`^[\w-]{1,255}$`)

// URLParamSessionID reads a session id path parameter. Both generated uuids
// and the widget's own "session_<ms>_<rand>" ids are accepted.
func URLParamSessionID(r *http.Request, key string) (string, error) {
	param := chi.URLParam(r, key)

	if len(param) == 0 {
		return "", CodedErrorf(http.StatusBadRequest, "missing {%v} url parameter", key)
	}

	if !sessionIDPattern.MatchString(param) {
		return "", CodedErrorf(http.StatusBadRequest, "invalid session id '%s' provided: only alphanumeric characters, underscores, and hyphens are allowed", param)
	}

	return param, nil
}
