package bhttp

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/cors"

	"github.com/brynbellomy/go-orderedset/errors"
)

var (
	ErrBadRequest = errors.WithMetadata(errors.New("bad request"), errors.StatusCode(http.StatusBadRequest), errors.FaultCaller)
	ErrNotFound   = errors.WithMetadata(errors.New("not found"), errors.StatusCode(http.StatusNotFound), errors.FaultCaller)

	ErrIDCollision = errors.WithMetadata(errors.New("could not allocate a unique set id"),
		errors.StatusCode(http.StatusInternalServerError), errors.FaultInternal, errors.Retryable)
)

// RespondJSON encodes data as JSON with the given status code. It panics if encoding fails.
func RespondJSON(resp http.ResponseWriter, status int, data any) {
	resp.Header().Set("Content-Type", "application/json")
	resp.WriteHeader(status)

	err := json.NewEncoder(resp).Encode(data)
	if err != nil {
		panic(err)
	}
}

// RespondError reports err as {"error": "..."} using the status code recorded in
// its metadata (500 when there is none). Fields attached to the error become
// additional top-level keys.
func RespondError(resp http.ResponseWriter, err error) {
	status := errors.GetStatusCode(err)
	if status == 0 {
		status = http.StatusInternalServerError
	}

	body := map[string]any{}
	fields := errors.GetFields(err)
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprint(fields[i])
		if _, exists := body[key]; !exists {
			body[key] = fields[i+1]
		}
	}
	body["error"] = err.Error()

	RespondJSON(resp, status, body)
}

// UnrestrictedCORS wraps an HTTP handler with permissive CORS middleware that allows
// all origins, methods, headers, and credentials. This should only be used in development
// or when the API is intentionally public.
func UnrestrictedCORS(handler http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowOriginFunc:  func(string) bool { return true },
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS", "HEAD"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(handler)
}
