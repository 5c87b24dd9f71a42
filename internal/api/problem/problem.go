package problem

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

const contentType = "application/problem+json"

// Problem type URIs returned by this API.
const (
	TypeValidation   = "https://eventloom.dev/problems/validation-error"
	TypeUnauthorized = "https://eventloom.dev/problems/unauthorized"
	TypeForbidden    = "https://eventloom.dev/problems/forbidden"
	TypeNotFound     = "https://eventloom.dev/problems/not-found"
	TypeConflict     = "https://eventloom.dev/problems/conflict"
	TypeServerError  = "https://eventloom.dev/problems/server-error"
)

type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// Write renders an RFC 7807 response. Details of the underlying error are
// only exposed outside production; 5xx are logged at error level, 4xx at
// warn.
func Write(w http.ResponseWriter, r *http.Request, status int, typ, title string, err error, env string) {
	p := ProblemDetails{
		Type:   typ,
		Title:  title,
		Status: status,
	}

	if err != nil {
		if env == "development" || env == "test" {
			p.Detail = err.Error()
		} else {
			p.Detail = http.StatusText(status)
		}
	}
	if r != nil {
		p.Instance = r.URL.Path
	}

	if err != nil && r != nil {
		logger := zerolog.Ctx(r.Context())
		event := logger.Warn()
		if status >= 500 {
			event = logger.Error()
		}
		event.Err(err).
			Int("status", status).
			Str("type", typ).
			Str("path", r.URL.Path).
			Str("method", r.Method).
			Msg(title)
	}

	payload, marshalErr := json.Marshal(p)
	if marshalErr != nil {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, `{"type":"about:blank","title":%q,"status":500}`, http.StatusText(http.StatusInternalServerError))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)
