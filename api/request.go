package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rpupo63/blog-backend/errs"
)

const maxBodyBytes = 1_048_576 // 1 MB

func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		var (
			syntaxError        *json.SyntaxError
			unmarshalTypeError *json.UnmarshalTypeError
			maxBytesError      *http.MaxBytesError
		)

		switch {
		case errors.As(err, &syntaxError):
			return errs.NewInvalidJSONError(fmt.Sprintf("body contains badly-formed JSON (at character %d)", syntaxError.Offset), err)

		case errors.Is(err, io.ErrUnexpectedEOF):
			return errs.NewInvalidJSONError("body contains badly-formed JSON", err)

		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return errs.NewValidationError(map[string][]string{
					unmarshalTypeError.Field: {fmt.Sprintf("Incorrect type. Expected %s.", unmarshalTypeError.Type)},
				})
			}
			return errs.NewInvalidJSONError(fmt.Sprintf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset), err)

		case errors.Is(err, io.EOF):
			return errs.NewInvalidJSONError("body must not be empty", err)

		case errors.As(err, &maxBytesError):
			return errs.NewMaxBodySizeExceededError(maxBodyBytes)

		default:
			return errs.NewMalformedPayloadError("JSON", err)
		}
	}

	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errs.NewInvalidJSONError("body must contain only a single JSON value", nil)
	}

	return nil
}

// absoluteURL rebuilds the URL the client requested, honouring a TLS
// terminating proxy.
func absoluteURL(r *http.Request) *url.URL {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}

	return &url.URL{
		Scheme:   scheme,
		Host:     r.Host,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
	}
}
