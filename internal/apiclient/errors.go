package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"paperpulse/internal/schema"
)

const unknownErrorMessage = "An unknown error occurred"

// TransportError reports a request that never produced a usable response:
// the network call failed or the API answered with a non-2xx status.
type TransportError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 && e.Err == nil {
		return fmt.Sprintf("%s %s: unexpected status code: %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// SchemaValidationError reports a 2xx response whose body did not match the
// expected schema. No part of such a body is returned to callers.
type SchemaValidationError struct {
	Method     string
	Path       string
	Schema     string
	Violations []schema.Violation
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("%s %s: response did not match %s: %s", e.Method, e.Path, e.Schema, schema.Join(e.Violations))
}

// IsStatus reports whether err carries an API response with the given status.
func IsStatus(err error, status int) bool {
	var te *TransportError
	return errors.As(err, &te) && te.StatusCode == status
}

// ErrorMessage renders err for display next to a form or list.
//
// API error bodies win over the error's own text. Two body shapes are
// understood: a list of field errors ({"loc": [...], "msg": "..."}), of which
// the first is rendered as "<dotted loc>: <msg>", and an object with a
// "message" member.
func ErrorMessage(err error) string {
	if err == nil {
		return unknownErrorMessage
	}

	var te *TransportError
	if errors.As(err, &te) && len(te.Body) > 0 {
		if msg, ok := messageFromBody(te.Body); ok {
			return msg
		}
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return unknownErrorMessage
}

type fieldError struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

type messageBody struct {
	Message string `json:"message"`
}

func messageFromBody(body []byte) (string, bool) {
	var list []fieldError
	if err := json.Unmarshal(body, &list); err == nil {
		if len(list) == 0 || list[0].Msg == "" {
			return "", false
		}
		if loc := dottedLocation(list[0].Loc); loc != "" {
			return loc + ": " + list[0].Msg, true
		}
		return list[0].Msg, true
	}

	var obj messageBody
	if err := json.Unmarshal(body, &obj); err == nil && obj.Message != "" {
		return obj.Message, true
	}
	return "", false
}

// locationMarkers name where in the request a field lives rather than the
// field itself.
var locationMarkers = map[string]bool{
	"body":   true,
	"query":  true,
	"path":   true,
	"header": true,
	"cookie": true,
}

func dottedLocation(loc []any) string {
	parts := make([]string, 0, len(loc))
	for i, seg := range loc {
		s := fmt.Sprint(seg)
		if i == 0 && locationMarkers[s] {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ".")
}
