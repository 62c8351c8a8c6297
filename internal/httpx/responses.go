package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

// ValidationError is one entry of a 400 validation response.
type ValidationError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func JSONError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Message: message, StatusCode: status})
}

func JSONValidationErrors(w http.ResponseWriter, errs []ValidationError) {
	JSON(w, http.StatusBadRequest, errs)
}

// DecodeJSON reads a single JSON object from the request body into dst.
// Failures are returned as validation errors ready to be written.
func DecodeJSON(r *http.Request, dst any) []ValidationError {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			return []ValidationError{{Loc: []string{"body"}, Msg: "Request body is empty", Type: "missing"}}
		case errors.As(err, &maxErr):
			return []ValidationError{{Loc: []string{"body"}, Msg: "Request body too large", Type: "too_large"}}
		case errors.As(err, &typeErr) && typeErr.Field != "":
			return []ValidationError{{Loc: []string{"body", typeErr.Field}, Msg: "Input should be a valid " + typeErr.Type.Kind().String(), Type: "type_error"}}
		default:
			return []ValidationError{{Loc: []string{"body"}, Msg: "Invalid JSON", Type: "json_invalid"}}
		}
	}
	if dec.More() {
		return []ValidationError{{Loc: []string{"body"}, Msg: "Invalid JSON", Type: "json_invalid"}}
	}
	return nil
}
