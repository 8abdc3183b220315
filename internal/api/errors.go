package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Endpoint   string
	// Detail is the human-readable "detail" field, empty when the body had none.
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status code %d", e.StatusCode)
}

// ErrorDetail returns the text shown to the user for a failed call: the backend
// detail when present, otherwise the transport error message.
func ErrorDetail(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return err.Error()
}

// parseErrorBody builds an APIError from a failed response body.
func parseErrorBody(endpoint string, status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Endpoint: endpoint}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || eb.Detail == nil {
		return apiErr
	}
	switch d := eb.Detail.(type) {
	case string:
		apiErr.Detail = d
	default:
		if raw, err := json.Marshal(d); err == nil {
			apiErr.Detail = string(raw)
		}
	}
	return apiErr
}
