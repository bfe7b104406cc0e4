package utils

import (
	"encoding/json"
	"net/http"
)

// Envelope is the body of every response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Errors  any    `json:"errors"`
}

var empty = struct{}{}

// NewEnvelope builds the envelope for status. Nil data or errors render as {}.
func NewEnvelope(status int, message string, data, errs any) Envelope {
	if data == nil {
		data = empty
	}
	if errs == nil {
		errs = empty
	}
	return Envelope{
		Success: status >= 200 && status <= 299,
		Message: message,
		Data:    data,
		Errors:  errs,
	}
}

// Dispatch writes the envelope with the given status code.
func Dispatch(w http.ResponseWriter, status int, message string, data, errs any) {
	response, err := json.Marshal(NewEnvelope(status, message, data, errs))
	if err != nil {
		status = http.StatusInternalServerError
		response, _ = json.Marshal(NewEnvelope(status, "Server internal errors", nil, nil))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func ResponseWithJson(w http.ResponseWriter, status int, message string, data any) {
	Dispatch(w, status, message, data, nil)
}

func ResponseWithError(w http.ResponseWriter, status int, message string, errs any) {
	Dispatch(w, status, message, nil, errs)
}
