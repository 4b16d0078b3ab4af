package common

import (
	"encoding/json"
	"net/http"
)

// MessageResponse is the structured body used for errors and plain acknowledgements.
type MessageResponse struct {
	Msg string `json:"msg"`
}

// FieldError is one entry of a validation failure.
type FieldError struct {
	Param string `json:"param"`
	Msg   string `json:"msg"`
}

// ValidationResponse is the body returned when request validation fails.
type ValidationResponse struct {
	Errors []FieldError `json:"errors"`
}

func RespondWithMessage(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, MessageResponse{Msg: message})
}

// RespondWithError writes err using its mapped status and client-facing message.
func RespondWithError(w http.ResponseWriter, err error) {
	RespondWithMessage(w, HTTPStatusFromError(err), Message(err))
}

func RespondWithValidation(w http.ResponseWriter, errs []FieldError) {
	RespondWithJSON(w, http.StatusBadRequest, ValidationResponse{Errors: errs})
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"msg": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
