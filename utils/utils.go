package utils

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"collegedir/apperr"
)

// Envelope is the body shape shared by every API response.
type Envelope struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Colleges any    `json:"colleges,omitempty"`
	College  any    `json:"college,omitempty"`
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, Envelope{Success: false, Message: message})
}

func RespondWithMessage(w http.ResponseWriter, message string) {
	RespondWithJSON(w, http.StatusOK, Envelope{Success: true, Message: message})
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("encode response")
		code = http.StatusInternalServerError
		response = []byte(`{"success":false,"message":"Internal server error."}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// StatusFor maps an error kind onto its HTTP status.
func StatusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithAppError writes err's client message with the status of its
// kind. Server-side failures are logged with the wrapped cause.
func RespondWithAppError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	code := StatusFor(err)
	if code >= http.StatusInternalServerError {
		log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	RespondWithError(w, code, apperr.Message(err, fallback))
}
