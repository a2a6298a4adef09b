package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"tixplate/apperr"
)

type M map[string]interface{}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// RespondWithError is the terminal serialization point for the error
// signal: every failure leaves the API as {"message": ...} with the
// signaled status, defaulting to 500 for anything untyped.
func RespondWithError(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		RespondWithJSON(w, appErr.Status, M{"message": appErr.Message})
		return
	}
	RespondWithJSON(w, http.StatusInternalServerError, M{"message": "You have encountered an error"})
}
