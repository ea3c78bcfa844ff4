package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/shareareview/notify-api/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps the error taxonomy onto HTTP statuses. Validation
// messages are echoed inline; not-found and authorization answers stay
// generic so record existence never leaks.
func writeError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		http.Error(w, err.Error(), http.StatusBadRequest)
	case apperr.KindNotFound:
		http.Error(w, "not found", http.StatusNotFound)
	case apperr.KindAuthorization:
		http.Error(w, "forbidden", http.StatusForbidden)
	case apperr.KindTimeout:
		http.Error(w, "request timed out, try again", http.StatusGatewayTimeout)
	default:
		logger.Error().Err(err).Msg("unhandled error")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// pathID parses a numeric path variable registered on the route.
func pathID(r *http.Request, name string) (int64, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
