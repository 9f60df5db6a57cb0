package server

import (
	"encoding/json"
	"net/http"

	"memoir/internal/services"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// writeError maps a classified error onto an HTTP status. Internal detail is
// never echoed to the client; the full chain goes to the logs instead.
func writeError(w http.ResponseWriter, err error) {
	status := services.HTTPStatus(err)
	message := http.StatusText(status)
	switch status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound, http.StatusConflict:
		if err != nil {
			message = err.Error()
		}
	}
	writeJSON(w, status, errorResponse{Error: message})
}
