package server

import (
	"encoding/json"
	"net/http"
)

// noDataMessage is the body of every 404 caused by an empty fetch.
const noDataMessage = "No data found for the given parameters."

type errorResponse struct {
	Message string `json:"message"`
}

func setResponse[T any](obj *T, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	return json.NewEncoder(w).Encode(obj)
}

func setErrorResponse(statusCode int, message string, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(errorResponse{Message: message})
}
