package handlers

import (
	"net/http"

	"collegedir/utils"
)

func Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Welcome to the College Directory API"))
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithError(w, http.StatusNotFound, "Route not found.")
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed.")
}
