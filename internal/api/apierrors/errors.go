// Пакет apierrors — единый формат ошибок API: {"error": "<message>"}.
// Формат тела и тексты сообщений — wire-контракт клиентов.
package apierrors

import (
	"encoding/json"
	"net/http"
)

// errorResponse — тело ответа об ошибке.
type errorResponse struct {
	Error string `json:"error"`
}

// WriteError записывает JSON-ошибку с указанным статусом.
func WriteError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message})
}

// Unauthorized — 401 с фиксированным сообщением.
func Unauthorized(w http.ResponseWriter) {
	WriteError(w, http.StatusUnauthorized, "Unauthorized")
}

// NotFound — 404. Используется и для отказа в доступе к приватным файлам:
// существование чужих приватных ресурсов не раскрывается.
func NotFound(w http.ResponseWriter) {
	WriteError(w, http.StatusNotFound, "Not found")
}

// BadRequest — 400 с сообщением конкретной причины валидации.
func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

// InternalError — 500 без деталей: причины остаются в логах.
func InternalError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, "Internal Server Error")
}
