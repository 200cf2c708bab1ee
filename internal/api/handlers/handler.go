// handler.go — основной обработчик API files manager.
// Делегирует запросы в сервисный слой и конвертирует ошибки сервисов
// в wire-формат apierrors.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bigkaa/gofilesmanager/internal/api/apierrors"
	"github.com/bigkaa/gofilesmanager/internal/service"
)

// APIHandler — основной обработчик API.
type APIHandler struct {
	auth    *service.AuthService
	files   *service.FileService
	upload  *service.UploadService
	content *service.ContentService
	health  *HealthHandler
	logger  *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
func NewAPIHandler(
	auth *service.AuthService,
	files *service.FileService,
	upload *service.UploadService,
	content *service.ContentService,
	health *HealthHandler,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		auth:    auth,
		files:   files,
		upload:  upload,
		content: content,
		health:  health,
		logger:  logger.With(slog.String("component", "api_handler")),
	}
}

// Auth возвращает сервис аутентификации (для middleware).
func (h *APIHandler) Auth() *service.AuthService {
	return h.auth
}

// --- Health endpoints (делегируются в HealthHandler) ---

// HealthLive — liveness probe.
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady — readiness probe.
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics — Prometheus метрики.
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeServiceError конвертирует ошибку сервисного слоя в HTTP-ответ.
// Неожиданные ошибки логируются и отдаются как 500 без деталей.
func (h *APIHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		apierrors.BadRequest(w, verr.Msg)
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w)
	case errors.Is(err, service.ErrUnauthorized):
		apierrors.Unauthorized(w)
	default:
		h.logger.Error("Внутренняя ошибка обработки запроса",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w)
	}
}
