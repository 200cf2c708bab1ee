// auth.go — обработчики GET /connect и GET /disconnect.
package handlers

import (
	"errors"
	"net/http"

	"github.com/bigkaa/gofilesmanager/internal/api/apierrors"
	"github.com/bigkaa/gofilesmanager/internal/api/middleware"
	"github.com/bigkaa/gofilesmanager/internal/service"
)

// connectResponse — тело успешного ответа /connect.
type connectResponse struct {
	Token string `json:"token"`
}

// GetConnect — вход по Basic-credentials (email:password).
// Успех: 200 {token}. Любой отказ — 401 без различения причин.
func (h *APIHandler) GetConnect(w http.ResponseWriter, r *http.Request) {
	email, password, ok := r.BasicAuth()
	if !ok {
		apierrors.Unauthorized(w)
		return
	}

	token, err := h.auth.Login(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			apierrors.Unauthorized(w)
			return
		}
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, connectResponse{Token: token})
}

// GetDisconnect — выход: отзыв токена из X-Token.
// Успех: 204 без тела.
func (h *APIHandler) GetDisconnect(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(middleware.HeaderToken)

	if err := h.auth.Logout(r.Context(), token); err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			apierrors.Unauthorized(w)
			return
		}
		h.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
