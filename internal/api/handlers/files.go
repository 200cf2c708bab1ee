// files.go — обработчики операций каталога: загрузка, чтение, листинг,
// publish/unpublish, выдача содержимого.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bigkaa/gofilesmanager/internal/api/apierrors"
	"github.com/bigkaa/gofilesmanager/internal/api/middleware"
	"github.com/bigkaa/gofilesmanager/internal/service"
)

// flexID — идентификатор, принимающий в JSON и строку, и число.
// Исторически клиенты передают parentId как 0 (число) или "0" (строка);
// внутри система хранит строку единообразно.
type flexID string

// UnmarshalJSON принимает строковое или числовое значение.
func (f *flexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// uploadRequest — тело POST /files.
type uploadRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	ParentID flexID `json:"parentId"`
	IsPublic bool   `json:"isPublic"`
	Data     string `json:"data"`
}

// PostUpload — загрузка папки, файла или изображения.
// Успех: 201 с документом каталога.
func (h *APIHandler) PostUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		apierrors.Unauthorized(w)
		return
	}

	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.BadRequest(w, "Invalid JSON body")
		return
	}

	entry, err := h.upload.Upload(r.Context(), userID, service.CreateRequest{
		Name:     req.Name,
		Type:     req.Type,
		ParentID: string(req.ParentID),
		IsPublic: req.IsPublic,
		Data:     req.Data,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// GetShow — GET /files/{id}: документ, видимый запрашивающему.
func (h *APIHandler) GetShow(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		apierrors.Unauthorized(w)
		return
	}

	entry, err := h.files.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// GetIndex — GET /files?parentId=&page=: страница записей владельца.
// Не более 20 записей; страница за последней — пустой массив.
func (h *APIHandler) GetIndex(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		apierrors.Unauthorized(w)
		return
	}

	parentID := r.URL.Query().Get("parentId")
	page := 0
	if p := r.URL.Query().Get("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			page = n
		}
	}

	entries, err := h.files.List(r.Context(), userID, parentID, page)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// PutPublish — PUT /files/{id}/publish.
func (h *APIHandler) PutPublish(w http.ResponseWriter, r *http.Request) {
	h.setPublic(w, r, true)
}

// PutUnpublish — PUT /files/{id}/unpublish.
func (h *APIHandler) PutUnpublish(w http.ResponseWriter, r *http.Request) {
	h.setPublic(w, r, false)
}

// setPublic — общий код publish/unpublish. Идемпотентно, только владелец.
func (h *APIHandler) setPublic(w http.ResponseWriter, r *http.Request, value bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		apierrors.Unauthorized(w)
		return
	}

	entry, err := h.files.SetPublic(r.Context(), userID, chi.URLParam(r, "id"), value)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// GetFileData — GET /files/{id}/data: сырые байты с MIME-заголовком.
// Токен опционален: публичные файлы доступны анонимно, приватные — владельцу.
func (h *APIHandler) GetFileData(w http.ResponseWriter, r *http.Request) {
	// Анонимный запрос допустим — requesterID остаётся пустым
	requesterID := ""
	if token := r.Header.Get(middleware.HeaderToken); token != "" {
		if user, err := h.auth.ResolveUser(r.Context(), token); err == nil {
			requesterID = user.ID.Hex()
		}
	}

	content, err := h.content.ReadContent(r.Context(), requesterID, chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", content.MIME)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content.Data)
}
