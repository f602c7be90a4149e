package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListNotificationsHandler handles GET /api/notifications/{userId}
func (h *HandlerProvider) ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.notifications.List(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapSlice(list, toNotificationDTO))
}

// ReadAllNotificationsHandler handles POST /api/notifications/read-all/{userId}
func (h *HandlerProvider) ReadAllNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	err := h.notifications.MarkAllRead(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeMessage(w, "Notifications marked as read")
}

// ClearNotificationsHandler handles DELETE /api/notifications/clear/{userId}
func (h *HandlerProvider) ClearNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	err := h.notifications.Clear(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeMessage(w, "Notifications cleared")
}
