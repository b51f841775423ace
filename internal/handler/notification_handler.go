package handler

import (
	"net/http"

	"github.com/Raymond9734/pizza-customer-console/internal/notify"
)

// NotificationHandler exposes the toast slot
type NotificationHandler struct {
	center *notify.Center
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(center *notify.Center) *NotificationHandler {
	return &NotificationHandler{center: center}
}

// Current handles GET /notifications; 204 when nothing is showing
func (h *NotificationHandler) Current(w http.ResponseWriter, r *http.Request) {
	n, ok := h.center.Current()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondSuccess(w, n)
}

// Dismiss handles DELETE /notifications
func (h *NotificationHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.center.Hide()
	w.WriteHeader(http.StatusNoContent)
}
