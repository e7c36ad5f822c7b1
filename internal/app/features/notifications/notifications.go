// internal/app/features/notifications/notifications.go
package notifications

import (
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	notificationstore "github.com/taskhive/taskhive/internal/app/store/notifications"
	"github.com/taskhive/taskhive/internal/app/system/auth"
	"github.com/taskhive/taskhive/internal/app/system/httpjson"
	"github.com/taskhive/taskhive/internal/app/system/paging"
	"github.com/taskhive/taskhive/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeNotificationList handles GET /api/notifications, newest first,
// scoped to the caller. ?unread=true filters to unread; ?limit= pages,
// with hasMore signalling a further page.
func (h *Handler) ServeNotificationList(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	unreadOnly := query.Get(r, "unread") == "true"
	limit := paging.ParseLimit(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list notifications")
	defer cancel()

	rows, err := h.notifications.ListForRecipient(ctx, u.ID, unreadOnly, paging.LimitPlusOne(limit))
	if err != nil {
		h.Log.Error("notifications: list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not list notifications")
		return
	}
	hasMore := paging.Trim(&rows, limit)

	httpjson.OK(w, http.StatusOK, map[string]any{
		"notifications": rows,
		"hasMore":       hasMore,
	})
}

// HandleMarkRead handles PUT /api/notifications/{id}/read. The update
// is scoped to the caller, so another user's notification id reads as
// not found.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid notification id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "mark notification read")
	defer cancel()

	if err := h.notifications.MarkRead(ctx, id, u.ID); err != nil {
		if errors.Is(err, notificationstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "Notification not found")
			return
		}
		h.Log.Error("notifications: mark read failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not update notification")
		return
	}

	httpjson.OK(w, http.StatusOK, map[string]any{"message": "Notification marked as read"})
}

// HandleMarkAllRead handles PUT /api/notifications/read-all.
func (h *Handler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "mark all notifications read")
	defer cancel()

	count, err := h.notifications.MarkAllRead(ctx, u.ID)
	if err != nil {
		h.Log.Error("notifications: mark all read failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not update notifications")
		return
	}

	httpjson.OK(w, http.StatusOK, map[string]any{"updated": count})
}
