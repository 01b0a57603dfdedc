package handlers

import (
	"net/http"

	apperrors "storefront-sync/pkg/errors"

	"github.com/gin-gonic/gin"
)

// ListInbox handles GET /api/v1/inbox
// @Summary      List inbox
// @Tags         inbox
// @Produce      json
// @Success      200  {object}  InboxResponse
// @Router       /inbox [get]
func (h *StorefrontHandler) ListInbox(c *gin.Context) {
	c.JSON(http.StatusOK, InboxResponse{
		Items:       h.inbox.Items(),
		UnreadCount: h.inbox.UnreadCount(),
	})
}

// HomeNotifications handles GET /api/v1/inbox/home
// @Summary      Home screen notifications
// @Description  Inbox items not dismissed from the home screen, newest first.
// @Tags         inbox
// @Produce      json
// @Success      200  {object}  HomeNotificationsResponse
// @Router       /inbox/home [get]
func (h *StorefrontHandler) HomeNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, HomeNotificationsResponse{Items: h.inbox.HomeNotifications()})
}

// MarkRead handles POST /api/v1/inbox/:id/read
// @Summary      Mark an inbox item read
// @Tags         inbox
// @Produce      json
// @Param        id   path      string  true  "Inbox item ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  errors.StandardError
// @Router       /inbox/{id}/read [post]
func (h *StorefrontHandler) MarkRead(c *gin.Context) {
	id := c.Param("id")
	if !h.inbox.MarkRead(c.Request.Context(), id) {
		_ = c.Error(apperrors.NewItemNotFound(id))
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "unreadCount": h.inbox.UnreadCount()})
}

// MarkAllRead handles POST /api/v1/inbox/read-all
// @Summary      Mark all inbox items read
// @Tags         inbox
// @Produce      json
// @Success      200  {object}  MarkAllReadResponse
// @Router       /inbox/read-all [post]
func (h *StorefrontHandler) MarkAllRead(c *gin.Context) {
	marked := h.inbox.MarkAllRead(c.Request.Context())
	c.JSON(http.StatusOK, MarkAllReadResponse{Marked: marked, UnreadCount: h.inbox.UnreadCount()})
}

// DismissFromHome handles POST /api/v1/inbox/:id/dismiss
// The item stays in the inbox with its read state unchanged.
// @Summary      Dismiss an inbox item from the home screen
// @Tags         inbox
// @Produce      json
// @Param        id   path      string  true  "Inbox item ID"
// @Success      200  {object}  map[string]interface{}
// @Router       /inbox/{id}/dismiss [post]
func (h *StorefrontHandler) DismissFromHome(c *gin.Context) {
	id := c.Param("id")
	h.inbox.DismissFromHome(c.Request.Context(), id)
	c.JSON(http.StatusOK, gin.H{"id": id, "dismissed": true})
}

// RemoveInboxItem handles DELETE /api/v1/inbox/:id
// @Summary      Remove an inbox item
// @Tags         inbox
// @Param        id   path  string  true  "Inbox item ID"
// @Success      204
// @Failure      404  {object}  errors.StandardError
// @Router       /inbox/{id} [delete]
func (h *StorefrontHandler) RemoveInboxItem(c *gin.Context) {
	id := c.Param("id")
	if !h.inbox.Remove(c.Request.Context(), id) {
		_ = c.Error(apperrors.NewItemNotFound(id))
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearInbox handles DELETE /api/v1/inbox
// @Summary      Clear the inbox
// @Tags         inbox
// @Success      204
// @Router       /inbox [delete]
func (h *StorefrontHandler) ClearInbox(c *gin.Context) {
	h.inbox.Clear(c.Request.Context())
	c.Status(http.StatusNoContent)
}
