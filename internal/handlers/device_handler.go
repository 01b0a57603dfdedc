package handlers

import (
	"errors"
	"net/http"

	"storefront-sync/internal/device"
	"storefront-sync/internal/models"
	"storefront-sync/internal/preferences"
	apperrors "storefront-sync/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetPushToken handles POST /api/v1/device/push-token
// Registration failures are reported in the body; the token is kept either way.
// @Summary      Set the push token
// @Description  Stores the token and registers the device with it, retrying up to three times.
// @Tags         device
// @Accept       json
// @Produce      json
// @Param        request  body      PushTokenRequest  true  "Push token"
// @Success      200      {object}  RegistrationResponse
// @Failure      400      {object}  errors.StandardError
// @Failure      500      {object}  errors.StandardError
// @Router       /device/push-token [post]
func (h *StorefrontHandler) SetPushToken(c *gin.Context) {
	var req PushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewInvalidRequest("invalid request body", err.Error()))
		return
	}

	result, err := h.registrar.SetPushToken(c.Request.Context(), req.Token)
	if errors.Is(err, device.ErrEmptyToken) {
		_ = c.Error(apperrors.NewValidationError(err.Error(), "token"))
		return
	}
	if err != nil {
		h.logger.Error("Failed to set push token", zap.Error(err))
		_ = c.Error(apperrors.NewStorageError("load device identity", err))
		return
	}

	resp := RegistrationResponse{
		Identity: result.Identity.String(),
		Success:  result.Success,
		Skipped:  result.Skipped,
		Attempts: result.Attempts,
		Device:   h.registrar.Status(),
	}
	if result.LastError != nil {
		resp.Error = result.LastError.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// DeviceStatus handles GET /api/v1/device
// @Summary      Device registration status
// @Tags         device
// @Produce      json
// @Success      200  {object}  device.Status
// @Router       /device [get]
func (h *StorefrontHandler) DeviceStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.registrar.Status())
}

// GetPreferences handles GET /api/v1/preferences
// @Summary      Get notification preferences
// @Tags         preferences
// @Produce      json
// @Success      200  {object}  models.NotificationPreferences
// @Router       /preferences [get]
func (h *StorefrontHandler) GetPreferences(c *gin.Context) {
	c.JSON(http.StatusOK, h.preferences.Get())
}

// UpdatePreferences handles PUT /api/v1/preferences
// @Summary      Update notification preferences
// @Tags         preferences
// @Accept       json
// @Produce      json
// @Param        request  body      models.NotificationPreferences  true  "Preferences"
// @Success      200      {object}  models.NotificationPreferences
// @Failure      400      {object}  errors.StandardError
// @Failure      500      {object}  errors.StandardError
// @Router       /preferences [put]
func (h *StorefrontHandler) UpdatePreferences(c *gin.Context) {
	var prefs models.NotificationPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		_ = c.Error(apperrors.NewInvalidRequest("invalid request body", err.Error()))
		return
	}
	if prefs.PreferredCuts == nil {
		prefs.PreferredCuts = []models.CutType{}
	}

	if err := h.preferences.Update(c.Request.Context(), prefs); err != nil {
		if errors.Is(err, preferences.ErrUnknownCut) {
			_ = c.Error(apperrors.NewValidationError(err.Error(), "preferredCuts"))
			return
		}
		_ = c.Error(apperrors.NewStorageError("save preferences", err))
		return
	}
	c.JSON(http.StatusOK, h.preferences.Get())
}

// ListFavorites handles GET /api/v1/favorites
// @Summary      List favorite sales
// @Tags         favorites
// @Produce      json
// @Success      200  {object}  FavoritesResponse
// @Router       /favorites [get]
func (h *StorefrontHandler) ListFavorites(c *gin.Context) {
	c.JSON(http.StatusOK, FavoritesResponse{Favorites: h.preferences.Favorites()})
}

// AddFavorite handles PUT /api/v1/favorites/:id
// @Summary      Add a favorite sale
// @Tags         favorites
// @Produce      json
// @Param        id   path      string  true  "Sale ID"
// @Success      200  {object}  FavoritesResponse
// @Failure      500  {object}  errors.StandardError
// @Router       /favorites/{id} [put]
func (h *StorefrontHandler) AddFavorite(c *gin.Context) {
	if err := h.preferences.AddFavorite(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(apperrors.NewStorageError("save favorites", err))
		return
	}
	c.JSON(http.StatusOK, FavoritesResponse{Favorites: h.preferences.Favorites()})
}

// RemoveFavorite handles DELETE /api/v1/favorites/:id
// @Summary      Remove a favorite sale
// @Tags         favorites
// @Produce      json
// @Param        id   path      string  true  "Sale ID"
// @Success      200  {object}  FavoritesResponse
// @Failure      500  {object}  errors.StandardError
// @Router       /favorites/{id} [delete]
func (h *StorefrontHandler) RemoveFavorite(c *gin.Context) {
	if err := h.preferences.RemoveFavorite(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(apperrors.NewStorageError("save favorites", err))
		return
	}
	c.JSON(http.StatusOK, FavoritesResponse{Favorites: h.preferences.Favorites()})
}
