package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"incognitify/portal/internal/forms"
	"incognitify/portal/internal/preferences"
)

func (h HandlerSet) GetPreferences(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "User ID is required"})
		return
	}

	prefs, err := preferences.GetOrDefault(c.Request.Context(), h.preferences, userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("load preferences failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "An error occurred while retrieving preferences"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}

func (h HandlerSet) PutPreferences(c *gin.Context) {
	var req forms.Preferences
	if !h.bindJSON(c, &req, "Invalid request data") {
		return
	}

	prefs := preferences.Preferences{Language: req.Preferences.Language}
	if err := h.preferences.Put(c.Request.Context(), req.UserID, prefs); err != nil {
		h.log.Error().Err(err).Str("user_id", req.UserID).Msg("save preferences failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "An error occurred while updating preferences"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Preferences updated successfully",
		"preferences": prefs,
	})
}
