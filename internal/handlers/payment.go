package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"incognitify/portal/internal/forms"
	"incognitify/portal/internal/middleware"
	"incognitify/portal/internal/upstream"
)

// defaultWorkspace lets the client attach to the caller's own workspace
// without knowing its id.
const defaultWorkspace = "default"

func (h HandlerSet) AttachPaymentMethod(c *gin.Context) {
	ctx := c.Request.Context()
	token := middleware.AccessToken(c)

	var req forms.AttachPaymentMethod
	if !h.bindJSON(c, &req, "Payment method ID is required") {
		return
	}

	user, err := h.upstream.FetchCurrentUser(ctx, token)
	if err != nil {
		h.log.Error().Err(err).Msg("fetch user workspace failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to verify workspace",
			"error":   err.Error(),
		})
		return
	}
	if user.WorkspaceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "No workspace found for user",
			"error":   "Missing workspace ID in user profile",
		})
		return
	}

	routeID := c.Param("workspaceId")
	if routeID != user.WorkspaceID && routeID != defaultWorkspace {
		h.log.Warn().
			Str("route_workspace", routeID).
			Str("user_workspace", user.WorkspaceID).
			Msg("workspace mismatch on payment attach")
		c.JSON(http.StatusForbidden, gin.H{
			"message": "Workspace mismatch",
			"error":   "Route workspace does not belong to the current user",
		})
		return
	}

	h.log.Info().
		Str("payment_method_id", req.PaymentMethodID).
		Str("workspace_id", user.WorkspaceID).
		Msg("attaching payment method")

	resp, err := h.upstream.AttachPaymentMethod(ctx, token, user.WorkspaceID, req.PaymentMethodID)
	if err != nil {
		var netErr *upstream.NetworkError
		if !errors.As(err, &netErr) {
			h.internalError(c, err)
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"message": "Failed to connect to payment service",
			"error":   netErr.Err.Error(),
			"cause":   netErr.Cause(),
		})
		return
	}

	var data map[string]any
	parsed := json.Unmarshal(resp.Body, &data) == nil && data != nil

	if !resp.OK() {
		body := gin.H{
			"success": false,
			"message": "Payment method attachment failed",
			"error":   fmt.Sprintf("External API returned status %d", resp.Status),
			"status":  resp.Status,
		}
		if parsed {
			body["message"] = stringOr(data["message"], "Payment method attachment failed")
			body["error"] = stringOr(data["error"], "External API error")
		}
		c.JSON(resp.Status, body)
		return
	}

	if !parsed {
		c.JSON(http.StatusOK, gin.H{
			"success":         true,
			"message":         "Payment method attached successfully",
			"paymentMethodId": req.PaymentMethodID,
			"workspaceId":     user.WorkspaceID,
		})
		return
	}

	data["success"] = true
	c.JSON(http.StatusOK, data)
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}
