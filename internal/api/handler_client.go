package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"push-dispatch-backend/internal/mw"
	"push-dispatch-backend/internal/store"
)

// GetClient returns the authenticated client's own descriptor.
func (h *Handler) GetClient(c *gin.Context) {
	respond(c, http.StatusOK, mw.ClientFrom(c), "")
}

type updateClientRequest struct {
	Description *string `json:"description" binding:"omitempty,max=512"`
	FCMPath     *string `json:"fcm_path" binding:"omitempty,max=512"`
}

// UpdateClient changes the self-serviceable client fields.
func (h *Handler) UpdateClient(c *gin.Context) {
	var req updateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBinding(c, err)
		return
	}

	bundleID, _ := clientFrom(c)
	client, err := h.store.UpdateClient(c.Request.Context(), bundleID, store.ClientUpdate{
		Description: req.Description,
		FCMPath:     req.FCMPath,
	})
	if err != nil {
		h.respondStore(c, err, "client not found", "")
		return
	}
	respond(c, http.StatusOK, client, "Client updated successfully")
}
