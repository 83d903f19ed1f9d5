package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListPins returns every pin label with member counts.
func (h *Handler) ListPins(c *gin.Context) {
	bundleID, _ := clientFrom(c)
	pins, err := h.store.ListPins(c.Request.Context(), bundleID)
	if err != nil {
		h.respondStore(c, err, "", "")
		return
	}
	respond(c, http.StatusOK, pins, "")
}

// GetPin returns one pin's summary.
func (h *Handler) GetPin(c *gin.Context) {
	bundleID, _ := clientFrom(c)
	pin, err := h.store.GetPin(c.Request.Context(), bundleID, c.Param("pin"))
	if err != nil {
		h.respondStore(c, err, "pin not found", "")
		return
	}
	respond(c, http.StatusOK, pin, "")
}

// DeletePin removes every membership of a pin.
func (h *Handler) DeletePin(c *gin.Context) {
	bundleID, _ := clientFrom(c)
	if _, err := h.store.DeletePin(c.Request.Context(), bundleID, c.Param("pin")); err != nil {
		h.respondStore(c, err, "pin not found", "")
		return
	}
	respond(c, http.StatusOK, nil, "Pin deleted successfully")
}

// AddPinUsers adds users to a pin, creating it implicitly.
func (h *Handler) AddPinUsers(c *gin.Context) {
	var req memberIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBinding(c, err)
		return
	}

	bundleID, _ := clientFrom(c)
	pin := c.Param("pin")
	added, skipped, err := h.store.AddPinMembers(c.Request.Context(), bundleID, pin, req.UserIDs)
	if err != nil {
		h.respondStore(c, err, "pin not found", "")
		return
	}
	respond(c, http.StatusOK, gin.H{
		"pin":     pin,
		"added":   added,
		"skipped": skipped,
		"total":   len(req.UserIDs),
	}, "Users added to pin")
}

// RemovePinUsers removes users from a pin.
func (h *Handler) RemovePinUsers(c *gin.Context) {
	var req memberIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBinding(c, err)
		return
	}

	bundleID, _ := clientFrom(c)
	pin := c.Param("pin")
	removed, err := h.store.RemovePinMembers(c.Request.Context(), bundleID, pin, req.UserIDs)
	if err != nil {
		h.respondStore(c, err, "pin not found", "")
		return
	}
	respond(c, http.StatusOK, gin.H{
		"pin":       pin,
		"removed":   removed,
		"requested": len(req.UserIDs),
	}, "Users removed from pin")
}

// GetPinUsers lists a pin's members.
func (h *Handler) GetPinUsers(c *gin.Context) {
	bundleID, _ := clientFrom(c)
	pin := c.Param("pin")
	members, err := h.store.PinMembers(c.Request.Context(), bundleID, pin)
	if err != nil {
		h.respondStore(c, err, "pin not found", "")
		return
	}
	respond(c, http.StatusOK, gin.H{
		"pin":         pin,
		"total_users": len(members),
		"users":       members,
	}, "")
}
