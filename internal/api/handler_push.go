package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"push-dispatch-backend/internal/dispatch"
)

type messageBody struct {
	Title string `json:"title" binding:"required,max=255"`
	Body  string `json:"body" binding:"required,max=1000"`
}

type metaBody struct {
	Channel     string `json:"channel" binding:"omitempty,oneof=system marketing transaction"`
	Type        string `json:"type"`
	Route       string `json:"route"`
	Sound       string `json:"sound"`
	Priority    string `json:"priority" binding:"omitempty,oneof=high normal"`
	CollapseKey string `json:"collapse_key"`
}

func (m *metaBody) toDispatch() dispatch.Meta {
	if m == nil {
		return dispatch.Meta{}
	}
	return dispatch.Meta{Channel: m.Channel, Route: m.Route}
}

type sendToUserRequest struct {
	UserID  *int64      `json:"user_id"`
	Pin     *string     `json:"pin"`
	Message messageBody `json:"message" binding:"required"`
	Meta    *metaBody   `json:"meta"`
}

// SendToUser queues a push for a single user, named by id or pin.
func (h *Handler) SendToUser(c *gin.Context) {
	var req sendToUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBinding(c, err)
		return
	}

	bundleID, _ := clientFrom(c)
	receipt, err := h.dispatcher.SendToUser(c.Request.Context(), bundleID, dispatch.UserSend{
		UserID:  req.UserID,
		Pin:     req.Pin,
		Content: dispatch.Content{Title: req.Message.Title, Body: req.Message.Body},
		Meta:    req.Meta.toDispatch(),
	})
	if err != nil {
		respondTyped(c, err)
		return
	}
	respond(c, http.StatusAccepted, receipt, "Push notification queued")
}

type sendToDeviceRequest struct {
	DeviceID string      `json:"device_id" binding:"required,max=255"`
	Message  messageBody `json:"message" binding:"required"`
	Meta     *metaBody   `json:"meta"`
}

// SendToDevice queues a push for the user a device is linked to.
func (h *Handler) SendToDevice(c *gin.Context) {
	var req sendToDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBinding(c, err)
		return
	}

	bundleID, _ := clientFrom(c)
	receipt, err := h.dispatcher.SendToDevice(c.Request.Context(), bundleID, dispatch.DeviceSend{
		DeviceID: req.DeviceID,
		Content:  dispatch.Content{Title: req.Message.Title, Body: req.Message.Body},
		Meta:     req.Meta.toDispatch(),
	})
	if err != nil {
		respondTyped(c, err)
		return
	}
	respond(c, http.StatusAccepted, receipt, "Push notification queued")
}

type sendToGroupRequest struct {
	Tag     string      `json:"tag" binding:"required,max=128"`
	Message messageBody `json:"message" binding:"required"`
	Meta    *metaBody   `json:"meta"`
}

// SendToGroup queues a push for every holder of a tag.
func (h *Handler) SendToGroup(c *gin.Context) {
	var req sendToGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBinding(c, err)
		return
	}

	bundleID, _ := clientFrom(c)
	receipt, err := h.dispatcher.SendToGroup(c.Request.Context(), bundleID, dispatch.GroupSend{
		Tag:     req.Tag,
		Content: dispatch.Content{Title: req.Message.Title, Body: req.Message.Body},
		Meta:    req.Meta.toDispatch(),
	})
	if err != nil {
		respondTyped(c, err)
		return
	}
	respond(c, http.StatusAccepted, receipt, "Push notification queued")
}

type sendBulkRequest struct {
	Targets []dispatch.Target `json:"targets" binding:"required,min=1,max=1000,dive"`
	Message messageBody       `json:"message" binding:"required"`
	Meta    *metaBody         `json:"meta"`
}

// SendBulk queues pushes for a mixed list of user/pin/device targets.
func (h *Handler) SendBulk(c *gin.Context) {
	var req sendBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBinding(c, err)
		return
	}

	bundleID, _ := clientFrom(c)
	receipt, err := h.dispatcher.SendBulk(c.Request.Context(), bundleID, dispatch.BulkSend{
		Targets: req.Targets,
		Content: dispatch.Content{Title: req.Message.Title, Body: req.Message.Body},
		Meta:    req.Meta.toDispatch(),
	})
	if err != nil {
		respondTyped(c, err)
		return
	}
	respond(c, http.StatusAccepted, receipt, "Bulk push notifications queued")
}
