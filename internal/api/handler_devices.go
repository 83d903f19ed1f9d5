package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"push-dispatch-backend/internal/broker"
	"push-dispatch-backend/internal/dispatch"
	"push-dispatch-backend/internal/store"
)

type registerDeviceRequest struct {
	AppUserID  int64  `json:"app_user_id" binding:"required"`
	DeviceID   string `json:"device_id" binding:"required,max=255"`
	PushToken  string `json:"push_token" binding:"required"`
	Platform   string `json:"platform" binding:"required,oneof=ios android"`
	AppVersion string `json:"app_version" binding:"omitempty,max=50"`
	OSVersion  string `json:"os_version" binding:"omitempty,max=50"`
	Model      string `json:"model" binding:"omitempty,max=100"`
	Locale     string `json:"locale" binding:"omitempty,max=10"`
	Timezone   string `json:"timezone" binding:"omitempty,max=50"`
}

func (r registerDeviceRequest) toRegistration() store.DeviceRegistration {
	return store.DeviceRegistration{
		DeviceID:   r.DeviceID,
		AppUserID:  r.AppUserID,
		Platform:   r.Platform,
		PushToken:  r.PushToken,
		AppVersion: r.AppVersion,
		OSVersion:  r.OSVersion,
		Model:      r.Model,
		Language:   r.Locale,
		Timezone:   r.Timezone,
	}
}

type deviceView struct {
	DeviceID    string `json:"device_id"`
	AppUserID   *int64 `json:"app_user_id"`
	Platform    string `json:"platform"`
	TokenStatus int    `json:"token_status"`
}

// RegisterDevice registers or refreshes a device. Other devices in the
// bundle holding the same push token are deactivated in the same
// transaction.
func (h *Handler) RegisterDevice(c *gin.Context) {
	var req registerDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBinding(c, err)
		return
	}

	bundleID, _ := clientFrom(c)
	device, err := h.store.RegisterDevice(c.Request.Context(), bundleID, req.toRegistration())
	if err != nil {
		h.respondStore(c, err, "device not found", "device already registered")
		return
	}

	h.emitUserEvent(c, broker.UserEvent{
		BundleID:  bundleID,
		Event:     "device.registered",
		AppUserID: req.AppUserID,
		DeviceID:  req.DeviceID,
	})

	respond(c, http.StatusOK, deviceView{
		DeviceID:    device.DeviceID,
		AppUserID:   device.AppUserID,
		Platform:    device.Platform,
		TokenStatus: device.TokenStatus,
	}, "Device registered")
}

type registerDevicesBulkRequest struct {
	Devices []registerDeviceRequest `json:"devices" binding:"required,min=1,max=1000,dive"`
}

// RegisterDevicesBulk registers a batch of devices with per-item outcomes.
func (h *Handler) RegisterDevicesBulk(c *gin.Context) {
	var req registerDevicesBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBinding(c, err)
		return
	}

	bundleID, _ := clientFrom(c)
	registered := []gin.H{}
	failed := []gin.H{}

	for _, item := range req.Devices {
		device, err := h.store.RegisterDevice(c.Request.Context(), bundleID, item.toRegistration())
		if err != nil {
			h.log.Warn().Err(err).Str("device_id", item.DeviceID).Msg("bulk device registration failed")
			failed = append(failed, gin.H{
				"device_id":   item.DeviceID,
				"app_user_id": item.AppUserID,
				"error":       "registration failed",
			})
			continue
		}
		registered = append(registered, gin.H{
			"device_id":   device.DeviceID,
			"app_user_id": device.AppUserID,
			"status":      "success",
		})
	}

	respond(c, http.StatusOK, gin.H{
		"total":              len(req.Devices),
		"registered":         len(registered),
		"failed":             len(failed),
		"registered_devices": registered,
		"failed_devices":     failed,
	}, "Devices registered")
}

type deactivateDeviceRequest struct {
	DeviceID string `json:"device_id" binding:"required,max=255"`
}

// DeactivateDevice marks a device's token inactive.
func (h *Handler) DeactivateDevice(c *gin.Context) {
	var req deactivateDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBinding(c, err)
		return
	}

	bundleID, _ := clientFrom(c)
	if err := h.store.DeactivateDevice(c.Request.Context(), bundleID, req.DeviceID); err != nil {
		h.respondStore(c, err, "device not found", "")
		return
	}
	respond(c, http.StatusOK, nil, "Device deactivated")
}

// GetUserDevices lists one user's devices.
func (h *Handler) GetUserDevices(c *gin.Context) {
	appUserID, err := strconv.ParseInt(c.Query("app_user_id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, string(dispatch.KindInvalidInput), "app_user_id is required", nil)
		return
	}

	bundleID, _ := clientFrom(c)
	devices, err := h.store.UserDevices(c.Request.Context(), bundleID, appUserID)
	if err != nil {
		h.respondStore(c, err, "user not found", "")
		return
	}

	active := 0
	for _, d := range devices {
		if d.TokenStatus == 1 {
			active++
		}
	}

	respond(c, http.StatusOK, gin.H{
		"app_user_id":    appUserID,
		"total_devices":  len(devices),
		"active_devices": active,
		"devices":        devices,
	}, "")
}

// emitUserEvent publishes a registry event to the user-events topic.
// Best-effort: a broker hiccup must not fail the registration.
func (h *Handler) emitUserEvent(c *gin.Context, ev broker.UserEvent) {
	if err := h.events.Enqueue(c.Request.Context(), h.topics.UserEvents, ev.DeviceID, ev); err != nil {
		h.log.Warn().Err(err).Str("event", ev.Event).Msg("user event publish failed")
	}
}
