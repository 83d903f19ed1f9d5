package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BrokerHealth reports whether the outbound queue is reachable.
func (h *Handler) BrokerHealth(c *gin.Context) {
	if err := h.status.Healthy(c.Request.Context()); err != nil {
		respondError(c, http.StatusInternalServerError, "DEPENDENCY_FAILURE", err.Error(), nil)
		return
	}
	respond(c, http.StatusOK, gin.H{
		"status": "connected",
		"broker": h.status.URL(),
	}, "")
}

// BrokerTopics lists the configured topic names.
func (h *Handler) BrokerTopics(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{
		"broker": h.status.URL(),
		"configured_topics": gin.H{
			"push_dispatch":   h.topics.PushDispatch,
			"delivery_events": h.topics.DeliveryEvents,
			"user_events":     h.topics.UserEvents,
		},
	}, "")
}
