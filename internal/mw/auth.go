package mw

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"push-dispatch-backend/internal/model"
	"push-dispatch-backend/internal/store"
)

// HeaderAPIKey is the credential header API clients authenticate with.
const HeaderAPIKey = "x-api-key"

// ctxKeyClient is the gin context key the authenticated client is stored
// under.
const ctxKeyClient = "api_client"

// APIKeyAuth resolves the x-api-key header to an active client and makes it
// available to handlers via ClientFrom. There is no ambient "current
// client": everything downstream receives the client explicitly.
func APIKeyAuth(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(HeaderAPIKey)
		if token == "" {
			abortAuth(c, http.StatusUnauthorized, "TOKEN_MISSING", "API key required")
			return
		}

		client, err := s.ClientByToken(c.Request.Context(), token)
		if errors.Is(err, store.ErrNotFound) {
			abortAuth(c, http.StatusUnauthorized, "TOKEN_INVALID", "Invalid API key")
			return
		}
		if err != nil {
			abortAuth(c, http.StatusInternalServerError, "PERSISTENCE_FAILURE", "client lookup failed")
			return
		}
		if !client.Status {
			abortAuth(c, http.StatusForbidden, "CLIENT_INACTIVE", "API client is inactive")
			return
		}

		c.Set(ctxKeyClient, client)
		c.Next()
	}
}

// ClientFrom returns the authenticated client set by APIKeyAuth.
func ClientFrom(c *gin.Context) *model.ApiClient {
	v, ok := c.Get(ctxKeyClient)
	if !ok {
		return nil
	}
	client, _ := v.(*model.ApiClient)
	return client
}

func abortAuth(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   gin.H{"code": code, "message": message},
		"meta":    gin.H{"requestId": RequestIDFrom(c)},
	})
}
