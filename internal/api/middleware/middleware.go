package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wms-platform/materials-service/pkg/logging"
)

// Context keys
const (
	ContextKeyRequestID = "requestId"
	ContextKeyActorID   = "actorId"
)

// HTTP header names
const (
	HeaderRequestID = "X-Request-ID"
	HeaderActorID   = "X-Actor-ID"
)

// RequestID generates or propagates request IDs
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(ContextKeyRequestID, requestID)
		c.Header(HeaderRequestID, requestID)
		c.Request = c.Request.WithContext(logging.ContextWithRequestID(c.Request.Context(), requestID))

		c.Next()
	}
}

// ActorID pulls the acting user's ID from the request header and exposes it
// to handlers and the request context. Authentication happens upstream; this
// service only needs the identity for authorization decisions.
func ActorID() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetHeader(HeaderActorID)
		if actorID != "" {
			c.Set(ContextKeyActorID, actorID)
			c.Request = c.Request.WithContext(logging.ContextWithUserID(c.Request.Context(), actorID))
		}

		c.Next()
	}
}

// Recovery recovers from panics and returns a 500
func Recovery(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				logger.Panic(c.Request.Context(), recovered)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "internal server error",
				})
			}
		}()
		c.Next()
	}
}

// Logger logs each request after it completes
func Logger(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.HTTPRequest(c.Request.Context(), c.Request.Method, path, c.Writer.Status(), time.Since(start), c.ClientIP())
	}
}

// GetActorID returns the actor ID set by the ActorID middleware
func GetActorID(c *gin.Context) string {
	actorID, _ := c.Get(ContextKeyActorID)
	id, _ := actorID.(string)
	return id
}
