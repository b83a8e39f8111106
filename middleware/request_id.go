package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID accepts an inbound X-Request-ID or assigns a fresh one, and
// echoes it back on the response.
func RequestID(ctx *gin.Context) {
	requestID := ctx.GetHeader(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	ctx.Set(RequestIDHeader, requestID)
	ctx.Writer.Header().Set(RequestIDHeader, requestID)
	ctx.Next()
}
