// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package middleware

import (
	"context"
	"log/slog"

	"github.com/codeinsight/issue-query-service/pkg/constants"
	"github.com/codeinsight/issue-query-service/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDMiddleware creates a middleware that adds a request ID to the context
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Try to get request ID from header first
		requestID := c.GetHeader(string(constants.RequestIDHeader))

		// If no request ID in header, generate a new one
		if requestID == "" {
			requestID = generateRequestID()
		}

		// Add request ID to response header
		c.Writer.Header().Set(string(constants.RequestIDHeader), requestID)

		// Add request ID to the request context so every log record of
		// this request carries it
		ctx := context.WithValue(c.Request.Context(), constants.RequestIDHeader, requestID)
		ctx = log.AppendCtx(ctx, slog.String(string(constants.RequestIDHeader), requestID))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// generateRequestID generates a new unique request ID
func generateRequestID() string {
	return uuid.New().String()
}
