// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package service

import (
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/codeinsight/issue-query-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// respondError maps domain errors to HTTP statuses and writes the
// response. Matching runs through the wrap chain, so an error annotated
// with call-site context keeps its status. Unknown errors are logged and
// reported as 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var (
		validation         errors.Validation
		unauthorized       errors.Unauthorized
		forbidden          errors.Forbidden
		notFound           errors.NotFound
		conflict           errors.Conflict
		serviceUnavailable errors.ServiceUnavailable
	)

	switch {
	case stderrors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"message": validation.Error()})
	case stderrors.As(err, &unauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"message": unauthorized.Error()})
	case stderrors.As(err, &forbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": forbidden.Error()})
	case stderrors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"message": notFound.Error()})
	case stderrors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"message": conflict.Error()})
	case stderrors.As(err, &serviceUnavailable):
		slog.ErrorContext(ctx, "backend unavailable", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": serviceUnavailable.Error()})
	default:
		slog.ErrorContext(ctx, "request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}
