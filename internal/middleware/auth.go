// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/codeinsight/issue-query-service/internal/domain/model"
	"github.com/codeinsight/issue-query-service/internal/domain/port"
	"github.com/codeinsight/issue-query-service/pkg/constants"
	"github.com/codeinsight/issue-query-service/pkg/log"

	"github.com/gin-gonic/gin"
)

const sessionKey = "user_session"

// SessionMiddleware resolves the caller's session from the bearer token
// and stores it in the gin context. Requests without a token proceed as
// anonymous; requests with an invalid token are rejected.
func SessionMiddleware(authenticator port.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))

		session, err := authenticator.ParseSession(c.Request.Context(), token)
		if err != nil {
			slog.ErrorContext(c.Request.Context(), "session resolution failed", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid authentication token"})
			return
		}

		if session.LoggedIn {
			ctx := log.AppendCtx(c.Request.Context(), slog.String(constants.PrincipalAttribute, session.Login))
			c.Request = c.Request.WithContext(ctx)
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

// SessionFromContext returns the session stored by SessionMiddleware,
// anonymous when absent.
func SessionFromContext(c *gin.Context) model.UserSession {
	if value, ok := c.Get(sessionKey); ok {
		if session, ok := value.(model.UserSession); ok {
			return session
		}
	}
	return model.AnonymousSession()
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
