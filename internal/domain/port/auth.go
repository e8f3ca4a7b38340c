// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/codeinsight/issue-query-service/internal/domain/model"
)

// Authenticator resolves a bearer token into a user session. An empty
// token yields the anonymous session, not an error.
type Authenticator interface {
	// ParseSession parses and validates the token, returning the session
	ParseSession(ctx context.Context, token string) (model.UserSession, error)
}
