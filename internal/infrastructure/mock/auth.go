// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"log/slog"
	"os"

	"github.com/codeinsight/issue-query-service/internal/domain/model"
	"github.com/codeinsight/issue-query-service/internal/domain/port"
)

// MockAuthService provides a mock implementation of the authentication service
type MockAuthService struct{}

// ParseSession returns a session for the principal configured in
// JWT_AUTH_DISABLED_MOCK_LOCAL_PRINCIPAL, anonymous when unset. The
// token parameter is ignored.
func (m *MockAuthService) ParseSession(ctx context.Context, token string) (model.UserSession, error) {

	principal := os.Getenv("JWT_AUTH_DISABLED_MOCK_LOCAL_PRINCIPAL")
	if principal == "" {
		return model.AnonymousSession(), nil
	}

	slog.DebugContext(ctx, "parsed mock principal",
		"user_id", principal,
	)

	return model.UserSession{Login: principal, LoggedIn: true}, nil
}

// NewMockAuthService creates a new mock authentication service
func NewMockAuthService() port.Authenticator {
	return &MockAuthService{}
}
