// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package mock

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/codeinsight/issue-query-service/internal/domain/port"
)

// MockAccessControlChecker provides a mock implementation of AccessControlChecker for testing
type MockAccessControlChecker struct {
	// DeniedRelations contains substrings of relation lines that are denied
	DeniedRelations []string
	// SimulateErrors denies with verdict "error" on relations containing "error"
	SimulateErrors bool
	// DefaultResult is the default verdict ("true" or "false")
	DefaultResult string
}

// CheckAccess implements the AccessControlChecker port with mock behavior
func (m *MockAccessControlChecker) CheckAccess(ctx context.Context, subj string, data []byte, timeout time.Duration) (port.AccessCheckResult, error) {
	slog.DebugContext(ctx, "executing mock capability check",
		"subject", subj,
		"timeout", timeout,
		"message", string(data),
	)

	result := make(port.AccessCheckResult)

	// Input is line-separated relation requests.
	lines := bytes.Split(data, []byte("\n"))
	for _, line := range lines {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		relation := string(line)

		if m.SimulateErrors && strings.Contains(relation, "error") {
			result[relation] = "error"
			continue
		}

		if m.isDenied(relation) {
			result[relation] = "false"
			continue
		}

		verdict := m.DefaultResult
		if verdict == "" {
			verdict = "true"
		}
		result[relation] = verdict
	}

	slog.DebugContext(ctx, "mock capability check completed",
		"subject", subj,
		"result_count", len(result),
	)

	return result, nil
}

// Close implements the AccessControlChecker port (no-op for mock)
func (m *MockAccessControlChecker) Close() error {
	return nil
}

// IsReady implements the AccessControlChecker port (always ready for mock)
func (m *MockAccessControlChecker) IsReady(ctx context.Context) error {
	return nil
}

func (m *MockAccessControlChecker) isDenied(relation string) bool {
	for _, denied := range m.DeniedRelations {
		if strings.Contains(relation, denied) {
			return true
		}
	}
	return false
}

// NewMockAccessControlChecker creates a mock that allows everything
func NewMockAccessControlChecker() *MockAccessControlChecker {
	return &MockAccessControlChecker{
		DefaultResult: "true",
	}
}

// NewMockAccessControlCheckerDenyAll creates a mock that denies all access
func NewMockAccessControlCheckerDenyAll() *MockAccessControlChecker {
	return &MockAccessControlChecker{
		DefaultResult: "false",
	}
}
