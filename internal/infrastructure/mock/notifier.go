// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"sync"

	"github.com/codeinsight/issue-query-service/internal/domain/model"
	"github.com/codeinsight/issue-query-service/internal/domain/port"
)

// MockWebhookNotifier records notifications instead of delivering them.
type MockWebhookNotifier struct {
	mu sync.Mutex
	// Submitted holds every announced analysis in call order
	Submitted []model.Analysis
}

// NotifyAnalysisSubmitted records the announcement.
func (m *MockWebhookNotifier) NotifyAnalysisSubmitted(ctx context.Context, analysis model.Analysis) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Submitted = append(m.Submitted, analysis)
}

// Notifications returns a copy of the recorded announcements.
func (m *MockWebhookNotifier) Notifications() []model.Analysis {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Analysis(nil), m.Submitted...)
}

// NewMockWebhookNotifier creates a new recording notifier
func NewMockWebhookNotifier() *MockWebhookNotifier {
	return &MockWebhookNotifier{}
}

var _ port.WebhookNotifier = (*MockWebhookNotifier)(nil)
