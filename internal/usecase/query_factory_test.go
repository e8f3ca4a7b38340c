// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package usecase

import (
	"testing"
	"time"

	"github.com/codeinsight/issue-query-service/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClockFactory(at time.Time) *QueryFactory {
	return &QueryFactory{now: func() time.Time { return at }}
}

func TestCreateCopiesFilters(t *testing.T) {
	factory := NewQueryFactory()

	resolved := false
	req := &model.SearchRequest{
		Severities: []string{"MAJOR"},
		Statuses:   []string{"OPEN"},
		Resolved:   &resolved,
		FacetMode:  model.FacetModeCount,
		Page:       2,
		PageSize:   50,
		Facets:     []string{"severities"},
	}

	query, options := factory.Create(req, model.AnonymousSession())

	assert.Equal(t, []string{"MAJOR"}, query.Severities)
	assert.Equal(t, []string{"OPEN"}, query.Statuses)
	require.NotNil(t, query.Resolved)
	assert.False(t, *query.Resolved)
	assert.Equal(t, 2, options.Page)
	assert.Equal(t, 50, options.PageSize)
	assert.Equal(t, []string{"severities"}, options.Facets)
	assert.Equal(t, 50, options.Offset())
}

func TestCreateResolvesAssigneePlaceholder(t *testing.T) {
	factory := NewQueryFactory()

	tests := []struct {
		name      string
		assignees []string
		session   model.UserSession
		expected  []string
	}{
		{
			name:      "placeholder becomes the session login",
			assignees: []string{"alice", "__me__"},
			session:   model.UserSession{Login: "bob", LoggedIn: true},
			expected:  []string{"alice", "bob"},
		},
		{
			name:      "placeholder dropped for anonymous callers",
			assignees: []string{"alice", "__me__"},
			session:   model.AnonymousSession(),
			expected:  []string{"alice"},
		},
		{
			name:      "placeholder only, anonymous",
			assignees: []string{"__me__"},
			session:   model.AnonymousSession(),
			expected:  []string{},
		},
		{
			name:      "no placeholder",
			assignees: []string{"alice"},
			session:   model.UserSession{Login: "bob", LoggedIn: true},
			expected:  []string{"alice"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := &model.SearchRequest{Assignees: tc.assignees, Page: 1, PageSize: 100}
			query, _ := factory.Create(req, tc.session)
			assert.Equal(t, tc.expected, query.Assignees)
		})
	}
}

func TestCreateResolvesRelativeSpan(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	factory := fixedClockFactory(now)

	tests := []struct {
		span     string
		expected time.Time
	}{
		{span: "1m", expected: time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)},
		{span: "2w", expected: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)},
		{span: "1m2w", expected: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		{span: "1y", expected: time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC)},
		{span: "10d", expected: time.Date(2024, 6, 5, 12, 0, 0, 0, time.UTC)},
	}

	for _, tc := range tests {
		t.Run(tc.span, func(t *testing.T) {
			req := &model.SearchRequest{CreatedInLast: tc.span, Page: 1, PageSize: 100}
			query, _ := factory.Create(req, model.AnonymousSession())
			require.NotNil(t, query.CreatedAfter)
			assert.Equal(t, tc.expected, *query.CreatedAfter)
		})
	}
}

func TestCreateClampsPageSize(t *testing.T) {
	factory := NewQueryFactory()

	req := &model.SearchRequest{Page: 1, PageSize: 9999}
	_, options := factory.Create(req, model.AnonymousSession())

	assert.Equal(t, 500, options.PageSize)
}
