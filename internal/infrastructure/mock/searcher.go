// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"log/slog"
	"slices"

	"github.com/codeinsight/issue-query-service/internal/domain/model"
	"github.com/codeinsight/issue-query-service/internal/domain/port"
)

// facetSources maps facet names to the document field they bucket on.
var facetSources = map[string]func(model.IssueDoc) []string{
	"severities":     func(d model.IssueDoc) []string { return []string{d.Severity} },
	"statuses":       func(d model.IssueDoc) []string { return []string{d.Status} },
	"resolutions":    func(d model.IssueDoc) []string { return []string{d.Resolution} },
	"types":          func(d model.IssueDoc) []string { return []string{d.Type} },
	"rules":          func(d model.IssueDoc) []string { return []string{d.RuleKey} },
	"languages":      func(d model.IssueDoc) []string { return []string{d.Language} },
	"tags":           func(d model.IssueDoc) []string { return d.Tags },
	"assignees":      func(d model.IssueDoc) []string { return []string{d.Assignee} },
	"authors":        func(d model.IssueDoc) []string { return []string{d.Author} },
	"projectUuids":   func(d model.IssueDoc) []string { return []string{d.ProjectUuid} },
	"componentUuids": func(d model.IssueDoc) []string { return []string{d.ComponentUuid} },
}

// MockIssueSearcher provides an in-memory implementation of the search
// backend port for local development and testing.
type MockIssueSearcher struct {
	// Docs is the corpus searched, in insertion order
	Docs []model.IssueDoc
	// Err, when set, fails every search
	Err error
}

// Search filters, pages and facets the in-memory corpus. Filtering
// covers the filters local development needs, not the full vocabulary.
func (m *MockIssueSearcher) Search(ctx context.Context, query model.IssueQuery, options model.SearchOptions) (*model.IssueSearchResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	matched := make([]model.IssueDoc, 0, len(m.Docs))
	for _, doc := range m.Docs {
		if m.matches(doc, query) {
			matched = append(matched, doc)
		}
	}

	result := &model.IssueSearchResult{
		Total: int64(len(matched)),
	}

	if len(options.Facets) > 0 {
		result.Facets = m.buildFacets(matched, query, options)
	}
	if query.FacetMode == model.FacetModeEffort {
		for _, doc := range matched {
			result.EffortTotal += doc.Effort
		}
	}

	start := options.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + options.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	result.Docs = matched[start:end]

	slog.DebugContext(ctx, "mock issue search completed",
		"total", result.Total,
		"hits", len(result.Docs),
	)
	return result, nil
}

func (m *MockIssueSearcher) matches(doc model.IssueDoc, query model.IssueQuery) bool {
	match := func(values []string, field string) bool {
		return len(values) == 0 || slices.Contains(values, field)
	}

	if !match(query.Issues, doc.Key) ||
		!match(query.Severities, doc.Severity) ||
		!match(query.Statuses, doc.Status) ||
		!match(query.Resolutions, doc.Resolution) ||
		!match(query.Types, doc.Type) ||
		!match(query.Rules, doc.RuleKey) ||
		!match(query.Languages, doc.Language) ||
		!match(query.Assignees, doc.Assignee) ||
		!match(query.Authors, doc.Author) ||
		!match(query.ProjectUuids, doc.ProjectUuid) ||
		!match(query.ComponentUuids, doc.ComponentUuid) {
		return false
	}

	if query.Resolved != nil && *query.Resolved != (doc.Resolution != "") {
		return false
	}
	if query.Assigned != nil && *query.Assigned != (doc.Assignee != "") {
		return false
	}
	if query.CreatedAfter != nil && (doc.CreationDate == nil || doc.CreationDate.Before(*query.CreatedAfter)) {
		return false
	}
	if query.CreatedBefore != nil && (doc.CreationDate == nil || !doc.CreationDate.Before(*query.CreatedBefore)) {
		return false
	}

	if len(query.Tags) > 0 {
		found := false
		for _, tag := range query.Tags {
			if slices.Contains(doc.Tags, tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

func (m *MockIssueSearcher) buildFacets(docs []model.IssueDoc, query model.IssueQuery, options model.SearchOptions) *model.Facets {
	effortMode := query.FacetMode == model.FacetModeEffort

	facets := model.NewFacets()
	for _, name := range options.Facets {
		source, ok := facetSources[name]
		if !ok {
			continue
		}
		var order []string
		counts := make(map[string]int64)
		for _, doc := range docs {
			for _, value := range source(doc) {
				if value == "" {
					continue
				}
				weight := int64(1)
				if effortMode {
					weight = doc.Effort
				}
				if _, seen := counts[value]; !seen {
					order = append(order, value)
				}
				counts[value] += weight
			}
		}

		bucket := facets.Ensure(name)
		for _, value := range order {
			bucket.Add(value, counts[value])
		}
	}
	return facets
}

// IsReady implements the IssueSearcher port (always ready for mock)
func (m *MockIssueSearcher) IsReady(ctx context.Context) error {
	return nil
}

// NewMockIssueSearcher creates a mock searcher over the given corpus
func NewMockIssueSearcher(docs []model.IssueDoc) port.IssueSearcher {
	return &MockIssueSearcher{Docs: docs}
}
