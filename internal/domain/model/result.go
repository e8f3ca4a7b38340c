// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package model

import "time"

// IssueDoc is one raw hit returned by the search backend. Field names
// align to the index mapping; assembly never re-sorts hits.
type IssueDoc struct {
	Key           string     `json:"key"`
	RuleKey       string     `json:"rule_key"`
	Severity      string     `json:"severity"`
	Status        string     `json:"status"`
	Resolution    string     `json:"resolution,omitempty"`
	Type          string     `json:"type"`
	ProjectUuid   string     `json:"project_uuid"`
	ComponentUuid string     `json:"component_uuid"`
	Assignee      string     `json:"assignee,omitempty"`
	Author        string     `json:"author,omitempty"`
	Language      string     `json:"language,omitempty"`
	Message       string     `json:"message,omitempty"`
	Line          int        `json:"line,omitempty"`
	Effort        int64      `json:"effort,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	CreationDate  *time.Time `json:"creation_date,omitempty"`
}

// IssueSearchResult is one page of raw backend hits plus facet buckets.
// Read-only after execution.
type IssueSearchResult struct {
	// Docs in backend return order, which is authoritative.
	Docs []IssueDoc
	// Total reported by the backend, independent of page size.
	Total int64
	// Facets computed by the backend, possibly including internal
	// accumulators never exposed in the response.
	Facets *Facets
	// EffortTotal is the sum of effort over all matching issues, filled
	// when the query runs in effort facet mode.
	EffortTotal int64
}
