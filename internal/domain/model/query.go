// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package model

import "time"

// IssueQuery is the canonical, backend-agnostic form of an issue search.
// Every field name belongs to the fixed filter vocabulary; values have
// already passed validation and placeholder resolution, so backends can
// translate it mechanically.
type IssueQuery struct {
	Issues          []string
	Severities      []string
	Statuses        []string
	Resolutions     []string
	Resolved        *bool
	Rules           []string
	Tags            []string
	Types           []string
	Assignees       []string
	Assigned        *bool
	Authors         []string
	Languages       []string
	ProjectKeys     []string
	ProjectUuids    []string
	ComponentKeys   []string
	ComponentUuids  []string
	FileUuids       []string
	ModuleUuids     []string
	Directories     []string
	OnComponentOnly bool
	CreatedAt       *time.Time
	CreatedAfter    *time.Time
	CreatedBefore   *time.Time
	SinceLeakPeriod bool
	FacetMode       string
	Sort            string
	Asc             bool
}

// SearchOptions carries paging and the ordered list of requested facets.
type SearchOptions struct {
	Page     int
	PageSize int
	Facets   []string
}

// Offset is the zero-based index of the first hit for the current page.
func (o SearchOptions) Offset() int {
	return (o.Page - 1) * o.PageSize
}
