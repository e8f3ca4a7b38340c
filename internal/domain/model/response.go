// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package model

import "time"

// Paging is the pagination block of every search response. Total is the
// backend-reported match count, not the number of hits enriched.
type Paging struct {
	PageIndex int   `json:"pageIndex"`
	PageSize  int   `json:"pageSize"`
	Total     int64 `json:"total"`
}

// IssueSummary is one issue of the response, in backend return order.
type IssueSummary struct {
	Key           string     `json:"key"`
	Rule          string     `json:"rule"`
	Severity      string     `json:"severity"`
	Status        string     `json:"status"`
	Resolution    string     `json:"resolution,omitempty"`
	Type          string     `json:"type"`
	Project       string     `json:"project,omitempty"`
	Component     string     `json:"component,omitempty"`
	Assignee      string     `json:"assignee,omitempty"`
	Author        string     `json:"author,omitempty"`
	Message       string     `json:"message,omitempty"`
	Line          int        `json:"line,omitempty"`
	Effort        int64      `json:"effort,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	CreationDate  *time.Time `json:"creationDate,omitempty"`
}

// FacetBlock is one ordered facet of the response.
type FacetBlock struct {
	Property string       `json:"property"`
	Values   []FacetValue `json:"values"`
}

// IssueSearchResponse is the wire response of the issue search action.
type IssueSearchResponse struct {
	Paging      Paging         `json:"paging"`
	EffortTotal *int64         `json:"effortTotal,omitempty"`
	Issues      []IssueSummary `json:"issues"`
	Components  []Component    `json:"components,omitempty"`
	Rules       []Rule         `json:"rules,omitempty"`
	Users       []User         `json:"users,omitempty"`
	Facets      []FacetBlock   `json:"facets,omitempty"`
}

// ComponentSearchResponse is the wire response of the component search action.
type ComponentSearchResponse struct {
	Paging     Paging      `json:"paging"`
	Components []Component `json:"components"`
}

// ProjectLinkSearchResponse is the wire response of the project link search action.
type ProjectLinkSearchResponse struct {
	Links []ProjectLink `json:"links"`
}

// AnalysisSubmitResponse is the wire response of an accepted analysis submission.
type AnalysisSubmitResponse struct {
	AnalysisID string `json:"analysisId"`
	ProjectKey string `json:"projectKey"`
	Status     string `json:"status"`
}
