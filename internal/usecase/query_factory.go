// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package usecase

import (
	"regexp"
	"strconv"
	"time"

	"github.com/codeinsight/issue-query-service/internal/domain/model"
	"github.com/codeinsight/issue-query-service/pkg/constants"
)

var spanUnitPattern = regexp.MustCompile(`(\d+)([ymwd])`)

// QueryFactory translates a validated SearchRequest into the normalized
// query executed against the search backend. Deterministic and free of
// I/O; the clock is injected so relative date spans stay testable.
type QueryFactory struct {
	now func() time.Time
}

// NewQueryFactory creates a QueryFactory using the wall clock.
func NewQueryFactory() *QueryFactory {
	return &QueryFactory{now: time.Now}
}

// Create builds the IssueQuery and SearchOptions for the request.
// The reserved assignee placeholder is replaced with the session login,
// or dropped entirely for anonymous callers so it never matches as a
// literal value.
func (f *QueryFactory) Create(req *model.SearchRequest, session model.UserSession) (model.IssueQuery, model.SearchOptions) {

	query := model.IssueQuery{
		Issues:          req.Issues,
		Severities:      req.Severities,
		Statuses:        req.Statuses,
		Resolutions:     req.Resolutions,
		Resolved:        req.Resolved,
		Rules:           req.Rules,
		Tags:            req.Tags,
		Types:           req.Types,
		Assignees:       f.resolveAssignees(req.Assignees, session),
		Assigned:        req.Assigned,
		Authors:         req.Authors,
		Languages:       req.Languages,
		ProjectKeys:     req.ProjectKeys,
		ProjectUuids:    req.ProjectUuids,
		ComponentKeys:   req.ComponentKeys,
		ComponentUuids:  req.ComponentUuids,
		FileUuids:       req.FileUuids,
		ModuleUuids:     req.ModuleUuids,
		Directories:     req.Directories,
		OnComponentOnly: req.OnComponentOnly,
		CreatedAt:       req.CreatedAt,
		CreatedAfter:    req.CreatedAfter,
		CreatedBefore:   req.CreatedBefore,
		SinceLeakPeriod: req.SinceLeakPeriod,
		FacetMode:       req.FacetMode,
		Sort:            req.Sort,
	}

	if req.Asc != nil {
		query.Asc = *req.Asc
	}

	// A relative span is resolved to an absolute lower bound here, so
	// backends only ever see createdAfter.
	if req.CreatedInLast != "" {
		after := f.resolveSpan(req.CreatedInLast)
		query.CreatedAfter = &after
	}

	options := model.SearchOptions{
		Page:     req.Page,
		PageSize: req.PageSize,
		Facets:   req.Facets,
	}
	if options.PageSize > constants.MaxPageSize {
		options.PageSize = constants.MaxPageSize
	}

	return query, options
}

// resolveAssignees substitutes the current-user placeholder. The
// placeholder of an anonymous caller is removed, never matched literally.
func (f *QueryFactory) resolveAssignees(assignees []string, session model.UserSession) []string {
	if assignees == nil {
		return nil
	}
	resolved := make([]string, 0, len(assignees))
	for _, assignee := range assignees {
		if assignee == constants.LoginMyself {
			if session.LoggedIn {
				resolved = append(resolved, session.Login)
			}
			continue
		}
		resolved = append(resolved, assignee)
	}
	return resolved
}

// resolveSpan turns a span like "1m2w" into the absolute point that far
// before now. The span syntax was validated at the request boundary.
func (f *QueryFactory) resolveSpan(span string) time.Time {
	t := f.now()
	for _, match := range spanUnitPattern.FindAllStringSubmatch(span, -1) {
		n, _ := strconv.Atoi(match[1])
		switch match[2] {
		case "y":
			t = t.AddDate(-n, 0, 0)
		case "m":
			t = t.AddDate(0, -n, 0)
		case "w":
			t = t.AddDate(0, 0, -7*n)
		case "d":
			t = t.AddDate(0, 0, -n)
		}
	}
	return t
}
