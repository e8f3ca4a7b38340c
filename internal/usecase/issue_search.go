// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/codeinsight/issue-query-service/internal/domain/model"
	"github.com/codeinsight/issue-query-service/internal/domain/port"
	"github.com/codeinsight/issue-query-service/pkg/constants"
	"github.com/codeinsight/issue-query-service/pkg/errors"
)

const accessCheckTimeout = 15 * time.Second

// IssueSearcher is the issue search pipeline: parameter validation,
// query normalization, backend execution, facet completion and response
// assembly.
type IssueSearcher interface {
	// Search runs the full pipeline for one request
	Search(ctx context.Context, params url.Values, session model.UserSession) (*model.IssueSearchResponse, error)

	// IsReady checks if the pipeline's collaborators are ready
	IsReady(ctx context.Context) error
}

// IssueSearch handles issue search business operations. It depends on
// abstractions (interfaces) rather than concrete implementations.
type IssueSearch struct {
	searcher      port.IssueSearcher
	loader        *ResponseLoader
	factory       *QueryFactory
	accessChecker port.AccessControlChecker
}

// Search implements the pipeline. Validation and the permission gate run
// before any backend call and short-circuit on failure; backend failures
// surface to the caller without retries.
func (s *IssueSearch) Search(ctx context.Context, params url.Values, session model.UserSession) (*model.IssueSearchResponse, error) {

	req, err := ParseSearchRequest(params)
	if err != nil {
		slog.ErrorContext(ctx, "issue search request validation failed", "error", err)
		return nil, err
	}

	// Single permission gate for the whole action: browse capability on
	// every project the caller filters by.
	if err := s.checkBrowsePermission(ctx, session, req.ProjectKeys); err != nil {
		return nil, err
	}

	query, options := s.factory.Create(req, session)

	slog.DebugContext(ctx, "executing issue search",
		"page", options.Page,
		"page_size", options.PageSize,
		"facets", options.Facets,
	)

	result, err := s.searcher.Search(ctx, query, options)
	if err != nil {
		return nil, fmt.Errorf("issue search operation failed: %w", err)
	}

	issueKeys := make([]string, len(result.Docs))
	for i, doc := range result.Docs {
		issueKeys[i] = doc.Key
	}

	collector := model.NewCollector(issueKeys)
	collectDocReferences(collector, result.Docs)
	collectLoggedInUser(collector, session)
	collectRequestParams(collector, req, query.Assignees)

	var facets *model.Facets
	if len(options.Facets) > 0 {
		facets = result.Facets
		if facets == nil {
			facets = model.NewFacets()
		}
		// Every requested facet gets a bucket even when the backend
		// returned none, so completion has something to fill.
		for _, name := range options.Facets {
			facets.Ensure(name)
		}
		completeFacets(facets, req, session)
		collectFacets(collector, facets)
	}

	data, err := s.loader.Load(ctx, collector, newAdditionalFieldSet(req.AdditionalFields))
	if err != nil {
		return nil, fmt.Errorf("response enrichment failed: %w", err)
	}

	// Reordering happens after loading: internal accumulator facets are
	// still readable above but never reach the response.
	facets = reorderFacets(facets, options.Facets)

	return formatSearchResponse(ctx, req, options, result, data, facets), nil
}

// checkBrowsePermission batches one capability check per project key and
// fails with Forbidden as soon as any is denied.
func (s *IssueSearch) checkBrowsePermission(ctx context.Context, session model.UserSession, projectKeys []string) error {
	if len(projectKeys) == 0 {
		return nil
	}

	principal := constants.AnonymousPrincipal
	if session.LoggedIn {
		principal = session.Login
	}

	message := make([]byte, 0, 80*len(projectKeys))
	for _, key := range projectKeys {
		message = append(message, []byte("project:")...)
		message = append(message, key...)
		message = append(message, []byte("#browse@user:")...)
		message = append(message, principal...)
		message = append(message, '\n')
	}
	// Trim trailing newline.
	message = message[:len(message)-1]

	result, err := s.accessChecker.CheckAccess(ctx, constants.AccessCheckSubject, message, accessCheckTimeout)
	if err != nil {
		slog.ErrorContext(ctx, "capability check failed",
			"error", err,
			"message", string(message),
		)
		return errors.NewServiceUnavailable("capability check failed", err)
	}

	for _, key := range projectKeys {
		relation := "project:" + key + "#browse@user:" + principal
		if allowed, ok := result[relation]; !ok || allowed != "true" {
			slog.DebugContext(ctx, "browse permission denied",
				"project", key,
				"principal", principal,
			)
			return errors.NewForbidden("Insufficient privileges")
		}
	}

	return nil
}

// IsReady reports readiness of the search backend, the store and the
// access control service.
func (s *IssueSearch) IsReady(ctx context.Context) error {
	if err := s.searcher.IsReady(ctx); err != nil {
		return err
	}

	if err := s.loader.store.IsReady(ctx); err != nil {
		return err
	}

	return s.accessChecker.IsReady(ctx)
}

// NewIssueSearch creates a new IssueSearch instance
func NewIssueSearch(searcher port.IssueSearcher, store port.EntityStore, accessChecker port.AccessControlChecker) IssueSearcher {
	return &IssueSearch{
		searcher:      searcher,
		loader:        NewResponseLoader(store),
		factory:       NewQueryFactory(),
		accessChecker: accessChecker,
	}
}
