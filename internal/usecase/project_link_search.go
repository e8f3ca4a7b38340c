// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/codeinsight/issue-query-service/internal/domain/model"
	"github.com/codeinsight/issue-query-service/internal/domain/port"
	"github.com/codeinsight/issue-query-service/pkg/constants"
	"github.com/codeinsight/issue-query-service/pkg/errors"
)

// ProjectLinkSearcher lists the links of one project, addressed by id or
// key.
type ProjectLinkSearcher interface {
	// Search lists the links of the project
	Search(ctx context.Context, projectID, projectKey string, session model.UserSession) (*model.ProjectLinkSearchResponse, error)

	// IsReady checks if the store is ready
	IsReady(ctx context.Context) error
}

// ProjectLinkSearch handles project link search operations.
type ProjectLinkSearch struct {
	store         port.EntityStore
	accessChecker port.AccessControlChecker
}

// Search resolves the project, checks the caller holds admin or browse
// on it, and returns its links.
func (s *ProjectLinkSearch) Search(ctx context.Context, projectID, projectKey string, session model.UserSession) (*model.ProjectLinkSearchResponse, error) {

	if projectID != "" && projectKey != "" {
		return nil, errors.NewValidation(fmt.Sprintf(
			"Either '%s' or '%s' can be provided, not both",
			constants.ParamProjectID, constants.ParamProjectKey))
	}
	if projectID == "" && projectKey == "" {
		return nil, errors.NewValidation(fmt.Sprintf(
			"Either '%s' or '%s' must be provided",
			constants.ParamProjectID, constants.ParamProjectKey))
	}

	project, err := s.store.ComponentByUuidOrKey(ctx, projectID, projectKey)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project: %w", err)
	}
	if project == nil {
		if projectID != "" {
			return nil, errors.NewNotFound(fmt.Sprintf("Component id '%s' not found", projectID))
		}
		return nil, errors.NewNotFound(fmt.Sprintf("Component key '%s' not found", projectKey))
	}

	if err := s.checkAdminOrBrowse(ctx, session, project.Key); err != nil {
		return nil, err
	}

	links, err := s.store.ProjectLinksByComponentUuid(ctx, project.Uuid)
	if err != nil {
		return nil, fmt.Errorf("failed to load project links: %w", err)
	}

	slog.DebugContext(ctx, "project link search completed",
		"project", project.Key,
		"links", len(links),
	)

	return &model.ProjectLinkSearchResponse{Links: links}, nil
}

// checkAdminOrBrowse allows callers holding either capability on the
// project, in a single batched check.
func (s *ProjectLinkSearch) checkAdminOrBrowse(ctx context.Context, session model.UserSession, projectKey string) error {
	principal := constants.AnonymousPrincipal
	if session.LoggedIn {
		principal = session.Login
	}

	adminRelation := "project:" + projectKey + "#admin@user:" + principal
	browseRelation := "project:" + projectKey + "#browse@user:" + principal
	message := []byte(adminRelation + "\n" + browseRelation)

	result, err := s.accessChecker.CheckAccess(ctx, constants.AccessCheckSubject, message, accessCheckTimeout)
	if err != nil {
		slog.ErrorContext(ctx, "capability check failed",
			"error", err,
			"project", projectKey,
		)
		return errors.NewServiceUnavailable("capability check failed", err)
	}

	if result[adminRelation] == "true" || result[browseRelation] == "true" {
		return nil
	}
	return errors.NewForbidden("Insufficient privileges")
}

// IsReady reports readiness of the store and access control service.
func (s *ProjectLinkSearch) IsReady(ctx context.Context) error {
	if err := s.store.IsReady(ctx); err != nil {
		return err
	}
	return s.accessChecker.IsReady(ctx)
}

// NewProjectLinkSearch creates a new ProjectLinkSearch instance
func NewProjectLinkSearch(store port.EntityStore, accessChecker port.AccessControlChecker) ProjectLinkSearcher {
	return &ProjectLinkSearch{
		store:         store,
		accessChecker: accessChecker,
	}
}
