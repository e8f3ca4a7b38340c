// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/codeinsight/issue-query-service/internal/domain/model"
	"github.com/codeinsight/issue-query-service/internal/domain/port"
	"github.com/codeinsight/issue-query-service/pkg/constants"
	"github.com/codeinsight/issue-query-service/pkg/errors"

	"github.com/google/uuid"
)

// AnalysisStatusPending marks an accepted, not yet processed submission.
const AnalysisStatusPending = "PENDING"

// AnalysisSubmitter accepts analysis submissions, at most one in flight
// per project.
type AnalysisSubmitter interface {
	// Submit records one analysis submission for the project
	Submit(ctx context.Context, projectKey string, session model.UserSession) (*model.AnalysisSubmitResponse, error)
}

// AnalysisSubmit handles analysis submissions. Submissions for the same
// project are serialized through the locker: a losing concurrent request
// fails fast instead of queueing.
type AnalysisSubmit struct {
	store         port.EntityStore
	locker        port.AnalysisLocker
	accessChecker port.AccessControlChecker
	notifier      port.WebhookNotifier
	now           func() time.Time
}

// Submit validates the caller, takes the project lock, records the
// submission and announces it to webhooks. The lock is released when the
// record is durable, not when processing finishes; the compute engine
// owns the processing lifecycle.
func (s *AnalysisSubmit) Submit(ctx context.Context, projectKey string, session model.UserSession) (*model.AnalysisSubmitResponse, error) {

	if projectKey == "" {
		return nil, errors.NewValidation(fmt.Sprintf("The '%s' parameter is missing", constants.ParamProjectKey))
	}
	if !session.LoggedIn {
		return nil, errors.NewUnauthorized("Authentication is required")
	}

	if err := s.checkScanPermission(ctx, session, projectKey); err != nil {
		return nil, err
	}

	release, acquired := s.locker.TryLock(ctx, "analysis:"+projectKey)
	if !acquired {
		slog.DebugContext(ctx, "analysis submission rejected, lock held",
			"project", projectKey,
		)
		return nil, errors.NewConflict(fmt.Sprintf(
			"Another analysis of project '%s' is already in progress", projectKey))
	}
	defer release()

	analysis := model.Analysis{
		ID:          uuid.New().String(),
		ProjectKey:  projectKey,
		SubmittedBy: session.Login,
		SubmittedAt: s.now(),
		Status:      AnalysisStatusPending,
	}

	if err := s.store.RecordAnalysis(ctx, analysis); err != nil {
		return nil, fmt.Errorf("failed to record analysis: %w", err)
	}

	// Fire-and-forget: delivery failures are the notifier's concern.
	s.notifier.NotifyAnalysisSubmitted(ctx, analysis)

	slog.InfoContext(ctx, "analysis submission accepted",
		"project", projectKey,
		"analysis_id", analysis.ID,
	)

	return &model.AnalysisSubmitResponse{
		AnalysisID: analysis.ID,
		ProjectKey: projectKey,
		Status:     analysis.Status,
	}, nil
}

// checkScanPermission requires the scan capability on the project.
func (s *AnalysisSubmit) checkScanPermission(ctx context.Context, session model.UserSession, projectKey string) error {
	relation := "project:" + projectKey + "#scan@user:" + session.Login

	result, err := s.accessChecker.CheckAccess(ctx, constants.AccessCheckSubject, []byte(relation), accessCheckTimeout)
	if err != nil {
		slog.ErrorContext(ctx, "capability check failed",
			"error", err,
			"project", projectKey,
		)
		return errors.NewServiceUnavailable("capability check failed", err)
	}

	if result[relation] != "true" {
		return errors.NewForbidden("Insufficient privileges")
	}
	return nil
}

// NewAnalysisSubmit creates a new AnalysisSubmit instance
func NewAnalysisSubmit(store port.EntityStore, locker port.AnalysisLocker, accessChecker port.AccessControlChecker, notifier port.WebhookNotifier) AnalysisSubmitter {
	return &AnalysisSubmit{
		store:         store,
		locker:        locker,
		accessChecker: accessChecker,
		notifier:      notifier,
		now:           time.Now,
	}
}
