// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/codeinsight/issue-query-service/internal/domain/model"
)

// EntityStore is the relational-store client consumed by the pipeline.
// Lookups are batched: one call resolves every id of a category. Ids that
// no longer exist are simply absent from the returned slice.
type EntityStore interface {
	// UsersByLogins resolves user summaries for the given logins.
	UsersByLogins(ctx context.Context, logins []string) ([]model.User, error)

	// RulesByKeys resolves rule summaries for the given rule keys.
	RulesByKeys(ctx context.Context, keys []string) ([]model.Rule, error)

	// ComponentsByUuids resolves component summaries for the given uuids.
	ComponentsByUuids(ctx context.Context, uuids []string) ([]model.Component, error)

	// ComponentByUuidOrKey resolves a single component by uuid or key.
	// Exactly one of uuid and key is non-empty.
	ComponentByUuidOrKey(ctx context.Context, uuid, key string) (*model.Component, error)

	// ProjectLinksByComponentUuid lists the links attached to a component.
	ProjectLinksByComponentUuid(ctx context.Context, componentUuid string) ([]model.ProjectLink, error)

	// SearchComponents returns one page of components matching the
	// qualifiers and optional key/name query, ordered by key ascending,
	// along with the total match count.
	SearchComponents(ctx context.Context, qualifiers []string, query string, page, pageSize int) ([]model.Component, int64, error)

	// RecordAnalysis persists an accepted analysis submission.
	RecordAnalysis(ctx context.Context, analysis model.Analysis) error

	// IsReady checks if the store is ready
	IsReady(ctx context.Context) error
}

// AnalysisLocker serializes operations per entity. TryLock either
// acquires the named lock immediately or reports failure; it never queues.
type AnalysisLocker interface {
	// TryLock acquires the lock for the key. The returned release
	// function must be called exactly once when acquired is true.
	TryLock(ctx context.Context, key string) (release func(), acquired bool)
}

// WebhookNotifier delivers analysis lifecycle events to registered
// endpoints. Delivery failures are logged by implementations, never
// surfaced to the submitting caller.
type WebhookNotifier interface {
	// NotifyAnalysisSubmitted announces an accepted submission.
	NotifyAnalysisSubmitted(ctx context.Context, analysis model.Analysis)
}
