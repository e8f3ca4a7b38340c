// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/codeinsight/issue-query-service/internal/domain/model"
)

// IssueSearcher executes normalized issue queries against the search
// index. This abstraction keeps the pipeline free of backend specifics
// (OpenSearch, mock, etc).
type IssueSearcher interface {
	// Search runs the query and returns one page of raw hits plus the
	// facet buckets requested through the options.
	Search(ctx context.Context, query model.IssueQuery, options model.SearchOptions) (*model.IssueSearchResult, error)

	// IsReady checks if the search backend is ready
	IsReady(ctx context.Context) error
}
