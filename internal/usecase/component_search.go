// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package usecase

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/codeinsight/issue-query-service/internal/domain/model"
	"github.com/codeinsight/issue-query-service/internal/domain/port"
	"github.com/codeinsight/issue-query-service/pkg/constants"
)

// Qualifiers accepted by the component search, in declaration order:
// project, module, directory, file, unit test file.
var Qualifiers = []string{"TRK", "BRC", "DIR", "FIL", "UTS"}

// ComponentSearcher pages through components of the relational store.
type ComponentSearcher interface {
	// Search returns one page of matching components
	Search(ctx context.Context, params url.Values) (*model.ComponentSearchResponse, error)

	// IsReady checks if the store is ready
	IsReady(ctx context.Context) error
}

// ComponentSearch handles component search operations.
type ComponentSearch struct {
	store port.EntityStore
}

// Search validates paging and qualifiers and delegates to the store.
// Results are ordered by component key ascending; the paging block
// carries the store-reported total.
func (s *ComponentSearch) Search(ctx context.Context, params url.Values) (*model.ComponentSearchResponse, error) {

	qualifiers := paramAsStrings(params, constants.ParamQualifiers)
	if qualifiers == nil {
		qualifiers = []string{"TRK"}
	}
	if err := checkEnum(constants.ParamQualifiers, qualifiers, Qualifiers); err != nil {
		return nil, err
	}

	page, err := pagingParam(params, constants.ParamPage, constants.DefaultPageIndex)
	if err != nil {
		return nil, err
	}
	pageSize, err := pagingParam(params, constants.ParamPageSize, constants.DefaultPageSize)
	if err != nil {
		return nil, err
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}

	components, total, err := s.store.SearchComponents(ctx, qualifiers, params.Get(constants.ParamQuery), page, pageSize)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "component search completed",
		"qualifiers", qualifiers,
		"page", page,
		"total", total,
	)

	return &model.ComponentSearchResponse{
		Paging: model.Paging{
			PageIndex: page,
			PageSize:  pageSize,
			Total:     total,
		},
		Components: components,
	}, nil
}

// IsReady reports readiness of the store.
func (s *ComponentSearch) IsReady(ctx context.Context) error {
	return s.store.IsReady(ctx)
}

// NewComponentSearch creates a new ComponentSearch instance
func NewComponentSearch(store port.EntityStore) ComponentSearcher {
	return &ComponentSearch{store: store}
}
