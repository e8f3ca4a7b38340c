// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/codeinsight/issue-query-service/internal/domain/model"
	"github.com/codeinsight/issue-query-service/internal/domain/port"
)

// ResponseLoader resolves the ids accumulated in a Collector into entity
// summaries, one batched store call per category. A referenced id that no
// longer exists is tolerated: its enrichment is omitted, never an error.
type ResponseLoader struct {
	store port.EntityStore
}

// NewResponseLoader creates a ResponseLoader over the entity store.
func NewResponseLoader(store port.EntityStore) *ResponseLoader {
	return &ResponseLoader{store: store}
}

// Load performs the batched secondary lookups. User and rule summaries
// are loaded only when their additional field is requested; component and
// project summaries always are. Lookup ids are sorted by the collector,
// so the merged result is deterministic regardless of call order.
func (l *ResponseLoader) Load(ctx context.Context, collector *model.Collector, fields additionalFieldSet) (*model.ResponseData, error) {
	data := model.NewResponseData()

	if fields.has("users") {
		users, err := l.store.UsersByLogins(ctx, collector.IDs(model.CategoryUsers))
		if err != nil {
			return nil, fmt.Errorf("failed to load users: %w", err)
		}
		for _, user := range users {
			data.UsersByLogin[user.Login] = user
		}
	}

	if fields.has("rules") {
		rules, err := l.store.RulesByKeys(ctx, collector.IDs(model.CategoryRules))
		if err != nil {
			return nil, fmt.Errorf("failed to load rules: %w", err)
		}
		for _, rule := range rules {
			data.RulesByKey[rule.Key] = rule
		}
	}

	// Component and project summaries are resolved unconditionally:
	// every hit renders its project and component keys from these maps,
	// additional fields only control the response's entity lists.
	components, err := l.store.ComponentsByUuids(ctx, collector.IDs(model.CategoryComponents))
	if err != nil {
		return nil, fmt.Errorf("failed to load components: %w", err)
	}
	for _, component := range components {
		data.ComponentsByUuid[component.Uuid] = component
	}

	projects, err := l.store.ComponentsByUuids(ctx, collector.IDs(model.CategoryProjects))
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	for _, project := range projects {
		data.ProjectsByUuid[project.Uuid] = project
	}

	return data, nil
}

// additionalFieldSet resolves the requested additional fields, expanding
// the "_all" shorthand.
type additionalFieldSet map[string]struct{}

func newAdditionalFieldSet(requested []string) additionalFieldSet {
	set := make(additionalFieldSet, len(requested))
	for _, field := range requested {
		if field == "_all" {
			for _, known := range model.AdditionalFields {
				if known != "_all" {
					set[known] = struct{}{}
				}
			}
			continue
		}
		set[field] = struct{}{}
	}
	return set
}

func (s additionalFieldSet) has(field string) bool {
	_, ok := s[field]
	return ok
}

// collectDocReferences records the ids each returned hit references, so
// assembly can resolve the hit's rule, component, project and assignee
// regardless of what the request filtered by.
func collectDocReferences(collector *model.Collector, docs []model.IssueDoc) {
	for _, doc := range docs {
		collector.Add(model.CategoryRules, doc.RuleKey)
		collector.Add(model.CategoryProjects, doc.ProjectUuid)
		collector.Add(model.CategoryComponents, doc.ComponentUuid)
		collector.Add(model.CategoryUsers, doc.Assignee)
	}
}

// collectRequestParams records the ids referenced directly by request
// parameters. Assignees arrive already placeholder-resolved.
func collectRequestParams(collector *model.Collector, req *model.SearchRequest, resolvedAssignees []string) {
	collector.AddAll(model.CategoryProjects, req.ProjectUuids)
	collector.AddAll(model.CategoryComponents, req.ComponentUuids)
	collector.AddAll(model.CategoryComponents, req.FileUuids)
	collector.AddAll(model.CategoryComponents, req.ModuleUuids)
	collector.AddAll(model.CategoryUsers, resolvedAssignees)
}

// collectLoggedInUser makes sure the caller's own summary is loadable,
// for the assigned-to-me rendering.
func collectLoggedInUser(collector *model.Collector, session model.UserSession) {
	if session.LoggedIn {
		collector.Add(model.CategoryUsers, session.Login)
	}
}

// collectFacets records every id surfaced as a facet bucket key so the
// response can denormalize them.
func collectFacets(collector *model.Collector, facets *model.Facets) {
	if facets == nil {
		return
	}
	collector.AddAll(model.CategoryRules, facets.BucketKeys("rules"))
	collector.AddAll(model.CategoryProjects, facets.BucketKeys("projectUuids"))
	collector.AddAll(model.CategoryComponents, facets.BucketKeys("componentUuids"))
	collector.AddAll(model.CategoryComponents, facets.BucketKeys("fileUuids"))
	collector.AddAll(model.CategoryComponents, facets.BucketKeys("moduleUuids"))
	collector.AddAll(model.CategoryUsers, facets.BucketKeys("assignees"))
}

// formatSearchResponse assembles the wire response: hits in backend
// order, one entry per resolved entity, facets in requested order, and
// the paging block carrying the backend-reported total.
func formatSearchResponse(ctx context.Context, req *model.SearchRequest, options model.SearchOptions,
	result *model.IssueSearchResult, data *model.ResponseData, facets *model.Facets) *model.IssueSearchResponse {

	response := &model.IssueSearchResponse{
		Paging: model.Paging{
			PageIndex: options.Page,
			PageSize:  options.PageSize,
			Total:     result.Total,
		},
		Issues: make([]model.IssueSummary, 0, len(result.Docs)),
	}

	if req.FacetMode == model.FacetModeEffort {
		effortTotal := result.EffortTotal
		response.EffortTotal = &effortTotal
	}

	for _, doc := range result.Docs {
		summary := model.IssueSummary{
			Key:          doc.Key,
			Rule:         doc.RuleKey,
			Severity:     doc.Severity,
			Status:       doc.Status,
			Resolution:   doc.Resolution,
			Type:         doc.Type,
			Assignee:     doc.Assignee,
			Author:       doc.Author,
			Message:      doc.Message,
			Line:         doc.Line,
			Effort:       doc.Effort,
			Tags:         doc.Tags,
			CreationDate: doc.CreationDate,
		}
		// Key references survive even when the secondary lookup missed.
		if project, ok := data.ProjectsByUuid[doc.ProjectUuid]; ok {
			summary.Project = project.Key
		}
		if component, ok := data.ComponentsByUuid[doc.ComponentUuid]; ok {
			summary.Component = component.Key
		}
		response.Issues = append(response.Issues, summary)
	}

	fields := newAdditionalFieldSet(req.AdditionalFields)
	if fields.has("users") {
		for _, login := range sortedKeys(data.UsersByLogin) {
			response.Users = append(response.Users, data.UsersByLogin[login])
		}
	}
	if fields.has("rules") {
		for _, key := range sortedKeys(data.RulesByKey) {
			response.Rules = append(response.Rules, data.RulesByKey[key])
		}
	}
	if fields.has("components") {
		for _, uuid := range sortedKeys(data.ComponentsByUuid) {
			response.Components = append(response.Components, data.ComponentsByUuid[uuid])
		}
		for _, uuid := range sortedKeys(data.ProjectsByUuid) {
			if _, dup := data.ComponentsByUuid[uuid]; !dup {
				response.Components = append(response.Components, data.ProjectsByUuid[uuid])
			}
		}
	}

	if facets != nil {
		for _, name := range facets.Names() {
			response.Facets = append(response.Facets, model.FacetBlock{
				Property: name,
				Values:   facets.Bucket(name).Values(),
			})
		}
	}

	slog.DebugContext(ctx, "issue search response assembled",
		"issues", len(response.Issues),
		"facets", len(response.Facets),
		"total", response.Paging.Total,
	)

	return response
}

// sortedKeys keeps entity list order deterministic across runs.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
