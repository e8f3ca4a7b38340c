// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package opensearch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/codeinsight/issue-query-service/internal/domain/model"
	"github.com/codeinsight/issue-query-service/internal/domain/port"
	"github.com/codeinsight/issue-query-service/pkg/errors"

	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
)

// facetFields maps facet names to their keyword field in the issue
// index. Facets without a field (assigned_to_me) are synthesized during
// completion, never aggregated.
var facetFields = map[string]string{
	"severities":     "severity",
	"statuses":       "status",
	"resolutions":    "resolution",
	"types":          "type",
	"rules":          "rule_key",
	"languages":      "language",
	"tags":           "tags",
	"assignees":      "assignee",
	"authors":        "author",
	"projectUuids":   "project_uuid",
	"componentUuids": "component_uuid",
	"fileUuids":      "file_uuid",
	"moduleUuids":    "module_uuid",
	"directories":    "directory",
}

// sortFields maps the accepted sort names to index fields.
var sortFields = map[string]string{
	"CREATION_DATE": "creation_date",
	"UPDATE_DATE":   "update_date",
	"SEVERITY":      "severity_value",
	"STATUS":        "status",
	"ASSIGNEE":      "assignee",
}

const facetBucketSize = 100

// IssueSearcher implements the search backend port on OpenSearch.
type IssueSearcher struct {
	client ClientRetriever
	index  string
}

// ClientRetriever defines the interface for OpenSearch operations
// This allows for easy mocking and testing
type ClientRetriever interface {
	Search(ctx context.Context, index string, query []byte) (*SearchResponse, error)
	Ping(ctx context.Context) error
}

// Search translates the canonical query into an OpenSearch request,
// executes it and decodes hits and aggregations.
func (os *IssueSearcher) Search(ctx context.Context, query model.IssueQuery, options model.SearchOptions) (*model.IssueSearchResult, error) {

	body, err := os.buildBody(query, options)
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	response, err := os.client.Search(ctx, os.index, body)
	if err != nil {
		return nil, errors.NewServiceUnavailable("opensearch search failed", err)
	}

	result, err := os.convertResponse(ctx, response, query, options)
	if err != nil {
		return nil, fmt.Errorf("failed to convert search response: %w", err)
	}

	slog.DebugContext(ctx, "opensearch search completed",
		"total", result.Total,
		"hits", len(result.Docs),
	)
	return result, nil
}

// buildBody renders the request body: filters, paging, sort and one
// terms aggregation per requested facet.
func (os *IssueSearcher) buildBody(query model.IssueQuery, options model.SearchOptions) ([]byte, error) {

	filters := make([]map[string]any, 0, 16)

	appendTerms := func(field string, values []string) {
		if len(values) > 0 {
			filters = append(filters, map[string]any{
				"terms": map[string]any{field: values},
			})
		}
	}

	appendTerms("key", query.Issues)
	appendTerms("severity", query.Severities)
	appendTerms("status", query.Statuses)
	appendTerms("resolution", query.Resolutions)
	appendTerms("rule_key", query.Rules)
	appendTerms("tags", query.Tags)
	appendTerms("type", query.Types)
	appendTerms("assignee", query.Assignees)
	appendTerms("author", query.Authors)
	appendTerms("language", query.Languages)
	appendTerms("project_key", query.ProjectKeys)
	appendTerms("project_uuid", query.ProjectUuids)
	appendTerms("file_uuid", query.FileUuids)
	appendTerms("module_uuid", query.ModuleUuids)
	appendTerms("directory", query.Directories)

	// Component filters hit the exact component field when the search is
	// restricted to the components themselves, the denormalized ancestor
	// path otherwise.
	if query.OnComponentOnly {
		appendTerms("component_key", query.ComponentKeys)
		appendTerms("component_uuid", query.ComponentUuids)
	} else {
		appendTerms("component_key_path", query.ComponentKeys)
		appendTerms("component_uuid_path", query.ComponentUuids)
	}

	if query.Resolved != nil {
		filters = append(filters, existsFilter("resolution", *query.Resolved))
	}
	if query.Assigned != nil {
		filters = append(filters, existsFilter("assignee", *query.Assigned))
	}
	if query.SinceLeakPeriod {
		filters = append(filters, map[string]any{
			"term": map[string]any{"in_leak_period": true},
		})
	}

	if query.CreatedAt != nil {
		filters = append(filters, map[string]any{
			"term": map[string]any{"creation_date": query.CreatedAt.Format(time.RFC3339)},
		})
	} else if query.CreatedAfter != nil || query.CreatedBefore != nil {
		bounds := make(map[string]any, 2)
		if query.CreatedAfter != nil {
			bounds["gte"] = query.CreatedAfter.Format(time.RFC3339)
		}
		if query.CreatedBefore != nil {
			bounds["lt"] = query.CreatedBefore.Format(time.RFC3339)
		}
		filters = append(filters, map[string]any{
			"range": map[string]any{"creation_date": bounds},
		})
	}

	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{"filter": filters},
		},
		"from": options.Offset(),
		"size": options.PageSize,
		"sort": os.sortClause(query),
	}

	if aggs := os.aggregations(query, options); len(aggs) > 0 {
		body["aggs"] = aggs
	}

	return json.Marshal(body)
}

func existsFilter(field string, mustExist bool) map[string]any {
	exists := map[string]any{
		"exists": map[string]any{"field": field},
	}
	if mustExist {
		return exists
	}
	return map[string]any{
		"bool": map[string]any{"must_not": exists},
	}
}

func (os *IssueSearcher) sortClause(query model.IssueQuery) []map[string]any {
	field, ok := sortFields[query.Sort]
	if !ok {
		// Stable default order keeps paging consistent between requests.
		return []map[string]any{
			{"creation_date": map[string]any{"order": "desc"}},
			{"key": map[string]any{"order": "asc"}},
		}
	}
	order := "desc"
	if query.Asc {
		order = "asc"
	}
	return []map[string]any{
		{field: map[string]any{"order": order}},
		{"key": map[string]any{"order": "asc"}},
	}
}

// aggregations emits one terms aggregation per requested facet that has
// an index field. In effort mode every terms aggregation carries an
// effort sum sub-aggregation, plus one top-level sum over all matches.
func (os *IssueSearcher) aggregations(query model.IssueQuery, options model.SearchOptions) map[string]any {
	aggs := make(map[string]any, len(options.Facets)+1)
	effortMode := query.FacetMode == model.FacetModeEffort

	for _, facet := range options.Facets {
		field, ok := facetFields[facet]
		if !ok {
			continue
		}
		terms := map[string]any{
			"terms": map[string]any{
				"field": field,
				"size":  facetBucketSize,
			},
		}
		if effortMode {
			terms["aggs"] = map[string]any{
				"effort": map[string]any{
					"sum": map[string]any{"field": "effort"},
				},
			}
		}
		aggs[facet] = terms
	}

	if effortMode {
		aggs["effort_total"] = map[string]any{
			"sum": map[string]any{"field": "effort"},
		}
	}
	return aggs
}

// convertResponse decodes hits into issue docs and aggregations into
// facet buckets, preserving backend return order in both.
func (os *IssueSearcher) convertResponse(ctx context.Context, response *SearchResponse, query model.IssueQuery, options model.SearchOptions) (*model.IssueSearchResult, error) {

	result := &model.IssueSearchResult{
		Docs:  make([]model.IssueDoc, 0, len(response.Hits.Hits)),
		Total: int64(response.Hits.Total.Value),
	}

	for _, hit := range response.Hits.Hits {
		var doc model.IssueDoc
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			// Log error but continue processing other hits
			slog.ErrorContext(ctx, "failed to decode hit", "hit_id", hit.ID, "error", err)
			continue
		}
		if doc.Key == "" {
			doc.Key = hit.ID
		}
		result.Docs = append(result.Docs, doc)
	}

	if len(response.Aggregations) == 0 {
		return result, nil
	}

	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(response.Aggregations, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode aggregations: %w", err)
	}

	effortMode := query.FacetMode == model.FacetModeEffort
	facets := model.NewFacets()
	for _, facet := range options.Facets {
		payload, ok := raw[facet]
		if !ok {
			continue
		}
		var terms termsAggregation
		if err := json.Unmarshal(payload, &terms); err != nil {
			return nil, fmt.Errorf("failed to decode facet '%s': %w", facet, err)
		}
		bucket := facets.Ensure(facet)
		for _, entry := range terms.Buckets {
			count := entry.DocCount
			if effortMode && entry.Effort != nil {
				count = int64(entry.Effort.Value)
			}
			bucket.Add(entry.Key, count)
		}
	}
	result.Facets = facets

	if payload, ok := raw["effort_total"]; ok {
		var sum sumAggregation
		if err := json.Unmarshal(payload, &sum); err != nil {
			return nil, fmt.Errorf("failed to decode effort total: %w", err)
		}
		result.EffortTotal = int64(sum.Value)
	}

	return result, nil
}

// IsReady reports whether the cluster answers pings.
func (os *IssueSearcher) IsReady(ctx context.Context) error {
	if err := os.client.Ping(ctx); err != nil {
		return errors.NewServiceUnavailable("opensearch is not ready", err)
	}
	return nil
}

// NewSearcher returns a new OpenSearch-backed issue searcher.
func NewSearcher(ctx context.Context, config Config) (port.IssueSearcher, error) {

	if config.URL == "" {
		slog.ErrorContext(ctx, "opensearch URL is required")
		return nil, fmt.Errorf("opensearch URL is required")
	}
	if config.Index == "" {
		slog.ErrorContext(ctx, "opensearch index is required")
		return nil, fmt.Errorf("opensearch index is required")
	}

	opensearchClient, errOpensearchClient := opensearchapi.NewClient(opensearchapi.Config{
		Client: opensearch.Config{
			Addresses: []string{config.URL},
			Transport: &http.Transport{
				MaxIdleConnsPerHost:   10,
				ResponseHeaderTimeout: time.Second,
				DialContext:           (&net.Dialer{Timeout: 3 * time.Second}).DialContext,
			},
		},
	})
	if errOpensearchClient != nil {
		slog.ErrorContext(ctx, "failed to create OpenSearch client", "error", errOpensearchClient)
		return nil, fmt.Errorf("failed to create OpenSearch client: %w", errOpensearchClient)
	}

	return &IssueSearcher{
		client: &httpClient{
			baseURL: config.URL,
			httpClient: &http.Client{
				Timeout: 30 * time.Second,
			},
			client: opensearchClient,
		},
		index: config.Index,
	}, nil
}
