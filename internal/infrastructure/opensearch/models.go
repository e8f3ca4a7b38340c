// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package opensearch

import "encoding/json"

// Config represents OpenSearch configuration
type Config struct {
	URL   string `json:"url"`
	Index string `json:"index"`
}

// SearchResponse is the subset of an OpenSearch search response the
// issue searcher consumes.
type SearchResponse struct {
	Hits         Hits            `json:"hits"`
	Aggregations json.RawMessage `json:"aggregations,omitempty"`
}

// Hits represents the hits in the search response
type Hits struct {
	Total Total `json:"total"`
	Hits  []Hit `json:"hits"`
}

// Total represents the total number of hits
type Total struct {
	Value int `json:"value"`
}

// Hit represents a single search result hit
type Hit struct {
	ID     string          `json:"_id"`
	Score  float64         `json:"_score"`
	Source json.RawMessage `json:"_source"`
}

// aggregationBucket is one terms bucket, carrying the effort sum when
// the query aggregates effort instead of counts.
type aggregationBucket struct {
	Key      string `json:"key"`
	DocCount int64  `json:"doc_count"`
	Effort   *struct {
		Value float64 `json:"value"`
	} `json:"effort,omitempty"`
}

// termsAggregation represents a terms aggregation response.
type termsAggregation struct {
	DocCountErrorUpperBound int64               `json:"doc_count_error_upper_bound"`
	SumOtherDocCount        int64               `json:"sum_other_doc_count"`
	Buckets                 []aggregationBucket `json:"buckets"`
}

// sumAggregation represents a single-value sum aggregation response.
type sumAggregation struct {
	Value float64 `json:"value"`
}
