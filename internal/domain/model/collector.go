// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package model

import "sort"

// Category names a family of ids needing one batched secondary lookup.
type Category string

const (
	CategoryUsers      Category = "USERS"
	CategoryRules      Category = "RULES"
	CategoryComponents Category = "COMPONENTS"
	CategoryProjects   Category = "PROJECTS"
)

// Collector accumulates ids per category during request-parameter and
// facet-bucket scanning. Consumed once at assembly time: ids of one
// category produce exactly one store lookup regardless of hit count.
type Collector struct {
	fields    map[Category]map[string]struct{}
	issueKeys []string
}

// NewCollector returns a collector seeded with the page's issue keys.
func NewCollector(issueKeys []string) *Collector {
	return &Collector{
		fields:    make(map[Category]map[string]struct{}),
		issueKeys: issueKeys,
	}
}

// Add records one id under the category. Empty ids are ignored.
func (c *Collector) Add(category Category, id string) {
	if id == "" {
		return
	}
	set, ok := c.fields[category]
	if !ok {
		set = make(map[string]struct{})
		c.fields[category] = set
	}
	set[id] = struct{}{}
}

// AddAll records every id under the category.
func (c *Collector) AddAll(category Category, ids []string) {
	for _, id := range ids {
		c.Add(category, id)
	}
}

// IDs returns the collected ids for the category, sorted so lookups and
// merges stay deterministic.
func (c *Collector) IDs(category Category) []string {
	set, ok := c.fields[category]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IssueKeys returns the issue keys of the current page, in backend order.
func (c *Collector) IssueKeys() []string {
	return c.issueKeys
}
