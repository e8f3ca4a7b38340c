// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/codeinsight/issue-query-service/internal/domain/model"
	"github.com/codeinsight/issue-query-service/internal/domain/port"
)

// MockEntityStore provides an in-memory implementation of the entity
// store port for local development and testing.
type MockEntityStore struct {
	mu sync.RWMutex

	// Users keyed by login
	Users map[string]model.User
	// Rules keyed by rule key
	Rules map[string]model.Rule
	// Components keyed by uuid
	Components map[string]model.Component
	// Links keyed by component uuid
	Links map[string][]model.ProjectLink
	// Analyses in submission order
	Analyses []model.Analysis

	// Err, when set, fails every call
	Err error
}

// UsersByLogins resolves user summaries for the given logins.
func (m *MockEntityStore) UsersByLogins(ctx context.Context, logins []string) ([]model.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var users []model.User
	for _, login := range logins {
		if user, ok := m.Users[login]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

// RulesByKeys resolves rule summaries for the given rule keys.
func (m *MockEntityStore) RulesByKeys(ctx context.Context, keys []string) ([]model.Rule, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var rules []model.Rule
	for _, key := range keys {
		if rule, ok := m.Rules[key]; ok {
			rules = append(rules, rule)
		}
	}
	return rules, nil
}

// ComponentsByUuids resolves component summaries for the given uuids.
func (m *MockEntityStore) ComponentsByUuids(ctx context.Context, uuids []string) ([]model.Component, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var components []model.Component
	for _, uuid := range uuids {
		if component, ok := m.Components[uuid]; ok {
			components = append(components, component)
		}
	}
	return components, nil
}

// ComponentByUuidOrKey resolves a single component by uuid or key.
func (m *MockEntityStore) ComponentByUuidOrKey(ctx context.Context, uuid, key string) (*model.Component, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if uuid != "" {
		if component, ok := m.Components[uuid]; ok {
			return &component, nil
		}
		return nil, nil
	}
	for _, component := range m.Components {
		if component.Key == key {
			return &component, nil
		}
	}
	return nil, nil
}

// ProjectLinksByComponentUuid lists the links attached to a component.
func (m *MockEntityStore) ProjectLinksByComponentUuid(ctx context.Context, componentUuid string) ([]model.ProjectLink, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.Links[componentUuid], nil
}

// SearchComponents returns one page of components ordered by key
// ascending, with the total match count.
func (m *MockEntityStore) SearchComponents(ctx context.Context, qualifiers []string, query string, page, pageSize int) ([]model.Component, int64, error) {
	if m.Err != nil {
		return nil, 0, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	qualifierSet := make(map[string]struct{}, len(qualifiers))
	for _, q := range qualifiers {
		qualifierSet[q] = struct{}{}
	}

	var matched []model.Component
	for _, component := range m.Components {
		if _, ok := qualifierSet[component.Qualifier]; !ok {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(component.Key), strings.ToLower(query)) &&
			!strings.Contains(strings.ToLower(component.Name), strings.ToLower(query)) {
			continue
		}
		matched = append(matched, component)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Key < matched[j].Key
	})

	total := int64(len(matched))
	start := (page - 1) * pageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// RecordAnalysis persists an accepted analysis submission.
func (m *MockEntityStore) RecordAnalysis(ctx context.Context, analysis model.Analysis) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Analyses = append(m.Analyses, analysis)
	return nil
}

// IsReady implements the EntityStore port (always ready for mock)
func (m *MockEntityStore) IsReady(ctx context.Context) error {
	return m.Err
}

// AddComponent registers a component, keyed by its uuid.
func (m *MockEntityStore) AddComponent(component model.Component) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Components[component.Uuid] = component
}

// NewMockEntityStore creates an empty in-memory entity store
func NewMockEntityStore() *MockEntityStore {
	return &MockEntityStore{
		Users:      make(map[string]model.User),
		Rules:      make(map[string]model.Rule),
		Components: make(map[string]model.Component),
		Links:      make(map[string][]model.ProjectLink),
	}
}

var _ port.EntityStore = (*MockEntityStore)(nil)
