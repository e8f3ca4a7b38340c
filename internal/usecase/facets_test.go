// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package usecase

import (
	"testing"

	"github.com/codeinsight/issue-query-service/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bucketAsMap(b *model.Bucket) map[string]int64 {
	m := make(map[string]int64, b.Len())
	for _, v := range b.Values() {
		m[v.Val] = v.Count
	}
	return m
}

func TestCompleteFacetsFixedSets(t *testing.T) {
	t.Run("empty severities bucket gains all five severities at zero", func(t *testing.T) {
		facets := model.NewFacets()
		facets.Ensure("severities")

		completeFacets(facets, &model.SearchRequest{}, model.AnonymousSession())

		bucket := facets.Bucket("severities")
		assert.Equal(t, []string{"INFO", "MINOR", "MAJOR", "CRITICAL", "BLOCKER"}, bucket.Keys())
		for _, v := range bucket.Values() {
			assert.Equal(t, int64(0), v.Count)
		}
	})

	t.Run("backend counts are preserved, missing values appended", func(t *testing.T) {
		facets := model.NewFacets()
		bucket := facets.Ensure("severities")
		bucket.Add("MAJOR", 7)
		bucket.Add("MINOR", 2)

		completeFacets(facets, &model.SearchRequest{}, model.AnonymousSession())

		// Backend order first, zero-count completions appended after.
		assert.Equal(t, []string{"MAJOR", "MINOR", "INFO", "CRITICAL", "BLOCKER"}, bucket.Keys())
		values := bucketAsMap(bucket)
		assert.Equal(t, int64(7), values["MAJOR"])
		assert.Equal(t, int64(2), values["MINOR"])
		assert.Equal(t, int64(0), values["BLOCKER"])
	})

	t.Run("resolutions bucket carries the unresolved entry", func(t *testing.T) {
		facets := model.NewFacets()
		facets.Ensure("resolutions")

		completeFacets(facets, &model.SearchRequest{}, model.AnonymousSession())

		assert.Equal(t, []string{"", "FALSE-POSITIVE", "WONTFIX", "FIXED", "REMOVED"},
			facets.Bucket("resolutions").Keys())
	})

	t.Run("absent facet is not invented", func(t *testing.T) {
		facets := model.NewFacets()

		completeFacets(facets, &model.SearchRequest{}, model.AnonymousSession())

		assert.Nil(t, facets.Bucket("severities"))
	})
}

func TestCompleteFacetsRequestEcho(t *testing.T) {
	t.Run("requested rule appears with zero count", func(t *testing.T) {
		facets := model.NewFacets()
		facets.Ensure("rules").Add("squid:S100", 3)

		req := &model.SearchRequest{
			Rules:  []string{"squid:S100", "squid:S200"},
			Facets: []string{"rules"},
		}
		completeFacets(facets, req, model.AnonymousSession())

		values := bucketAsMap(facets.Bucket("rules"))
		assert.Equal(t, int64(3), values["squid:S100"])
		assert.Equal(t, int64(0), values["squid:S200"])
	})

	t.Run("component scope filters merge into componentUuids", func(t *testing.T) {
		facets := model.NewFacets()
		facets.Ensure("componentUuids")

		req := &model.SearchRequest{
			ComponentUuids: []string{"comp-1"},
			FileUuids:      []string{"file-1"},
			ModuleUuids:    []string{"mod-1"},
			Facets:         []string{"componentUuids"},
		}
		completeFacets(facets, req, model.AnonymousSession())

		assert.Equal(t, []string{"comp-1", "file-1", "mod-1"}, facets.Bucket("componentUuids").Keys())
	})
}

func TestCompleteFacetsAssignees(t *testing.T) {
	t.Run("unassigned entry always present", func(t *testing.T) {
		facets := model.NewFacets()
		facets.Ensure("assignees")

		completeFacets(facets, &model.SearchRequest{}, model.AnonymousSession())

		assert.True(t, facets.Bucket("assignees").Contains(""))
	})

	t.Run("placeholder never surfaces as a bucket key", func(t *testing.T) {
		facets := model.NewFacets()
		facets.Ensure("assignees")

		req := &model.SearchRequest{
			Assignees: []string{"alice", "__me__"},
			Facets:    []string{"assignees"},
		}
		session := model.UserSession{Login: "bob", LoggedIn: true}
		completeFacets(facets, req, session)

		bucket := facets.Bucket("assignees")
		assert.False(t, bucket.Contains("__me__"))
		assert.True(t, bucket.Contains("alice"))
	})

	t.Run("assigned_to_me seeded with the session login", func(t *testing.T) {
		facets := model.NewFacets()
		facets.Ensure("assigned_to_me")

		req := &model.SearchRequest{Facets: []string{"assigned_to_me"}}
		session := model.UserSession{Login: "bob", LoggedIn: true}
		completeFacets(facets, req, session)

		assert.Equal(t, []string{"bob"}, facets.Bucket("assigned_to_me").Keys())
	})

	t.Run("assigned_to_me left empty for anonymous callers", func(t *testing.T) {
		facets := model.NewFacets()
		facets.Ensure("assigned_to_me")

		req := &model.SearchRequest{Facets: []string{"assigned_to_me"}}
		completeFacets(facets, req, model.AnonymousSession())

		assert.Equal(t, 0, facets.Bucket("assigned_to_me").Len())
	})
}

func TestReorderFacets(t *testing.T) {
	t.Run("order follows the request, not the backend", func(t *testing.T) {
		facets := model.NewFacets()
		facets.Ensure("statuses").Add("OPEN", 1)
		facets.Ensure("severities").Add("MAJOR", 2)

		ordered := reorderFacets(facets, []string{"severities", "statuses"})

		assert.Equal(t, []string{"severities", "statuses"}, ordered.Names())
	})

	t.Run("unrequested facets are dropped", func(t *testing.T) {
		facets := model.NewFacets()
		facets.Ensure("severities").Add("MAJOR", 2)
		facets.Ensure("effort_total").Add("total", 42)

		ordered := reorderFacets(facets, []string{"severities"})

		assert.Equal(t, []string{"severities"}, ordered.Names())
		assert.Nil(t, ordered.Bucket("effort_total"))
	})

	t.Run("bucket contents survive reordering", func(t *testing.T) {
		facets := model.NewFacets()
		bucket := facets.Ensure("severities")
		bucket.Add("MAJOR", 2)
		bucket.Add("INFO", 0)

		ordered := reorderFacets(facets, []string{"severities"})

		require.NotNil(t, ordered.Bucket("severities"))
		assert.Equal(t, bucket.Values(), ordered.Bucket("severities").Values())
	})

	t.Run("nil facets stay nil", func(t *testing.T) {
		assert.Nil(t, reorderFacets(nil, []string{"severities"}))
	})
}
