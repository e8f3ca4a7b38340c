// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package usecase

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/codeinsight/issue-query-service/internal/domain/model"
	"github.com/codeinsight/issue-query-service/internal/domain/port"
	"github.com/codeinsight/issue-query-service/internal/infrastructure/mock"
	"github.com/codeinsight/issue-query-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// erroringAccessChecker fails every check at the transport level.
type erroringAccessChecker struct{}

func (erroringAccessChecker) CheckAccess(ctx context.Context, subj string, data []byte, timeout time.Duration) (port.AccessCheckResult, error) {
	return nil, assert.AnError
}

func (erroringAccessChecker) IsReady(ctx context.Context) error { return assert.AnError }

func (erroringAccessChecker) Close() error { return nil }

func testCorpus() []model.IssueDoc {
	created := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	return []model.IssueDoc{
		{Key: "issue-1", RuleKey: "squid:S100", Severity: "MAJOR", Status: "OPEN", Type: "BUG",
			ProjectUuid: "proj-1", ComponentUuid: "file-1", Assignee: "alice", Effort: 30, CreationDate: &created},
		{Key: "issue-2", RuleKey: "squid:S200", Severity: "MINOR", Status: "OPEN", Type: "CODE_SMELL",
			ProjectUuid: "proj-1", ComponentUuid: "file-1", Assignee: "bob", Effort: 12, CreationDate: &created},
		{Key: "issue-3", RuleKey: "squid:S100", Severity: "MAJOR", Status: "RESOLVED", Resolution: "FIXED",
			Type: "BUG", ProjectUuid: "proj-1", ComponentUuid: "file-2", Effort: 5, CreationDate: &created},
	}
}

func newTestIssueSearch(checker port.AccessControlChecker) (IssueSearcher, *mock.MockEntityStore) {
	store := mock.NewMockEntityStore()
	store.Users["alice"] = model.User{Login: "alice", Name: "Alice", Active: true}
	store.Users["bob"] = model.User{Login: "bob", Name: "Bob", Active: true}
	store.Rules["squid:S100"] = model.Rule{Key: "squid:S100", Name: "Method names"}
	store.Rules["squid:S200"] = model.Rule{Key: "squid:S200", Name: "Line length"}
	store.AddComponent(model.Component{Uuid: "proj-1", Key: "project-1", Qualifier: "TRK"})
	store.AddComponent(model.Component{Uuid: "file-1", Key: "project-1:src/main.go", Qualifier: "FIL", ProjectUuid: "proj-1"})
	store.AddComponent(model.Component{Uuid: "file-2", Key: "project-1:src/util.go", Qualifier: "FIL", ProjectUuid: "proj-1"})

	searcher := mock.NewMockIssueSearcher(testCorpus())
	return NewIssueSearch(searcher, store, checker), store
}

func TestIssueSearchPipeline(t *testing.T) {
	ctx := context.Background()

	t.Run("unfiltered search returns every issue", func(t *testing.T) {
		search, _ := newTestIssueSearch(mock.NewMockAccessControlChecker())

		response, err := search.Search(ctx, url.Values{}, model.AnonymousSession())
		require.NoError(t, err)

		assert.Equal(t, int64(3), response.Paging.Total)
		assert.Len(t, response.Issues, 3)
		assert.Equal(t, 1, response.Paging.PageIndex)
		assert.Equal(t, 100, response.Paging.PageSize)
	})

	t.Run("severity filter narrows the result", func(t *testing.T) {
		search, _ := newTestIssueSearch(mock.NewMockAccessControlChecker())

		response, err := search.Search(ctx, url.Values{"severities": {"MINOR"}}, model.AnonymousSession())
		require.NoError(t, err)

		require.Len(t, response.Issues, 1)
		assert.Equal(t, "issue-2", response.Issues[0].Key)
	})

	t.Run("validation failure short-circuits", func(t *testing.T) {
		search, _ := newTestIssueSearch(mock.NewMockAccessControlChecker())

		_, err := search.Search(ctx, url.Values{"severities": {"HUGE"}}, model.AnonymousSession())
		require.Error(t, err)
		assert.IsType(t, errors.Validation{}, err)
	})

	t.Run("requested facet completed even with zero matches", func(t *testing.T) {
		search, _ := newTestIssueSearch(mock.NewMockAccessControlChecker())

		params := url.Values{
			"severities": {"INFO"},
			"facets":     {"severities"},
		}
		response, err := search.Search(ctx, params, model.AnonymousSession())
		require.NoError(t, err)

		assert.Empty(t, response.Issues)
		require.Len(t, response.Facets, 1)
		assert.Equal(t, "severities", response.Facets[0].Property)
		require.Len(t, response.Facets[0].Values, 5)
		for _, value := range response.Facets[0].Values {
			assert.Equal(t, int64(0), value.Count, value.Val)
		}
	})

	t.Run("assignee placeholder resolves to the caller", func(t *testing.T) {
		search, _ := newTestIssueSearch(mock.NewMockAccessControlChecker())
		session := model.UserSession{Login: "bob", LoggedIn: true}

		response, err := search.Search(ctx, url.Values{"assignees": {"__me__"}}, session)
		require.NoError(t, err)

		require.Len(t, response.Issues, 1)
		assert.Equal(t, "issue-2", response.Issues[0].Key)
		assert.Equal(t, "bob", response.Issues[0].Assignee)
	})

	t.Run("additional fields enrich the response", func(t *testing.T) {
		search, _ := newTestIssueSearch(mock.NewMockAccessControlChecker())

		params := url.Values{
			"assignees":        {"alice"},
			"additionalFields": {"users"},
		}
		response, err := search.Search(ctx, params, model.AnonymousSession())
		require.NoError(t, err)

		require.Len(t, response.Users, 1)
		assert.Equal(t, "alice", response.Users[0].Login)
	})

	t.Run("hit references resolved without matching filters", func(t *testing.T) {
		search, _ := newTestIssueSearch(mock.NewMockAccessControlChecker())

		// No filter names these uuids; they come from the hits alone.
		response, err := search.Search(ctx, url.Values{}, model.AnonymousSession())
		require.NoError(t, err)

		require.Len(t, response.Issues, 3)
		for _, issue := range response.Issues {
			assert.Equal(t, "project-1", issue.Project, issue.Key)
			assert.NotEmpty(t, issue.Component, issue.Key)
		}
	})

	t.Run("hit assignees and rules feed the entity lists", func(t *testing.T) {
		search, _ := newTestIssueSearch(mock.NewMockAccessControlChecker())

		response, err := search.Search(ctx, url.Values{"additionalFields": {"_all"}}, model.AnonymousSession())
		require.NoError(t, err)

		require.Len(t, response.Users, 2)
		assert.Equal(t, "alice", response.Users[0].Login)
		assert.Equal(t, "bob", response.Users[1].Login)
		require.Len(t, response.Rules, 2)
		assert.Equal(t, "squid:S100", response.Rules[0].Key)
		assert.Equal(t, "squid:S200", response.Rules[1].Key)
	})

	t.Run("key references resolved through the store", func(t *testing.T) {
		search, _ := newTestIssueSearch(mock.NewMockAccessControlChecker())

		params := url.Values{
			"componentUuids":   {"file-1"},
			"additionalFields": {"components"},
		}
		response, err := search.Search(ctx, params, model.AnonymousSession())
		require.NoError(t, err)

		require.Len(t, response.Issues, 2)
		assert.Equal(t, "project-1:src/main.go", response.Issues[0].Component)
		assert.Equal(t, "project-1", response.Issues[0].Project)
	})
}

func TestIssueSearchPermissionGate(t *testing.T) {
	ctx := context.Background()

	t.Run("no project filter skips the gate", func(t *testing.T) {
		search, _ := newTestIssueSearch(mock.NewMockAccessControlCheckerDenyAll())

		_, err := search.Search(ctx, url.Values{}, model.AnonymousSession())
		assert.NoError(t, err)
	})

	t.Run("denied browse is forbidden", func(t *testing.T) {
		search, _ := newTestIssueSearch(mock.NewMockAccessControlCheckerDenyAll())

		_, err := search.Search(ctx, url.Values{"projectKeys": {"project-1"}}, model.AnonymousSession())
		require.Error(t, err)
		assert.IsType(t, errors.Forbidden{}, err)
		assert.Equal(t, "Insufficient privileges", err.Error())
	})

	t.Run("one denied project fails the whole request", func(t *testing.T) {
		checker := mock.NewMockAccessControlChecker()
		checker.DeniedRelations = []string{"project:secret-project#browse"}
		search, _ := newTestIssueSearch(checker)

		_, err := search.Search(ctx, url.Values{"projectKeys": {"project-1,secret-project"}}, model.AnonymousSession())
		require.Error(t, err)
		assert.IsType(t, errors.Forbidden{}, err)
	})

	t.Run("checker failure is service unavailable", func(t *testing.T) {
		search, _ := newTestIssueSearch(erroringAccessChecker{})

		_, err := search.Search(ctx, url.Values{"projectKeys": {"project-1"}}, model.AnonymousSession())
		require.Error(t, err)
		assert.IsType(t, errors.ServiceUnavailable{}, err)
	})
}

func TestIssueSearchIsReady(t *testing.T) {
	ctx := context.Background()

	t.Run("ready when every collaborator is ready", func(t *testing.T) {
		search, _ := newTestIssueSearch(mock.NewMockAccessControlChecker())
		assert.NoError(t, search.IsReady(ctx))
	})

	t.Run("store failure propagates", func(t *testing.T) {
		search, store := newTestIssueSearch(mock.NewMockAccessControlChecker())
		store.Err = assert.AnError
		assert.Error(t, search.IsReady(ctx))
	})

	t.Run("access checker failure propagates", func(t *testing.T) {
		search, _ := newTestIssueSearch(erroringAccessChecker{})
		assert.Error(t, search.IsReady(ctx))
	})
}
