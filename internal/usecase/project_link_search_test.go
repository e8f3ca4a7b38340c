// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package usecase

import (
	"context"
	"testing"

	"github.com/codeinsight/issue-query-service/internal/domain/model"
	"github.com/codeinsight/issue-query-service/internal/infrastructure/mock"
	"github.com/codeinsight/issue-query-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProjectLinkStore() *mock.MockEntityStore {
	store := mock.NewMockEntityStore()
	store.AddComponent(model.Component{Uuid: "proj-1", Key: "project-1", Qualifier: "TRK"})
	store.Links["proj-1"] = []model.ProjectLink{
		{ID: "1", Name: "Homepage", Type: "homepage", URL: "https://example.com"},
		{ID: "2", Name: "CI", Type: "ci", URL: "https://ci.example.com"},
	}
	return store
}

func TestProjectLinkSearch(t *testing.T) {
	ctx := context.Background()
	session := model.UserSession{Login: "alice", LoggedIn: true}

	t.Run("links by project key", func(t *testing.T) {
		search := NewProjectLinkSearch(newProjectLinkStore(), mock.NewMockAccessControlChecker())

		response, err := search.Search(ctx, "", "project-1", session)
		require.NoError(t, err)

		require.Len(t, response.Links, 2)
		assert.Equal(t, "Homepage", response.Links[0].Name)
		assert.Equal(t, "https://ci.example.com", response.Links[1].URL)
	})

	t.Run("links by project id", func(t *testing.T) {
		search := NewProjectLinkSearch(newProjectLinkStore(), mock.NewMockAccessControlChecker())

		response, err := search.Search(ctx, "proj-1", "", session)
		require.NoError(t, err)
		assert.Len(t, response.Links, 2)
	})

	t.Run("project without links yields an empty list", func(t *testing.T) {
		store := newProjectLinkStore()
		store.AddComponent(model.Component{Uuid: "proj-2", Key: "project-2", Qualifier: "TRK"})
		search := NewProjectLinkSearch(store, mock.NewMockAccessControlChecker())

		response, err := search.Search(ctx, "", "project-2", session)
		require.NoError(t, err)
		assert.Empty(t, response.Links)
	})

	t.Run("both addressing parameters rejected", func(t *testing.T) {
		search := NewProjectLinkSearch(newProjectLinkStore(), mock.NewMockAccessControlChecker())

		_, err := search.Search(ctx, "proj-1", "project-1", session)
		require.Error(t, err)
		assert.IsType(t, errors.Validation{}, err)
		assert.Equal(t, "Either 'projectId' or 'projectKey' can be provided, not both", err.Error())
	})

	t.Run("neither addressing parameter rejected", func(t *testing.T) {
		search := NewProjectLinkSearch(newProjectLinkStore(), mock.NewMockAccessControlChecker())

		_, err := search.Search(ctx, "", "", session)
		require.Error(t, err)
		assert.Equal(t, "Either 'projectId' or 'projectKey' must be provided", err.Error())
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		search := NewProjectLinkSearch(newProjectLinkStore(), mock.NewMockAccessControlChecker())

		_, err := search.Search(ctx, "ghost", "", session)
		require.Error(t, err)
		assert.IsType(t, errors.NotFound{}, err)
		assert.Equal(t, "Component id 'ghost' not found", err.Error())
	})

	t.Run("unknown key is not found", func(t *testing.T) {
		search := NewProjectLinkSearch(newProjectLinkStore(), mock.NewMockAccessControlChecker())

		_, err := search.Search(ctx, "", "ghost", session)
		require.Error(t, err)
		assert.Equal(t, "Component key 'ghost' not found", err.Error())
	})

	t.Run("browse capability alone suffices", func(t *testing.T) {
		checker := mock.NewMockAccessControlChecker()
		checker.DeniedRelations = []string{"#admin@"}
		search := NewProjectLinkSearch(newProjectLinkStore(), checker)

		_, err := search.Search(ctx, "", "project-1", session)
		assert.NoError(t, err)
	})

	t.Run("admin capability alone suffices", func(t *testing.T) {
		checker := mock.NewMockAccessControlChecker()
		checker.DeniedRelations = []string{"#browse@"}
		search := NewProjectLinkSearch(newProjectLinkStore(), checker)

		_, err := search.Search(ctx, "", "project-1", session)
		assert.NoError(t, err)
	})

	t.Run("neither capability is forbidden", func(t *testing.T) {
		search := NewProjectLinkSearch(newProjectLinkStore(), mock.NewMockAccessControlCheckerDenyAll())

		_, err := search.Search(ctx, "", "project-1", session)
		require.Error(t, err)
		assert.IsType(t, errors.Forbidden{}, err)
		assert.Equal(t, "Insufficient privileges", err.Error())
	})

	t.Run("checker failure is service unavailable", func(t *testing.T) {
		search := NewProjectLinkSearch(newProjectLinkStore(), erroringAccessChecker{})

		_, err := search.Search(ctx, "", "project-1", session)
		require.Error(t, err)
		assert.IsType(t, errors.ServiceUnavailable{}, err)
	})
}
