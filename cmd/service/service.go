// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"net/http"

	"github.com/codeinsight/issue-query-service/internal/middleware"
	"github.com/codeinsight/issue-query-service/internal/usecase"
	"github.com/codeinsight/issue-query-service/pkg/constants"

	"github.com/gin-gonic/gin"
)

// QueryService bundles the HTTP handlers of the service.
type QueryService struct {
	issueSearch       usecase.IssueSearcher
	componentSearch   usecase.ComponentSearcher
	projectLinkSearch usecase.ProjectLinkSearcher
	analysisSubmit    usecase.AnalysisSubmitter
}

// SearchIssues handles GET /api/issues/search.
func (s *QueryService) SearchIssues(c *gin.Context) {
	session := middleware.SessionFromContext(c)

	response, err := s.issueSearch.Search(c.Request.Context(), c.Request.URL.Query(), session)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// SearchComponents handles GET /api/components/search.
func (s *QueryService) SearchComponents(c *gin.Context) {
	response, err := s.componentSearch.Search(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// SearchProjectLinks handles GET /api/project_links/search.
func (s *QueryService) SearchProjectLinks(c *gin.Context) {
	session := middleware.SessionFromContext(c)

	response, err := s.projectLinkSearch.Search(c.Request.Context(),
		c.Query(constants.ParamProjectID),
		c.Query(constants.ParamProjectKey),
		session,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// SubmitAnalysis handles POST /api/analyses/submit.
func (s *QueryService) SubmitAnalysis(c *gin.Context) {
	session := middleware.SessionFromContext(c)

	projectKey := c.Query(constants.ParamProjectKey)
	if projectKey == "" {
		projectKey = c.PostForm(constants.ParamProjectKey)
	}

	response, err := s.analysisSubmit.Submit(c.Request.Context(), projectKey, session)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// Livez reports process liveness.
func (s *QueryService) Livez(c *gin.Context) {
	c.Data(http.StatusOK, "text/plain", []byte("OK"))
}

// Readyz reports readiness of every collaborator the pipeline needs.
func (s *QueryService) Readyz(c *gin.Context) {
	if err := s.issueSearch.IsReady(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/plain", []byte("OK"))
}

// NewQueryService creates a new QueryService instance
func NewQueryService(
	issueSearch usecase.IssueSearcher,
	componentSearch usecase.ComponentSearcher,
	projectLinkSearch usecase.ProjectLinkSearcher,
	analysisSubmit usecase.AnalysisSubmitter,
) *QueryService {
	return &QueryService{
		issueSearch:       issueSearch,
		componentSearch:   componentSearch,
		projectLinkSearch: projectLinkSearch,
		analysisSubmit:    analysisSubmit,
	}
}
