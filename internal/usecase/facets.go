// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package usecase

import (
	"github.com/codeinsight/issue-query-service/internal/domain/model"
	"github.com/codeinsight/issue-query-service/pkg/constants"
)

// completeFacets guarantees the UX contract that selected filter values
// always appear in their facet, even with a zero count. Two rules run in
// sequence: fixed-set completion over the known enumerations, then
// request-echo completion over the values the caller actually filtered
// on. Existing keys are never duplicated; zero-count entries are
// appended after the backend-returned ones.
func completeFacets(facets *model.Facets, req *model.SearchRequest, session model.UserSession) {
	if facets == nil {
		return
	}

	// Fixed-set completion.
	addMandatoryValues(facets, "severities", model.Severities)
	addMandatoryValues(facets, "statuses", model.Statuses)
	addMandatoryValues(facets, "resolutions", append([]string{""}, model.Resolutions...))
	addMandatoryValues(facets, "types", model.IssueTypes)

	// Request-derived completion for filters whose vocabulary is open.
	addMandatoryValues(facets, "projectUuids", req.ProjectUuids)
	addMandatoryValues(facets, "rules", req.Rules)
	addMandatoryValues(facets, "languages", req.Languages)
	addMandatoryValues(facets, "tags", req.Tags)

	// The three component-scope filters feed one componentUuids bucket.
	componentUuids := make([]string, 0, len(req.ComponentUuids)+len(req.FileUuids)+len(req.ModuleUuids))
	componentUuids = append(componentUuids, req.ComponentUuids...)
	componentUuids = append(componentUuids, req.FileUuids...)
	componentUuids = append(componentUuids, req.ModuleUuids...)
	addMandatoryValues(facets, "componentUuids", componentUuids)

	// The unassigned entry always exists; requested assignees follow,
	// minus the placeholder which must never surface as a bucket key.
	assignees := []string{""}
	for _, assignee := range req.Assignees {
		if assignee != constants.LoginMyself {
			assignees = append(assignees, assignee)
		}
	}
	addMandatoryValues(facets, "assignees", assignees)

	// Synthetic facet seeded with the caller's own identity.
	if session.LoggedIn {
		addMandatoryValues(facets, constants.FacetAssignedToMe, []string{session.Login})
	}

	// Request-echo completion: every literal value requested for a
	// requested facet is present in its bucket, placeholder excepted.
	for _, facetName := range req.Facets {
		if facetName == constants.FacetAssignedToMe {
			continue
		}
		bucket := facets.Bucket(facetName)
		if bucket == nil {
			continue
		}
		for _, value := range req.RequestedValues(facetName) {
			if value != constants.LoginMyself {
				bucket.AddMissing(value)
			}
		}
	}
}

// addMandatoryValues inserts each absent mandatory value with count 0.
// A nil bucket means the facet was not computed; nothing is invented.
func addMandatoryValues(facets *model.Facets, facetName string, mandatoryValues []string) {
	bucket := facets.Bucket(facetName)
	if bucket == nil || mandatoryValues == nil {
		return
	}
	for _, value := range mandatoryValues {
		bucket.AddMissing(value)
	}
}

// reorderFacets re-derives the output order from the request's declared
// facet order. Facets not requested, such as internal accumulators, are
// dropped regardless of what the backend computed.
func reorderFacets(facets *model.Facets, orderedNames []string) *model.Facets {
	if facets == nil {
		return nil
	}
	ordered := model.NewFacets()
	for _, name := range orderedNames {
		bucket := facets.Bucket(name)
		if bucket == nil {
			continue
		}
		target := ordered.Ensure(name)
		for _, v := range bucket.Values() {
			target.Add(v.Val, v.Count)
		}
	}
	return ordered
}
