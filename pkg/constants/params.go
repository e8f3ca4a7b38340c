// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package constants

// Request parameter names shared by the web-service actions. Facet names
// reuse the name of the parameter that filters the same field.
const (
	ParamAdditionalFields   = "additionalFields"
	ParamAsc                = "asc"
	ParamAssigned           = "assigned"
	ParamAssignees          = "assignees"
	ParamAuthors            = "authors"
	ParamComponentKeys      = "componentKeys"
	ParamComponentRoots     = "componentRoots"
	ParamComponentRootUuids = "componentRootUuids"
	ParamComponentUuids     = "componentUuids"
	ParamComponents         = "components"
	ParamCreatedAfter       = "createdAfter"
	ParamCreatedAt          = "createdAt"
	ParamCreatedBefore      = "createdBefore"
	ParamCreatedInLast      = "createdInLast"
	ParamDirectories        = "directories"
	ParamFacetMode          = "facetMode"
	ParamFacets             = "facets"
	ParamFileUuids          = "fileUuids"
	ParamIssues             = "issues"
	ParamLanguages          = "languages"
	ParamModuleUuids        = "moduleUuids"
	ParamOnComponentOnly    = "onComponentOnly"
	ParamPage               = "p"
	ParamPageSize           = "ps"
	ParamProjectKeys        = "projectKeys"
	ParamProjects           = "projects"
	ParamProjectUuids       = "projectUuids"
	ParamQualifiers         = "qualifiers"
	ParamQuery              = "q"
	ParamResolutions        = "resolutions"
	ParamResolved           = "resolved"
	ParamRules              = "rules"
	ParamSeverities         = "severities"
	ParamSinceLeakPeriod    = "sinceLeakPeriod"
	ParamSort               = "s"
	ParamStatuses           = "statuses"
	ParamTags               = "tags"
	ParamTypes              = "types"

	// Project link search.
	ParamProjectID  = "projectId"
	ParamProjectKey = "projectKey"

	// FacetAssignedToMe is a synthetic facet seeded with the caller's login.
	FacetAssignedToMe = "assigned_to_me"

	// LoginMyself is the reserved placeholder resolved to the caller's login.
	LoginMyself = "__me__"
)
