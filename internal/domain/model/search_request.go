// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package model

import "time"

// Fixed enumerations, in declaration order. Validation error messages list
// the values in exactly this order.
var (
	// Severities every issue carries exactly one of.
	Severities = []string{"INFO", "MINOR", "MAJOR", "CRITICAL", "BLOCKER"}

	// Statuses of the issue workflow.
	Statuses = []string{"OPEN", "CONFIRMED", "REOPENED", "RESOLVED", "CLOSED"}

	// Resolutions an issue can be closed with. The empty resolution
	// (unresolved) is not part of the request vocabulary but is a
	// mandatory facet value.
	Resolutions = []string{"FALSE-POSITIVE", "WONTFIX", "FIXED", "REMOVED"}

	// IssueTypes classifies issues.
	IssueTypes = []string{"CODE_SMELL", "BUG", "VULNERABILITY"}

	// FacetModes selects the metric aggregated per facet value. "debt" is
	// a deprecated alias of "effort".
	FacetModes = []string{FacetModeCount, FacetModeEffort, FacetModeDebt}
)

const (
	FacetModeCount  = "count"
	FacetModeEffort = "effort"
	FacetModeDebt   = "debt"
)

// SupportedFacets is the fixed set of facet names callers may request,
// in declaration order.
var SupportedFacets = []string{
	"severities",
	"statuses",
	"resolutions",
	"types",
	"rules",
	"languages",
	"tags",
	"assignees",
	"assigned_to_me",
	"projectUuids",
	"componentUuids",
	"fileUuids",
	"moduleUuids",
	"directories",
	"authors",
}

// AdditionalFields callers may request for response enrichment.
var AdditionalFields = []string{"_all", "users", "rules", "components"}

// SearchRequest is the validated, typed form of an issue search request.
// It is built once by the request parser and immutable afterwards:
// defaults are applied and deprecated aliases are already resolved into
// the canonical fields.
type SearchRequest struct {
	AdditionalFields []string
	Asc              *bool
	Assigned         *bool
	Assignees        []string
	Authors          []string
	ComponentKeys    []string
	ComponentUuids   []string
	CreatedAfter     *time.Time
	CreatedAt        *time.Time
	CreatedBefore    *time.Time
	CreatedInLast    string
	Directories      []string
	FacetMode        string
	Facets           []string
	FileUuids        []string
	Issues           []string
	Languages        []string
	ModuleUuids      []string
	OnComponentOnly  bool
	Page             int
	PageSize         int
	ProjectKeys      []string
	ProjectUuids     []string
	Resolutions      []string
	Resolved         *bool
	Rules            []string
	Severities       []string
	SinceLeakPeriod  bool
	Sort             string
	Statuses         []string
	Tags             []string
	Types            []string
}

// RequestedValues returns the literal values the request supplied for the
// filter matching the given facet name. Used by facet completion to echo
// requested values back into buckets.
func (r *SearchRequest) RequestedValues(facetName string) []string {
	switch facetName {
	case "severities":
		return r.Severities
	case "statuses":
		return r.Statuses
	case "resolutions":
		return r.Resolutions
	case "types":
		return r.Types
	case "rules":
		return r.Rules
	case "languages":
		return r.Languages
	case "tags":
		return r.Tags
	case "assignees":
		return r.Assignees
	case "projectUuids":
		return r.ProjectUuids
	case "componentUuids":
		return r.ComponentUuids
	case "fileUuids":
		return r.FileUuids
	case "moduleUuids":
		return r.ModuleUuids
	case "directories":
		return r.Directories
	case "authors":
		return r.Authors
	default:
		return nil
	}
}

// UserSession is the identity of the caller, resolved once at the
// transport boundary and passed explicitly through the pipeline.
type UserSession struct {
	Login    string
	LoggedIn bool
}

// AnonymousSession is the session of an unauthenticated caller.
func AnonymousSession() UserSession {
	return UserSession{}
}
