// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package usecase

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/codeinsight/issue-query-service/internal/domain/model"
	"github.com/codeinsight/issue-query-service/pkg/constants"
	"github.com/codeinsight/issue-query-service/pkg/errors"
)

// boolValues is the vocabulary of boolean parameters.
var boolValues = []string{"true", "false"}

// createdInLastPattern accepts spans like "1m2w" (years, months, weeks, days).
var createdInLastPattern = regexp.MustCompile(`^(\d+[ymwd])+$`)

// dateLayouts accepted for date parameters, tried in order.
var dateLayouts = []string{
	"2006-01-02T15:04:05-0700",
	time.RFC3339,
	"2006-01-02",
}

// ParseSearchRequest builds the typed, immutable SearchRequest from raw
// query parameters. All boundary rules live here: required parameters,
// defaults, enumerations, mutually exclusive groups, and resolution of
// deprecated aliases into canonical fields. Downstream code never sees
// the raw parameter bag.
func ParseSearchRequest(values url.Values) (*model.SearchRequest, error) {

	if err := checkAtMostOneOf(values,
		constants.ParamComponentKeys,
		constants.ParamComponentUuids,
		constants.ParamComponents,
		constants.ParamComponentRoots,
		constants.ParamComponentRootUuids,
	); err != nil {
		return nil, err
	}
	if err := checkAtMostOneOf(values, constants.ParamProjectKeys, constants.ParamProjectUuids); err != nil {
		return nil, err
	}
	if err := checkAtMostOneOf(values, constants.ParamCreatedAfter, constants.ParamCreatedInLast); err != nil {
		return nil, err
	}

	req := &model.SearchRequest{
		AdditionalFields: paramAsStrings(values, constants.ParamAdditionalFields),
		Assignees:        paramAsStrings(values, constants.ParamAssignees),
		Authors:          paramAsStrings(values, constants.ParamAuthors),
		ComponentKeys:    paramAsStrings(values, constants.ParamComponentKeys),
		ComponentUuids:   paramAsStrings(values, constants.ParamComponentUuids),
		CreatedInLast:    values.Get(constants.ParamCreatedInLast),
		Directories:      paramAsStrings(values, constants.ParamDirectories),
		Facets:           paramAsStrings(values, constants.ParamFacets),
		FileUuids:        paramAsStrings(values, constants.ParamFileUuids),
		Issues:           paramAsStrings(values, constants.ParamIssues),
		Languages:        paramAsStrings(values, constants.ParamLanguages),
		ModuleUuids:      paramAsStrings(values, constants.ParamModuleUuids),
		ProjectKeys:      paramAsStrings(values, constants.ParamProjectKeys),
		ProjectUuids:     paramAsStrings(values, constants.ParamProjectUuids),
		Resolutions:      paramAsStrings(values, constants.ParamResolutions),
		Rules:            paramAsStrings(values, constants.ParamRules),
		Severities:       paramAsStrings(values, constants.ParamSeverities),
		Sort:             values.Get(constants.ParamSort),
		Statuses:         paramAsStrings(values, constants.ParamStatuses),
		Tags:             paramAsStrings(values, constants.ParamTags),
		Types:            paramAsStrings(values, constants.ParamTypes),
	}

	// Deprecated aliases collapse into the canonical component fields at
	// this boundary; nothing downstream branches on them again.
	if components := paramAsStrings(values, constants.ParamComponents); components != nil {
		req.ComponentKeys = components
		req.OnComponentOnly = true
	}
	if roots := paramAsStrings(values, constants.ParamComponentRoots); roots != nil {
		req.ComponentKeys = roots
		req.OnComponentOnly = false
	}
	if rootUuids := paramAsStrings(values, constants.ParamComponentRootUuids); rootUuids != nil {
		req.ComponentUuids = rootUuids
		req.OnComponentOnly = false
	}
	if projects := paramAsStrings(values, constants.ParamProjects); projects != nil {
		req.ProjectKeys = projects
	}

	if values.Has(constants.ParamOnComponentOnly) {
		onComponentOnly, err := paramAsBool(values, constants.ParamOnComponentOnly)
		if err != nil {
			return nil, err
		}
		req.OnComponentOnly = *onComponentOnly
	}

	var err error
	if req.Asc, err = optionalBool(values, constants.ParamAsc); err != nil {
		return nil, err
	}
	if req.Assigned, err = optionalBool(values, constants.ParamAssigned); err != nil {
		return nil, err
	}
	if req.Resolved, err = optionalBool(values, constants.ParamResolved); err != nil {
		return nil, err
	}

	sinceLeakPeriod, err := optionalBool(values, constants.ParamSinceLeakPeriod)
	if err != nil {
		return nil, err
	}
	if sinceLeakPeriod != nil {
		req.SinceLeakPeriod = *sinceLeakPeriod
	}
	if req.SinceLeakPeriod && values.Has(constants.ParamCreatedAfter) {
		return nil, errors.NewValidation(fmt.Sprintf(
			"Either '%s' or '%s' can be provided, not both",
			constants.ParamSinceLeakPeriod, constants.ParamCreatedAfter))
	}

	if req.CreatedAfter, err = optionalDate(values, constants.ParamCreatedAfter); err != nil {
		return nil, err
	}
	if req.CreatedBefore, err = optionalDate(values, constants.ParamCreatedBefore); err != nil {
		return nil, err
	}
	if req.CreatedAt, err = optionalDate(values, constants.ParamCreatedAt); err != nil {
		return nil, err
	}
	if req.CreatedInLast != "" && !createdInLastPattern.MatchString(req.CreatedInLast) {
		return nil, errors.NewValidation(fmt.Sprintf(
			"'%s' is not a valid value for parameter '%s'. Accepted units are 'y', 'm', 'w' and 'd', e.g. '1m2w'",
			req.CreatedInLast, constants.ParamCreatedInLast))
	}

	// Enumerated parameters, checked against fixed value sets.
	if err := checkEnum(constants.ParamSeverities, req.Severities, model.Severities); err != nil {
		return nil, err
	}
	if err := checkEnum(constants.ParamStatuses, req.Statuses, model.Statuses); err != nil {
		return nil, err
	}
	if err := checkEnum(constants.ParamResolutions, req.Resolutions, model.Resolutions); err != nil {
		return nil, err
	}
	if err := checkEnum(constants.ParamTypes, req.Types, model.IssueTypes); err != nil {
		return nil, err
	}
	if err := checkEnum(constants.ParamFacets, req.Facets, model.SupportedFacets); err != nil {
		return nil, err
	}
	if err := checkEnum(constants.ParamAdditionalFields, req.AdditionalFields, model.AdditionalFields); err != nil {
		return nil, err
	}

	// Declared defaults.
	req.FacetMode = values.Get(constants.ParamFacetMode)
	if req.FacetMode == "" {
		req.FacetMode = model.FacetModeCount
	}
	if err := checkEnum(constants.ParamFacetMode, []string{req.FacetMode}, model.FacetModes); err != nil {
		return nil, err
	}
	if req.FacetMode == model.FacetModeDebt {
		// Deprecated alias kept for old scanners.
		req.FacetMode = model.FacetModeEffort
	}

	if req.Page, err = pagingParam(values, constants.ParamPage, constants.DefaultPageIndex); err != nil {
		return nil, err
	}
	if req.PageSize, err = pagingParam(values, constants.ParamPageSize, constants.DefaultPageSize); err != nil {
		return nil, err
	}

	return req, nil
}

// paramAsStrings splits a comma-separated parameter into its values.
// Returns nil when the parameter is absent, an empty slice when present
// but blank, so callers can tell "not set" from "set to nothing".
func paramAsStrings(values url.Values, name string) []string {
	if !values.Has(name) {
		return nil
	}
	raw := values.Get(name)
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func paramAsBool(values url.Values, name string) (*bool, error) {
	raw := values.Get(name)
	switch raw {
	case "true":
		v := true
		return &v, nil
	case "false":
		v := false
		return &v, nil
	default:
		return nil, enumViolation(name, raw, boolValues)
	}
}

func optionalBool(values url.Values, name string) (*bool, error) {
	if !values.Has(name) {
		return nil, nil
	}
	return paramAsBool(values, name)
}

func optionalDate(values url.Values, name string) (*time.Time, error) {
	if !values.Has(name) {
		return nil, nil
	}
	raw := values.Get(name)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, errors.NewValidation(fmt.Sprintf(
		"'%s' cannot be parsed as either a date or date+time for parameter '%s'", raw, name))
}

func pagingParam(values url.Values, name string, defaultValue int) (int, error) {
	if !values.Has(name) {
		return defaultValue, nil
	}
	raw := values.Get(name)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewValidation(fmt.Sprintf(
			"'%s' value '%s' cannot be parsed as an integer", name, raw))
	}
	if v < 1 {
		return 0, errors.NewValidation(fmt.Sprintf(
			"'%s' value '%d' must be greater than 0", name, v))
	}
	return v, nil
}

// checkAtMostOneOf fails when two or more of the named parameters are
// set, naming every conflicting parameter present.
func checkAtMostOneOf(values url.Values, names ...string) error {
	var present []string
	for _, name := range names {
		if values.Has(name) {
			present = append(present, name)
		}
	}
	switch {
	case len(present) == 2:
		return errors.NewValidation(fmt.Sprintf(
			"Either '%s' or '%s' can be provided, not both", present[0], present[1]))
	case len(present) > 2:
		return errors.NewValidation(fmt.Sprintf(
			"Only one of parameters '%s' can be provided", strings.Join(present, "', '")))
	}
	return nil
}

// checkEnum validates every supplied value against the fixed set,
// reporting the allowed values in declaration order.
func checkEnum(name string, supplied, allowed []string) error {
	for _, value := range supplied {
		found := false
		for _, a := range allowed {
			if value == a {
				found = true
				break
			}
		}
		if !found {
			return enumViolation(name, value, allowed)
		}
	}
	return nil
}

func enumViolation(name, value string, allowed []string) error {
	return errors.NewValidation(fmt.Sprintf(
		"Value of parameter '%s' (%s) must be one of: [%s]",
		name, value, strings.Join(allowed, ", ")))
}
