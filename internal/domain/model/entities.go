// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package model

import "time"

// User is the summary of a user joined onto search results.
type User struct {
	Login  string `json:"login"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	Active bool   `json:"active"`
}

// Rule is the summary of a coding rule joined onto search results.
type Rule struct {
	Key      string `json:"key"`
	Name     string `json:"name,omitempty"`
	Lang     string `json:"lang,omitempty"`
	LangName string `json:"langName,omitempty"`
	Status   string `json:"status,omitempty"`
}

// Component is a project, module, directory or file summary.
type Component struct {
	Uuid      string `json:"uuid"`
	Key       string `json:"key"`
	Qualifier string `json:"qualifier,omitempty"`
	Name      string `json:"name,omitempty"`
	Language  string `json:"language,omitempty"`
	Path      string `json:"path,omitempty"`
	// ProjectUuid is the root project the component belongs to.
	ProjectUuid string `json:"projectUuid,omitempty"`
}

// ProjectLink is an external link attached to a project.
type ProjectLink struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Type string `json:"type,omitempty"`
	URL  string `json:"url"`
}

// Analysis is a recorded analysis submission.
type Analysis struct {
	ID          string    `json:"id"`
	ProjectKey  string    `json:"projectKey"`
	SubmittedBy string    `json:"submittedBy,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
	Status      string    `json:"status"`
}

// ResponseData carries the entities resolved by the batched secondary
// lookups, keyed for assembly.
type ResponseData struct {
	UsersByLogin     map[string]User
	RulesByKey       map[string]Rule
	ComponentsByUuid map[string]Component
	ProjectsByUuid   map[string]Component
}

// NewResponseData returns an empty, fully initialized ResponseData.
func NewResponseData() *ResponseData {
	return &ResponseData{
		UsersByLogin:     make(map[string]User),
		RulesByKey:       make(map[string]Rule),
		ComponentsByUuid: make(map[string]Component),
		ProjectsByUuid:   make(map[string]Component),
	}
}
