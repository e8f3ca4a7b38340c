// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package constants

const (
	// DefaultPageIndex is the first page of results
	DefaultPageIndex = 1

	// DefaultPageSize is the default number of results per page for queries
	DefaultPageSize = 100

	// MaxPageSize is the hard ceiling a caller-provided page size is clamped to
	MaxPageSize = 500
)
