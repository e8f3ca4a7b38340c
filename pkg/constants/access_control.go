// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package constants

const (
	// AccessCheckSubject is the subject used for capability checks
	AccessCheckSubject = "dev.codeinsight.access_check.request"
	// AnonymousPrincipal is the identifier for anonymous users
	AnonymousPrincipal = `_anonymous`
)

type principalContextIDType string

// PrincipalContextID is the context key holding the authenticated principal
const PrincipalContextID principalContextIDType = "principal"

// PrincipalAttribute is the slog attribute name for the principal
const PrincipalAttribute = "principal"
