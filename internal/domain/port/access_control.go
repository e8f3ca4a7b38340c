// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package port

import (
	"context"
	"time"
)

// AccessCheckResult maps each submitted relation line to "true" or
// "false" as reported by the access control service.
type AccessCheckResult map[string]string

// AccessControlChecker answers batched capability checks of the form
// "does caller have capability C on entity E". Implementations (NATS,
// mock) stay unknown to the domain layer.
type AccessControlChecker interface {
	// CheckAccess verifies a batch of newline-separated relation lines
	CheckAccess(ctx context.Context, subj string, data []byte, timeout time.Duration) (AccessCheckResult, error)

	// Close gracefully closes the access control checker connection
	Close() error

	// IsReady checks if the access control service is ready to process requests
	IsReady(ctx context.Context) error
}
