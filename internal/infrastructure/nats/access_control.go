// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/codeinsight/issue-query-service/internal/domain/port"
	"github.com/codeinsight/issue-query-service/pkg/errors"
)

// NATSAccessControlChecker implements the AccessControlChecker port for NATS
type NATSAccessControlChecker struct {
	client NATSClientInterface
}

// CheckAccess implements the AccessControlChecker port
func (n *NATSAccessControlChecker) CheckAccess(ctx context.Context, subj string, data []byte, timeout time.Duration) (port.AccessCheckResult, error) {
	slog.DebugContext(ctx, "executing NATS capability check",
		"subject", subj,
		"timeout", timeout,
		"message", string(data),
	)

	// Send request via NATS
	response, err := n.client.CheckAccess(ctx, &CheckRequest{
		Subject: subj,
		Message: data,
		Timeout: timeout,
	})
	if err != nil {
		slog.ErrorContext(ctx, "NATS access control check failed", "error", err)
		return nil, fmt.Errorf("NATS access control check failed: %w", err)
	}

	result := n.convertFromNATSResponse(response)

	slog.DebugContext(ctx, "NATS capability check completed",
		"subject", subj,
		"result", result,
	)

	return result, nil
}

// IsReady reports whether the connection can serve capability checks.
func (n *NATSAccessControlChecker) IsReady(ctx context.Context) error {
	if !n.client.IsConnected() {
		return errors.NewServiceUnavailable("NATS connection is not ready")
	}
	return nil
}

// Close gracefully closes the NATS connection
func (n *NATSAccessControlChecker) Close() error {
	return n.client.Close()
}

// convertFromNATSResponse converts a NATS response to the port type
func (n *NATSAccessControlChecker) convertFromNATSResponse(response CheckResponse) port.AccessCheckResult {
	return port.AccessCheckResult(response)
}

// NewAccessControlChecker creates a new NATS access control checker
func NewAccessControlChecker(ctx context.Context, config Config) (port.AccessControlChecker, error) {
	slog.InfoContext(ctx, "creating NATS access control checker",
		"url", config.URL,
	)

	client, err := NewClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS client: %w", err)
	}

	return &NATSAccessControlChecker{
		client: client,
	}, nil
}
