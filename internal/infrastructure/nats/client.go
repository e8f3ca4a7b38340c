// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package nats

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSClient wraps the NATS connection and provides capability check operations
type NATSClient struct {
	conn    *nats.Conn
	config  Config
	timeout time.Duration
}

// NATSClientInterface defines the interface for NATS operations
// This allows for easy mocking and testing
type NATSClientInterface interface {
	CheckAccess(ctx context.Context, request *CheckRequest) (CheckResponse, error)
	IsConnected() bool
	Close() error
}

// CheckAccess sends a capability check request via NATS and waits for
// the response. Each reply line is "relation<TAB>verdict".
func (c *NATSClient) CheckAccess(ctx context.Context, request *CheckRequest) (CheckResponse, error) {

	if request == nil {
		slog.ErrorContext(ctx, "invalid NATS access check request: request cannot be nil")
		return nil, fmt.Errorf("invalid NATS access check request: request cannot be nil")
	}

	if request.Subject == "" || len(request.Message) == 0 {
		slog.ErrorContext(ctx, "invalid NATS access check request",
			"subject", request.Subject,
			"message", request.Message,
		)
		return nil, fmt.Errorf("invalid NATS access check request: subject and message must be set")
	}

	// Send the request and wait for response
	natsResponse, errRequest := c.conn.Request(request.Subject, request.Message, request.Timeout)
	if errRequest != nil {
		slog.ErrorContext(ctx, "NATS request failed", "error", errRequest)
		return nil, fmt.Errorf("NATS request failed: %w", errRequest)
	}

	slog.DebugContext(ctx, "received NATS response",
		"subject", request.Subject,
		"message", string(natsResponse.Data),
		"timeout", request.Timeout,
	)

	response := make(map[string]string)
	lines := bytes.Split(natsResponse.Data, []byte("\n"))
	for _, line := range lines {
		// Split the relation from the verdict.
		var relationPart, verdictPart []byte
		var found bool
		if relationPart, verdictPart, found = bytes.Cut(line, []byte("\t")); !found {
			slog.ErrorContext(ctx, "invalid NATS response format",
				"message", string(line),
			)
			return nil, errors.New("failed to process access check")
		}
		// Keyed by the full relation line so callers can look up their hits.
		response[string(relationPart)] = string(verdictPart)
	}

	return response, nil
}

// IsConnected reports whether the underlying connection is usable.
func (c *NATSClient) IsConnected() bool {
	return c.conn != nil && c.conn.Status() == nats.CONNECTED
}

// Close gracefully closes the NATS connection
func (c *NATSClient) Close() error {
	if c.conn != nil {
		c.conn.Close()
	}
	return nil
}

// NewClient creates a new NATS client with the given configuration
func NewClient(ctx context.Context, config Config) (*NATSClient, error) {
	slog.InfoContext(ctx, "creating NATS client",
		"url", config.URL,
		"timeout", config.Timeout,
	)

	// Configure NATS connection options
	opts := []nats.Option{
		nats.Name("issue-query-service"),
		nats.Timeout(config.Timeout),
		nats.MaxReconnects(config.MaxReconnect),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			slog.WarnContext(ctx, "NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.InfoContext(ctx, "NATS reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			slog.InfoContext(ctx, "NATS connection closed")
		}),
	}

	// Establish connection
	conn, err := nats.Connect(config.URL, opts...)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to NATS", "error", err)
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	client := &NATSClient{
		conn:    conn,
		config:  config,
		timeout: config.Timeout,
	}

	slog.InfoContext(ctx, "NATS client created successfully",
		"connected_url", conn.ConnectedUrl(),
		"status", conn.Status(),
	)

	return client, nil
}
