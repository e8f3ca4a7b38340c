// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/codeinsight/issue-query-service/internal/domain/model"
	"github.com/codeinsight/issue-query-service/internal/domain/port"
	"github.com/codeinsight/issue-query-service/pkg/httpclient"
	"github.com/codeinsight/issue-query-service/pkg/log"
)

// analysisSubmittedEvent is the wire form of a submission notification.
type analysisSubmittedEvent struct {
	Event       string    `json:"event"`
	AnalysisID  string    `json:"analysisId"`
	ProjectKey  string    `json:"projectKey"`
	SubmittedBy string    `json:"submittedBy,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
	Status      string    `json:"status"`
}

// Notifier delivers analysis events to configured endpoints. Deliveries
// run in the background; a slow or failing endpoint never delays the
// submitting request.
type Notifier struct {
	config Config
	client *httpclient.Client
}

// NotifyAnalysisSubmitted announces an accepted submission to every
// configured endpoint.
func (n *Notifier) NotifyAnalysisSubmitted(ctx context.Context, analysis model.Analysis) {
	if len(n.config.URLs) == 0 {
		return
	}

	payload, err := json.Marshal(analysisSubmittedEvent{
		Event:       "analysis.submitted",
		AnalysisID:  analysis.ID,
		ProjectKey:  analysis.ProjectKey,
		SubmittedBy: analysis.SubmittedBy,
		SubmittedAt: analysis.SubmittedAt,
		Status:      analysis.Status,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to marshal webhook payload", "error", err)
		return
	}

	// Detached context: deliveries outlive the submitting request.
	deliveryCtx := log.AppendCtx(context.Background(), slog.String("analysis_id", analysis.ID))
	deliveryCtx = log.AppendCtx(deliveryCtx, slog.String("project", analysis.ProjectKey))

	for _, url := range n.config.URLs {
		go n.deliver(deliveryCtx, url, payload)
	}
}

func (n *Notifier) deliver(ctx context.Context, url string, payload []byte) {
	ctx, cancel := context.WithTimeout(ctx, n.config.DeliveryTimeout)
	defer cancel()

	headers := map[string]string{
		"Content-Type": "application/json",
	}
	if n.config.Secret != "" {
		headers["X-Webhook-Secret"] = n.config.Secret
	}

	response, err := n.client.Do(ctx, httpclient.Request{
		Method:  http.MethodPost,
		URL:     url,
		Headers: headers,
		Body:    bytes.NewReader(payload),
	})
	if err != nil {
		slog.ErrorContext(ctx, "webhook delivery failed", "url", url, "error", err)
		return
	}

	slog.DebugContext(ctx, "webhook delivered",
		"url", url,
		"status", response.StatusCode,
	)
}

// NewNotifier creates a new webhook notifier
func NewNotifier(config Config) port.WebhookNotifier {
	if config.DeliveryTimeout <= 0 {
		config.DeliveryTimeout = DefaultConfig().DeliveryTimeout
	}

	clientConfig := httpclient.DefaultConfig()
	clientConfig.Timeout = config.DeliveryTimeout

	return &Notifier{
		config: config,
		client: httpclient.NewClient(clientConfig),
	}
}
