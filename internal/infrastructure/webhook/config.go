// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package webhook

import (
	"time"
)

// Config represents webhook delivery configuration
type Config struct {
	// URLs are the endpoints notified of analysis events
	URLs []string `json:"urls"`
	// Secret, when set, is sent as X-Webhook-Secret on every delivery
	Secret string `json:"secret"`
	// DeliveryTimeout bounds one delivery attempt including retries
	DeliveryTimeout time.Duration `json:"delivery_timeout"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		DeliveryTimeout: 10 * time.Second,
	}
}
