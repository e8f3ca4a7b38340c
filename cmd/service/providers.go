// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/codeinsight/issue-query-service/internal/domain/port"
	"github.com/codeinsight/issue-query-service/internal/infrastructure/auth"
	"github.com/codeinsight/issue-query-service/internal/infrastructure/lock"
	"github.com/codeinsight/issue-query-service/internal/infrastructure/mock"
	"github.com/codeinsight/issue-query-service/internal/infrastructure/nats"
	"github.com/codeinsight/issue-query-service/internal/infrastructure/opensearch"
	"github.com/codeinsight/issue-query-service/internal/infrastructure/postgres"
	"github.com/codeinsight/issue-query-service/internal/infrastructure/webhook"
)

// SearcherImpl injects the issue searcher implementation
func SearcherImpl(ctx context.Context) port.IssueSearcher {

	var (
		issueSearcher port.IssueSearcher
		err           error
	)

	// Search source implementation configuration
	searchSource := os.Getenv("SEARCH_SOURCE")
	if searchSource == "" {
		searchSource = "opensearch"
	}

	opensearchURL := os.Getenv("OPENSEARCH_URL")
	if opensearchURL == "" {
		opensearchURL = "http://localhost:9200"
	}

	opensearchIndex := os.Getenv("OPENSEARCH_INDEX")
	if opensearchIndex == "" {
		opensearchIndex = "issues"
	}

	switch searchSource {
	case "mock":
		slog.InfoContext(ctx, "initializing mock issue searcher")
		issueSearcher = mock.NewMockIssueSearcher(nil)

	case "opensearch":
		slog.InfoContext(ctx, "initializing opensearch issue searcher",
			"url", opensearchURL,
			"index", opensearchIndex,
		)
		opensearchConfig := opensearch.Config{
			URL:   opensearchURL,
			Index: opensearchIndex,
		}

		issueSearcher, err = opensearch.NewSearcher(ctx, opensearchConfig)
		if err != nil {
			log.Fatalf("failed to initialize OpenSearch searcher: %v", err)
		}

	default:
		log.Fatalf("unsupported search implementation: %s", searchSource)
	}

	return issueSearcher
}

// StoreImpl injects the entity store implementation
func StoreImpl(ctx context.Context) port.EntityStore {

	storeSource := os.Getenv("STORE_SOURCE")
	if storeSource == "" {
		storeSource = "postgres"
	}

	switch storeSource {
	case "mock":
		slog.InfoContext(ctx, "initializing mock entity store")
		return mock.NewMockEntityStore()

	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			dsn = "postgres://localhost:5432/codeinsight?sslmode=disable"
		}

		maxOpen := envInt("DATABASE_MAX_OPEN_CONNS", 20)
		maxIdle := envInt("DATABASE_MAX_IDLE_CONNS", 5)

		slog.InfoContext(ctx, "initializing postgres entity store",
			"max_open_conns", maxOpen,
			"max_idle_conns", maxIdle,
		)

		store, err := postgres.NewStore(ctx, postgres.Config{
			DSN:          dsn,
			MaxOpenConns: maxOpen,
			MaxIdleConns: maxIdle,
		})
		if err != nil {
			log.Fatalf("failed to initialize postgres store: %v", err)
		}
		return store

	default:
		log.Fatalf("unsupported store implementation: %s", storeSource)
		return nil
	}
}

// AccessControlCheckerImpl injects the access control checker implementation
func AccessControlCheckerImpl(ctx context.Context) port.AccessControlChecker {

	var (
		accessControlChecker port.AccessControlChecker
		err                  error
	)

	// Access control implementation configuration
	accessControlSource := os.Getenv("ACCESS_CONTROL_SOURCE")
	if accessControlSource == "" {
		accessControlSource = "nats"
	}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	natsTimeout := os.Getenv("NATS_TIMEOUT")
	if natsTimeout == "" {
		natsTimeout = "10s"
	}
	natsTimeoutDuration, err := time.ParseDuration(natsTimeout)
	if err != nil {
		log.Fatalf("invalid NATS timeout duration: %v", err)
	}

	natsMaxReconnect := envInt("NATS_MAX_RECONNECT", 3)

	natsReconnectWait := os.Getenv("NATS_RECONNECT_WAIT")
	if natsReconnectWait == "" {
		natsReconnectWait = "2s"
	}
	natsReconnectWaitDuration, err := time.ParseDuration(natsReconnectWait)
	if err != nil {
		log.Fatalf("invalid NATS reconnect wait duration %s : %v", natsReconnectWait, err)
	}

	// Initialize the access control checker based on configuration
	switch accessControlSource {
	case "mock":
		slog.InfoContext(ctx, "initializing mock access control checker")
		accessControlChecker = mock.NewMockAccessControlChecker()

	case "nats":
		slog.InfoContext(ctx, "initializing NATS access control checker")
		natsConfig := nats.Config{
			URL:           natsURL,
			Timeout:       natsTimeoutDuration,
			MaxReconnect:  natsMaxReconnect,
			ReconnectWait: natsReconnectWaitDuration,
		}

		accessControlChecker, err = nats.NewAccessControlChecker(ctx, natsConfig)
		if err != nil {
			log.Fatalf("failed to initialize NATS access control checker: %v", err)
		}

	default:
		log.Fatalf("unsupported access control implementation: %s", accessControlSource)
	}

	return accessControlChecker
}

// LockerImpl injects the analysis locker implementation
func LockerImpl(ctx context.Context) port.AnalysisLocker {
	slog.InfoContext(ctx, "initializing in-memory analysis locker")
	return lock.NewKeyedLocker()
}

// NotifierImpl injects the webhook notifier implementation
func NotifierImpl(ctx context.Context) port.WebhookNotifier {

	notifierSource := os.Getenv("WEBHOOK_SOURCE")
	if notifierSource == "" {
		notifierSource = "webhook"
	}

	switch notifierSource {
	case "mock":
		slog.InfoContext(ctx, "initializing mock webhook notifier")
		return mock.NewMockWebhookNotifier()

	case "webhook":
		var urls []string
		for _, url := range strings.Split(os.Getenv("WEBHOOK_URLS"), ",") {
			if url = strings.TrimSpace(url); url != "" {
				urls = append(urls, url)
			}
		}

		config := webhook.DefaultConfig()
		config.URLs = urls
		config.Secret = os.Getenv("WEBHOOK_SECRET")
		if timeout := os.Getenv("WEBHOOK_DELIVERY_TIMEOUT"); timeout != "" {
			duration, err := time.ParseDuration(timeout)
			if err != nil {
				log.Fatalf("invalid webhook delivery timeout %s: %v", timeout, err)
			}
			config.DeliveryTimeout = duration
		}

		slog.InfoContext(ctx, "initializing webhook notifier",
			"endpoints", len(config.URLs),
		)
		return webhook.NewNotifier(config)

	default:
		log.Fatalf("unsupported webhook implementation: %s", notifierSource)
		return nil
	}
}

// AuthServiceImpl injects the authentication implementation
func AuthServiceImpl(ctx context.Context) port.Authenticator {

	if os.Getenv("JWT_AUTH_DISABLED_MOCK_LOCAL_PRINCIPAL") != "" {
		slog.InfoContext(ctx, "initializing mock authentication service")
		return mock.NewMockAuthService()
	}

	slog.InfoContext(ctx, "initializing JWT authentication service")
	authService, err := auth.NewJWTAuth(auth.JWTAuthConfig{
		Secret:   os.Getenv("JWT_SECRET"),
		Audience: os.Getenv("JWT_AUDIENCE"),
		Issuer:   os.Getenv("JWT_ISSUER"),
	})
	if err != nil {
		log.Fatalf("failed to initialize JWT authentication: %v", err)
	}
	return authService
}

func envInt(name string, fallback int) int {
	value := os.Getenv(name)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Fatalf("invalid %s value %s: %v", name, value, err)
	}
	return parsed
}
