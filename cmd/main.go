// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/codeinsight/issue-query-service/cmd/service"
	"github.com/codeinsight/issue-query-service/internal/usecase"
	logging "github.com/codeinsight/issue-query-service/pkg/log"
)

const (
	defaultPort = "8080"
	// gracefulShutdownSeconds should be higher than NATS client
	// request timeout, and lower than the pod or liveness probe's
	// terminationGracePeriodSeconds.
	gracefulShutdownSeconds = 25
)

func init() {
	logging.InitStructureLogConfig()
}

func main() {
	var (
		dbgF = flag.Bool("d", false, "enable debug logging")
		port = flag.String("p", defaultPort, "listen port")
		bind = flag.String("bind", "*", "interface to bind on")
	)
	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	ctx := context.Background()
	slog.InfoContext(ctx, "Starting issue query service",
		"bind", *bind,
		"http-port", *port,
		"graceful-shutdown-seconds", gracefulShutdownSeconds,
	)

	// Initialize the infrastructure based on configuration.
	issueSearcher := service.SearcherImpl(ctx)
	entityStore := service.StoreImpl(ctx)
	accessControlChecker := service.AccessControlCheckerImpl(ctx)
	analysisLocker := service.LockerImpl(ctx)
	webhookNotifier := service.NotifierImpl(ctx)
	authService := service.AuthServiceImpl(ctx)

	// Wire the use cases.
	querySvc := service.NewQueryService(
		usecase.NewIssueSearch(issueSearcher, entityStore, accessControlChecker),
		usecase.NewComponentSearch(entityStore),
		usecase.NewProjectLinkSearch(entityStore, accessControlChecker),
		usecase.NewAnalysisSubmit(entityStore, analysisLocker, accessControlChecker, webhookNotifier),
	)

	// Create channel used by both the signal handler and server goroutines
	// to notify the main goroutine when to stop the server.
	errc := make(chan error)

	// Setup interrupt handler so SIGINT and SIGTERM stop the service
	// gracefully.
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		errc <- fmt.Errorf("%s", <-c)
	}()

	var wg sync.WaitGroup
	ctx, cancel := context.WithCancel(ctx)

	addr := ":" + *port
	if *bind != "*" {
		addr = *bind + ":" + *port
	}

	router := newRouter(querySvc, authService, *dbgF)
	handleHTTPServer(ctx, addr, router, &wg, errc)

	// Wait for signal.
	slog.InfoContext(ctx, "received shutdown signal, stopping servers",
		"signal", <-errc,
	)

	// Send cancellation signal to the goroutines.
	cancel()

	// Create a timeout context for graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownSeconds*time.Second)
	defer shutdownCancel()

	// Gracefully close the access control checker
	go func() {
		if accessControlChecker != nil {
			slog.InfoContext(shutdownCtx, "closing access control checker")
			if err := accessControlChecker.Close(); err != nil {
				slog.ErrorContext(shutdownCtx, "failed to close access control checker", "error", err)
			}
		}
	}()

	// Wait for all goroutines to finish with timeout
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.InfoContext(ctx, "graceful shutdown completed")
	case <-shutdownCtx.Done():
		slog.WarnContext(ctx, "graceful shutdown timed out")
	}

	slog.InfoContext(ctx, "exited")
}
