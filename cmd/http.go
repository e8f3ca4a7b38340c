// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/codeinsight/issue-query-service/cmd/service"
	"github.com/codeinsight/issue-query-service/internal/domain/port"
	"github.com/codeinsight/issue-query-service/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// newRouter wires the middleware chain and mounts every route.
func newRouter(svc *service.QueryService, authenticator port.Authenticator, dbg bool) *gin.Engine {
	if !dbg {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.SessionMiddleware(authenticator))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-REQUEST-ID"},
		ExposeHeaders:    []string{"X-REQUEST-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		api.GET("/issues/search", svc.SearchIssues)
		api.GET("/components/search", svc.SearchComponents)
		api.GET("/project_links/search", svc.SearchProjectLinks)
		api.POST("/analyses/submit", svc.SubmitAnalysis)
	}

	router.GET("/livez", svc.Livez)
	router.GET("/readyz", svc.Readyz)

	return router
}

// handleHTTPServer configures and starts the HTTP server on the given
// address. It shuts the server down when the context is cancelled.
func handleHTTPServer(ctx context.Context, addr string, router *gin.Engine, wg *sync.WaitGroup, errc chan error) {

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: time.Second * 60,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()

		// Start HTTP server in a separate goroutine.
		go func() {
			slog.InfoContext(ctx, "HTTP server listening", "addr", addr)
			errc <- srv.ListenAndServe()
		}()

		<-ctx.Done()
		slog.InfoContext(ctx, "shutting down HTTP server", "addr", addr)

		// Shutdown gracefully with a 30s timeout.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "failed to shutdown HTTP server", "error", err)
		}
	}()
}
