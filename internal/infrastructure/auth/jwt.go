// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/codeinsight/issue-query-service/internal/domain/model"
	"github.com/codeinsight/issue-query-service/internal/domain/port"
	errs "github.com/codeinsight/issue-query-service/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultAudience = "issue-query-service"
	defaultIssuer   = "codeinsight"
)

// JWTAuthConfig holds the configuration parameters for JWT authentication.
type JWTAuthConfig struct {
	// Secret is the HMAC key shared with the token issuer
	Secret string
	// Audience is the intended audience for the JWT token
	Audience string
	// Issuer is the expected token issuer
	Issuer string
	// MockLocalPrincipal is used for local development to bypass JWT validation
	MockLocalPrincipal string
}

// sessionClaims carries the principal identifying the caller, on top of
// the registered claims.
type sessionClaims struct {
	Principal string `json:"principal"`
	Email     string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// JWTAuth validates bearer tokens and turns them into user sessions.
type JWTAuth struct {
	config JWTAuthConfig
}

// ParseSession resolves the caller's session. A missing token is not an
// error: the caller is simply anonymous. An invalid token is rejected,
// never downgraded to anonymous.
func (j *JWTAuth) ParseSession(ctx context.Context, token string) (model.UserSession, error) {

	if token == "" {
		if j.config.MockLocalPrincipal != "" {
			slog.WarnContext(ctx, "using mock local principal",
				"principal", j.config.MockLocalPrincipal,
			)
			return model.UserSession{Login: j.config.MockLocalPrincipal, LoggedIn: true}, nil
		}
		return model.AnonymousSession(), nil
	}

	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(j.config.Secret), nil
		},
		jwt.WithAudience(j.config.Audience),
		jwt.WithIssuer(j.config.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		slog.ErrorContext(ctx, "failed to validate JWT token",
			"error", err,
		)
		return model.UserSession{}, errs.NewUnauthorized("invalid authentication token")
	}

	if claims.Principal == "" {
		return model.UserSession{}, errs.NewUnauthorized("token carries no principal")
	}

	return model.UserSession{Login: claims.Principal, LoggedIn: true}, nil
}

// NewJWTAuth creates a new JWT authentication service
func NewJWTAuth(config JWTAuthConfig) (port.Authenticator, error) {
	if config.Audience == "" {
		config.Audience = defaultAudience
	}
	if config.Issuer == "" {
		config.Issuer = defaultIssuer
	}
	if config.Secret == "" && config.MockLocalPrincipal == "" {
		slog.Error("JWT secret is required")
		return nil, fmt.Errorf("JWT secret is required")
	}
	if config.MockLocalPrincipal != "" && os.Getenv("APP_ENV") != "local" {
		return nil, fmt.Errorf("mock principal is only allowed in local environment")
	}

	return &JWTAuth{config: config}, nil
}
