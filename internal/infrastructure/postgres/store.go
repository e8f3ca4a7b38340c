// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/codeinsight/issue-query-service/internal/domain/model"
	"github.com/codeinsight/issue-query-service/internal/domain/port"
	"github.com/codeinsight/issue-query-service/pkg/errors"

	"github.com/lib/pq"
)

// Config represents PostgreSQL configuration
type Config struct {
	// DSN is the connection string, lib/pq format
	DSN string `json:"dsn"`
	// MaxOpenConns caps the pool size
	MaxOpenConns int `json:"max_open_conns"`
	// MaxIdleConns caps idle connections kept in the pool
	MaxIdleConns int `json:"max_idle_conns"`
}

// Store implements the EntityStore port on PostgreSQL. All multi-id
// lookups are single round trips using array parameters.
type Store struct {
	db *sql.DB
}

// UsersByLogins resolves user summaries for the given logins.
func (s *Store) UsersByLogins(ctx context.Context, logins []string) ([]model.User, error) {
	if len(logins) == 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT login, name, avatar, active FROM users WHERE login = ANY($1)`,
		pq.Array(logins))
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		var name, avatar sql.NullString
		if err := rows.Scan(&u.Login, &name, &avatar, &u.Active); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		u.Name = name.String
		u.Avatar = avatar.String
		users = append(users, u)
	}
	return users, rows.Err()
}

// RulesByKeys resolves rule summaries for the given rule keys.
func (s *Store) RulesByKeys(ctx context.Context, keys []string) ([]model.Rule, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT kee, name, language, status FROM rules WHERE kee = ANY($1)`,
		pq.Array(keys))
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer rows.Close()

	var rules []model.Rule
	for rows.Next() {
		var r model.Rule
		var name, lang, status sql.NullString
		if err := rows.Scan(&r.Key, &name, &lang, &status); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		r.Name = name.String
		r.Lang = lang.String
		r.Status = status.String
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

// ComponentsByUuids resolves component summaries for the given uuids.
func (s *Store) ComponentsByUuids(ctx context.Context, uuids []string) ([]model.Component, error) {
	if len(uuids) == 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		componentSelect+` WHERE uuid = ANY($1)`,
		pq.Array(uuids))
	if err != nil {
		return nil, fmt.Errorf("failed to query components: %w", err)
	}
	defer rows.Close()

	return scanComponents(rows)
}

// ComponentByUuidOrKey resolves a single component by uuid or key.
func (s *Store) ComponentByUuidOrKey(ctx context.Context, uuid, key string) (*model.Component, error) {
	var row *sql.Row
	switch {
	case uuid != "":
		row = s.db.QueryRowContext(ctx, componentSelect+` WHERE uuid = $1`, uuid)
	case key != "":
		row = s.db.QueryRowContext(ctx, componentSelect+` WHERE kee = $1`, key)
	default:
		return nil, fmt.Errorf("either uuid or key must be provided")
	}

	component, err := scanComponent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query component: %w", err)
	}
	return component, nil
}

// ProjectLinksByComponentUuid lists the links attached to a component.
func (s *Store) ProjectLinksByComponentUuid(ctx context.Context, componentUuid string) ([]model.ProjectLink, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, link_type, href FROM project_links WHERE component_uuid = $1 ORDER BY id`,
		componentUuid)
	if err != nil {
		return nil, fmt.Errorf("failed to query project links: %w", err)
	}
	defer rows.Close()

	var links []model.ProjectLink
	for rows.Next() {
		var l model.ProjectLink
		var name, linkType sql.NullString
		if err := rows.Scan(&l.ID, &name, &linkType, &l.URL); err != nil {
			return nil, fmt.Errorf("failed to scan project link: %w", err)
		}
		l.Name = name.String
		l.Type = linkType.String
		links = append(links, l)
	}
	return links, rows.Err()
}

// SearchComponents returns one page of components matching the
// qualifiers and optional query, ordered by key ascending.
func (s *Store) SearchComponents(ctx context.Context, qualifiers []string, query string, page, pageSize int) ([]model.Component, int64, error) {

	where := ` WHERE qualifier = ANY($1) AND enabled`
	args := []any{pq.Array(qualifiers)}
	if query != "" {
		// Case-insensitive match on key or name.
		where += ` AND (kee ILIKE $2 OR name ILIKE $2)`
		args = append(args, "%"+query+"%")
	}

	var total int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM components`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count components: %w", err)
	}

	offset := (page - 1) * pageSize
	args = append(args, pageSize, offset)
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`%s%s ORDER BY kee ASC LIMIT $%d OFFSET $%d`,
			componentSelect, where, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search components: %w", err)
	}
	defer rows.Close()

	components, err := scanComponents(rows)
	if err != nil {
		return nil, 0, err
	}
	return components, total, nil
}

// RecordAnalysis persists an accepted analysis submission.
func (s *Store) RecordAnalysis(ctx context.Context, analysis model.Analysis) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO analyses (uuid, project_key, submitted_by, submitted_at, status)
		 VALUES ($1, $2, $3, $4, $5)`,
		analysis.ID, analysis.ProjectKey, analysis.SubmittedBy, analysis.SubmittedAt, analysis.Status)
	if err != nil {
		return fmt.Errorf("failed to record analysis: %w", err)
	}
	return nil
}

// IsReady pings the database.
func (s *Store) IsReady(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return errors.NewServiceUnavailable("postgres is not ready", err)
	}
	return nil
}

const componentSelect = `SELECT uuid, kee, qualifier, name, language, path, project_uuid FROM components`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComponent(row rowScanner) (*model.Component, error) {
	var c model.Component
	var qualifier, name, language, path, projectUuid sql.NullString
	if err := row.Scan(&c.Uuid, &c.Key, &qualifier, &name, &language, &path, &projectUuid); err != nil {
		return nil, err
	}
	c.Qualifier = qualifier.String
	c.Name = name.String
	c.Language = language.String
	c.Path = path.String
	c.ProjectUuid = projectUuid.String
	return &c, nil
}

func scanComponents(rows *sql.Rows) ([]model.Component, error) {
	var components []model.Component
	for rows.Next() {
		component, err := scanComponent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan component: %w", err)
		}
		components = append(components, *component)
	}
	return components, rows.Err()
}

// NewStore opens a connection pool and verifies connectivity.
func NewStore(ctx context.Context, config Config) (port.EntityStore, error) {
	if config.DSN == "" {
		slog.ErrorContext(ctx, "postgres DSN is required")
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	if config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		db.SetMaxIdleConns(config.MaxIdleConns)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	slog.InfoContext(ctx, "postgres store created successfully")
	return &Store{db: db}, nil
}
