package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/marquinacarlos/portablogio-backend/internal/logging"
)

type migration struct {
	name string
	sql  string
}

// migrations run in order; tables before the foreign keys that point at them.
var migrations = []migration{
	{
		name: "uuid-ossp extension",
		sql:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,
	},
	{
		name: "users table",
		sql: `CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username VARCHAR(50) UNIQUE NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,
	},
	{
		name: "projects table",
		sql: `CREATE TABLE IF NOT EXISTS projects (
			id SERIAL PRIMARY KEY,
			title VARCHAR(100) NOT NULL,
			slug VARCHAR(120) UNIQUE NOT NULL,
			description TEXT NOT NULL,
			tech_stack TEXT[],
			image_url TEXT,
			repo_url TEXT,
			live_url TEXT,
			is_featured BOOLEAN DEFAULT false,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,
	},
	{
		name: "services table",
		sql: `CREATE TABLE IF NOT EXISTS services (
			id SERIAL PRIMARY KEY,
			title VARCHAR(100) NOT NULL,
			description TEXT,
			price DECIMAL(10, 2) NOT NULL,
			currency VARCHAR(3) DEFAULT 'EUR',
			features JSONB,
			is_active BOOLEAN DEFAULT true
		)`,
	},
	{
		name: "posts table",
		sql: `CREATE TABLE IF NOT EXISTS posts (
			id SERIAL PRIMARY KEY,
			user_id INTEGER REFERENCES users(id),
			title VARCHAR(255) NOT NULL,
			slug VARCHAR(255) UNIQUE NOT NULL,
			excerpt TEXT,
			content JSONB NOT NULL,
			cover_image_url TEXT,
			type VARCHAR(20) DEFAULT 'blog',
			status VARCHAR(20) DEFAULT 'draft',
			published_at TIMESTAMP WITH TIME ZONE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,
	},
	{
		name: "posts(slug) index",
		sql:  `CREATE INDEX IF NOT EXISTS idx_posts_slug ON posts(slug)`,
	},
	{
		name: "posts(status) index",
		sql:  `CREATE INDEX IF NOT EXISTS idx_posts_status ON posts(status)`,
	},
	{
		name: "projects(is_featured) index",
		sql:  `CREATE INDEX IF NOT EXISTS idx_projects_featured ON projects(is_featured)`,
	},
	{
		name: "posts(content) GIN index",
		sql:  `CREATE INDEX IF NOT EXISTS idx_posts_content ON posts USING GIN (content)`,
	},
}

// Migrate creates the schema. Every step is idempotent, so it is safe to run
// on each deploy. A failing step is logged and the remaining steps still
// run; the joined errors are returned.
func (s *Store) Migrate(ctx context.Context) error {
	if s.pool == nil {
		return errNotInitialized
	}

	var errs []error
	for _, m := range migrations {
		if _, err := s.pool.Exec(ctx, m.sql); err != nil {
			logging.Error().Err(err).Str("step", m.name).Msg("migration step failed")
			errs = append(errs, fmt.Errorf("%s: %w", m.name, err))
			continue
		}
		logging.Info().Str("step", m.name).Msg("migration step applied")
	}

	logging.Info().
		Int("applied", len(migrations)-len(errs)).
		Int("total", len(migrations)).
		Msg("migration finished")
	return errors.Join(errs...)
}

// Tables lists the tables of the public schema.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	if s.pool == nil {
		return nil, errNotInitialized
	}
	const query = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		ORDER BY table_name
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return tables, nil
}
