package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/marquinacarlos/portablogio-backend/internal/apperr"
	"github.com/marquinacarlos/portablogio-backend/internal/models"
)

const projectColumns = `
	id,
	title,
	slug,
	description,
	COALESCE(tech_stack, '{}'::text[]),
	image_url,
	repo_url,
	live_url,
	COALESCE(is_featured, false),
	created_at`

func scanProject(row pgx.Row) (*models.Project, error) {
	var project models.Project
	err := row.Scan(
		&project.ID,
		&project.Title,
		&project.Slug,
		&project.Description,
		&project.TechStack,
		&project.ImageURL,
		&project.RepoURL,
		&project.LiveURL,
		&project.IsFeatured,
		&project.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// ListProjects returns featured projects first, then the newest.
func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	if s.pool == nil {
		return nil, errNotInitialized
	}
	query := `SELECT` + projectColumns + `
		FROM projects
		ORDER BY is_featured DESC, created_at DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]models.Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, *project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return projects, nil
}

func (s *Store) CreateProject(ctx context.Context, project models.NewProject) (*models.Project, error) {
	if s.pool == nil {
		return nil, errNotInitialized
	}
	techStack := project.TechStack
	if techStack == nil {
		techStack = []string{}
	}

	query := `
		INSERT INTO projects (title, slug, description, tech_stack, image_url, repo_url, live_url, is_featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING` + projectColumns

	created, err := scanProject(s.pool.QueryRow(
		ctx,
		query,
		project.Title,
		project.Slug,
		project.Description,
		techStack,
		project.ImageURL,
		project.RepoURL,
		project.LiveURL,
		project.IsFeatured,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.AlreadyExists("project slug")
		}
		return nil, fmt.Errorf("create project: %w", err)
	}
	return created, nil
}
