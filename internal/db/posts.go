package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"

	"github.com/marquinacarlos/portablogio-backend/internal/apperr"
	"github.com/marquinacarlos/portablogio-backend/internal/models"
)

const postColumns = `
	id,
	user_id,
	title,
	slug,
	excerpt,
	content,
	cover_image_url,
	COALESCE(type, 'blog'),
	COALESCE(status, 'draft'),
	published_at,
	created_at,
	updated_at`

const postListColumns = `
	id,
	user_id,
	title,
	slug,
	excerpt,
	cover_image_url,
	COALESCE(type, 'blog'),
	COALESCE(status, 'draft'),
	published_at,
	created_at,
	updated_at`

func scanPost(row pgx.Row) (*models.Post, error) {
	var (
		post    models.Post
		content []byte
	)
	if err := row.Scan(
		&post.ID,
		&post.UserID,
		&post.Title,
		&post.Slug,
		&post.Excerpt,
		&content,
		&post.CoverImageURL,
		&post.Type,
		&post.Status,
		&post.PublishedAt,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(content, &post.Content); err != nil {
		return nil, fmt.Errorf("decode content of post %d: %w", post.ID, err)
	}
	return &post, nil
}

func (s *Store) CreatePost(ctx context.Context, post models.NewPost) (*models.Post, error) {
	if s.pool == nil {
		return nil, errNotInitialized
	}

	content, err := json.Marshal(post.Content)
	if err != nil {
		return nil, fmt.Errorf("encode content: %w", err)
	}
	postType := post.Type
	if postType == "" {
		postType = models.PostTypeBlog
	}
	status := post.Status
	if status == "" {
		status = models.PostStatusDraft
	}

	query := `
		INSERT INTO posts (user_id, title, slug, excerpt, content, cover_image_url, type, status, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, CASE WHEN $9::boolean THEN NOW() END)
		RETURNING` + postColumns

	created, err := scanPost(s.pool.QueryRow(
		ctx,
		query,
		post.UserID,
		post.Title,
		post.Slug,
		post.Excerpt,
		content,
		post.CoverImageURL,
		string(postType),
		string(status),
		status == models.PostStatusPublished,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.AlreadyExists("post slug")
		}
		return nil, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

func (s *Store) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	if s.pool == nil {
		return nil, errNotInitialized
	}
	query := `SELECT` + postColumns + ` FROM posts WHERE slug = $1`

	post, err := scanPost(s.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("post", slug)
		}
		return nil, fmt.Errorf("get post by slug: %w", err)
	}
	return post, nil
}

// GetPostByID looks a post up by primary key. No route uses it yet; it is
// kept for owner checks on update and delete.
func (s *Store) GetPostByID(ctx context.Context, id int64) (*models.Post, error) {
	if s.pool == nil {
		return nil, errNotInitialized
	}
	query := `SELECT` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("post", fmt.Sprint(id))
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

// ListPublishedPosts returns published posts, newest first, without content.
func (s *Store) ListPublishedPosts(ctx context.Context, limit, offset int) ([]models.PostListItem, error) {
	query := `SELECT` + postListColumns + `
		FROM posts
		WHERE status = 'published'
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
	return s.listPosts(ctx, query, limit, offset)
}

// ListAllPosts returns posts of every status, most recently edited first.
func (s *Store) ListAllPosts(ctx context.Context, limit, offset int) ([]models.PostListItem, error) {
	query := `SELECT` + postListColumns + `
		FROM posts
		ORDER BY updated_at DESC NULLS LAST, created_at DESC
		LIMIT $1 OFFSET $2`
	return s.listPosts(ctx, query, limit, offset)
}

func (s *Store) listPosts(ctx context.Context, query string, limit, offset int) ([]models.PostListItem, error) {
	if s.pool == nil {
		return nil, errNotInitialized
	}
	rows, err := s.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]models.PostListItem, 0, limit)
	for rows.Next() {
		var post models.PostListItem
		if err := rows.Scan(
			&post.ID,
			&post.UserID,
			&post.Title,
			&post.Slug,
			&post.Excerpt,
			&post.CoverImageURL,
			&post.Type,
			&post.Status,
			&post.PublishedAt,
			&post.CreatedAt,
			&post.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return posts, nil
}

// UpdatePost writes only the fields set in patch and always bumps
// updated_at. The first move to published stamps published_at; later
// transitions keep it.
func (s *Store) UpdatePost(ctx context.Context, slug string, patch models.PostPatch) (*models.Post, error) {
	if s.pool == nil {
		return nil, errNotInitialized
	}

	sets := make([]string, 0, 10)
	args := make([]any, 0, 8)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title.Set {
		set("title", patch.Title.Value)
	}
	if patch.Slug.Set {
		set("slug", patch.Slug.Value)
	}
	if patch.Excerpt.Set {
		set("excerpt", patch.Excerpt.Arg())
	}
	if patch.Content.Set {
		content, err := json.Marshal(patch.Content.Value)
		if err != nil {
			return nil, fmt.Errorf("encode content: %w", err)
		}
		set("content", content)
	}
	if patch.CoverImageURL.Set {
		set("cover_image_url", patch.CoverImageURL.Arg())
	}
	if patch.Type.Set {
		set("type", string(patch.Type.Value))
	}
	if patch.Status.Set {
		set("status", string(patch.Status.Value))
		if patch.Status.Value == models.PostStatusPublished {
			sets = append(sets, "published_at = COALESCE(published_at, NOW())")
		}
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, slug)
	query := fmt.Sprintf(
		"UPDATE posts SET %s WHERE slug = $%d RETURNING%s",
		strings.Join(sets, ", "), len(args), postColumns,
	)

	post, err := scanPost(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, apperr.NotFound("post", slug)
		case isUniqueViolation(err):
			return nil, apperr.AlreadyExists("post slug")
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return post, nil
}

// DeletePost reports whether a row was removed.
func (s *Store) DeletePost(ctx context.Context, slug string) (bool, error) {
	if s.pool == nil {
		return false, errNotInitialized
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM posts WHERE slug = $1`, slug)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
