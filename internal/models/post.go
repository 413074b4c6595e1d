package models

import (
	"time"
)

type PostType string

const (
	PostTypeBlog          PostType = "blog"
	PostTypeCollaboration PostType = "collaboration"
)

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

// Post is a full row of the posts table.
type Post struct {
	ID            int64      `json:"id"`
	UserID        *int64     `json:"user_id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       *string    `json:"excerpt"`
	Content       Content    `json:"content"`
	CoverImageURL *string    `json:"cover_image_url"`
	Type          PostType   `json:"type"`
	Status        PostStatus `json:"status"`
	PublishedAt   *time.Time `json:"published_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
}

// PostListItem is a post without its content, used by list views.
type PostListItem struct {
	ID            int64      `json:"id"`
	UserID        *int64     `json:"user_id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       *string    `json:"excerpt"`
	CoverImageURL *string    `json:"cover_image_url"`
	Type          PostType   `json:"type"`
	Status        PostStatus `json:"status"`
	PublishedAt   *time.Time `json:"published_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
}

// NewPost is the input of a post creation. Empty Type and Status fall back
// to blog and draft.
type NewPost struct {
	UserID        *int64     `json:"user_id"`
	Title         string     `json:"title" validate:"required,max=255"`
	Slug          string     `json:"slug" validate:"required,max=255"`
	Excerpt       *string    `json:"excerpt"`
	Content       Content    `json:"content" validate:"required,dive"`
	CoverImageURL *string    `json:"cover_image_url"`
	Type          PostType   `json:"type" validate:"omitempty,oneof=blog collaboration"`
	Status        PostStatus `json:"status" validate:"omitempty,oneof=draft published archived"`
}

// PostPatch is a partial update of a post. Only fields present in the
// request body are written.
type PostPatch struct {
	Title         Field[string]     `json:"title"`
	Slug          Field[string]     `json:"slug"`
	Excerpt       Field[string]     `json:"excerpt"`
	Content       Field[Content]    `json:"content"`
	CoverImageURL Field[string]     `json:"cover_image_url"`
	Type          Field[PostType]   `json:"type"`
	Status        Field[PostStatus] `json:"status"`
}

// Empty reports whether the patch touches no column.
func (p PostPatch) Empty() bool {
	return !p.Title.Set && !p.Slug.Set && !p.Excerpt.Set && !p.Content.Set &&
		!p.CoverImageURL.Set && !p.Type.Set && !p.Status.Set
}

// Validate rejects nulls for required columns and values outside the
// post type and status sets.
func (p PostPatch) Validate() error {
	switch {
	case p.Title.Null || (p.Title.Set && p.Title.Value == ""):
		return errField("title must not be empty")
	case p.Slug.Null || (p.Slug.Set && p.Slug.Value == ""):
		return errField("slug must not be empty")
	case p.Content.Null:
		return errField("content must not be null")
	case p.Type.Null:
		return errField("type must not be null")
	case p.Status.Null:
		return errField("status must not be null")
	}
	if p.Type.Set && !p.Type.Value.Valid() {
		return errField("type must be one of: blog collaboration")
	}
	if p.Status.Set && !p.Status.Value.Valid() {
		return errField("status must be one of: draft published archived")
	}
	if p.Content.Set {
		if err := p.Content.Value.Validate(); err != nil {
			return errField(err.Error())
		}
	}
	return nil
}

func (t PostType) Valid() bool {
	return t == PostTypeBlog || t == PostTypeCollaboration
}

func (s PostStatus) Valid() bool {
	return s == PostStatusDraft || s == PostStatusPublished || s == PostStatusArchived
}

type fieldError string

func (e fieldError) Error() string { return string(e) }

func errField(msg string) error { return fieldError(msg) }
