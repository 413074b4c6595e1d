package models

import "time"

type Project struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	TechStack   []string  `json:"tech_stack"`
	ImageURL    *string   `json:"image_url"`
	RepoURL     *string   `json:"repo_url"`
	LiveURL     *string   `json:"live_url"`
	IsFeatured  bool      `json:"is_featured"`
	CreatedAt   time.Time `json:"created_at"`
}

type NewProject struct {
	Title       string   `json:"title" validate:"required,max=100"`
	Slug        string   `json:"slug" validate:"required,max=120"`
	Description string   `json:"description" validate:"required"`
	TechStack   []string `json:"tech_stack"`
	ImageURL    *string  `json:"image_url" validate:"omitempty,url"`
	RepoURL     *string  `json:"repo_url" validate:"omitempty,url"`
	LiveURL     *string  `json:"live_url" validate:"omitempty,url"`
	IsFeatured  bool     `json:"is_featured"`
}
