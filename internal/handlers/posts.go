package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marquinacarlos/portablogio-backend/internal/apperr"
	"github.com/marquinacarlos/portablogio-backend/internal/logging"
	"github.com/marquinacarlos/portablogio-backend/internal/middleware"
	"github.com/marquinacarlos/portablogio-backend/internal/models"
	"github.com/marquinacarlos/portablogio-backend/internal/validation"
)

const (
	defaultPublicLimit = 10
	defaultAdminLimit  = 50
	maxLimit           = 100
)

// PostStore is the post persistence used by PostsHandler.
type PostStore interface {
	CreatePost(ctx context.Context, post models.NewPost) (*models.Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*models.Post, error)
	ListPublishedPosts(ctx context.Context, limit, offset int) ([]models.PostListItem, error)
	ListAllPosts(ctx context.Context, limit, offset int) ([]models.PostListItem, error)
	UpdatePost(ctx context.Context, slug string, patch models.PostPatch) (*models.Post, error)
	DeletePost(ctx context.Context, slug string) (bool, error)
}

type PostsHandler struct {
	store PostStore
}

func NewPostsHandler(store PostStore) *PostsHandler {
	return &PostsHandler{store: store}
}

func pagination(r *http.Request, defaultLimit int) (limit, offset int) {
	limit = parsePositiveInt(r.URL.Query().Get("limit"), defaultLimit)
	if limit > maxLimit {
		limit = maxLimit
	}
	offset = parseNonNegativeInt(r.URL.Query().Get("offset"), 0)
	return limit, offset
}

// ListPublic serves published posts without their content.
func (h *PostsHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, defaultPublicLimit)

	posts, err := h.store.ListPublishedPosts(r.Context(), limit, offset)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dataResponse{Data: posts})
}

// ListAdmin serves posts of every status.
func (h *PostsHandler) ListAdmin(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, defaultAdminLimit)

	posts, err := h.store.ListAllPosts(r.Context(), limit, offset)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dataResponse{Data: posts})
}

func (h *PostsHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.store.GetPostBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dataResponse{Data: post})
}

// Create stores a new post. A missing user_id falls back to the caller's
// token.
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.NewPost
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		respondErr(w, r, apperr.Validation(err.Error()))
		return
	}
	if req.UserID == nil {
		if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
			req.UserID = &claims.UserID
		}
	}

	created, err := h.store.CreatePost(r.Context(), req)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	logging.Ctx(r.Context()).Info().Str("slug", created.Slug).Int64("id", created.ID).Msg("post created")
	respondJSON(w, http.StatusCreated, dataResponse{Message: "post created", Data: created})
}

// Update applies a partial update; only keys present in the body change.
func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.PostPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondErr(w, r, err)
		return
	}
	if err := patch.Validate(); err != nil {
		respondErr(w, r, apperr.Validation(err.Error()))
		return
	}

	updated, err := h.store.UpdatePost(r.Context(), chi.URLParam(r, "slug"), patch)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dataResponse{Message: "post updated", Data: updated})
}

func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	deleted, err := h.store.DeletePost(r.Context(), slug)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if !deleted {
		respondErr(w, r, apperr.NotFound("post", slug))
		return
	}
	logging.Ctx(r.Context()).Info().Str("slug", slug).Msg("post deleted")
	respondJSON(w, http.StatusOK, messageResponse{Message: "post deleted"})
}
