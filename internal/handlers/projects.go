package handlers

import (
	"context"
	"net/http"

	"github.com/marquinacarlos/portablogio-backend/internal/apperr"
	"github.com/marquinacarlos/portablogio-backend/internal/models"
	"github.com/marquinacarlos/portablogio-backend/internal/validation"
)

type ProjectStore interface {
	ListProjects(ctx context.Context) ([]models.Project, error)
	CreateProject(ctx context.Context, project models.NewProject) (*models.Project, error)
}

type ProjectsHandler struct {
	store ProjectStore
}

func NewProjectsHandler(store ProjectStore) *ProjectsHandler {
	return &ProjectsHandler{store: store}
}

func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.store.ListProjects(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dataResponse{Data: projects})
}

func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.NewProject
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		respondErr(w, r, apperr.Validation(err.Error()))
		return
	}

	created, err := h.store.CreateProject(r.Context(), req)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, dataResponse{Message: "project created", Data: created})
}
