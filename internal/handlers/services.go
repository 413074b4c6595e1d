package handlers

import (
	"context"
	"net/http"

	"github.com/marquinacarlos/portablogio-backend/internal/apperr"
	"github.com/marquinacarlos/portablogio-backend/internal/models"
	"github.com/marquinacarlos/portablogio-backend/internal/validation"
)

type ServiceStore interface {
	ListActiveServices(ctx context.Context) ([]models.Service, error)
	CreateService(ctx context.Context, service models.NewService) (*models.Service, error)
}

type ServicesHandler struct {
	store ServiceStore
}

func NewServicesHandler(store ServiceStore) *ServicesHandler {
	return &ServicesHandler{store: store}
}

func (h *ServicesHandler) List(w http.ResponseWriter, r *http.Request) {
	services, err := h.store.ListActiveServices(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dataResponse{Data: services})
}

func (h *ServicesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.NewService
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		respondErr(w, r, apperr.Validation(err.Error()))
		return
	}

	created, err := h.store.CreateService(r.Context(), req)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, dataResponse{Message: "service created", Data: created})
}
