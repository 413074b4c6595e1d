package db

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"

	"github.com/marquinacarlos/portablogio-backend/internal/models"
)

const serviceColumns = `
	id,
	title,
	description,
	price,
	COALESCE(currency, 'EUR'),
	features,
	COALESCE(is_active, true)`

func scanService(row pgx.Row) (*models.Service, error) {
	var (
		service  models.Service
		features []byte
	)
	if err := row.Scan(
		&service.ID,
		&service.Title,
		&service.Description,
		&service.Price,
		&service.Currency,
		&features,
		&service.IsActive,
	); err != nil {
		return nil, err
	}
	service.Features = []string{}
	if len(features) > 0 {
		if err := json.Unmarshal(features, &service.Features); err != nil {
			return nil, fmt.Errorf("decode features of service %d: %w", service.ID, err)
		}
	}
	return &service, nil
}

// ListActiveServices returns active services, cheapest first.
func (s *Store) ListActiveServices(ctx context.Context) ([]models.Service, error) {
	if s.pool == nil {
		return nil, errNotInitialized
	}
	query := `SELECT` + serviceColumns + `
		FROM services
		WHERE is_active = true
		ORDER BY price ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	services := make([]models.Service, 0)
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, *service)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return services, nil
}

func (s *Store) CreateService(ctx context.Context, service models.NewService) (*models.Service, error) {
	if s.pool == nil {
		return nil, errNotInitialized
	}

	features := service.Features
	if features == nil {
		features = []string{}
	}
	rawFeatures, err := json.Marshal(features)
	if err != nil {
		return nil, fmt.Errorf("encode features: %w", err)
	}
	currency := service.Currency
	if currency == "" {
		currency = models.DefaultCurrency
	}

	query := `
		INSERT INTO services (title, description, price, currency, features)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING` + serviceColumns

	created, err := scanService(s.pool.QueryRow(
		ctx,
		query,
		service.Title,
		service.Description,
		service.Price,
		currency,
		rawFeatures,
	))
	if err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}
	return created, nil
}
