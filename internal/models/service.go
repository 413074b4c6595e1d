package models

import "github.com/jackc/pgx/v5/pgtype"

// DefaultCurrency applies when a service is created without a currency.
const DefaultCurrency = "EUR"

// Service is a priced offering shown on the portfolio.
type Service struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	Price       pgtype.Numeric `json:"price"`
	Currency    string         `json:"currency"`
	Features    []string       `json:"features"`
	IsActive    bool           `json:"is_active"`
}

type NewService struct {
	Title       string         `json:"title" validate:"required,max=100"`
	Description *string        `json:"description"`
	Price       pgtype.Numeric `json:"price" validate:"required"`
	Currency    string         `json:"currency" validate:"omitempty,len=3,alpha"`
	Features    []string       `json:"features"`
}
