package catalog

import (
	"context"
	"time"
)

type Product struct {
	ID            int64     `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   *string   `json:"description,omitempty"`
	ImageURL      *string   `json:"image_url,omitempty"`
	Seller        string    `json:"seller"`
	Category      *string   `json:"category,omitempty"`
	Price         float64   `json:"price"`
	DiscountPrice *float64  `json:"discount_price,omitempty"`
	Stock         int       `json:"stock"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Filter narrows List. Zero values mean "no filter"; Limit/Offset come from
// params.Pagination.
type Filter struct {
	Category string
	Search   string
	Limit    int
	Offset   int
}

// Store is the data access abstraction for the catalog.
// Implemented by Repository (which uses pgx via dbx.Querier).
type Store interface {
	Create(ctx context.Context, p *Product) (*Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	List(ctx context.Context, f Filter) ([]*Product, int, error)
	UpdateStock(ctx context.Context, id int64, delta int) error
}
