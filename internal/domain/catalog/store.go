package catalog

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	hashids "github.com/speps/go-hashids/v2"
)

var (
	ErrNotFound      = errors.New("product not found")
	ErrDuplicateSlug = errors.New("product with this slug already exists")
	ErrOutOfStock    = errors.New("not enough stock")
)

type Repository struct {
	db    dbx.Querier
	codes *hashids.HashID
}

// NewRepository builds the catalog repository. salt seeds the public product
// codes exposed alongside numeric ids.
func NewRepository(q dbx.Querier, salt string) (*Repository, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = 8
	codes, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, fmt.Errorf("init product codes: %w", err)
	}
	return &Repository{db: q, codes: codes}, nil
}

// Code derives the short public code for a product id.
func (r *Repository) Code(id int64) string {
	code, err := r.codes.EncodeInt64([]int64{id})
	if err != nil {
		return ""
	}
	return code
}

const productColumns = `
id, name, slug, description, image_url, seller, category,
price, discount_price, stock, is_active, created_at, updated_at`

func (r *Repository) scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&p.ImageURL,
		&p.Seller,
		&p.Category,
		&p.Price,
		&p.DiscountPrice,
		&p.Stock,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	p.Code = r.Code(p.ID)
	return &p, nil
}

func (r *Repository) Create(ctx context.Context, p *Product) (*Product, error) {
	err := r.db.QueryRow(ctx, `
INSERT INTO products (name, slug, description, image_url, seller, category,
                      price, discount_price, stock, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, true)
RETURNING id, created_at, updated_at
`, p.Name, p.Slug, p.Description, p.ImageURL, p.Seller, p.Category,
		p.Price, p.DiscountPrice, p.Stock).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("create product: %w", err)
	}

	p.IsActive = true
	p.Code = r.Code(p.ID)
	return p, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Product, error) {
	return r.scanProduct(r.db.QueryRow(ctx, `
SELECT`+productColumns+`
FROM products
WHERE id = $1
  AND is_active = true
`, id))
}

func (r *Repository) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	return r.scanProduct(r.db.QueryRow(ctx, `
SELECT`+productColumns+`
FROM products
WHERE slug = $1
  AND is_active = true
`, slug))
}

// List returns active products newest-first with the filtered total for
// pagination metadata.
func (r *Repository) List(ctx context.Context, f Filter) ([]*Product, int, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 30
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	where := "is_active = true"
	args := []any{}
	arg := 1

	if f.Category != "" {
		where += fmt.Sprintf(" AND category = $%d", arg)
		args = append(args, f.Category)
		arg++
	}
	if f.Search != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", arg, arg)
		args = append(args, "%"+f.Search+"%")
		arg++
	}

	q := fmt.Sprintf(`
SELECT%s,
       COUNT(*) OVER() AS total
FROM products
WHERE %s
ORDER BY created_at DESC, id DESC
LIMIT $%d OFFSET $%d
`, productColumns, where, arg, arg+1)

	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []*Product
	total := 0

	for rows.Next() {
		var p Product
		var t int
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Slug,
			&p.Description,
			&p.ImageURL,
			&p.Seller,
			&p.Category,
			&p.Price,
			&p.DiscountPrice,
			&p.Stock,
			&p.IsActive,
			&p.CreatedAt,
			&p.UpdatedAt,
			&t,
		); err != nil {
			return nil, 0, fmt.Errorf("scan: %w", err)
		}
		if total == 0 {
			total = t
		}
		p.Code = r.Code(p.ID)
		out = append(out, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list products rows: %w", err)
	}

	return out, total, nil
}

// UpdateStock applies delta to a product's stock, refusing to go negative.
func (r *Repository) UpdateStock(ctx context.Context, id int64, delta int) error {
	tag, err := r.db.Exec(ctx, `
UPDATE products
SET stock = stock + $2,
    updated_at = now()
WHERE id = $1
  AND stock + $2 >= 0
`, id, delta)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOutOfStock
	}
	return nil
}
