// Package catalog manages the product catalog that quotation line items are
// built from.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrStoreUnavailable indicates the catalog store dependency is not configured.
var ErrStoreUnavailable = errors.New("catalog: store unavailable")

// ErrNotFound indicates the product does not exist.
var ErrNotFound = errors.New("catalog: product not found")

// ErrDuplicateModel indicates another product already uses the model number.
var ErrDuplicateModel = errors.New("catalog: duplicate model number")

// Product is a catalog entry. ListPrice is the customer-facing price; Cost is
// internal and never rendered on customer documents.
type Product struct {
	ID          uuid.UUID       `json:"id"`
	ModelNo     string          `json:"model_no"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand"`
	ImagePath   string          `json:"image_path"`
	ListPrice   decimal.Decimal `json:"list_price"`
	Cost        decimal.Decimal `json:"cost"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Store provides database accessors for products.
type Store interface {
	Insert(ctx context.Context, p Product) (Product, error)
	Get(ctx context.Context, id uuid.UUID) (Product, error)
	List(ctx context.Context, category string, limit, offset int) ([]Product, int64, error)
	Update(ctx context.Context, p Product) (Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NewStore constructs a Store backed by a pgx connection pool.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

type pgStore struct {
	pool *pgxpool.Pool
}

const productColumns = `id, model_no, name, description, category, brand, image_path, list_price, cost, active, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.ModelNo, &p.Name, &p.Description, &p.Category, &p.Brand,
		&p.ImagePath, &p.ListPrice, &p.Cost, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (st *pgStore) Insert(ctx context.Context, p Product) (Product, error) {
	if st == nil || st.pool == nil {
		return Product{}, ErrStoreUnavailable
	}
	row := st.pool.QueryRow(ctx, `INSERT INTO products (model_no, name, description, category, brand, image_path, list_price, cost, active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING `+productColumns,
		p.ModelNo, p.Name, p.Description, p.Category, p.Brand, p.ImagePath, p.ListPrice, p.Cost, p.Active)
	out, err := scanProduct(row)
	if isUniqueViolation(err) {
		return Product{}, ErrDuplicateModel
	}
	return out, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (st *pgStore) Get(ctx context.Context, id uuid.UUID) (Product, error) {
	if st == nil || st.pool == nil {
		return Product{}, ErrStoreUnavailable
	}
	row := st.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

func (st *pgStore) List(ctx context.Context, category string, limit, offset int) ([]Product, int64, error) {
	if st == nil || st.pool == nil {
		return nil, 0, ErrStoreUnavailable
	}
	rows, err := st.pool.Query(ctx, `SELECT `+productColumns+` FROM products
WHERE ($1 = '' OR category = $1)
ORDER BY created_at DESC LIMIT $2 OFFSET $3`, category, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]Product, 0, limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := st.pool.QueryRow(ctx, `SELECT count(*) FROM products WHERE ($1 = '' OR category = $1)`, category).Scan(&total); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (st *pgStore) Update(ctx context.Context, p Product) (Product, error) {
	if st == nil || st.pool == nil {
		return Product{}, ErrStoreUnavailable
	}
	row := st.pool.QueryRow(ctx, `UPDATE products SET
model_no = $2, name = $3, description = $4, category = $5, brand = $6,
image_path = $7, list_price = $8, cost = $9, active = $10, updated_at = now()
WHERE id = $1 RETURNING `+productColumns,
		p.ID, p.ModelNo, p.Name, p.Description, p.Category, p.Brand, p.ImagePath, p.ListPrice, p.Cost, p.Active)
	out, err := scanProduct(row)
	if isUniqueViolation(err) {
		return Product{}, ErrDuplicateModel
	}
	return out, err
}

func (st *pgStore) Delete(ctx context.Context, id uuid.UUID) error {
	if st == nil || st.pool == nil {
		return ErrStoreUnavailable
	}
	tag, err := st.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
