package postgres

import (
	"context"
	"errors"
	"fmt"

	"payment-callback-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepo implements ports.ProductRepository.
type ProductRepo struct {
	pool Pool
}

// NewProductRepo creates a new ProductRepo.
func NewProductRepo(pool Pool) *ProductRepo {
	return &ProductRepo{pool: pool}
}

// GetByName fetches a product by its display name. Returns (nil, nil) when
// no product carries that name.
func (r *ProductRepo) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	query := `SELECT id, name, contents, stock, total_sold, created_at, updated_at
		FROM products WHERE name = $1`

	p := &domain.Product{}
	err := r.pool.QueryRow(ctx, query, name).Scan(
		&p.ID, &p.Name, &p.Contents, &p.Stock, &p.TotalSold, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by name: %w", err)
	}
	return p, nil
}

// PopContent removes and returns one content unit from the product's stock.
// The row lock makes concurrent pops hand out distinct units; ok is false
// when the product has no stock left.
func (r *ProductRepo) PopContent(ctx context.Context, id uuid.UUID) (string, bool, error) {
	query := `WITH popped AS (
			SELECT id, contents[1] AS content FROM products
			WHERE id = $1 AND cardinality(contents) > 0
			FOR UPDATE
		)
		UPDATE products p
		SET contents = p.contents[2:], stock = p.stock - 1, total_sold = p.total_sold + 1, updated_at = NOW()
		FROM popped WHERE p.id = popped.id
		RETURNING popped.content`

	var content string
	err := r.pool.QueryRow(ctx, query, id).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("pop product content: %w", err)
	}
	return content, true, nil
}
