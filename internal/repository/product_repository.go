package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/somah-market/backend/internal/domain"
	"github.com/somah-market/backend/internal/port"
)

const productColumns = `id, store_id, name, price::text, original_price::text, stock, image_url, created_at`

type productRepository struct {
	db querier
}

func NewProduct(pool *pgxpool.Pool) port.ProductRepository {
	return &productRepository{db: pool}
}

func (r *productRepository) InsertProduct(ctx context.Context, product domain.Product) (uuid.UUID, error) {
	if product.Name == "" {
		return uuid.Nil, errors.New("product name is empty")
	}
	if product.Price.Amount.IsNegative() {
		return uuid.Nil, errors.New("price is negative")
	}

	var productID uuid.UUID
	err := r.db.QueryRow(ctx,
		`INSERT INTO products (store_id, name, price, original_price, stock, image_url)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		product.StoreID, product.Name, moneyParam(product.Price), moneyParam(product.OriginalPrice),
		product.Stock, product.ImageURL).Scan(&productID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert product: %w", err)
	}

	return productID, nil
}

func (r *productRepository) GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	var p domain.Product

	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, productID)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return p, fmt.Errorf("scanProduct: %w", ErrProductNotFound)
		}
		return p, fmt.Errorf("scanProduct: %w", err)
	}

	return p, nil
}

func (r *productRepository) ListProducts(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

func (r *productRepository) ListStoreProducts(ctx context.Context, storeID uuid.UUID) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE store_id = $1 ORDER BY name`, storeID)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

func collectProducts(rows pgx.Rows) ([]domain.Product, error) {
	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanProduct: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return products, nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		p                    domain.Product
		price, originalPrice string
	)

	err := row.Scan(&p.ID, &p.StoreID, &p.Name, &price, &originalPrice, &p.Stock, &p.ImageURL, &p.CreatedAt)
	if err != nil {
		return p, err
	}

	if p.Price, err = parseMoney(price); err != nil {
		return p, fmt.Errorf("parseMoney price: %w", err)
	}
	if p.OriginalPrice, err = parseMoney(originalPrice); err != nil {
		return p, fmt.Errorf("parseMoney originalPrice: %w", err)
	}

	return p, nil
}
