package repositories

import (
	"context"
	"errors"
	"time"

	"warehouse/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SaleRepository interface {
	// CreateWithLines inserts the sale and its lines through q, which must be
	// the same transaction that holds the variant locks.
	CreateWithLines(ctx context.Context, q Querier, sale *models.Sale) error
	// FindByReference runs through q so the duplicate check shares the
	// transaction with the eventual insert. Returns nil when no sale matches.
	FindByReference(ctx context.Context, q Querier, reference string) (*models.Sale, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	List(ctx context.Context, reference string, limit, offset int) ([]*models.Sale, error)
	CreatedBetween(ctx context.Context, from, to time.Time) ([]*models.Sale, error)
}

type saleRepo struct {
	db Querier
}

func NewSaleRepo(db Querier) SaleRepository {
	return &saleRepo{db: db}
}

func (r *saleRepo) CreateWithLines(ctx context.Context, q Querier, sale *models.Sale) error {
	saleQuery := `
		INSERT INTO sales (id, reference, total_amount, created_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := q.Exec(ctx, saleQuery, sale.ID, sale.Reference, sale.TotalAmount, sale.CreatedAt); err != nil {
		return err
	}

	lineQuery := `
		INSERT INTO sale_lines (id, sale_id, variant_id, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, line := range sale.Lines {
		if _, err := q.Exec(ctx, lineQuery, line.ID, line.SaleID, line.VariantID, line.Quantity, line.UnitPrice, line.LineTotal); err != nil {
			return err
		}
	}
	return nil
}

func (r *saleRepo) FindByReference(ctx context.Context, q Querier, reference string) (*models.Sale, error) {
	sale := &models.Sale{}
	query := `
		SELECT id, reference, total_amount, created_at
		FROM sales
		WHERE reference = $1
	`
	err := q.QueryRow(ctx, query, reference).Scan(&sale.ID, &sale.Reference, &sale.TotalAmount, &sale.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sale, nil
}

func (r *saleRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	sale := &models.Sale{}
	query := `
		SELECT id, reference, total_amount, created_at
		FROM sales
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&sale.ID, &sale.Reference, &sale.TotalAmount, &sale.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	lines, err := r.linesForSale(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	sale.Lines = lines
	return sale, nil
}

func (r *saleRepo) List(ctx context.Context, reference string, limit, offset int) ([]*models.Sale, error) {
	query := `
		SELECT id, reference, total_amount, created_at
		FROM sales
		WHERE ($1 = '' OR reference = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, reference, limit, offset)
	if err != nil {
		return nil, err
	}

	sales, err := scanSales(rows)
	if err != nil {
		return nil, err
	}

	for _, sale := range sales {
		lines, err := r.linesForSale(ctx, sale.ID)
		if err != nil {
			return nil, err
		}
		sale.Lines = lines
	}
	return sales, nil
}

func (r *saleRepo) CreatedBetween(ctx context.Context, from, to time.Time) ([]*models.Sale, error) {
	query := `
		SELECT id, reference, total_amount, created_at
		FROM sales
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	return scanSales(rows)
}

// linesForSale joins variants for the SKU and name shown in responses; the
// price fields come from the line snapshot, never from the variant.
func (r *saleRepo) linesForSale(ctx context.Context, saleID uuid.UUID) ([]*models.SaleLine, error) {
	query := `
		SELECT l.id, l.sale_id, l.variant_id, v.sku, v.name, l.quantity, l.unit_price, l.line_total
		FROM sale_lines l
		JOIN item_variants v ON v.id = l.variant_id
		WHERE l.sale_id = $1
		ORDER BY l.variant_id ASC
	`
	rows, err := r.db.Query(ctx, query, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []*models.SaleLine
	for rows.Next() {
		line := &models.SaleLine{}
		if err := rows.Scan(&line.ID, &line.SaleID, &line.VariantID, &line.SKU, &line.VariantName, &line.Quantity, &line.UnitPrice, &line.LineTotal); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func scanSales(rows pgx.Rows) ([]*models.Sale, error) {
	defer rows.Close()

	var sales []*models.Sale
	for rows.Next() {
		sale := &models.Sale{}
		if err := rows.Scan(&sale.ID, &sale.Reference, &sale.TotalAmount, &sale.CreatedAt); err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	return sales, rows.Err()
}
