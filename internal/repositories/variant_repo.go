package repositories

import (
	"context"
	"errors"

	"warehouse/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type VariantRepository interface {
	Create(ctx context.Context, variant *models.ItemVariant) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ItemVariant, error)
	ListByItem(ctx context.Context, itemID uuid.UUID, activeOnly bool) ([]*models.ItemVariant, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
	ExistsBySKUExcluding(ctx context.Context, sku string, id uuid.UUID) (bool, error)
	LowStock(ctx context.Context, threshold int) ([]*models.ItemVariant, error)

	// Transactional methods. The caller owns the transaction passed as q;
	// locks taken by LockForUpdate and GetForUpdate are held until that
	// transaction commits or rolls back.
	LockForUpdate(ctx context.Context, q Querier, ids []uuid.UUID) ([]*models.LockedVariant, error)
	GetForUpdate(ctx context.Context, q Querier, id uuid.UUID) (*models.ItemVariant, error)
	Update(ctx context.Context, q Querier, variant *models.ItemVariant) error
	UpdateStock(ctx context.Context, q Querier, id uuid.UUID, stockQuantity int) error
}

type variantRepo struct {
	db Querier
}

func NewVariantRepo(db Querier) VariantRepository {
	return &variantRepo{db: db}
}

func (r *variantRepo) Create(ctx context.Context, variant *models.ItemVariant) error {
	query := `
		INSERT INTO item_variants (id, item_id, sku, name, price, stock_quantity, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, variant.ID, variant.ItemID, variant.SKU, variant.Name, variant.Price, variant.StockQuantity, variant.Active)
	return err
}

func (r *variantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ItemVariant, error) {
	variant := &models.ItemVariant{}
	query := `
		SELECT id, item_id, sku, name, price, stock_quantity, active, created_at, updated_at
		FROM item_variants
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&variant.ID, &variant.ItemID, &variant.SKU, &variant.Name, &variant.Price, &variant.StockQuantity, &variant.Active, &variant.CreatedAt, &variant.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return variant, nil
}

func (r *variantRepo) ListByItem(ctx context.Context, itemID uuid.UUID, activeOnly bool) ([]*models.ItemVariant, error) {
	query := `
		SELECT id, item_id, sku, name, price, stock_quantity, active, created_at, updated_at
		FROM item_variants
		WHERE item_id = $1 AND ($2 = false OR active = true)
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, itemID, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanVariants(rows)
}

// Update runs through q because stock is among the mutated columns; callers
// hold the row lock taken by GetForUpdate in the same transaction.
func (r *variantRepo) Update(ctx context.Context, q Querier, variant *models.ItemVariant) error {
	query := `
		UPDATE item_variants
		SET sku = $1, name = $2, price = $3, stock_quantity = $4, active = $5, updated_at = NOW()
		WHERE id = $6
	`
	_, err := q.Exec(ctx, query, variant.SKU, variant.Name, variant.Price, variant.StockQuantity, variant.Active, variant.ID)
	return err
}

func (r *variantRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM item_variants WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// ExistsBySKU checks SKU uniqueness globally, not per item.
func (r *variantRepo) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM item_variants WHERE sku = $1)`
	err := r.db.QueryRow(ctx, query, sku).Scan(&exists)
	return exists, err
}

func (r *variantRepo) ExistsBySKUExcluding(ctx context.Context, sku string, id uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM item_variants WHERE sku = $1 AND id <> $2)`
	err := r.db.QueryRow(ctx, query, sku, id).Scan(&exists)
	return exists, err
}

func (r *variantRepo) LowStock(ctx context.Context, threshold int) ([]*models.ItemVariant, error) {
	query := `
		SELECT id, item_id, sku, name, price, stock_quantity, active, created_at, updated_at
		FROM item_variants
		WHERE active = true AND stock_quantity <= $1
		ORDER BY stock_quantity ASC
	`
	rows, err := r.db.Query(ctx, query, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanVariants(rows)
}

// LockForUpdate acquires exclusive row locks on every matching variant,
// always in ascending id order so that concurrent sales touching overlapping
// variant sets cannot deadlock. Only the variant rows are locked; the owning
// item's active flag is read alongside without locking items.
func (r *variantRepo) LockForUpdate(ctx context.Context, q Querier, ids []uuid.UUID) ([]*models.LockedVariant, error) {
	query := `
		SELECT v.id, v.item_id, v.sku, v.name, v.price, v.stock_quantity, v.active, i.active AS item_active
		FROM item_variants v
		JOIN items i ON i.id = v.item_id
		WHERE v.id = ANY($1)
		ORDER BY v.id ASC
		FOR UPDATE OF v
	`
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var variants []*models.LockedVariant
	for rows.Next() {
		variant := &models.LockedVariant{}
		if err := rows.Scan(&variant.ID, &variant.ItemID, &variant.SKU, &variant.Name, &variant.Price, &variant.StockQuantity, &variant.Active, &variant.ItemActive); err != nil {
			return nil, err
		}
		variants = append(variants, variant)
	}
	return variants, rows.Err()
}

func (r *variantRepo) GetForUpdate(ctx context.Context, q Querier, id uuid.UUID) (*models.ItemVariant, error) {
	variant := &models.ItemVariant{}
	query := `
		SELECT id, item_id, sku, name, price, stock_quantity, active, created_at, updated_at
		FROM item_variants
		WHERE id = $1
		FOR UPDATE
	`
	err := q.QueryRow(ctx, query, id).Scan(&variant.ID, &variant.ItemID, &variant.SKU, &variant.Name, &variant.Price, &variant.StockQuantity, &variant.Active, &variant.CreatedAt, &variant.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return variant, nil
}

func (r *variantRepo) UpdateStock(ctx context.Context, q Querier, id uuid.UUID, stockQuantity int) error {
	query := `
		UPDATE item_variants
		SET stock_quantity = $1, updated_at = NOW()
		WHERE id = $2
	`
	_, err := q.Exec(ctx, query, stockQuantity, id)
	return err
}

func scanVariants(rows pgx.Rows) ([]*models.ItemVariant, error) {
	var variants []*models.ItemVariant
	for rows.Next() {
		variant := &models.ItemVariant{}
		if err := rows.Scan(&variant.ID, &variant.ItemID, &variant.SKU, &variant.Name, &variant.Price, &variant.StockQuantity, &variant.Active, &variant.CreatedAt, &variant.UpdatedAt); err != nil {
			return nil, err
		}
		variants = append(variants, variant)
	}
	return variants, rows.Err()
}
