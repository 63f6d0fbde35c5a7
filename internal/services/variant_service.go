package services

import (
	"context"
	"time"

	"warehouse/internal/caching"
	"warehouse/internal/common"
	"warehouse/internal/models"
	"warehouse/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VariantServiceInterface defines the interface for variant CRUD and stock
// operations.
type VariantServiceInterface interface {
	CreateVariant(ctx context.Context, itemID uuid.UUID, variant *models.ItemVariant) error
	GetVariantByID(ctx context.Context, variantID uuid.UUID) (*models.ItemVariant, error)
	ListVariantsByItem(ctx context.Context, itemID uuid.UUID, activeOnly bool) ([]*models.ItemVariant, error)
	UpdateVariant(ctx context.Context, variant *models.ItemVariant) error
	AdjustStock(ctx context.Context, variantID uuid.UUID, change int) (*models.ItemVariant, error)
	DeleteVariant(ctx context.Context, variantID uuid.UUID) error
}

type variantService struct {
	db          repositories.DB
	variantRepo repositories.VariantRepository
	itemRepo    repositories.ItemRepository
	cacheSvc    caching.CacheService
	logger      *zap.Logger
}

// NewVariantService creates a new variant service instance. cacheSvc may be nil.
func NewVariantService(db repositories.DB, variantRepo repositories.VariantRepository, itemRepo repositories.ItemRepository, cacheSvc caching.CacheService, logger *zap.Logger) VariantServiceInterface {
	return &variantService{
		db:          db,
		variantRepo: variantRepo,
		itemRepo:    itemRepo,
		cacheSvc:    cacheSvc,
		logger:      logger,
	}
}

func (s *variantService) CreateVariant(ctx context.Context, itemID uuid.UUID, variant *models.ItemVariant) error {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return common.WrapInternal("failed to get item", err)
	}
	if item == nil {
		return common.NewNotFoundError("item with id %s was not found", itemID)
	}

	if err := validateVariantFields(variant); err != nil {
		return err
	}

	exists, err := s.variantRepo.ExistsBySKU(ctx, variant.SKU)
	if err != nil {
		return common.WrapInternal("failed to check SKU", err)
	}
	if exists {
		return common.NewConflictError("variant SKU already exists: %s", variant.SKU)
	}

	if variant.ID == uuid.Nil {
		variant.ID = uuid.New()
	}
	variant.ItemID = itemID
	variant.CreatedAt = time.Now().UTC()
	variant.UpdatedAt = variant.CreatedAt

	if err := s.variantRepo.Create(ctx, variant); err != nil {
		if repositories.IsUniqueViolation(err) {
			return common.NewConflictError("variant SKU already exists: %s", variant.SKU)
		}
		return common.WrapInternal("failed to create variant", err)
	}

	s.logger.Info("variant created",
		zap.String("variant_id", variant.ID.String()),
		zap.String("item_id", itemID.String()),
		zap.String("sku", variant.SKU),
	)
	return nil
}

func (s *variantService) GetVariantByID(ctx context.Context, variantID uuid.UUID) (*models.ItemVariant, error) {
	if s.cacheSvc != nil {
		if cached, err := s.cacheSvc.GetVariant(ctx, variantID); err == nil && cached != nil {
			return cached, nil
		}
	}

	variant, err := s.variantRepo.GetByID(ctx, variantID)
	if err != nil {
		return nil, common.WrapInternal("failed to get variant", err)
	}
	if variant == nil {
		return nil, common.NewNotFoundError("variant with id %s was not found", variantID)
	}

	if s.cacheSvc != nil {
		if err := s.cacheSvc.SetVariant(ctx, variant, caching.VariantTTL); err != nil {
			s.logger.Warn("failed to cache variant", zap.String("variant_id", variantID.String()), zap.Error(err))
		}
	}
	return variant, nil
}

func (s *variantService) ListVariantsByItem(ctx context.Context, itemID uuid.UUID, activeOnly bool) ([]*models.ItemVariant, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, common.WrapInternal("failed to get item", err)
	}
	if item == nil {
		return nil, common.NewNotFoundError("item with id %s was not found", itemID)
	}

	variants, err := s.variantRepo.ListByItem(ctx, itemID, activeOnly)
	if err != nil {
		return nil, common.WrapInternal("failed to list variants", err)
	}
	return variants, nil
}

// UpdateVariant rewrites the variant under the same row-lock discipline the
// sale path uses, so a price or stock edit can never interleave with an
// in-flight sale touching the same variant.
func (s *variantService) UpdateVariant(ctx context.Context, variant *models.ItemVariant) error {
	if err := validateVariantFields(variant); err != nil {
		return err
	}

	exists, err := s.variantRepo.ExistsBySKUExcluding(ctx, variant.SKU, variant.ID)
	if err != nil {
		return common.WrapInternal("failed to check SKU", err)
	}
	if exists {
		return common.NewConflictError("variant SKU already exists: %s", variant.SKU)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return common.WrapInternal("failed to begin variant update", err)
	}
	defer tx.Rollback(ctx)

	current, err := s.variantRepo.GetForUpdate(ctx, tx, variant.ID)
	if err != nil {
		return common.WrapInternal("failed to lock variant", err)
	}
	if current == nil {
		return common.NewNotFoundError("variant with id %s was not found", variant.ID)
	}

	variant.ItemID = current.ItemID
	variant.CreatedAt = current.CreatedAt
	variant.UpdatedAt = time.Now().UTC()

	if err := s.variantRepo.Update(ctx, tx, variant); err != nil {
		if repositories.IsUniqueViolation(err) {
			return common.NewConflictError("variant SKU already exists: %s", variant.SKU)
		}
		return common.WrapInternal("failed to update variant", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return common.WrapInternal("failed to commit variant update", err)
	}

	s.invalidateVariant(ctx, variant.ID)
	return nil
}

// AdjustStock applies a relative stock change (positive for receipts,
// negative for write-offs) while holding the variant's exclusive row lock, so
// direct edits and concurrent sales serialize on the same lock.
func (s *variantService) AdjustStock(ctx context.Context, variantID uuid.UUID, change int) (*models.ItemVariant, error) {
	if change == 0 {
		return nil, common.NewValidationError("stock change must be non-zero")
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, common.WrapInternal("failed to begin stock adjustment", err)
	}
	defer tx.Rollback(ctx)

	variant, err := s.variantRepo.GetForUpdate(ctx, tx, variantID)
	if err != nil {
		return nil, common.WrapInternal("failed to lock variant", err)
	}
	if variant == nil {
		return nil, common.NewNotFoundError("variant with id %s was not found", variantID)
	}

	newQuantity := variant.StockQuantity + change
	if newQuantity < 0 {
		return nil, common.NewBusinessRuleError("insufficient stock for variant %s", variantID).
			WithDetails(common.FormatQuantityMismatch(variant.StockQuantity, -change))
	}

	if err := s.variantRepo.UpdateStock(ctx, tx, variantID, newQuantity); err != nil {
		return nil, common.WrapInternal("failed to adjust stock", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, common.WrapInternal("failed to commit stock adjustment", err)
	}

	variant.StockQuantity = newQuantity
	s.invalidateVariant(ctx, variantID)
	s.logger.Info("stock adjusted",
		zap.String("variant_id", variantID.String()),
		zap.Int("change", change),
		zap.Int("stock_quantity", newQuantity),
	)
	return variant, nil
}

func (s *variantService) DeleteVariant(ctx context.Context, variantID uuid.UUID) error {
	existing, err := s.variantRepo.GetByID(ctx, variantID)
	if err != nil {
		return common.WrapInternal("failed to get variant", err)
	}
	if existing == nil {
		return common.NewNotFoundError("variant with id %s was not found", variantID)
	}

	if err := s.variantRepo.Delete(ctx, variantID); err != nil {
		if repositories.IsForeignKeyViolation(err) {
			return common.NewConflictError("variant %s is referenced by sales and cannot be deleted", variantID)
		}
		return common.WrapInternal("failed to delete variant", err)
	}

	s.invalidateVariant(ctx, variantID)
	return nil
}

func (s *variantService) invalidateVariant(ctx context.Context, variantID uuid.UUID) {
	if s.cacheSvc == nil {
		return
	}
	if err := s.cacheSvc.DeleteVariant(ctx, variantID); err != nil {
		s.logger.Warn("failed to invalidate variant cache", zap.String("variant_id", variantID.String()), zap.Error(err))
	}
}

func validateVariantFields(variant *models.ItemVariant) error {
	sku, err := common.ValidateRequiredString(variant.SKU, "sku", common.MaxSKULength)
	if err != nil {
		return err
	}
	name, err := common.ValidateRequiredString(variant.Name, "name", common.MaxVariantNameLength)
	if err != nil {
		return err
	}
	if err := common.ValidatePrice(variant.Price, "price"); err != nil {
		return err
	}
	if variant.StockQuantity < 0 {
		return common.NewValidationError("stock_quantity cannot be negative")
	}
	variant.SKU = sku
	variant.Name = name
	return nil
}
