package services

import (
	"bytes"
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"warehouse/internal/caching"
	"warehouse/internal/common"
	"warehouse/internal/models"
	"warehouse/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SaleServiceInterface defines the interface for sale operations. Sales are
// created once, atomically, and never updated or deleted.
type SaleServiceInterface interface {
	CreateSale(ctx context.Context, req *models.CreateSaleRequest) (*models.Sale, error)
	GetSaleByID(ctx context.Context, saleID uuid.UUID) (*models.Sale, error)
	ListSales(ctx context.Context, reference string, limit, offset int) ([]*models.Sale, error)
}

type saleService struct {
	db          repositories.DB
	saleRepo    repositories.SaleRepository
	variantRepo repositories.VariantRepository
	cacheSvc    caching.CacheService
	logger      *zap.Logger
}

// NewSaleService creates a new sale service instance. cacheSvc may be nil.
func NewSaleService(db repositories.DB, saleRepo repositories.SaleRepository, variantRepo repositories.VariantRepository, cacheSvc caching.CacheService, logger *zap.Logger) SaleServiceInterface {
	return &saleService{
		db:          db,
		saleRepo:    saleRepo,
		variantRepo: variantRepo,
		cacheSvc:    cacheSvc,
		logger:      logger,
	}
}

// CreateSale finalizes a sale as one atomic unit: the requested lines are
// aggregated per variant, every touched variant row is locked in ascending id
// order, the reference is resolved, stock is validated and decremented per
// variant, and the sale plus its lines are inserted before commit. Any failure
// along the way rolls the whole transaction back, leaving no observable side
// effects.
func (s *saleService) CreateSale(ctx context.Context, req *models.CreateSaleRequest) (*models.Sale, error) {
	quantities, err := aggregateQuantities(req.Lines)
	if err != nil {
		return nil, err
	}
	ids := sortedVariantIDs(quantities)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, common.WrapInternal("failed to begin sale transaction", err)
	}
	// Rollback is a no-op once the transaction is committed. It also covers
	// caller disconnects: a canceled context aborts the transaction and every
	// stock decrement with it.
	defer tx.Rollback(ctx)

	locked, err := s.variantRepo.LockForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, common.WrapInternal("failed to lock variants", err)
	}

	variantsByID := make(map[uuid.UUID]*models.LockedVariant, len(locked))
	for _, variant := range locked {
		variantsByID[variant.ID] = variant
	}
	for _, id := range ids {
		if _, ok := variantsByID[id]; !ok {
			return nil, common.NewNotFoundError("variant with id %s was not found", id)
		}
	}

	reference, err := s.resolveReference(ctx, tx, req.Reference)
	if err != nil {
		return nil, err
	}

	sale := &models.Sale{
		ID:        uuid.New(),
		Reference: reference,
		CreatedAt: time.Now().UTC(),
	}

	// Line order follows ascending variant id, matching the lock order, not
	// the original request order.
	for _, id := range ids {
		variant := variantsByID[id]
		quantity := quantities[id]

		if !variant.Active {
			return nil, common.NewBusinessRuleError("variant %s is inactive and cannot be sold", variant.ID)
		}
		if !variant.ItemActive {
			return nil, common.NewBusinessRuleError("item %s is inactive and cannot be sold", variant.ItemID)
		}
		if variant.StockQuantity < quantity {
			return nil, common.NewBusinessRuleError("insufficient stock for variant %s", variant.ID).
				WithDetails(common.FormatQuantityMismatch(variant.StockQuantity, quantity))
		}

		if err := s.variantRepo.UpdateStock(ctx, tx, variant.ID, variant.StockQuantity-quantity); err != nil {
			return nil, common.WrapInternal("failed to decrement stock", err)
		}

		sale.AddLine(&models.SaleLine{
			ID:          uuid.New(),
			VariantID:   variant.ID,
			SKU:         variant.SKU,
			VariantName: variant.Name,
			Quantity:    quantity,
			UnitPrice:   variant.Price,
			LineTotal:   variant.Price * float64(quantity),
		})
	}

	if err := s.saleRepo.CreateWithLines(ctx, tx, sale); err != nil {
		return nil, common.WrapInternal("failed to persist sale", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, common.WrapInternal("failed to commit sale", err)
	}

	s.invalidateVariants(ctx, ids)
	s.logger.Info("sale created",
		zap.String("sale_id", sale.ID.String()),
		zap.String("reference", sale.Reference),
		zap.Float64("total_amount", sale.TotalAmount),
		zap.Int("line_count", len(sale.Lines)),
	)
	return sale, nil
}

func (s *saleService) GetSaleByID(ctx context.Context, saleID uuid.UUID) (*models.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, common.WrapInternal("failed to get sale", err)
	}
	if sale == nil {
		return nil, common.NewNotFoundError("sale with id %s was not found", saleID)
	}
	return sale, nil
}

func (s *saleService) ListSales(ctx context.Context, reference string, limit, offset int) ([]*models.Sale, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	sales, err := s.saleRepo.List(ctx, strings.TrimSpace(reference), limit, offset)
	if err != nil {
		return nil, common.WrapInternal("failed to list sales", err)
	}
	return sales, nil
}

// aggregateQuantities collapses the requested lines into one quantity per
// variant, summing duplicates. Both the per-line quantity and the aggregated
// total per variant are bounded so the sum can never wrap around.
func aggregateQuantities(lines []*models.CreateSaleLineRequest) (map[uuid.UUID]int, error) {
	if len(lines) == 0 {
		return nil, common.NewValidationError("sale must contain at least one line")
	}

	quantities := make(map[uuid.UUID]int, len(lines))
	for _, line := range lines {
		if line.VariantID == uuid.Nil {
			return nil, common.NewValidationError("variant_id is required on every sale line")
		}
		if err := common.ValidatePositiveQuantity(line.Quantity, "quantity"); err != nil {
			return nil, err
		}
		quantities[line.VariantID] += line.Quantity
		if quantities[line.VariantID] > common.MaxLineQuantity {
			return nil, common.NewValidationError("total quantity for variant %s cannot exceed %d units", line.VariantID, common.MaxLineQuantity)
		}
	}
	return quantities, nil
}

// sortedVariantIDs returns the distinct variant ids in ascending byte order.
// Every sale transaction acquires its locks in this canonical order, which
// rules out circular waits between concurrent sales sharing variants.
func sortedVariantIDs(quantities map[uuid.UUID]int) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
	return ids
}

// resolveReference generates a reference when none is supplied, or verifies a
// supplied one is unused. The lookup runs inside the sale transaction so the
// check and the insert cannot be split by a concurrent sale; the unique
// constraint on sales.reference remains the backstop.
func (s *saleService) resolveReference(ctx context.Context, q repositories.Querier, supplied string) (string, error) {
	candidate := strings.TrimSpace(supplied)
	if candidate == "" {
		return generateReference(), nil
	}
	if len(candidate) > common.MaxReferenceLength {
		return "", common.NewValidationError("reference cannot exceed %d characters", common.MaxReferenceLength)
	}

	existing, err := s.saleRepo.FindByReference(ctx, q, candidate)
	if err != nil {
		return "", common.WrapInternal("failed to check sale reference", err)
	}
	if existing != nil {
		return "", common.NewBusinessRuleError("sale reference already exists: %s", candidate)
	}
	return candidate, nil
}

func generateReference() string {
	return "SALE-" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + uuid.NewString()[:8]
}

func (s *saleService) invalidateVariants(ctx context.Context, ids []uuid.UUID) {
	if s.cacheSvc == nil {
		return
	}
	for _, id := range ids {
		if err := s.cacheSvc.DeleteVariant(ctx, id); err != nil {
			s.logger.Warn("failed to invalidate variant cache", zap.String("variant_id", id.String()), zap.Error(err))
		}
	}
}
