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

// ItemServiceInterface defines the interface for item CRUD operations
type ItemServiceInterface interface {
	CreateItem(ctx context.Context, item *models.Item) error
	GetItemByID(ctx context.Context, itemID uuid.UUID) (*models.Item, error)
	ListItems(ctx context.Context, activeOnly bool, limit, offset int) ([]*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
}

type itemService struct {
	itemRepo repositories.ItemRepository
	cacheSvc caching.CacheService
	logger   *zap.Logger
}

// NewItemService creates a new item service instance. cacheSvc may be nil.
func NewItemService(itemRepo repositories.ItemRepository, cacheSvc caching.CacheService, logger *zap.Logger) ItemServiceInterface {
	return &itemService{
		itemRepo: itemRepo,
		cacheSvc: cacheSvc,
		logger:   logger,
	}
}

func (s *itemService) CreateItem(ctx context.Context, item *models.Item) error {
	if err := validateItemFields(item); err != nil {
		return err
	}

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.CreatedAt = time.Now().UTC()
	item.UpdatedAt = item.CreatedAt

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return common.WrapInternal("failed to create item", err)
	}

	s.logger.Info("item created", zap.String("item_id", item.ID.String()), zap.String("name", item.Name))
	return nil
}

func (s *itemService) GetItemByID(ctx context.Context, itemID uuid.UUID) (*models.Item, error) {
	if s.cacheSvc != nil {
		if cached, err := s.cacheSvc.GetItem(ctx, itemID); err == nil && cached != nil {
			return cached, nil
		}
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, common.WrapInternal("failed to get item", err)
	}
	if item == nil {
		return nil, common.NewNotFoundError("item with id %s was not found", itemID)
	}

	if s.cacheSvc != nil {
		if err := s.cacheSvc.SetItem(ctx, item, caching.ItemTTL); err != nil {
			s.logger.Warn("failed to cache item", zap.String("item_id", itemID.String()), zap.Error(err))
		}
	}
	return item, nil
}

func (s *itemService) ListItems(ctx context.Context, activeOnly bool, limit, offset int) ([]*models.Item, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	items, err := s.itemRepo.List(ctx, activeOnly, limit, offset)
	if err != nil {
		return nil, common.WrapInternal("failed to list items", err)
	}
	return items, nil
}

func (s *itemService) UpdateItem(ctx context.Context, item *models.Item) error {
	if err := validateItemFields(item); err != nil {
		return err
	}

	existing, err := s.itemRepo.GetByID(ctx, item.ID)
	if err != nil {
		return common.WrapInternal("failed to get item", err)
	}
	if existing == nil {
		return common.NewNotFoundError("item with id %s was not found", item.ID)
	}

	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = time.Now().UTC()

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return common.WrapInternal("failed to update item", err)
	}

	s.invalidateItem(ctx, item.ID)
	return nil
}

// DeleteItem removes the item and, through the store-level cascade, all of its
// variants. Items whose variants appear on recorded sales cannot be deleted.
func (s *itemService) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	existing, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return common.WrapInternal("failed to get item", err)
	}
	if existing == nil {
		return common.NewNotFoundError("item with id %s was not found", itemID)
	}

	if err := s.itemRepo.Delete(ctx, itemID); err != nil {
		if repositories.IsForeignKeyViolation(err) {
			return common.NewConflictError("item %s has variants referenced by sales and cannot be deleted", itemID)
		}
		return common.WrapInternal("failed to delete item", err)
	}

	s.invalidateItem(ctx, itemID)
	s.logger.Info("item deleted", zap.String("item_id", itemID.String()))
	return nil
}

func (s *itemService) invalidateItem(ctx context.Context, itemID uuid.UUID) {
	if s.cacheSvc == nil {
		return
	}
	if err := s.cacheSvc.DeleteItem(ctx, itemID); err != nil {
		s.logger.Warn("failed to invalidate item cache", zap.String("item_id", itemID.String()), zap.Error(err))
	}
}

func validateItemFields(item *models.Item) error {
	name, err := common.ValidateRequiredString(item.Name, "name", common.MaxNameLength)
	if err != nil {
		return err
	}
	description, err := common.ValidateRequiredString(item.Description, "description", common.MaxDescriptionLength)
	if err != nil {
		return err
	}
	item.Name = name
	item.Description = description
	return nil
}
