package services

import (
	"context"
	"testing"
	"time"

	"warehouse/internal/common"
	"warehouse/internal/models"
	"warehouse/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// Mock repositories
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Create(ctx context.Context, item *models.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemRepository) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*models.Item, error) {
	args := m.Called(ctx, activeOnly, limit, offset)
	return args.Get(0).([]*models.Item), args.Error(1)
}

func (m *MockItemRepository) Update(ctx context.Context, item *models.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockVariantRepository struct {
	mock.Mock
}

func (m *MockVariantRepository) Create(ctx context.Context, variant *models.ItemVariant) error {
	args := m.Called(ctx, variant)
	return args.Error(0)
}

func (m *MockVariantRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ItemVariant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ItemVariant), args.Error(1)
}

func (m *MockVariantRepository) ListByItem(ctx context.Context, itemID uuid.UUID, activeOnly bool) ([]*models.ItemVariant, error) {
	args := m.Called(ctx, itemID, activeOnly)
	return args.Get(0).([]*models.ItemVariant), args.Error(1)
}

func (m *MockVariantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVariantRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockVariantRepository) ExistsBySKUExcluding(ctx context.Context, sku string, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, sku, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockVariantRepository) LowStock(ctx context.Context, threshold int) ([]*models.ItemVariant, error) {
	args := m.Called(ctx, threshold)
	return args.Get(0).([]*models.ItemVariant), args.Error(1)
}

func (m *MockVariantRepository) LockForUpdate(ctx context.Context, q repositories.Querier, ids []uuid.UUID) ([]*models.LockedVariant, error) {
	args := m.Called(ctx, q, ids)
	return args.Get(0).([]*models.LockedVariant), args.Error(1)
}

func (m *MockVariantRepository) GetForUpdate(ctx context.Context, q repositories.Querier, id uuid.UUID) (*models.ItemVariant, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ItemVariant), args.Error(1)
}

func (m *MockVariantRepository) Update(ctx context.Context, q repositories.Querier, variant *models.ItemVariant) error {
	args := m.Called(ctx, q, variant)
	return args.Error(0)
}

func (m *MockVariantRepository) UpdateStock(ctx context.Context, q repositories.Querier, id uuid.UUID, stockQuantity int) error {
	args := m.Called(ctx, q, id, stockQuantity)
	return args.Error(0)
}

func newFKViolation() error {
	return &pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"}
}

func TestCreateItem_Success(t *testing.T) {
	itemRepo := new(MockItemRepository)
	service := NewItemService(itemRepo, nil, zap.NewNop())

	itemRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Item")).Return(nil)

	item := &models.Item{Name: "  T-Shirt  ", Description: "Cotton tee"}
	err := service.CreateItem(context.Background(), item)

	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, item.ID)
	assert.Equal(t, "T-Shirt", item.Name)
	assert.False(t, item.CreatedAt.IsZero())
	itemRepo.AssertExpectations(t)
}

func TestCreateItem_MissingName(t *testing.T) {
	itemRepo := new(MockItemRepository)
	service := NewItemService(itemRepo, nil, zap.NewNop())

	err := service.CreateItem(context.Background(), &models.Item{Description: "Cotton tee"})

	assert.True(t, common.IsValidation(err))
	itemRepo.AssertNotCalled(t, "Create")
}

func TestGetItemByID_NotFound(t *testing.T) {
	itemRepo := new(MockItemRepository)
	service := NewItemService(itemRepo, nil, zap.NewNop())

	itemID := uuid.New()
	itemRepo.On("GetByID", mock.Anything, itemID).Return(nil, nil)

	item, err := service.GetItemByID(context.Background(), itemID)

	assert.Nil(t, item)
	assert.True(t, common.IsNotFound(err))
}

func TestUpdateItem_PreservesCreatedAt(t *testing.T) {
	itemRepo := new(MockItemRepository)
	service := NewItemService(itemRepo, nil, zap.NewNop())

	created := time.Now().Add(-48 * time.Hour).UTC()
	existing := &models.Item{ID: uuid.New(), Name: "Old", Description: "Old", Active: true, CreatedAt: created}

	itemRepo.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)
	itemRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.Item")).Return(nil)

	updated := &models.Item{ID: existing.ID, Name: "New", Description: "New desc", Active: false}
	err := service.UpdateItem(context.Background(), updated)

	assert.NoError(t, err)
	assert.Equal(t, created, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created))
}

func TestDeleteItem_ReferencedBySales(t *testing.T) {
	itemRepo := new(MockItemRepository)
	service := NewItemService(itemRepo, nil, zap.NewNop())

	itemID := uuid.New()
	itemRepo.On("GetByID", mock.Anything, itemID).Return(&models.Item{ID: itemID, Name: "X", Description: "Y"}, nil)
	itemRepo.On("Delete", mock.Anything, itemID).Return(newFKViolation())

	err := service.DeleteItem(context.Background(), itemID)

	assert.True(t, common.IsConflict(err))
}

func TestDeleteItem_NotFound(t *testing.T) {
	itemRepo := new(MockItemRepository)
	service := NewItemService(itemRepo, nil, zap.NewNop())

	itemID := uuid.New()
	itemRepo.On("GetByID", mock.Anything, itemID).Return(nil, nil)

	err := service.DeleteItem(context.Background(), itemID)

	assert.True(t, common.IsNotFound(err))
	itemRepo.AssertNotCalled(t, "Delete")
}

func TestListItems_ClampsPagination(t *testing.T) {
	itemRepo := new(MockItemRepository)
	service := NewItemService(itemRepo, nil, zap.NewNop())

	itemRepo.On("List", mock.Anything, false, 50, 0).Return([]*models.Item{}, nil)

	items, err := service.ListItems(context.Background(), false, -5, -1)

	assert.NoError(t, err)
	assert.Empty(t, items)
	itemRepo.AssertExpectations(t)
}
