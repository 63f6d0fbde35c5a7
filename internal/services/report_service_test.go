package services

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"warehouse/internal/models"
	"warehouse/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) CreateWithLines(ctx context.Context, q repositories.Querier, sale *models.Sale) error {
	args := m.Called(ctx, q, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) FindByReference(ctx context.Context, q repositories.Querier, reference string) (*models.Sale, error) {
	args := m.Called(ctx, q, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Sale), args.Error(1)
}

func (m *MockSaleRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Sale), args.Error(1)
}

func (m *MockSaleRepository) List(ctx context.Context, reference string, limit, offset int) ([]*models.Sale, error) {
	args := m.Called(ctx, reference, limit, offset)
	return args.Get(0).([]*models.Sale), args.Error(1)
}

func (m *MockSaleRepository) CreatedBetween(ctx context.Context, from, to time.Time) ([]*models.Sale, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]*models.Sale), args.Error(1)
}

type capturingStorage struct {
	bucket  string
	object  string
	content string
	ensured []string
}

func (s *capturingStorage) Upload(ctx context.Context, bucketName, objectName, contentType string, reader io.Reader, objectSize int64) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.bucket = bucketName
	s.object = objectName
	s.content = string(data)
	return nil
}

func (s *capturingStorage) EnsureBucketExists(ctx context.Context, bucketName string) error {
	s.ensured = append(s.ensured, bucketName)
	return nil
}

func TestExportDailySales(t *testing.T) {
	saleRepo := new(MockSaleRepository)
	storage := &capturingStorage{}
	service := NewReportService(saleRepo, storage, "reports", zap.NewNop())

	day := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)
	from := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	saleID := uuid.New()
	saleRepo.On("CreatedBetween", mock.Anything, from, to).Return([]*models.Sale{
		{ID: saleID, Reference: "SALE-1", TotalAmount: 15.5, CreatedAt: from.Add(2 * time.Hour)},
	}, nil)

	objectName, err := service.ExportDailySales(context.Background(), day)

	assert.NoError(t, err)
	assert.Equal(t, "sales/2026-08-30.csv", objectName)
	assert.Equal(t, "reports", storage.bucket)
	assert.Equal(t, []string{"reports"}, storage.ensured)

	lines := strings.Split(strings.TrimSpace(storage.content), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, "sale_id,reference,total_amount,created_at", lines[0])
	assert.Contains(t, lines[1], saleID.String())
	assert.Contains(t, lines[1], "15.50")
}

func TestExportDailySales_Empty(t *testing.T) {
	saleRepo := new(MockSaleRepository)
	storage := &capturingStorage{}
	service := NewReportService(saleRepo, storage, "reports", zap.NewNop())

	saleRepo.On("CreatedBetween", mock.Anything, mock.Anything, mock.Anything).Return([]*models.Sale{}, nil)

	objectName, err := service.ExportDailySales(context.Background(), time.Now())

	assert.NoError(t, err)
	assert.NotEmpty(t, objectName)

	lines := strings.Split(strings.TrimSpace(storage.content), "\n")
	assert.Len(t, lines, 1)
}
