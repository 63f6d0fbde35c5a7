package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"warehouse/internal/common"
	"warehouse/internal/repositories"

	"go.uber.org/zap"
)

// ReportServiceInterface builds and exports sales reports.
type ReportServiceInterface interface {
	ExportDailySales(ctx context.Context, day time.Time) (string, error)
}

type reportService struct {
	saleRepo repositories.SaleRepository
	storage  ObjectStorage
	bucket   string
	logger   *zap.Logger
}

// NewReportService creates a new report service instance.
func NewReportService(saleRepo repositories.SaleRepository, storage ObjectStorage, bucket string, logger *zap.Logger) ReportServiceInterface {
	return &reportService{
		saleRepo: saleRepo,
		storage:  storage,
		bucket:   bucket,
		logger:   logger,
	}
}

// ExportDailySales writes a CSV of the sales committed on the given UTC day
// to object storage and returns the object name.
func (s *reportService) ExportDailySales(ctx context.Context, day time.Time) (string, error) {
	from := day.UTC().Truncate(24 * time.Hour)
	to := from.Add(24 * time.Hour)

	sales, err := s.saleRepo.CreatedBetween(ctx, from, to)
	if err != nil {
		return "", common.WrapInternal("failed to load sales for report", err)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write([]string{"sale_id", "reference", "total_amount", "created_at"}); err != nil {
		return "", common.WrapInternal("failed to write report header", err)
	}
	for _, sale := range sales {
		record := []string{
			sale.ID.String(),
			sale.Reference,
			strconv.FormatFloat(sale.TotalAmount, 'f', 2, 64),
			sale.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return "", common.WrapInternal("failed to write report row", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", common.WrapInternal("failed to flush report", err)
	}

	objectName := fmt.Sprintf("sales/%s.csv", from.Format("2006-01-02"))
	if err := s.storage.EnsureBucketExists(ctx, s.bucket); err != nil {
		return "", common.WrapInternal("failed to ensure report bucket", err)
	}
	if err := s.storage.Upload(ctx, s.bucket, objectName, "text/csv", &buf, int64(buf.Len())); err != nil {
		return "", common.WrapInternal("failed to upload report", err)
	}

	s.logger.Info("daily sales report exported",
		zap.String("object", objectName),
		zap.Int("sale_count", len(sales)),
	)
	return objectName, nil
}
