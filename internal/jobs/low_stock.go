package jobs

import (
	"context"

	"warehouse/internal/models"
	"warehouse/internal/repositories"

	"go.uber.org/zap"
)

// LowStockMonitor scans variant stock levels and reports the ones at or
// below the configured threshold.
type LowStockMonitor struct {
	variantRepo repositories.VariantRepository
	threshold   int
	logger      *zap.Logger
}

func NewLowStockMonitor(variantRepo repositories.VariantRepository, threshold int, logger *zap.Logger) *LowStockMonitor {
	if threshold <= 0 {
		threshold = 10
	}
	return &LowStockMonitor{
		variantRepo: variantRepo,
		threshold:   threshold,
		logger:      logger,
	}
}

// Scan returns the active variants whose stock is at or below the threshold.
func (m *LowStockMonitor) Scan(ctx context.Context) ([]*models.ItemVariant, error) {
	variants, err := m.variantRepo.LowStock(ctx, m.threshold)
	if err != nil {
		m.logger.Error("low stock scan failed", zap.Error(err))
		return nil, err
	}
	return variants, nil
}

// ScanAndLog runs a scan and emits a warning per low stock variant.
func (m *LowStockMonitor) ScanAndLog(ctx context.Context) error {
	variants, err := m.Scan(ctx)
	if err != nil {
		return err
	}
	if len(variants) == 0 {
		m.logger.Info("low stock scan completed, no variants below threshold",
			zap.Int("threshold", m.threshold))
		return nil
	}

	for _, v := range variants {
		m.logger.Warn("variant stock below threshold",
			zap.String("variant_id", v.ID.String()),
			zap.String("sku", v.SKU),
			zap.Int("stock_quantity", v.StockQuantity),
			zap.Int("threshold", m.threshold))
	}
	m.logger.Info("low stock scan completed",
		zap.Int("low_stock_variants", len(variants)),
		zap.Int("threshold", m.threshold))
	return nil
}
