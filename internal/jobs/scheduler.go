package jobs

import (
	"context"
	"sync"
	"time"

	"warehouse/internal/services"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// Scheduler manages the recurring background jobs
type Scheduler struct {
	scheduler gocron.Scheduler
	lowStock  *LowStockMonitor
	reportSvc services.ReportServiceInterface
	logger    *zap.Logger
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewScheduler creates a scheduler with the low stock scan and the daily
// sales export registered.
func NewScheduler(lowStock *LowStockMonitor, reportSvc services.ReportServiceInterface, logger *zap.Logger) (*Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		scheduler: scheduler,
		lowStock:  lowStock,
		reportSvc: reportSvc,
		logger:    logger,
		jobs:      make(map[string]gocron.Job),
	}

	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

// Start starts the job scheduler
func (s *Scheduler) Start() {
	s.logger.Info("starting background job scheduler", zap.Int("jobs", len(s.jobs)))
	s.scheduler.Start()
}

// Stop stops the job scheduler and waits for running jobs
func (s *Scheduler) Stop() error {
	s.logger.Info("stopping background job scheduler")
	return s.scheduler.Shutdown()
}

func (s *Scheduler) registerJobs() error {
	lowStockJob, err := s.scheduler.NewJob(
		gocron.DurationJob(30*time.Minute),
		gocron.NewTask(s.runLowStockScan),
		gocron.WithName("low-stock-scan"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}
	s.jobs["low-stock-scan"] = lowStockJob

	// Exports the previous day's sales shortly after midnight.
	reportJob, err := s.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 15, 0))),
		gocron.NewTask(s.runDailySalesExport),
		gocron.WithName("daily-sales-export"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}
	s.jobs["daily-sales-export"] = reportJob

	return nil
}

func (s *Scheduler) runLowStockScan() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.lowStock.ScanAndLog(ctx); err != nil {
		s.logger.Error("low stock scan job failed", zap.Error(err))
	}
}

func (s *Scheduler) runDailySalesExport() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	day := time.Now().AddDate(0, 0, -1)
	objectName, err := s.reportSvc.ExportDailySales(ctx, day)
	if err != nil {
		s.logger.Error("daily sales export job failed", zap.Error(err))
		return
	}
	s.logger.Info("daily sales export completed", zap.String("object", objectName))
}

// JobNames returns the names of the registered jobs
func (s *Scheduler) JobNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return names
}
