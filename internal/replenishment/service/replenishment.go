// Package service orchestrates replenishment runs: it loads the day's facts
// and master data, executes the computation engine, publishes the order
// file, persists the run record, and emits run events.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Ridadata/procurement-pipeline/internal/replenishment/domain"
	"github.com/Ridadata/procurement-pipeline/internal/replenishment/engine"
	"github.com/Ridadata/procurement-pipeline/internal/replenishment/repository"
	"github.com/Ridadata/procurement-pipeline/pkg/errors"
	"github.com/Ridadata/procurement-pipeline/pkg/logger"
	"github.com/Ridadata/procurement-pipeline/pkg/metrics"
)

// FactStore loads the raw order and stock facts for a business date.
type FactStore interface {
	Orders(businessDate string) ([]domain.OrderFact, error)
	Stock(businessDate string) ([]domain.StockFact, error)
}

// MasterStore loads the master data snapshot for a run.
type MasterStore interface {
	Load(ctx context.Context) (*domain.MasterData, error)
}

// RunStore persists run history.
type RunStore interface {
	Create(ctx context.Context, run *domain.Run) error
	Complete(ctx context.Context, run *domain.Run, lines []domain.SupplierOrderLine, summaries []domain.SupplierSummary, anomalies []domain.Anomaly) error
	Fail(ctx context.Context, run *domain.Run, errorCode, message string, anomalies []domain.Anomaly) error
	HasCompleted(ctx context.Context, businessDate string) (bool, error)
	GetByID(ctx context.Context, id string) (*domain.Run, error)
	List(ctx context.Context, limit int) ([]*domain.Run, error)
	ListAnomalies(ctx context.Context, runID string) ([]*repository.RunAnomaly, error)
	ListOrderLines(ctx context.Context, runID string) ([]domain.SupplierOrderLine, error)
	ListSummaries(ctx context.Context, runID string) ([]domain.SupplierSummary, error)
}

// OrderWriter publishes the supplier order file for a run.
type OrderWriter interface {
	Write(businessDate string, lines []domain.SupplierOrderLine) (string, error)
}

// EventPublisher emits run lifecycle events.
type EventPublisher interface {
	PublishRunStarted(ctx context.Context, run *domain.Run)
	PublishRunCompleted(ctx context.Context, run *domain.Run)
	PublishRunFailed(ctx context.Context, run *domain.Run, errorCode, message string)
	PublishAnomalyDetected(ctx context.Context, run *domain.Run, anomaly domain.Anomaly)
}

// ReplenishmentService executes and tracks pipeline runs
type ReplenishmentService struct {
	facts     FactStore
	master    MasterStore
	runs      RunStore
	writer    OrderWriter
	publisher EventPublisher
	engine    *engine.Engine
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

// NewReplenishmentService creates a new replenishment service
func NewReplenishmentService(
	facts FactStore,
	master MasterStore,
	runs RunStore,
	writer OrderWriter,
	publisher EventPublisher,
	eng *engine.Engine,
	m *metrics.Metrics,
	log *logger.Logger,
) *ReplenishmentService {
	return &ReplenishmentService{
		facts:     facts,
		master:    master,
		runs:      runs,
		writer:    writer,
		publisher: publisher,
		engine:    eng,
		metrics:   m,
		logger:    log.WithComponent("replenishment-service"),
	}
}

// RunOutcome is the full result of a completed run
type RunOutcome struct {
	Run       *domain.Run                `json:"run"`
	Lines     []domain.SupplierOrderLine `json:"order_lines"`
	Summaries []domain.SupplierSummary   `json:"summaries"`
	Anomalies []domain.Anomaly           `json:"anomalies"`
}

// Run executes the pipeline for one business date. The run either completes
// with a published order file, or fails with a recorded fatal error and zero
// published output. Whole-run retry is the caller's concern.
func (s *ReplenishmentService) Run(ctx context.Context, businessDate string) (*RunOutcome, error) {
	completed, err := s.runs.HasCompleted(ctx, businessDate)
	if err != nil {
		return nil, err
	}
	if completed {
		return nil, errors.Conflict(fmt.Sprintf("a pipeline run already published output for %s", businessDate))
	}

	run := &domain.Run{BusinessDate: businessDate}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, err
	}

	log := s.logger.WithRunID(run.ID).WithBusinessDate(businessDate)
	log.Info().Msg("pipeline run started")
	s.publisher.PublishRunStarted(ctx, run)

	start := time.Now()
	outcome, err := s.execute(ctx, run, log)
	s.metrics.RunDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.RunsTotal.WithLabelValues("failed").Inc()
		return outcome, err
	}

	s.metrics.RunsTotal.WithLabelValues("completed").Inc()
	s.metrics.OrderLines.Add(float64(len(outcome.Lines)))
	return outcome, nil
}

func (s *ReplenishmentService) execute(ctx context.Context, run *domain.Run, log *logger.Logger) (*RunOutcome, error) {
	orders, err := s.facts.Orders(run.BusinessDate)
	if err != nil {
		return nil, s.fail(ctx, run, log, err, nil)
	}
	stock, err := s.facts.Stock(run.BusinessDate)
	if err != nil {
		return nil, s.fail(ctx, run, log, err, nil)
	}
	master, err := s.master.Load(ctx)
	if err != nil {
		return nil, s.fail(ctx, run, log, err, nil)
	}

	result, err := s.engine.Run(engine.Input{
		BusinessDate: run.BusinessDate,
		Orders:       orders,
		Stock:        stock,
		Master:       master,
	})
	if err != nil {
		return nil, s.fail(ctx, run, log, err, result.Report.Anomalies())
	}

	anomalies := result.Report.Anomalies()
	s.countAnomalies(anomalies)

	outputFile, err := s.writer.Write(run.BusinessDate, result.Lines)
	if err != nil {
		return nil, s.fail(ctx, run, log, err, anomalies)
	}

	run.WarningCount = result.Report.WarningCount()
	run.OutputFile = &outputFile

	summaries := result.Summaries()
	if err := s.runs.Complete(ctx, run, result.Lines, summaries, anomalies); err != nil {
		return nil, s.fail(ctx, run, log, err, anomalies)
	}

	for _, a := range anomalies {
		s.publisher.PublishAnomalyDetected(ctx, run, a)
	}
	s.publisher.PublishRunCompleted(ctx, run)

	log.Info().
		Int("order_lines", run.OrderLines).
		Int("warnings", run.WarningCount).
		Str("output_file", outputFile).
		Msg("pipeline run completed")

	return &RunOutcome{
		Run:       run,
		Lines:     result.Lines,
		Summaries: summaries,
		Anomalies: anomalies,
	}, nil
}

// fail finalizes a failed run, keeping any anomalies gathered before the
// abort, and returns the original error.
func (s *ReplenishmentService) fail(ctx context.Context, run *domain.Run, log *logger.Logger, cause error, anomalies []domain.Anomaly) error {
	code := "INTERNAL_ERROR"
	message := cause.Error()
	var appErr *errors.AppError
	if errors.As(cause, &appErr) {
		code = appErr.Code
		message = appErr.Message
	}

	s.countAnomalies(anomalies)

	if err := s.runs.Fail(ctx, run, code, message, anomalies); err != nil {
		log.Error().Err(err).Msg("failed to record failed run")
	}

	for _, a := range anomalies {
		s.publisher.PublishAnomalyDetected(ctx, run, a)
	}
	s.publisher.PublishRunFailed(ctx, run, code, message)

	log.Error().
		Str("error_code", code).
		Str("error", message).
		Msg("pipeline run failed")
	return cause
}

func (s *ReplenishmentService) countAnomalies(anomalies []domain.Anomaly) {
	for _, a := range anomalies {
		s.metrics.AnomaliesTotal.WithLabelValues(string(a.Stage), string(a.Severity)).Inc()
	}
}

// GetRun returns a run record with its persisted summaries.
func (s *ReplenishmentService) GetRun(ctx context.Context, id string) (*domain.Run, []domain.SupplierSummary, error) {
	run, err := s.runs.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	summaries, err := s.runs.ListSummaries(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return run, summaries, nil
}

// ListRuns returns recent runs, newest first.
func (s *ReplenishmentService) ListRuns(ctx context.Context, limit int) ([]*domain.Run, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.runs.List(ctx, limit)
}

// GetAnomalies returns a run's recorded anomalies in report order.
func (s *ReplenishmentService) GetAnomalies(ctx context.Context, runID string) ([]*repository.RunAnomaly, error) {
	if _, err := s.runs.GetByID(ctx, runID); err != nil {
		return nil, err
	}
	return s.runs.ListAnomalies(ctx, runID)
}

// GetOrderLines returns a run's published order lines in output order.
func (s *ReplenishmentService) GetOrderLines(ctx context.Context, runID string) ([]domain.SupplierOrderLine, error) {
	if _, err := s.runs.GetByID(ctx, runID); err != nil {
		return nil, err
	}
	return s.runs.ListOrderLines(ctx, runID)
}
