package events

import (
	"context"

	"github.com/Ridadata/procurement-pipeline/internal/replenishment/domain"
	"github.com/Ridadata/procurement-pipeline/pkg/logger"
	"github.com/Ridadata/procurement-pipeline/pkg/messaging"
)

// RunEventPublisher publishes pipeline run events
type RunEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewRunEventPublisher creates a new run event publisher
func NewRunEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*RunEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeProcurementEvents, "replenishment-service", log)
	if err != nil {
		return nil, err
	}

	return &RunEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// PublishRunStarted publishes a run started event
func (p *RunEventPublisher) PublishRunStarted(ctx context.Context, run *domain.Run) {
	if p == nil {
		return
	}

	data := messaging.RunStartedEvent{
		RunID:        run.ID,
		BusinessDate: run.BusinessDate,
	}

	if err := p.publisher.Publish(ctx, messaging.EventRunStarted, data); err != nil {
		p.logger.Error().Err(err).Str("run_id", run.ID).Msg("failed to publish run started event")
	}
}

// PublishRunCompleted publishes a run completed event
func (p *RunEventPublisher) PublishRunCompleted(ctx context.Context, run *domain.Run) {
	if p == nil {
		return
	}

	outputFile := ""
	if run.OutputFile != nil {
		outputFile = *run.OutputFile
	}

	data := messaging.RunCompletedEvent{
		RunID:        run.ID,
		BusinessDate: run.BusinessDate,
		OrderLines:   run.OrderLines,
		Warnings:     run.WarningCount,
		OutputFile:   outputFile,
	}

	if err := p.publisher.Publish(ctx, messaging.EventRunCompleted, data); err != nil {
		p.logger.Error().Err(err).Str("run_id", run.ID).Msg("failed to publish run completed event")
	}
}

// PublishRunFailed publishes a run failed event
func (p *RunEventPublisher) PublishRunFailed(ctx context.Context, run *domain.Run, errorCode, message string) {
	if p == nil {
		return
	}

	data := messaging.RunFailedEvent{
		RunID:        run.ID,
		BusinessDate: run.BusinessDate,
		ErrorCode:    errorCode,
		Message:      message,
	}

	if err := p.publisher.Publish(ctx, messaging.EventRunFailed, data); err != nil {
		p.logger.Error().Err(err).Str("run_id", run.ID).Msg("failed to publish run failed event")
	}
}

// PublishAnomalyDetected publishes an anomaly detected event
func (p *RunEventPublisher) PublishAnomalyDetected(ctx context.Context, run *domain.Run, anomaly domain.Anomaly) {
	if p == nil {
		return
	}

	data := messaging.AnomalyDetectedEvent{
		RunID:        run.ID,
		BusinessDate: run.BusinessDate,
		Stage:        string(anomaly.Stage),
		SKU:          anomaly.SKU,
		Severity:     string(anomaly.Severity),
		Message:      anomaly.Message,
	}

	if err := p.publisher.Publish(ctx, messaging.EventAnomalyDetected, data); err != nil {
		p.logger.Error().Err(err).Str("run_id", run.ID).Msg("failed to publish anomaly detected event")
	}
}
