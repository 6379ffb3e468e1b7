package application

import (
	"context"

	"github.com/wms-platform/materials-service/internal/domain"
	"github.com/wms-platform/materials-service/pkg/logging"
	"github.com/wms-platform/materials-service/pkg/metrics"
)

// ActivityRecorder writes the append-only audit trail. Recording is
// best-effort: a failed append or publish is logged and counted but never
// fails the transition that produced it.
type ActivityRecorder struct {
	repo      domain.ActivityRepository
	publisher domain.ActivityPublisher
	logger    *logging.Logger
	metrics   *metrics.Metrics
}

// NewActivityRecorder creates an ActivityRecorder
func NewActivityRecorder(repo domain.ActivityRepository, publisher domain.ActivityPublisher, logger *logging.Logger, m *metrics.Metrics) *ActivityRecorder {
	return &ActivityRecorder{
		repo:      repo,
		publisher: publisher,
		logger:    logger.WithComponent("activity-recorder"),
		metrics:   m,
	}
}

// Record appends and publishes one activity record
func (r *ActivityRecorder) Record(ctx context.Context, record domain.ActivityRecord) {
	if err := r.repo.Append(ctx, record); err != nil {
		r.logger.WithError(err).Error("Failed to append activity record",
			"activityId", record.ID, "action", record.Action)
	}

	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(ctx, record); err != nil {
		r.metrics.ActivityPublishErrors.Inc()
		r.logger.WithError(err).Warn("Failed to publish activity record",
			"activityId", record.ID, "action", record.Action)
	}
}

// List returns the most recent activity records
func (r *ActivityRecorder) List(ctx context.Context, limit int) ([]domain.ActivityRecord, error) {
	return r.repo.List(ctx, limit)
}
