package events

import (
	"strconv"

	"todoai-api/internal/metrics"

	"go.uber.org/zap"
)

// RegisterMetricsSubscribers feeds generation outcomes into the prometheus
// counters and logs them.
func RegisterMetricsSubscribers(bus EventBus, logger *zap.Logger) error {
	if err := bus.SubscribeAsync(TopicTaskListGenerated, func(e TaskListGenerated) {
		metrics.TaskListsGeneratedTotal.WithLabelValues(e.Vendor, strconv.FormatBool(e.Persisted)).Inc()
		logger.Info("Task list generated",
			zap.String("correlation_id", e.CorrelationID),
			zap.String("user_id", e.UserID),
			zap.String("task_list_id", e.TaskListID),
			zap.String("vendor", e.Vendor),
			zap.String("model", e.Model),
			zap.Int("task_count", e.TaskCount),
			zap.Bool("persisted", e.Persisted))
	}); err != nil {
		return err
	}

	if err := bus.SubscribeAsync(TopicGenerationFailed, func(e GenerationFailed) {
		metrics.GenerationFailuresTotal.WithLabelValues(e.Vendor, e.Kind).Inc()
		logger.Warn("Task generation failed",
			zap.String("correlation_id", e.CorrelationID),
			zap.String("user_id", e.UserID),
			zap.String("vendor", e.Vendor),
			zap.String("kind", e.Kind))
	}); err != nil {
		return err
	}

	return bus.SubscribeAsync(TopicCredentialTested, func(e CredentialTested) {
		logger.Info("Credential tested",
			zap.String("vendor", e.Vendor),
			zap.Bool("valid", e.Valid))
	})
}
