// Package events defines the domain events the ledger emits for external
// observers. The ledger never reads them back.
package events

import (
	"github.com/holiman/uint256"
	"github.com/polyvisor/metric-ledger/internal/models"
	"github.com/polyvisor/metric-ledger/pkg/logger"
	"go.uber.org/zap"
)

// MetricSubmitted is emitted after a submission is admitted into the store.
type MetricSubmitted struct {
	Category     models.MetricCategory
	Value        *uint256.Int
	QualityScore uint8
	Reporter     string
	Timestamp    uint64
}

// PrivacyLevelUpdated is emitted when a caller changes their default level.
type PrivacyLevelUpdated struct {
	Caller    string
	NewLevel  models.PrivacyLevel
	Timestamp uint64
}

// TrustedReporterAdded is emitted when a new reporter joins the trust set.
// Re-registrations do not emit.
type TrustedReporterAdded struct {
	Reporter  string
	Timestamp uint64
}

// Sink receives domain events. Implementations must not block the ledger;
// slow consumers should buffer internally.
type Sink interface {
	MetricSubmitted(MetricSubmitted)
	PrivacyLevelUpdated(PrivacyLevelUpdated)
	TrustedReporterAdded(TrustedReporterAdded)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) MetricSubmitted(MetricSubmitted)           {}
func (NopSink) PrivacyLevelUpdated(PrivacyLevelUpdated)   {}
func (NopSink) TrustedReporterAdded(TrustedReporterAdded) {}

// LogSink writes each event to the structured log.
type LogSink struct{}

func (LogSink) MetricSubmitted(e MetricSubmitted) {
	logger.Info("Metric submitted",
		zap.String("category", string(e.Category)),
		zap.String("value", e.Value.Dec()),
		zap.Uint8("qualityScore", e.QualityScore),
		zap.String("reporter", e.Reporter),
		zap.Uint64("timestamp", e.Timestamp),
	)
}

func (LogSink) PrivacyLevelUpdated(e PrivacyLevelUpdated) {
	logger.Info("Privacy level updated",
		zap.String("caller", e.Caller),
		zap.String("newLevel", string(e.NewLevel)),
		zap.Uint64("timestamp", e.Timestamp),
	)
}

func (LogSink) TrustedReporterAdded(e TrustedReporterAdded) {
	logger.Info("Trusted reporter added",
		zap.String("reporter", e.Reporter),
		zap.Uint64("timestamp", e.Timestamp),
	)
}
