package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
	"github.com/polyvisor/metric-ledger/internal/ledger"
	"github.com/polyvisor/metric-ledger/internal/models"
	"github.com/polyvisor/metric-ledger/internal/privacy"
	"github.com/polyvisor/metric-ledger/internal/repository"
	"github.com/polyvisor/metric-ledger/pkg/logger"
	"go.uber.org/zap"
)

// LedgerService orchestrates the in-memory ledger and its persistence
// mirror. The ledger decides admission; the service mirrors what was
// admitted and serves historical queries from the mirror.
type LedgerService struct {
	ledger *ledger.Ledger
	repo   *repository.MetricRepository
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(l *ledger.Ledger, repo *repository.MetricRepository) *LedgerService {
	return &LedgerService{
		ledger: l,
		repo:   repo,
	}
}

// SubmitMetric admits one submission and mirrors it. Mirror failures are
// logged, not returned: the in-memory state machine already accepted the
// submission and durability is a collaborator concern.
func (s *LedgerService) SubmitMetric(
	ctx context.Context,
	reporter string,
	category models.MetricCategory,
	value *uint256.Int,
	p *models.Proof,
	sources []models.DataSource,
) (models.MetricRecord, error) {
	record, err := s.ledger.SubmitMetric(reporter, category, value, p, sources)
	if err != nil {
		return models.MetricRecord{}, err
	}

	s.mirror(ctx, record, p)

	logger.Info("Metric admitted",
		zap.String("category", string(category)),
		zap.String("reporter", reporter),
		zap.Uint8("qualityScore", record.DataQualityScore),
	)

	return record, nil
}

// SubmitBatch applies each submission independently; per-item results carry
// their own errors and admitted items are mirrored even when siblings fail.
func (s *LedgerService) SubmitBatch(
	ctx context.Context,
	reporter string,
	subs []ledger.Submission,
) []ledger.BatchResult {
	results := s.ledger.SubmitBatch(reporter, subs)
	for i, res := range results {
		if res.Err != nil {
			continue
		}
		s.mirror(ctx, res.Record, subs[i].Proof)
	}
	return results
}

func (s *LedgerService) mirror(ctx context.Context, record models.MetricRecord, p *models.Proof) {
	entry := &models.MetricHistory{
		Category:         string(record.Category),
		Value:            record.Value.Dec(),
		Timestamp:        record.Timestamp,
		ProofRef:         record.ProofRef,
		PrivacyLevel:     string(record.PrivacyLevel),
		DataQualityScore: record.DataQualityScore,
		SourceReporter:   record.SourceReporter,
	}
	if err := s.repo.AppendHistory(ctx, entry); err != nil {
		logger.Error("Failed to mirror metric history", zap.Error(err))
	}

	inputs := make([]string, len(p.PublicInputs))
	for i, in := range p.PublicInputs {
		inputs[i] = in.Dec()
	}
	stored := &models.StoredProof{
		ProofRef:        record.ProofRef,
		ProofBytes:      p.ProofBytes,
		PublicInputs:    strings.Join(inputs, ","),
		VerificationKey: p.VerificationKey,
		CircuitID:       p.CircuitID,
	}
	if err := s.repo.SaveProof(ctx, stored); err != nil {
		logger.Error("Failed to mirror stored proof", zap.Error(err))
	}
}

// GetMetric returns the caller-appropriate projection of the latest record.
func (s *LedgerService) GetMetric(caller string, category models.MetricCategory) (models.MetricRecord, bool) {
	return s.ledger.GetMetric(caller, category)
}

// GetHistoricalMetrics returns projected records for the category with
// admission timestamps in [from, to], oldest first, disclosed at the given
// privacy level.
func (s *LedgerService) GetHistoricalMetrics(
	ctx context.Context,
	category models.MetricCategory,
	from, to uint64,
	level models.PrivacyLevel,
) ([]models.MetricRecord, error) {
	entries, err := s.repo.GetHistoryRange(ctx, string(category), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}

	records := make([]models.MetricRecord, 0, len(entries))
	for _, entry := range entries {
		value, err := uint256.FromDecimal(entry.Value)
		if err != nil {
			logger.Error("Corrupt value in metric history",
				zap.Uint("id", entry.ID),
				zap.Error(err),
			)
			continue
		}
		record := models.MetricRecord{
			Category:         models.MetricCategory(entry.Category),
			Value:            value,
			Timestamp:        entry.Timestamp,
			ProofRef:         entry.ProofRef,
			PrivacyLevel:     models.PrivacyLevel(entry.PrivacyLevel),
			DataQualityScore: entry.DataQualityScore,
			SourceReporter:   entry.SourceReporter,
		}
		records = append(records, privacy.Project(record, level))
	}

	return records, nil
}

// GetHealthScore computes the composite network health score.
func (s *LedgerService) GetHealthScore() models.NetworkHealthScore {
	return s.ledger.GetHealthScore()
}

// GetReputation returns contribution statistics for a reporter, or nil.
func (s *LedgerService) GetReputation(reporter string) *models.ContributorInfo {
	return s.ledger.GetReputation(reporter)
}

// RegisterReporter adds a reporter to the trusted set (idempotent).
func (s *LedgerService) RegisterReporter(reporter string) {
	s.ledger.RegisterReporter(reporter)
}

// TrustedReporters lists the current trust-set membership.
func (s *LedgerService) TrustedReporters() []string {
	return s.ledger.TrustedReporters()
}

// SetPrivacyLevel updates a caller's default disclosure level.
func (s *LedgerService) SetPrivacyLevel(caller string, level models.PrivacyLevel) {
	s.ledger.SetPrivacyLevel(caller, level)
}

// VerifyProofPublic re-checks the structure of a stored proof.
func (s *LedgerService) VerifyProofPublic(proofRef uint64) bool {
	return s.ledger.VerifyProofPublic(proofRef)
}

// GetStats retrieves aggregate statistics from the persistence mirror.
func (s *LedgerService) GetStats(ctx context.Context) (map[string]interface{}, error) {
	return s.repo.GetStats(ctx)
}
