package repository

import (
	"context"
	"fmt"

	"github.com/polyvisor/metric-ledger/internal/models"
	"gorm.io/gorm"
)

// MetricRepository is the append-only persistence mirror of the in-memory
// ledger. The ledger stays authoritative for latest values; this backs
// time-range queries and keeps admitted proofs durable.
type MetricRepository struct {
	db *gorm.DB
}

// NewMetricRepository creates a new metric repository.
func NewMetricRepository(db *gorm.DB) *MetricRepository {
	return &MetricRepository{db: db}
}

// AppendHistory records one admitted metric. History rows are never updated
// or deleted.
func (r *MetricRepository) AppendHistory(ctx context.Context, entry *models.MetricHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// GetHistoryRange retrieves admitted records for a category with timestamps
// in [from, to], oldest first.
func (r *MetricRepository) GetHistoryRange(
	ctx context.Context,
	category string,
	from, to uint64,
) ([]*models.MetricHistory, error) {
	var entries []*models.MetricHistory
	err := r.db.WithContext(ctx).
		Where("category = ? AND timestamp >= ? AND timestamp <= ?", category, from, to).
		Order("timestamp ASC").
		Find(&entries).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get metric history: %w", err)
	}

	return entries, nil
}

// GetLatestHistory retrieves the most recent history row for a category.
func (r *MetricRepository) GetLatestHistory(ctx context.Context, category string) (*models.MetricHistory, error) {
	var entry models.MetricHistory
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("timestamp DESC").
		First(&entry).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest metric: %w", err)
	}

	return &entry, nil
}

// SaveProof persists an admitted proof. Proofs are immutable once stored.
func (r *MetricRepository) SaveProof(ctx context.Context, stored *models.StoredProof) error {
	return r.db.WithContext(ctx).Create(stored).Error
}

// GetProofByRef retrieves a stored proof by its reference.
func (r *MetricRepository) GetProofByRef(ctx context.Context, proofRef uint64) (*models.StoredProof, error) {
	var stored models.StoredProof
	err := r.db.WithContext(ctx).
		Where("proof_ref = ?", proofRef).
		First(&stored).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stored proof: %w", err)
	}

	return &stored, nil
}

// GetStats retrieves aggregate store statistics.
func (r *MetricRepository) GetStats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var totalRecords int64
	if err := r.db.WithContext(ctx).Model(&models.MetricHistory{}).Count(&totalRecords).Error; err != nil {
		return nil, err
	}
	stats["total_admitted_records"] = totalRecords

	var totalProofs int64
	if err := r.db.WithContext(ctx).Model(&models.StoredProof{}).Count(&totalProofs).Error; err != nil {
		return nil, err
	}
	stats["total_stored_proofs"] = totalProofs

	var distinctReporters int64
	if err := r.db.WithContext(ctx).Model(&models.MetricHistory{}).
		Distinct("source_reporter").Count(&distinctReporters).Error; err != nil {
		return nil, err
	}
	stats["distinct_reporters"] = distinctReporters

	perCategory := make(map[string]int64)
	for _, category := range models.AllCategories {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.MetricHistory{}).
			Where("category = ?", string(category)).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			perCategory[string(category)] = count
		}
	}
	stats["records_per_category"] = perCategory

	return stats, nil
}
