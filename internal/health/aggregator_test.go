package health

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/polyvisor/metric-ledger/internal/models"
)

const testNow = uint64(10 * hourMs)

func record(category models.MetricCategory, value uint64, ts uint64) models.MetricRecord {
	return models.MetricRecord{
		Category:  category,
		Value:     uint256.NewInt(value),
		Timestamp: ts,
	}
}

func TestBlockTimeSubScore(t *testing.T) {
	tests := []struct {
		name  string
		value uint64
		want  uint32
	}{
		{"on target", 6000, 100},
		{"125ms over", 6125, 87},
		{"125ms under", 5875, 87},
		{"deviation at cap", 7000, 0},
		{"deviation beyond cap", 60000, 0},
		{"half deviation", 6500, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics := map[models.MetricCategory]models.MetricRecord{
				models.AverageBlockTime: record(models.AverageBlockTime, tt.value, testNow),
			}
			score := Score(metrics, testNow)
			if score.BlockTimeScore != tt.want {
				t.Errorf("block time score = %d, want %d", score.BlockTimeScore, tt.want)
			}
			if score.OverallScore != tt.want {
				t.Errorf("overall = %d, want %d (single category)", score.OverallScore, tt.want)
			}
		})
	}
}

func TestTransactionSubScore(t *testing.T) {
	tests := []struct {
		value uint64
		want  uint32
	}{
		{0, 0},
		{99, 0},
		{4500, 45},
		{10000, 100},
		{5_000_000, 100},
	}

	for _, tt := range tests {
		metrics := map[models.MetricCategory]models.MetricRecord{
			models.TransactionVolume: record(models.TransactionVolume, tt.value, testNow),
		}
		if got := Score(metrics, testNow).TransactionScore; got != tt.want {
			t.Errorf("transaction score(%d) = %d, want %d", tt.value, got, tt.want)
		}
	}
}

func TestValidatorSubScore(t *testing.T) {
	tests := []struct {
		value uint64 // basis points
		want  uint32
	}{
		{10000, 100},
		{9950, 99},
		{5000, 50},
		{0, 0},
		{20000, 100}, // capped
	}

	for _, tt := range tests {
		metrics := map[models.MetricCategory]models.MetricRecord{
			models.ValidatorUptime: record(models.ValidatorUptime, tt.value, testNow),
		}
		if got := Score(metrics, testNow).ValidatorScore; got != tt.want {
			t.Errorf("validator score(%d) = %d, want %d", tt.value, got, tt.want)
		}
	}
}

func TestCongestionSubScore(t *testing.T) {
	metrics := map[models.MetricCategory]models.MetricRecord{
		models.NetworkCongestion: record(models.NetworkCongestion, 45, testNow),
	}
	score := Score(metrics, testNow)

	if score.CongestionScore != 55 {
		t.Errorf("congestion score = %d, want 55", score.CongestionScore)
	}
	// Only this category present, so the overall score equals it.
	if score.OverallScore != 55 {
		t.Errorf("overall = %d, want 55", score.OverallScore)
	}
}

func TestOverallIsMeanOfPresent(t *testing.T) {
	metrics := map[models.MetricCategory]models.MetricRecord{
		models.AverageBlockTime:  record(models.AverageBlockTime, 6000, testNow), // 100
		models.NetworkCongestion: record(models.NetworkCongestion, 45, testNow),  // 55
	}
	score := Score(metrics, testNow)

	// (100 + 55) / 2 = 77 (integer division)
	if score.OverallScore != 77 {
		t.Errorf("overall = %d, want 77", score.OverallScore)
	}
	if score.TransactionScore != 0 || score.ValidatorScore != 0 {
		t.Error("absent categories should have zero sub-scores")
	}
}

func TestEmptyStore(t *testing.T) {
	score := Score(map[models.MetricCategory]models.MetricRecord{}, testNow)

	if score.OverallScore != 0 {
		t.Errorf("overall = %d, want 0", score.OverallScore)
	}
	if score.DataFreshness != 0 {
		t.Errorf("freshness = %d, want 0", score.DataFreshness)
	}
	if score.LastUpdated != testNow {
		t.Errorf("last updated = %d, want %d", score.LastUpdated, testNow)
	}
}

func TestFreshnessSteps(t *testing.T) {
	tests := []struct {
		name  string
		ageMs uint64
		want  uint8
	}{
		{"fresh", 0, 100},
		{"under an hour", hourMs - 1, 100},
		{"one hour", hourMs, 80},
		{"under two hours", 2*hourMs - 1, 80},
		{"three hours", 3 * hourMs, 60},
		{"eight hours", 8 * hourMs, 40},
		{"a day", 24 * hourMs, 20},
	}

	now := uint64(48 * hourMs)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics := map[models.MetricCategory]models.MetricRecord{
				models.AverageBlockTime: record(models.AverageBlockTime, 6000, now-tt.ageMs),
			}
			if got := Score(metrics, now).DataFreshness; got != tt.want {
				t.Errorf("freshness = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFreshnessMeanOverPresent(t *testing.T) {
	now := uint64(48 * hourMs)
	metrics := map[models.MetricCategory]models.MetricRecord{
		models.AverageBlockTime:  record(models.AverageBlockTime, 6000, now),          // 100
		models.TransactionVolume: record(models.TransactionVolume, 100, now-3*hourMs), // 60
	}

	// (100 + 60) / 2 = 80; absent categories excluded.
	if got := Score(metrics, now).DataFreshness; got != 80 {
		t.Errorf("freshness = %d, want 80", got)
	}
}

func TestNonCoreCategoriesIgnored(t *testing.T) {
	metrics := map[models.MetricCategory]models.MetricRecord{
		models.GasUsage:       record(models.GasUsage, 123456, testNow),
		models.NetworkLatency: record(models.NetworkLatency, 20, testNow),
	}
	score := Score(metrics, testNow)

	if score.OverallScore != 0 {
		t.Errorf("overall = %d, want 0 with no core categories", score.OverallScore)
	}
	if score.DataFreshness != 0 {
		t.Errorf("freshness = %d, want 0 with no core categories", score.DataFreshness)
	}
}
