// Package health computes the composite network-health score from the
// currently admitted metrics. The formulas are heuristics; what the ledger
// guarantees is that identical inputs always produce identical scores.
package health

import (
	"github.com/holiman/uint256"
	"github.com/polyvisor/metric-ledger/internal/models"
)

const (
	// targetBlockTimeMs is the ideal average block time; deviation beyond
	// maxBlockTimeDeviation scores zero.
	targetBlockTimeMs     = 6000
	maxBlockTimeDeviation = 1000

	// validator uptime arrives in basis points (10000 = 100%)
	uptimeBasisPoints = 10000

	hourMs = 3_600_000
)

// coreCategories are the four categories the composite score is built from.
var coreCategories = []models.MetricCategory{
	models.AverageBlockTime,
	models.TransactionVolume,
	models.ValidatorUptime,
	models.NetworkCongestion,
}

// Score computes the composite health score over whatever subset of the core
// categories currently has a record. Absent categories are excluded from the
// means, not treated as zero; with nothing present both the overall score
// and freshness are 0.
func Score(metrics map[models.MetricCategory]models.MetricRecord, now uint64) models.NetworkHealthScore {
	score := models.NetworkHealthScore{LastUpdated: now}

	var sum, present uint32
	if r, ok := metrics[models.AverageBlockTime]; ok {
		score.BlockTimeScore = blockTimeScore(r.Value)
		sum += score.BlockTimeScore
		present++
	}
	if r, ok := metrics[models.TransactionVolume]; ok {
		score.TransactionScore = transactionScore(r.Value)
		sum += score.TransactionScore
		present++
	}
	if r, ok := metrics[models.ValidatorUptime]; ok {
		score.ValidatorScore = validatorScore(r.Value)
		sum += score.ValidatorScore
		present++
	}
	if r, ok := metrics[models.NetworkCongestion]; ok {
		score.CongestionScore = congestionScore(r.Value)
		sum += score.CongestionScore
		present++
	}

	if present > 0 {
		score.OverallScore = sum / present
	}
	score.DataFreshness = freshness(metrics, now)

	return score
}

// blockTimeScore rewards proximity to the target block time:
// 100 * (1000 - min(|value-target|, 1000)) / 1000.
func blockTimeScore(v *uint256.Int) uint32 {
	target := uint256.NewInt(targetBlockTimeMs)
	dev := new(uint256.Int)
	if v.Gt(target) {
		dev.Sub(v, target)
	} else {
		dev.Sub(target, v)
	}

	capped := uint64(maxBlockTimeDeviation)
	if dev.LtUint64(maxBlockTimeDeviation) {
		capped = dev.Uint64()
	}
	return uint32((maxBlockTimeDeviation - capped) * 100 / maxBlockTimeDeviation)
}

// transactionScore is min(value/100, 100): busier networks score higher.
func transactionScore(v *uint256.Int) uint32 {
	if v.GtUint64(100 * 100) {
		return 100
	}
	return uint32(v.Uint64() / 100)
}

// validatorScore converts basis points to a 0-100 score.
func validatorScore(v *uint256.Int) uint32 {
	if v.GtUint64(uptimeBasisPoints) {
		return uptimeBasisPoints / 100
	}
	return uint32(v.Uint64() / 100)
}

// congestionScore is 100 - min(value, 100): lower congestion scores higher.
func congestionScore(v *uint256.Int) uint32 {
	if v.GtUint64(100) {
		return 0
	}
	return 100 - uint32(v.Uint64())
}

// freshness is the mean, over the core categories that are present, of a
// step function of record age.
func freshness(metrics map[models.MetricCategory]models.MetricRecord, now uint64) uint8 {
	var total, count uint32
	for _, category := range coreCategories {
		record, ok := metrics[category]
		if !ok {
			continue
		}
		var age uint64
		if now > record.Timestamp {
			age = now - record.Timestamp
		}
		total += stepFreshness(age)
		count++
	}
	if count == 0 {
		return 0
	}
	return uint8(total / count)
}

func stepFreshness(ageMs uint64) uint32 {
	switch {
	case ageMs < hourMs:
		return 100
	case ageMs < 2*hourMs:
		return 80
	case ageMs < 6*hourMs:
		return 60
	case ageMs < 12*hourMs:
		return 40
	default:
		return 20
	}
}
