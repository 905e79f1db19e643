// Package privacy maps stored metric records to disclosure-appropriate
// projections. Projection is a pure function of (record, level): the stored
// record is never mutated and the same inputs always yield the same output.
package privacy

import (
	"github.com/holiman/uint256"
	"github.com/polyvisor/metric-ledger/internal/models"
)

// Rounding units per level. Values are rounded down to the nearest multiple.
const (
	maximumUnit = 1000
	highUnit    = 100
	mediumUnit  = 10

	// quality scores at High disclosure round down to the nearest 10
	highQualityUnit = 10
)

// Project returns the view of record appropriate for the caller's privacy
// level. Timestamp and proof reference are never altered.
func Project(record models.MetricRecord, level models.PrivacyLevel) models.MetricRecord {
	out := record.Clone()

	switch level {
	case models.PrivacyMaximum:
		out.Value = roundDown(out.Value, maximumUnit)
		out.DataQualityScore = 0
		out.SourceReporter = models.AnonymousReporter
	case models.PrivacyHigh:
		out.Value = roundDown(out.Value, highUnit)
		out.DataQualityScore = (out.DataQualityScore / highQualityUnit) * highQualityUnit
		out.SourceReporter = models.AnonymousReporter
	case models.PrivacyMedium:
		out.Value = roundDown(out.Value, mediumUnit)
		out.SourceReporter = models.AnonymousReporter
	case models.PrivacyLow:
		out.SourceReporter = models.AnonymousReporter
	case models.PrivacyMinimal:
		// full disclosure
	}

	return out
}

func roundDown(v *uint256.Int, unit uint64) *uint256.Int {
	u := uint256.NewInt(unit)
	q := new(uint256.Int).Div(v, u)
	return q.Mul(q, u)
}
