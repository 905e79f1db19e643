// Package reputation tracks per-reporter contribution statistics. Reputation
// only ever goes up; quality averages use truncating integer division so the
// ledger stays bit-reproducible across runs.
package reputation

import "github.com/polyvisor/metric-ledger/internal/models"

// Ledger holds ContributorInfo per reporter. Entries are created lazily on
// first accepted submission and never deleted.
type Ledger struct {
	contributors map[string]*models.ContributorInfo
}

// NewLedger creates an empty reputation ledger.
func NewLedger() *Ledger {
	return &Ledger{contributors: make(map[string]*models.ContributorInfo)}
}

// Record applies one accepted submission with the given quality score at the
// given logical time.
func (l *Ledger) Record(reporter string, qualityScore uint8, now uint64) {
	info, ok := l.contributors[reporter]
	if !ok {
		l.contributors[reporter] = &models.ContributorInfo{
			TotalContributions: 1,
			DataQualityAverage: qualityScore,
			LastContribution:   now,
			ReputationScore:    uint32(qualityScore),
			VerificationCount:  1,
		}
		return
	}

	info.TotalContributions++
	// Truncating running mean. The division deliberately drops the
	// remainder: reproducibility of the exact integer result is the
	// contract here.
	info.DataQualityAverage = uint8(
		(uint32(info.DataQualityAverage)*(info.TotalContributions-1) +
			uint32(qualityScore)) / info.TotalContributions,
	)
	info.LastContribution = now
	info.ReputationScore += uint32(qualityScore)
	info.VerificationCount++
}

// Get returns a copy of the reporter's statistics, or nil if the reporter
// has never contributed.
func (l *Ledger) Get(reporter string) *models.ContributorInfo {
	info, ok := l.contributors[reporter]
	if !ok {
		return nil
	}
	copied := *info
	return &copied
}

// Len returns the number of reporters with recorded contributions.
func (l *Ledger) Len() int {
	return len(l.contributors)
}
