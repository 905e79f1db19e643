// Package ledger implements the privacy-preserving metric ledger: a
// serialized state machine that admits proven metric submissions, classifies
// them for disclosure, and keeps the reporter reputation ledger. Mutations
// are applied one at a time; reads see consistent snapshots.
package ledger

import (
	"sync"
	"time"

	"github.com/holiman/uint256"
	"github.com/polyvisor/metric-ledger/internal/admission"
	"github.com/polyvisor/metric-ledger/internal/events"
	"github.com/polyvisor/metric-ledger/internal/health"
	"github.com/polyvisor/metric-ledger/internal/models"
	"github.com/polyvisor/metric-ledger/internal/privacy"
	"github.com/polyvisor/metric-ledger/internal/proof"
	"github.com/polyvisor/metric-ledger/internal/reputation"
)

// Clock supplies the logical admission time in unix milliseconds.
type Clock func() uint64

// Ledger owns the metric store, trust set, privacy settings, proof index and
// reputation ledger. Nothing outside this package mutates them.
type Ledger struct {
	mu sync.RWMutex

	metrics    map[models.MetricCategory]models.MetricRecord
	proofs     map[uint64]*models.Proof
	privacyMap map[string]models.PrivacyLevel
	trustSet   *admission.Registry
	reputation *reputation.Ledger

	verifier *proof.Verifier
	sink     events.Sink

	clock    Clock
	lastTick uint64
}

// New builds a ledger around the given verifier and event sink. A nil clock
// uses wall time; either way admission timestamps are bumped to be strictly
// increasing so proof references derived from them never collide.
func New(verifier *proof.Verifier, sink events.Sink, clock Clock) *Ledger {
	if clock == nil {
		clock = func() uint64 { return uint64(time.Now().UnixMilli()) }
	}
	if sink == nil {
		sink = events.NopSink{}
	}
	return &Ledger{
		metrics:    make(map[models.MetricCategory]models.MetricRecord),
		proofs:     make(map[uint64]*models.Proof),
		privacyMap: make(map[string]models.PrivacyLevel),
		trustSet:   admission.NewRegistry(),
		reputation: reputation.NewLedger(),
		verifier:   verifier,
		sink:       sink,
		clock:      clock,
	}
}

// tick returns the next admission timestamp. Must be called with the write
// lock held.
func (l *Ledger) tick() uint64 {
	now := l.clock()
	if now <= l.lastTick {
		now = l.lastTick + 1
	}
	l.lastTick = now
	return now
}

// RegisterReporter adds a reporter to the trusted set. Idempotent: only the
// first registration emits an event. Caller authorization is enforced by
// the surrounding layer.
func (l *Ledger) RegisterReporter(reporter string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.trustSet.IsTrusted(reporter) {
		return
	}
	l.trustSet.Register(reporter)
	l.sink.TrustedReporterAdded(events.TrustedReporterAdded{
		Reporter:  reporter,
		Timestamp: l.tick(),
	})
}

// IsTrusted reports whether the reporter may submit metrics.
func (l *Ledger) IsTrusted(reporter string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.trustSet.IsTrusted(reporter)
}

// TrustedReporters returns the current trust-set membership.
func (l *Ledger) TrustedReporters() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.trustSet.List()
}

// SetPrivacyLevel updates the caller's default disclosure level. Future
// submissions from the caller are classified at the new level; already
// admitted records keep the level they were admitted with.
func (l *Ledger) SetPrivacyLevel(caller string, level models.PrivacyLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.privacyMap[caller] = level
	l.sink.PrivacyLevelUpdated(events.PrivacyLevelUpdated{
		Caller:    caller,
		NewLevel:  level,
		Timestamp: l.tick(),
	})
}

// PrivacyLevelOf returns the caller's default level, High when unset.
func (l *Ledger) PrivacyLevelOf(caller string) models.PrivacyLevel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.privacyLevelLocked(caller)
}

func (l *Ledger) privacyLevelLocked(caller string) models.PrivacyLevel {
	if level, ok := l.privacyMap[caller]; ok {
		return level
	}
	return models.DefaultPrivacyLevel
}

// SubmitMetric runs the full admission pipeline for one submission and
// returns the admitted record. On any rejection the store, proof index and
// reputation ledger are left untouched.
func (l *Ledger) SubmitMetric(
	reporter string,
	category models.MetricCategory,
	value *uint256.Int,
	p *models.Proof,
	sources []models.DataSource,
) (models.MetricRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.submitLocked(reporter, category, value, p, sources)
}

func (l *Ledger) submitLocked(
	reporter string,
	category models.MetricCategory,
	value *uint256.Int,
	p *models.Proof,
	sources []models.DataSource,
) (models.MetricRecord, error) {
	if !l.trustSet.IsTrusted(reporter) {
		return models.MetricRecord{}, models.ErrUnauthorizedReporter
	}

	qualityScore, err := l.verifier.Verify(p, value, sources)
	if err != nil {
		return models.MetricRecord{}, err
	}

	now := l.tick()
	proofRef := now
	l.proofs[proofRef] = p

	record := models.MetricRecord{
		Category:         category,
		Value:            new(uint256.Int).Set(value),
		Timestamp:        now,
		ProofRef:         proofRef,
		PrivacyLevel:     l.privacyLevelLocked(reporter),
		DataQualityScore: qualityScore,
		SourceReporter:   reporter,
	}
	l.metrics[category] = record

	l.reputation.Record(reporter, qualityScore, now)

	l.sink.MetricSubmitted(events.MetricSubmitted{
		Category:     category,
		Value:        record.Value,
		QualityScore: qualityScore,
		Reporter:     reporter,
		Timestamp:    now,
	})

	return record.Clone(), nil
}

// Submission is one element of a batch.
type Submission struct {
	Category models.MetricCategory
	Value    *uint256.Int
	Proof    *models.Proof
	Sources  []models.DataSource
}

// BatchResult reports the outcome of one batch element.
type BatchResult struct {
	Record models.MetricRecord
	Err    error
}

// SubmitBatch applies each submission independently under one serialized
// state transition. A failing element does not roll back elements already
// applied; each result is reported on its own.
func (l *Ledger) SubmitBatch(reporter string, subs []Submission) []BatchResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	results := make([]BatchResult, len(subs))
	for i, sub := range subs {
		record, err := l.submitLocked(reporter, sub.Category, sub.Value, sub.Proof, sub.Sources)
		results[i] = BatchResult{Record: record, Err: err}
	}
	return results
}

// GetMetric returns the caller-appropriate projection of the latest record
// for the category, or false when the category has never been admitted.
func (l *Ledger) GetMetric(caller string, category models.MetricCategory) (models.MetricRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	record, ok := l.metrics[category]
	if !ok {
		return models.MetricRecord{}, false
	}
	return privacy.Project(record, l.privacyLevelLocked(caller)), true
}

// GetHealthScore computes the composite score over the currently admitted
// core metrics.
func (l *Ledger) GetHealthScore() models.NetworkHealthScore {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return health.Score(l.metrics, l.clock())
}

// GetReputation returns the reporter's contribution statistics, or nil when
// the reporter has never contributed.
func (l *Ledger) GetReputation(reporter string) *models.ContributorInfo {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.reputation.Get(reporter)
}

// GetProof returns the proof stored under the given reference.
func (l *Ledger) GetProof(proofRef uint64) (*models.Proof, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.proofs[proofRef]
	return p, ok
}

// VerifyProofPublic re-checks the structure of a stored proof. Anyone may
// call it; it discloses nothing beyond well-formedness.
func (l *Ledger) VerifyProofPublic(proofRef uint64) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	p, ok := l.proofs[proofRef]
	if !ok {
		return false
	}
	return len(p.ProofBytes) > 0 && len(p.PublicInputs) > 0
}
