// Package proof implements the structural admission gate for submitted
// proofs and the data-quality heuristic that feeds reporter reputation.
package proof

import (
	"github.com/holiman/uint256"
	"github.com/polyvisor/metric-ledger/internal/engine"
	"github.com/polyvisor/metric-ledger/internal/models"
)

// Quality scoring starts at 100 and applies each penalty at most once.
const (
	baseQualityScore = 100

	// fewer than minSourceCount data sources
	fewSourcesPenalty = 20
	minSourceCount    = 3

	// distinct source types cover less than half the sources
	lowDiversityPenalty = 15

	// verification key shorter than minKeyLen bytes, a proxy for circuit
	// strength
	weakKeyPenalty = 10
	minKeyLen      = 100
)

// Verifier performs the structural proof checks and quality scoring. The
// cryptographic check is delegated to the injected engine.
type Verifier struct {
	engine engine.Engine
}

// NewVerifier creates a verifier backed by the given cryptographic engine.
func NewVerifier(eng engine.Engine) *Verifier {
	return &Verifier{engine: eng}
}

// Verify runs the admission checks in order, short-circuiting on the first
// failure, and returns the data-quality score for an accepted submission.
//
// Check order: empty proof bytes, empty public inputs, first public input vs
// claimed value, empty data sources, then the cryptographic engine.
func (v *Verifier) Verify(
	p *models.Proof,
	claimedValue *uint256.Int,
	sources []models.DataSource,
) (uint8, error) {
	if len(p.ProofBytes) == 0 {
		return 0, models.ErrMalformedProof
	}
	if len(p.PublicInputs) == 0 {
		return 0, models.ErrMalformedProof
	}
	if !p.PublicInputs[0].Eq(claimedValue) {
		return 0, models.ErrValueMismatch
	}
	if len(sources) == 0 {
		return 0, models.ErrInsufficientSources
	}
	if !v.engine.Check(p) {
		return 0, models.ErrInvalidProof
	}
	return QualityScore(p, sources), nil
}

// QualityScore rates the evidentiary strength of a submission, 0-100. It is
// a heuristic feeding reputation, not a security control: a valid proof with
// a low score is still admitted.
func QualityScore(p *models.Proof, sources []models.DataSource) uint8 {
	score := baseQualityScore

	if len(sources) < minSourceCount {
		score -= fewSourcesPenalty
	}

	distinct := make(map[models.SourceType]struct{})
	for _, s := range sources {
		distinct[s.SourceType] = struct{}{}
	}
	if 2*len(distinct) < len(sources) {
		score -= lowDiversityPenalty
	}

	if len(p.VerificationKey) < minKeyLen {
		score -= weakKeyPenalty
	}

	if score < 0 {
		score = 0
	}
	return uint8(score)
}
