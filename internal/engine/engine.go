// Package engine abstracts the external cryptographic proof-verification
// collaborator. The ledger treats it as a synchronous predicate: a proof is
// either valid for its circuit or it is not.
package engine

import "github.com/polyvisor/metric-ledger/internal/models"

// Engine checks whether an opaque proof is cryptographically valid for its
// stated circuit. Structural admission checks happen before this is called.
type Engine interface {
	Check(proof *models.Proof) bool
}

// StaticEngine returns a fixed verdict for every proof. Used when no
// external verifier is configured and in tests.
type StaticEngine struct {
	Verdict bool
}

// NewStaticEngine builds an engine that always returns verdict.
func NewStaticEngine(verdict bool) *StaticEngine {
	return &StaticEngine{Verdict: verdict}
}

func (e *StaticEngine) Check(_ *models.Proof) bool {
	return e.Verdict
}
