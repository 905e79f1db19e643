package models

import "time"

// MetricHistory is the append-only persistence mirror of admitted records.
// The in-memory ledger stays latest-per-category; every admission is also
// appended here to back time-range queries. Values are stored as decimal
// strings since they can exceed 64 bits.
type MetricHistory struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Category         string    `gorm:"index;not null" json:"category"`
	Value            string    `gorm:"not null" json:"value"`
	Timestamp        uint64    `gorm:"not null;index" json:"timestamp"`
	ProofRef         uint64    `gorm:"not null" json:"proof_ref"`
	PrivacyLevel     string    `gorm:"not null" json:"privacy_level"`
	DataQualityScore uint8     `gorm:"not null" json:"data_quality_score"`
	SourceReporter   string    `gorm:"index;not null" json:"source_reporter"`
	CreatedAt        time.Time `json:"created_at"`
}

// StoredProof is the persisted form of an admitted proof, keyed by the
// proof reference derived from the admission timestamp. Immutable once
// written.
type StoredProof struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ProofRef        uint64    `gorm:"uniqueIndex;not null" json:"proof_ref"`
	ProofBytes      []byte    `gorm:"not null" json:"proof_bytes"`
	PublicInputs    string    `gorm:"not null" json:"public_inputs"` // decimal strings, comma separated
	VerificationKey []byte    `json:"verification_key"`
	CircuitID       uint32    `json:"circuit_id"`
	CreatedAt       time.Time `json:"created_at"`
}
