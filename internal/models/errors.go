package models

import "errors"

// Submission and query failures. Every failure path in the ledger returns
// one of these (possibly wrapped); nothing aborts the process.
var (
	// ErrUnauthorizedReporter means the submitter is not in the trusted set.
	ErrUnauthorizedReporter = errors.New("unauthorized reporter")

	// ErrMalformedProof means the proof bytes or public inputs are empty.
	ErrMalformedProof = errors.New("malformed proof")

	// ErrValueMismatch means the first public input does not equal the
	// claimed submission value.
	ErrValueMismatch = errors.New("proof value mismatch")

	// ErrInvalidProof means the cryptographic engine rejected the proof.
	ErrInvalidProof = errors.New("invalid proof")

	// ErrInsufficientSources means the submission carried no data sources.
	ErrInsufficientSources = errors.New("insufficient data sources")

	// ErrUnknownCategory is reserved for administrative paths that require
	// an existing category. Reads of never-admitted categories return no
	// record instead.
	ErrUnknownCategory = errors.New("unknown metric category")
)
