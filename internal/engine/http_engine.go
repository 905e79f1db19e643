package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/polyvisor/metric-ledger/internal/models"
	"github.com/polyvisor/metric-ledger/pkg/logger"
	"go.uber.org/zap"
)

// HTTPEngine delegates proof verification to an external verifier service.
// Any transport or decode failure counts as a rejection: the ledger never
// admits a proof it could not get a positive verdict for.
type HTTPEngine struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewHTTPEngine builds an engine client for the verifier at baseURL.
func NewHTTPEngine(baseURL, apiKey string) *HTTPEngine {
	return &HTTPEngine{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type verifyRequest struct {
	ProofBytes      []byte   `json:"proof_bytes"`
	PublicInputs    []string `json:"public_inputs"`
	VerificationKey []byte   `json:"verification_key"`
	CircuitID       uint32   `json:"circuit_id"`
}

type verifyResponse struct {
	IsValid bool `json:"is_valid"`
}

func (e *HTTPEngine) Check(proof *models.Proof) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	inputs := make([]string, len(proof.PublicInputs))
	for i, in := range proof.PublicInputs {
		inputs[i] = in.Dec()
	}

	body, err := json.Marshal(verifyRequest{
		ProofBytes:      proof.ProofBytes,
		PublicInputs:    inputs,
		VerificationKey: proof.VerificationKey,
		CircuitID:       proof.CircuitID,
	})
	if err != nil {
		logger.Error("Failed to encode verify request", zap.Error(err))
		return false
	}

	url := fmt.Sprintf("%s/v1/verify", e.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		logger.Error("Failed to create verify request", zap.Error(err))
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		logger.Error("Verifier request failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Error("Verifier returned non-OK status",
			zap.Int("status", resp.StatusCode),
		)
		return false
	}

	var result verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		logger.Error("Failed to decode verifier response", zap.Error(err))
		return false
	}

	return result.IsValid
}
