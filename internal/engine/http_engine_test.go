package engine

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/holiman/uint256"
	"github.com/polyvisor/metric-ledger/internal/models"
	"github.com/polyvisor/metric-ledger/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	m.Run()
}

func sampleProof() *models.Proof {
	return &models.Proof{
		ProofBytes:      []byte{1, 2, 3},
		PublicInputs:    []*uint256.Int{uint256.NewInt(6125)},
		VerificationKey: []byte{9, 9},
		CircuitID:       7,
	}
}

func TestHTTPEngineVerdict(t *testing.T) {
	tests := []struct {
		name    string
		isValid bool
	}{
		{"valid proof", true},
		{"invalid proof", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/verify" {
					t.Errorf("path = %s, want /v1/verify", r.URL.Path)
				}
				if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
					t.Errorf("authorization = %q, want bearer token", auth)
				}

				var req verifyRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Fatalf("decode request: %v", err)
				}
				if len(req.PublicInputs) != 1 || req.PublicInputs[0] != "6125" {
					t.Errorf("public inputs = %v, want [6125]", req.PublicInputs)
				}
				if req.CircuitID != 7 {
					t.Errorf("circuit id = %d, want 7", req.CircuitID)
				}

				json.NewEncoder(w).Encode(verifyResponse{IsValid: tt.isValid})
			}))
			defer server.Close()

			e := NewHTTPEngine(server.URL, "test-key")
			if got := e.Check(sampleProof()); got != tt.isValid {
				t.Errorf("Check() = %v, want %v", got, tt.isValid)
			}
		})
	}
}

func TestHTTPEngineNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	e := NewHTTPEngine(server.URL, "")
	if e.Check(sampleProof()) {
		t.Error("expected rejection on non-OK verifier status")
	}
}

func TestHTTPEngineUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	e := NewHTTPEngine(server.URL, "")
	if e.Check(sampleProof()) {
		t.Error("expected rejection when the verifier is unreachable")
	}
}

func TestStaticEngine(t *testing.T) {
	if !NewStaticEngine(true).Check(sampleProof()) {
		t.Error("static engine with true verdict should accept")
	}
	if NewStaticEngine(false).Check(sampleProof()) {
		t.Error("static engine with false verdict should reject")
	}
}
