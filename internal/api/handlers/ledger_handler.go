package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/holiman/uint256"
	"github.com/polyvisor/metric-ledger/internal/ledger"
	"github.com/polyvisor/metric-ledger/internal/models"
	"github.com/polyvisor/metric-ledger/internal/service"
	"github.com/polyvisor/metric-ledger/pkg/logger"
	"go.uber.org/zap"
)

// callerHeader identifies the reading caller; their default privacy level
// keys the projection they receive.
const callerHeader = "X-Caller-ID"

// LedgerHandler handles metric ledger API requests.
type LedgerHandler struct {
	service *service.LedgerService
}

// NewLedgerHandler creates a new ledger handler.
func NewLedgerHandler(service *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		service: service,
	}
}

// ErrorResponse is the common error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ProofDTO carries an opaque proof over the wire. Byte fields are base64;
// public inputs are decimal strings since they can exceed 64 bits.
type ProofDTO struct {
	ProofBytes      []byte   `json:"proof_bytes"`
	PublicInputs    []string `json:"public_inputs"`
	VerificationKey []byte   `json:"verification_key"`
	CircuitID       uint32   `json:"circuit_id"`
}

// DataSourceDTO is one data source observation.
type DataSourceDTO struct {
	SourceType       string `json:"source_type" binding:"required"`
	SourceID         []byte `json:"source_id"`
	Timestamp        uint64 `json:"timestamp"`
	ReliabilityScore uint8  `json:"reliability_score"`
}

// SubmitMetricRequest is one metric submission.
type SubmitMetricRequest struct {
	Reporter    string          `json:"reporter" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	Value       string          `json:"value" binding:"required"`
	Proof       ProofDTO        `json:"proof"`
	DataSources []DataSourceDTO `json:"data_sources"`
}

// SubmitBatchRequest carries several submissions from one reporter.
type SubmitBatchRequest struct {
	Reporter    string            `json:"reporter" binding:"required"`
	Submissions []BatchSubmission `json:"submissions" binding:"required"`
}

// BatchSubmission is one element of a batch request.
type BatchSubmission struct {
	Category    string          `json:"category" binding:"required"`
	Value       string          `json:"value" binding:"required"`
	Proof       ProofDTO        `json:"proof"`
	DataSources []DataSourceDTO `json:"data_sources"`
}

// MetricRecordResponse is the disclosed view of a metric record.
type MetricRecordResponse struct {
	Category         string `json:"category"`
	Value            string `json:"value"`
	Timestamp        uint64 `json:"timestamp"`
	ProofRef         uint64 `json:"proof_ref"`
	PrivacyLevel     string `json:"privacy_level"`
	DataQualityScore uint8  `json:"data_quality_score"`
	SourceReporter   string `json:"source_reporter"`
}

// BatchItemResult reports the outcome of one batch element.
type BatchItemResult struct {
	Admitted bool                  `json:"admitted"`
	Error    string                `json:"error,omitempty"`
	Record   *MetricRecordResponse `json:"record,omitempty"`
}

// ContributorResponse is a reporter's reputation summary.
type ContributorResponse struct {
	Reporter           string `json:"reporter"`
	TotalContributions uint32 `json:"total_contributions"`
	DataQualityAverage uint8  `json:"data_quality_average"`
	LastContribution   uint64 `json:"last_contribution"`
	ReputationScore    uint32 `json:"reputation_score"`
	VerificationCount  uint32 `json:"verification_count"`
}

// SetPrivacyLevelRequest updates a caller's default disclosure level.
type SetPrivacyLevelRequest struct {
	CallerID string `json:"caller_id" binding:"required"`
	Level    string `json:"level" binding:"required"`
}

// RegisterReporterRequest adds a reporter to the trusted set.
type RegisterReporterRequest struct {
	ReporterID string `json:"reporter_id" binding:"required"`
}

func recordResponse(r models.MetricRecord) MetricRecordResponse {
	return MetricRecordResponse{
		Category:         string(r.Category),
		Value:            r.Value.Dec(),
		Timestamp:        r.Timestamp,
		ProofRef:         r.ProofRef,
		PrivacyLevel:     string(r.PrivacyLevel),
		DataQualityScore: r.DataQualityScore,
		SourceReporter:   r.SourceReporter,
	}
}

func decodeProof(dto ProofDTO) (*models.Proof, error) {
	inputs := make([]*uint256.Int, len(dto.PublicInputs))
	for i, raw := range dto.PublicInputs {
		v, err := uint256.FromDecimal(raw)
		if err != nil {
			return nil, errors.New("public input " + strconv.Itoa(i) + " is not a valid decimal value")
		}
		inputs[i] = v
	}
	return &models.Proof{
		ProofBytes:      dto.ProofBytes,
		PublicInputs:    inputs,
		VerificationKey: dto.VerificationKey,
		CircuitID:       dto.CircuitID,
	}, nil
}

func decodeSources(dtos []DataSourceDTO) ([]models.DataSource, error) {
	sources := make([]models.DataSource, 0, len(dtos))
	for _, dto := range dtos {
		st, err := models.ParseSourceType(dto.SourceType)
		if err != nil {
			return nil, err
		}
		sources = append(sources, models.DataSource{
			SourceType:       st,
			SourceID:         dto.SourceID,
			Timestamp:        dto.Timestamp,
			ReliabilityScore: dto.ReliabilityScore,
		})
	}
	return sources, nil
}

// submissionErrorCode maps ledger rejections to stable API codes.
func submissionErrorCode(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrUnauthorizedReporter):
		return http.StatusForbidden, "UNAUTHORIZED_REPORTER"
	case errors.Is(err, models.ErrMalformedProof):
		return http.StatusBadRequest, "MALFORMED_PROOF"
	case errors.Is(err, models.ErrValueMismatch):
		return http.StatusBadRequest, "VALUE_MISMATCH"
	case errors.Is(err, models.ErrInsufficientSources):
		return http.StatusBadRequest, "INSUFFICIENT_SOURCES"
	case errors.Is(err, models.ErrInvalidProof):
		return http.StatusBadRequest, "INVALID_PROOF"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// SubmitMetric admits a single metric submission.
func (h *LedgerHandler) SubmitMetric(c *gin.Context) {
	var req SubmitMetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	category, err := models.ParseCategory(req.Category)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid category", Message: err.Error()})
		return
	}

	value, err := uint256.FromDecimal(req.Value)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid value", Message: err.Error()})
		return
	}

	p, err := decodeProof(req.Proof)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid proof", Message: err.Error()})
		return
	}

	sources, err := decodeSources(req.DataSources)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid data source", Message: err.Error()})
		return
	}

	record, err := h.service.SubmitMetric(c.Request.Context(), req.Reporter, category, value, p, sources)
	if err != nil {
		status, code := submissionErrorCode(err)
		c.JSON(status, ErrorResponse{Error: code, Message: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, recordResponse(record))
}

// SubmitBatch admits several submissions independently; one failing item
// does not roll back the others.
func (h *LedgerHandler) SubmitBatch(c *gin.Context) {
	var req SubmitBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	subs := make([]ledger.Submission, 0, len(req.Submissions))
	results := make([]BatchItemResult, len(req.Submissions))
	decodeFailed := make([]bool, len(req.Submissions))

	for i, item := range req.Submissions {
		category, err := models.ParseCategory(item.Category)
		if err == nil {
			var value *uint256.Int
			value, err = uint256.FromDecimal(item.Value)
			if err == nil {
				var p *models.Proof
				p, err = decodeProof(item.Proof)
				if err == nil {
					var sources []models.DataSource
					sources, err = decodeSources(item.DataSources)
					if err == nil {
						subs = append(subs, ledger.Submission{
							Category: category,
							Value:    value,
							Proof:    p,
							Sources:  sources,
						})
						continue
					}
				}
			}
		}
		decodeFailed[i] = true
		results[i] = BatchItemResult{Admitted: false, Error: err.Error()}
	}

	batchResults := h.service.SubmitBatch(c.Request.Context(), req.Reporter, subs)

	next := 0
	for i := range results {
		if decodeFailed[i] {
			continue
		}
		res := batchResults[next]
		next++
		if res.Err != nil {
			_, code := submissionErrorCode(res.Err)
			results[i] = BatchItemResult{Admitted: false, Error: code}
			continue
		}
		record := recordResponse(res.Record)
		results[i] = BatchItemResult{Admitted: true, Record: &record}
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// GetMetric returns the latest record for a category, projected for the
// caller's privacy level. Unknown or never-admitted categories return 404.
func (h *LedgerHandler) GetMetric(c *gin.Context) {
	category, err := models.ParseCategory(c.Param("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid category", Message: err.Error()})
		return
	}

	caller := c.GetHeader(callerHeader)
	record, ok := h.service.GetMetric(caller, category)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "Metric not found",
			Message: "No record has been admitted for this category",
		})
		return
	}

	c.JSON(http.StatusOK, recordResponse(record))
}

// GetMetricHistory returns projected records in a timestamp range.
func (h *LedgerHandler) GetMetricHistory(c *gin.Context) {
	category, err := models.ParseCategory(c.Param("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid category", Message: err.Error()})
		return
	}

	from, err := strconv.ParseUint(c.DefaultQuery("from", "0"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid from timestamp", Message: err.Error()})
		return
	}
	to, err := strconv.ParseUint(c.DefaultQuery("to", strconv.FormatUint(^uint64(0), 10)), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid to timestamp", Message: err.Error()})
		return
	}

	level, err := models.ParsePrivacyLevel(c.DefaultQuery("level", string(models.DefaultPrivacyLevel)))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid privacy level", Message: err.Error()})
		return
	}

	records, err := h.service.GetHistoricalMetrics(c.Request.Context(), category, from, to, level)
	if err != nil {
		logger.Error("Failed to query metric history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to query history",
			Message: err.Error(),
		})
		return
	}

	responses := make([]MetricRecordResponse, len(records))
	for i, record := range records {
		responses[i] = recordResponse(record)
	}
	c.JSON(http.StatusOK, gin.H{"records": responses})
}

// GetHealthScore returns the composite network health score.
func (h *LedgerHandler) GetHealthScore(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.GetHealthScore())
}

// GetReputation returns a reporter's contribution statistics.
func (h *LedgerHandler) GetReputation(c *gin.Context) {
	reporter := c.Param("reporter")
	info := h.service.GetReputation(reporter)
	if info == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "Reporter not found",
			Message: "No contributions recorded for this reporter",
		})
		return
	}

	c.JSON(http.StatusOK, ContributorResponse{
		Reporter:           reporter,
		TotalContributions: info.TotalContributions,
		DataQualityAverage: info.DataQualityAverage,
		LastContribution:   info.LastContribution,
		ReputationScore:    info.ReputationScore,
		VerificationCount:  info.VerificationCount,
	})
}

// SetPrivacyLevel updates a caller's default disclosure level.
func (h *LedgerHandler) SetPrivacyLevel(c *gin.Context) {
	var req SetPrivacyLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	level, err := models.ParsePrivacyLevel(req.Level)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid privacy level", Message: err.Error()})
		return
	}

	h.service.SetPrivacyLevel(req.CallerID, level)
	c.JSON(http.StatusOK, gin.H{"caller_id": req.CallerID, "level": string(level)})
}

// RegisterReporter adds a reporter to the trusted set. Idempotent.
func (h *LedgerHandler) RegisterReporter(c *gin.Context) {
	var req RegisterReporterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	h.service.RegisterReporter(req.ReporterID)
	c.JSON(http.StatusOK, gin.H{"reporter_id": req.ReporterID, "trusted": true})
}

// ListReporters returns the trust-set membership.
func (h *LedgerHandler) ListReporters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"reporters": h.service.TrustedReporters()})
}

// VerifyProof re-checks the structure of a stored proof by reference.
func (h *LedgerHandler) VerifyProof(c *gin.Context) {
	ref, err := strconv.ParseUint(c.Param("ref"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid proof reference", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"proof_ref": ref, "valid": h.service.VerifyProofPublic(ref)})
}

// GetStats returns aggregate store statistics.
func (h *LedgerHandler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		logger.Error("Failed to get stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to retrieve statistics",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// HealthCheck is the liveness probe.
func (h *LedgerHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
