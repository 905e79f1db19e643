package models

import (
	"fmt"

	"github.com/holiman/uint256"
)

// MetricCategory identifies one of the tracked network-quality metrics.
// The set is closed: anything else is rejected at the API boundary.
type MetricCategory string

const (
	AverageBlockTime  MetricCategory = "average_block_time" // milliseconds
	TransactionVolume MetricCategory = "transaction_volume" // tx per second
	ValidatorUptime   MetricCategory = "validator_uptime"   // basis points, 10000 = 100%
	NetworkCongestion MetricCategory = "network_congestion" // percent
	ChainActivity     MetricCategory = "chain_activity"     // activity score
	GasUsage          MetricCategory = "gas_usage"          // gas units
	NetworkLatency    MetricCategory = "network_latency"    // milliseconds
)

// AllCategories lists every valid metric category.
var AllCategories = []MetricCategory{
	AverageBlockTime,
	TransactionVolume,
	ValidatorUptime,
	NetworkCongestion,
	ChainActivity,
	GasUsage,
	NetworkLatency,
}

// ParseCategory maps a wire string to a MetricCategory.
func ParseCategory(s string) (MetricCategory, error) {
	for _, c := range AllCategories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown metric category %q", s)
}

// PrivacyLevel classifies how much of a metric record a reader may see.
type PrivacyLevel string

const (
	PrivacyMaximum PrivacyLevel = "maximum"
	PrivacyHigh    PrivacyLevel = "high"
	PrivacyMedium  PrivacyLevel = "medium"
	PrivacyLow     PrivacyLevel = "low"
	PrivacyMinimal PrivacyLevel = "minimal"
)

// DefaultPrivacyLevel applies to callers that never set a level.
const DefaultPrivacyLevel = PrivacyHigh

// ParsePrivacyLevel maps a wire string to a PrivacyLevel.
func ParsePrivacyLevel(s string) (PrivacyLevel, error) {
	switch PrivacyLevel(s) {
	case PrivacyMaximum, PrivacyHigh, PrivacyMedium, PrivacyLow, PrivacyMinimal:
		return PrivacyLevel(s), nil
	}
	return "", fmt.Errorf("unknown privacy level %q", s)
}

// AnonymousReporter is the identifier shown in place of the real source
// reporter when a projection anonymizes it.
const AnonymousReporter = ""

// MetricRecord is the latest admitted value for one category. The privacy
// level is the submitting reporter's default at admission time and never
// changes afterwards.
type MetricRecord struct {
	Category         MetricCategory
	Value            *uint256.Int
	Timestamp        uint64 // logical clock, unix milliseconds
	ProofRef         uint64
	PrivacyLevel     PrivacyLevel
	DataQualityScore uint8 // 0-100
	SourceReporter   string
}

// Clone returns a deep copy so projections never alias the stored value.
func (r MetricRecord) Clone() MetricRecord {
	out := r
	if r.Value != nil {
		out.Value = new(uint256.Int).Set(r.Value)
	}
	return out
}

// Proof is the opaque proof object accompanying a submission. The
// cryptographic check is delegated to an external engine; the ledger only
// inspects its structure.
type Proof struct {
	ProofBytes      []byte
	PublicInputs    []*uint256.Int
	VerificationKey []byte
	CircuitID       uint32
}

// SourceType classifies where a data source observation came from.
type SourceType string

const (
	SourceValidatorNode  SourceType = "validator_node"
	SourceFullNode       SourceType = "full_node"
	SourceLightNode      SourceType = "light_node"
	SourceParachain      SourceType = "parachain"
	SourceRelayChain     SourceType = "relay_chain"
	SourceExternalOracle SourceType = "external_oracle"
)

// ParseSourceType maps a wire string to a SourceType.
func ParseSourceType(s string) (SourceType, error) {
	switch SourceType(s) {
	case SourceValidatorNode, SourceFullNode, SourceLightNode,
		SourceParachain, SourceRelayChain, SourceExternalOracle:
		return SourceType(s), nil
	}
	return "", fmt.Errorf("unknown source type %q", s)
}

// DataSource is one observation backing a submission. A submission must
// carry at least one.
type DataSource struct {
	SourceType       SourceType
	SourceID         []byte
	Timestamp        uint64
	ReliabilityScore uint8 // 0-100
}

// ContributorInfo tracks a reporter's lifetime contribution statistics.
// Created on first accepted submission, never deleted.
type ContributorInfo struct {
	TotalContributions uint32
	DataQualityAverage uint8 // truncating running mean
	LastContribution   uint64
	ReputationScore    uint32 // cumulative, monotonically increasing
	VerificationCount  uint32
}

// NetworkHealthScore is the composite health summary over the four core
// categories. Sub-scores for absent categories are zero and excluded from
// the overall mean.
type NetworkHealthScore struct {
	OverallScore     uint32 `json:"overall_score"`
	BlockTimeScore   uint32 `json:"block_time_score"`
	TransactionScore uint32 `json:"transaction_score"`
	ValidatorScore   uint32 `json:"validator_score"`
	CongestionScore  uint32 `json:"congestion_score"`
	LastUpdated      uint64 `json:"last_updated"`
	DataFreshness    uint8  `json:"data_freshness"`
}
