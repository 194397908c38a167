// internal/fee/planner.go
package fee

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/tokensim/internal/authority"
	"github.com/rovshanmuradov/tokensim/internal/token"
)

// Базовые параметры сети Solana
const (
	LamportsPerSignature uint64 = 5000

	// Rent: (128 + size) * lamports_per_byte_year * exemption_threshold
	AccountStorageOverhead uint64 = 128
	LamportsPerByteYear    uint64 = 3480
	ExemptionThreshold     uint64 = 2

	MintAccountSize     uint64 = 82
	TokenAccountSize    uint64 = 165
	MetadataAccountSize uint64 = 679

	microLamportsPerLamport uint64 = 1_000_000
)

type PriorityLevel string

const (
	PriorityNone    PriorityLevel = "none"
	PriorityLow     PriorityLevel = "low"
	PriorityMedium  PriorityLevel = "medium"
	PriorityHigh    PriorityLevel = "high"
	PriorityExtreme PriorityLevel = "extreme"
)

type PriorityConfig struct {
	ComputeUnits uint32 // Number of compute units
	PriorityFee  uint64 // Priority fee in micro-lamports per compute unit
}

// Lamports returns the priority surcharge for one transaction, rounded up.
func (p PriorityConfig) Lamports() uint64 {
	micro := uint64(p.ComputeUnits) * p.PriorityFee
	return (micro + microLamportsPerLamport - 1) / microLamportsPerLamport
}

// Step is one simulated transaction in a token launch.
type Step struct {
	Name       string `json:"name" yaml:"name"`
	Signatures int    `json:"signatures" yaml:"signatures"`
	RentBytes  uint64 `json:"rent_bytes,omitempty" yaml:"rent_bytes,omitempty"`
}

// Plan describes the transactions whose cost should be estimated.
type Plan struct {
	Steps    []Step
	Priority PriorityLevel
	Custom   *PriorityConfig
}

// Breakdown is the planner's result in lamports.
type Breakdown struct {
	BaseFee     uint64 `json:"base_fee" yaml:"base_fee"`
	PriorityFee uint64 `json:"priority_fee" yaml:"priority_fee"`
	Rent        uint64 `json:"rent" yaml:"rent"`
	Total       uint64 `json:"total" yaml:"total"`
	Steps       []Step `json:"steps" yaml:"steps"`
}

// RentExempt returns the rent-exempt minimum for an account of size bytes.
func RentExempt(size uint64) uint64 {
	return (AccountStorageOverhead + size) * LamportsPerByteYear * ExemptionThreshold
}

// LaunchPlan mirrors the spl-token workflow: create mint, create the
// associated account, mint supply, attach metadata, then one authorize
// transaction per revoked authority.
func LaunchPlan(cfg token.Config, revoked []authority.Flag, priority PriorityLevel) Plan {
	steps := []Step{
		{Name: "create-token " + cfg.Symbol, Signatures: 2, RentBytes: MintAccountSize},
		{Name: "create-account", Signatures: 1, RentBytes: TokenAccountSize},
		{Name: "mint", Signatures: 1},
		{Name: "create-metadata", Signatures: 1, RentBytes: MetadataAccountSize},
	}
	for _, f := range revoked {
		steps = append(steps, Step{Name: "revoke-" + f.String(), Signatures: 1})
	}
	return Plan{Steps: steps, Priority: priority}
}

// Planner хранит профили приоритета, аналогично PriorityManager
type Planner struct {
	profiles map[PriorityLevel]*PriorityConfig
	logger   *zap.Logger
}

func NewPlanner(logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{
		profiles: map[PriorityLevel]*PriorityConfig{
			PriorityNone: {},
			PriorityLow: {
				ComputeUnits: 200_000,
				PriorityFee:  1_000,
			},
			PriorityMedium: {
				ComputeUnits: 400_000,
				PriorityFee:  5_000,
			},
			PriorityHigh: {
				ComputeUnits: 800_000,
				PriorityFee:  10_000,
			},
			PriorityExtreme: {
				ComputeUnits: 1_000_000,
				PriorityFee:  50_000,
			},
		},
		logger: logger.Named("fee_planner"),
	}
}

// Profile returns the priority configuration for a level.
func (p *Planner) Profile(level PriorityLevel) (PriorityConfig, error) {
	if level == "" {
		level = PriorityNone
	}
	cfg, ok := p.profiles[PriorityLevel(strings.ToLower(string(level)))]
	if !ok {
		return PriorityConfig{}, &Error{Op: "plan", Err: fmt.Errorf("unknown priority level: %s", level)}
	}
	return *cfg, nil
}

// Lamports sums base, priority and rent costs over the plan.
func (p *Planner) Lamports(plan Plan) (Breakdown, error) {
	priority := PriorityConfig{}
	if plan.Custom != nil {
		priority = *plan.Custom
	} else {
		var err error
		if priority, err = p.Profile(plan.Priority); err != nil {
			return Breakdown{}, err
		}
	}
	perTx := priority.Lamports()

	var b Breakdown
	for _, step := range plan.Steps {
		if step.Signatures < 1 {
			return Breakdown{}, &Error{Op: "plan", Err: fmt.Errorf("step %q needs at least one signature", step.Name)}
		}
		b.BaseFee += uint64(step.Signatures) * LamportsPerSignature
		b.PriorityFee += perTx
		if step.RentBytes > 0 {
			b.Rent += RentExempt(step.RentBytes)
		}
	}
	b.Total = b.BaseFee + b.PriorityFee + b.Rent
	b.Steps = append([]Step(nil), plan.Steps...)

	p.logger.Debug("Launch cost planned",
		zap.Int("steps", len(plan.Steps)),
		zap.Uint64("base_fee", b.BaseFee),
		zap.Uint64("priority_fee", b.PriorityFee),
		zap.Uint64("rent", b.Rent),
		zap.Uint64("total", b.Total))

	return b, nil
}
