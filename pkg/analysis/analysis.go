// Package analysis implements Defender vs. Challenger equipment replacement
// analysis: per-year after-tax cash flows, present value of costs, and the
// Equivalent Annual Cost used to compare assets of unequal lives.
package analysis

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/iwvelando/capital-advisor/pkg/amortization"
	"github.com/iwvelando/capital-advisor/pkg/constants"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Asset holds the attributes of one machine under evaluation. Numeric fields
// left at zero are treated as absent, matching the nullable source records.
type Asset struct {
	Name                        string
	PurchasePrice               float64
	InstallationAndTrainingCost float64
	SetupCosts                  float64
	CurrentResaleValue          float64
	SalvageValue                float64
	// AcquisitionCost is the defender's book-value basis; when zero the
	// purchase price is used instead.
	AcquisitionCost       float64
	AnnualMaintenance     float64
	OperatorLaborRate     float64 // $/hour
	MonthlyOperatingHours float64
	UsefulLifeMonths      int
}

// Parameters holds the financial parameters for one analysis run. WACC and
// TaxRate are fractional (0-1); FinancingRate is a nominal annual percentage.
type Parameters struct {
	WACC            float64
	TaxRate         float64
	FinancingRate   decimal.Decimal
	FinancingMonths int
}

// CashFlowYear holds the values for one year of an asset's cost stream.
type CashFlowYear struct {
	Year             int
	GrossCashFlow    float64
	Depreciation     float64
	TaxShield        float64
	AfterTaxCashFlow float64
	PresentValue     float64
}

// Recommendation labels.
const (
	RecommendDefender   = "Defender"
	RecommendChallenger = "Challenger"
	RecommendTie        = "Tie"
)

// Result holds the outcome of one Defender vs. Challenger comparison.
type Result struct {
	ID              uuid.UUID
	PVDefender      float64
	EACDefender     float64
	PVChallenger    float64
	EACChallenger   float64
	FlowsDefender   []CashFlowYear
	FlowsChallenger []CashFlowYear
	Recommendation  string
	// FinancingSchedule amortizes the challenger's full acquisition cost at
	// the financing rate over the financing term.
	FinancingSchedule []amortization.Row
}

// Analyzer runs replacement analyses.
type Analyzer struct {
	logger    *zap.Logger
	scheduler *amortization.ScheduleGenerator
}

// NewAnalyzer creates a new analyzer instance.
func NewAnalyzer(logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		logger:    logger,
		scheduler: amortization.NewScheduleGenerator(logger),
	}
}

// bookValue resolves the defender's book-value basis.
func bookValue(a Asset) float64 {
	if a.AcquisitionCost != 0 {
		return a.AcquisitionCost
	}
	return a.PurchasePrice
}

// lifeYears converts an asset's useful life to (possibly fractional) years,
// substituting the given default when the life is unset.
func lifeYears(a Asset, defaultMonths int) float64 {
	months := a.UsefulLifeMonths
	if months == 0 {
		months = defaultMonths
	}
	return float64(months) / constants.MonthsPerYear
}

// annualOperatingCost is maintenance plus annualized operator labor.
func annualOperatingCost(a Asset) float64 {
	return a.AnnualMaintenance + a.OperatorLaborRate*a.MonthlyOperatingHours*constants.MonthsPerYear
}

// costStream accumulates the discounted after-tax operating cost stream for
// one asset: straight-line depreciation over the fractional life, the tax
// shield it generates, and the salvage value discounted at the life horizon.
// initialOutlay is the year-0 cash commitment.
func costStream(initialOutlay, depreciableBase float64, asset Asset, params Parameters, life float64) (float64, []CashFlowYear) {
	opEx := annualOperatingCost(asset)
	pv := initialOutlay
	flows := make([]CashFlowYear, 0, int(life))

	for year := 1; year <= int(life); year++ {
		depreciation := (depreciableBase - asset.SalvageValue) / life
		taxShield := depreciation * params.TaxRate
		afterTax := opEx*(1-params.TaxRate) - taxShield
		discounted := afterTax / math.Pow(1+params.WACC, float64(year))

		pv += discounted
		flows = append(flows, CashFlowYear{
			Year:             year,
			GrossCashFlow:    opEx,
			Depreciation:     depreciation,
			TaxShield:        taxShield,
			AfterTaxCashFlow: afterTax,
			PresentValue:     discounted,
		})
	}

	pv -= asset.SalvageValue / math.Pow(1+params.WACC, life)
	return pv, flows
}

// EquivalentAnnualCost spreads a present-value cost evenly over an asset's
// life. Degenerate inputs fall back to a straight division and an infinite
// result is clamped to zero.
func EquivalentAnnualCost(pvCosts, lifeInYears, wacc float64) float64 {
	if lifeInYears <= 0 || wacc <= 0 {
		return pvCosts / math.Max(lifeInYears, 1)
	}

	annuityFactor := (1 - math.Pow(1+wacc, -lifeInYears)) / wacc
	if annuityFactor == 0 {
		return pvCosts
	}

	eac := pvCosts / annuityFactor
	if math.IsInf(eac, 0) {
		return 0
	}
	return eac
}

// AcquisitionCost is the challenger's full initial cash commitment: purchase
// price plus installation/training plus setup costs.
func AcquisitionCost(a Asset) float64 {
	return a.PurchasePrice + a.InstallationAndTrainingCost + a.SetupCosts
}

// Analyze compares keeping the defender against acquiring the challenger and
// recommends the asset with the lower Equivalent Annual Cost.
func (a *Analyzer) Analyze(defender, challenger Asset, params Parameters) Result {
	// Defender: the year-0 outflow is the capital tied up by keeping the
	// asset, i.e. the resale value net of tax on the gain over book value.
	book := bookValue(defender)
	taxOnSale := (defender.CurrentResaleValue - book) * params.TaxRate
	opportunityCost := defender.CurrentResaleValue - taxOnSale

	defenderLife := lifeYears(defender, constants.DefaultDefenderLifeMonths)
	pvDefender, flowsDefender := costStream(opportunityCost, book, defender, params, defenderLife)
	eacDefender := EquivalentAnnualCost(pvDefender, defenderLife, params.WACC)

	// Challenger: the full acquisition cost is committed up front, but setup
	// costs are excluded from the depreciable base.
	initialCost := AcquisitionCost(challenger)
	depreciableBase := challenger.PurchasePrice + challenger.InstallationAndTrainingCost

	challengerLife := lifeYears(challenger, constants.DefaultChallengerLifeMonths)
	pvChallenger, flowsChallenger := costStream(initialCost, depreciableBase, challenger, params, challengerLife)
	eacChallenger := EquivalentAnnualCost(pvChallenger, challengerLife, params.WACC)

	result := Result{
		ID:              uuid.New(),
		PVDefender:      pvDefender,
		EACDefender:     eacDefender,
		PVChallenger:    pvChallenger,
		EACChallenger:   eacChallenger,
		FlowsDefender:   flowsDefender,
		FlowsChallenger: flowsChallenger,
		Recommendation:  recommend(eacDefender, eacChallenger),
	}

	result.FinancingSchedule = a.scheduler.Generate(
		decimal.NewFromFloat(initialCost), params.FinancingRate, params.FinancingMonths)

	a.logger.Debug(fmt.Sprintf("analysis of %s vs %s recommends %s",
		defender.Name, challenger.Name, result.Recommendation),
		zap.String("op", "analysis.Analyze"),
		zap.Float64("eacDefender", eacDefender),
		zap.Float64("eacChallenger", eacChallenger),
	)

	return result
}

func recommend(eacDefender, eacChallenger float64) string {
	switch {
	case eacDefender < eacChallenger:
		return RecommendDefender
	case eacChallenger < eacDefender:
		return RecommendChallenger
	default:
		return RecommendTie
	}
}
