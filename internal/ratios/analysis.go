package ratios

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/finsynth/internal/model"
)

// Band is a qualitative reading of a single ratio.
type Band string

const (
	BandStrong       Band = "Strong"
	BandModerate     Band = "Moderate"
	BandWeak         Band = "Weak"
	BandConservative Band = "Conservative"
	BandHigh         Band = "High"
	BandLow          Band = "Low"
)

// Health is the overall verdict of an Assessment.
type Health string

const (
	HealthExcellent Health = "Excellent"
	HealthGood      Health = "Good"
	HealthFair      Health = "Fair"
	HealthPoor      Health = "Poor"
)

type LiquidityAnalysis struct {
	model.LiquidityRatios
	CurrentRatioBand Band     `json:"current_ratio_interpretation"`
	QuickRatioBand   Band     `json:"quick_ratio_interpretation"`
	Interpretations  []string `json:"interpretations"`
}

type ProfitabilityAnalysis struct {
	model.ProfitabilityRatios
	Interpretations []string `json:"interpretations"`
}

type LeverageAnalysis struct {
	model.LeverageRatios
	DebtToEquityBand Band     `json:"debt_to_equity_interpretation"`
	Interpretations  []string `json:"interpretations"`
}

type EfficiencyAnalysis struct {
	model.EfficiencyRatios
	AssetTurnoverBand Band     `json:"asset_turnover_interpretation"`
	Interpretations   []string `json:"interpretations"`
}

// Scores are the 0-100 component scores behind an Assessment.
type Scores struct {
	Liquidity     int `json:"liquidity_score"`
	Profitability int `json:"profitability_score"`
	Leverage      int `json:"leverage_score"`
	Efficiency    int `json:"efficiency_score"`
}

// Total is the sum of the component scores.
func (s Scores) Total() int {
	return s.Liquidity + s.Profitability + s.Leverage + s.Efficiency
}

// Assessment is the overall health verdict.
type Assessment struct {
	Score          decimal.Decimal `json:"overall_score"`
	Health         Health          `json:"overall_health"`
	Recommendation string          `json:"recommendation"`
	Components     Scores          `json:"component_scores"`
}

// Analysis interprets a FinancialRatios.
type Analysis struct {
	Liquidity     LiquidityAnalysis     `json:"liquidity_analysis"`
	Profitability ProfitabilityAnalysis `json:"profitability_analysis"`
	Leverage      LeverageAnalysis      `json:"leverage_analysis"`
	Efficiency    EfficiencyAnalysis    `json:"efficiency_analysis"`
	Overall       Assessment            `json:"overall_assessment"`
}

var (
	d025 = decimal.RequireFromString("0.25")
	d05  = decimal.RequireFromString("0.5")
	d1   = decimal.NewFromInt(1)
	d15  = decimal.RequireFromString("1.5")
	d2   = decimal.NewFromInt(2)
	d5   = decimal.NewFromInt(5)
	d10  = decimal.NewFromInt(10)
	d15p = decimal.NewFromInt(15)
	d20  = decimal.NewFromInt(20)
	d40  = decimal.NewFromInt(40)
)

// step is one row of a threshold table: values at or above min score points.
type step struct {
	min    decimal.Decimal
	points int
}

// score returns the points of the first step v reaches, zero otherwise.
func score(v decimal.Decimal, table []step) int {
	for _, s := range table {
		if v.GreaterThanOrEqual(s.min) {
			return s.points
		}
	}
	return 0
}

var (
	currentRatioSteps  = []step{{d2, 50}, {d1, 30}, {d05, 10}}
	quickRatioSteps    = []step{{d1, 50}, {d05, 30}, {d025, 10}}
	netMarginSteps     = []step{{d10, 50}, {d5, 30}, {d2, 10}}
	roeSteps           = []step{{d15p, 50}, {d10, 30}, {d5, 10}}
	assetTurnoverSteps = []step{{d2, 100}, {d15, 75}, {d1, 50}, {d05, 25}}
)

// leverageScore rewards low debt to equity; higher ratios score less.
func leverageScore(de decimal.Decimal) int {
	switch {
	case de.LessThanOrEqual(d05):
		return 100
	case de.LessThanOrEqual(d1):
		return 75
	case de.LessThanOrEqual(d15):
		return 50
	case de.LessThanOrEqual(d2):
		return 25
	}
	return 0
}

// Analyze bands each ratio group and scores overall financial health.
func Analyze(r *model.FinancialRatios) Analysis {
	return Analysis{
		Liquidity:     analyzeLiquidity(r.Liquidity),
		Profitability: analyzeProfitability(r.Profitability),
		Leverage:      analyzeLeverage(r.Leverage),
		Efficiency:    analyzeEfficiency(r.Efficiency),
		Overall:       Assess(r),
	}
}

func analyzeLiquidity(l model.LiquidityRatios) LiquidityAnalysis {
	a := LiquidityAnalysis{LiquidityRatios: l}
	switch {
	case l.CurrentRatio.GreaterThanOrEqual(d2):
		a.CurrentRatioBand = BandStrong
		a.Interpretations = append(a.Interpretations, "Strong liquidity position - company can easily meet short-term obligations")
	case l.CurrentRatio.GreaterThanOrEqual(d1):
		a.CurrentRatioBand = BandModerate
		a.Interpretations = append(a.Interpretations, "Adequate liquidity - company can meet short-term obligations")
	default:
		a.CurrentRatioBand = BandWeak
		a.Interpretations = append(a.Interpretations, "Liquidity concerns - company may struggle to meet short-term obligations")
	}
	switch {
	case l.QuickRatio.GreaterThanOrEqual(d1):
		a.QuickRatioBand = BandStrong
		a.Interpretations = append(a.Interpretations, "Good quick ratio - company has sufficient liquid assets")
	case l.QuickRatio.GreaterThanOrEqual(d05):
		a.QuickRatioBand = BandModerate
		a.Interpretations = append(a.Interpretations, "Moderate quick ratio - company has some liquid assets")
	default:
		a.QuickRatioBand = BandWeak
		a.Interpretations = append(a.Interpretations, "Low quick ratio - company may face liquidity challenges")
	}
	return a
}

func analyzeProfitability(p model.ProfitabilityRatios) ProfitabilityAnalysis {
	a := ProfitabilityAnalysis{ProfitabilityRatios: p}
	switch {
	case p.GrossProfitMargin.GreaterThanOrEqual(d40):
		a.Interpretations = append(a.Interpretations, "Strong gross margin - company has pricing power")
	case p.GrossProfitMargin.GreaterThanOrEqual(d20):
		a.Interpretations = append(a.Interpretations, "Moderate gross margin - typical for most industries")
	default:
		a.Interpretations = append(a.Interpretations, "Low gross margin - company faces pricing pressure")
	}
	switch {
	case p.ReturnOnEquity.GreaterThanOrEqual(d15p):
		a.Interpretations = append(a.Interpretations, "Excellent return on equity - creating significant value for shareholders")
	case p.ReturnOnEquity.GreaterThanOrEqual(d10):
		a.Interpretations = append(a.Interpretations, "Good return on equity - creating value for shareholders")
	case p.ReturnOnEquity.GreaterThanOrEqual(d5):
		a.Interpretations = append(a.Interpretations, "Moderate return on equity - acceptable but could improve")
	default:
		a.Interpretations = append(a.Interpretations, "Low return on equity - may need to improve profitability")
	}
	return a
}

func analyzeLeverage(l model.LeverageRatios) LeverageAnalysis {
	a := LeverageAnalysis{LeverageRatios: l}
	switch {
	case l.DebtToEquity.LessThanOrEqual(d05):
		a.DebtToEquityBand = BandConservative
		a.Interpretations = append(a.Interpretations, "Conservative debt structure - low financial risk")
	case l.DebtToEquity.LessThanOrEqual(d1):
		a.DebtToEquityBand = BandModerate
		a.Interpretations = append(a.Interpretations, "Moderate debt structure - balanced financial risk")
	case l.DebtToEquity.LessThanOrEqual(d2):
		a.DebtToEquityBand = BandHigh
		a.Interpretations = append(a.Interpretations, "Elevated debt structure - increased financial risk")
	default:
		a.DebtToEquityBand = BandHigh
		a.Interpretations = append(a.Interpretations, "High debt structure - significant financial risk")
	}
	return a
}

func analyzeEfficiency(e model.EfficiencyRatios) EfficiencyAnalysis {
	a := EfficiencyAnalysis{EfficiencyRatios: e}
	switch {
	case e.AssetTurnover.GreaterThanOrEqual(d15):
		a.AssetTurnoverBand = BandHigh
		a.Interpretations = append(a.Interpretations, "High asset turnover - efficient use of assets")
	case e.AssetTurnover.GreaterThanOrEqual(d1):
		a.AssetTurnoverBand = BandModerate
		a.Interpretations = append(a.Interpretations, "Moderate asset turnover - reasonable asset utilization")
	default:
		a.AssetTurnoverBand = BandLow
		a.Interpretations = append(a.Interpretations, "Low asset turnover - may need to improve asset efficiency")
	}
	return a
}

// Assess scores the four ratio groups and averages them into a verdict.
func Assess(r *model.FinancialRatios) Assessment {
	s := Scores{
		Liquidity:     score(r.Liquidity.CurrentRatio, currentRatioSteps) + score(r.Liquidity.QuickRatio, quickRatioSteps),
		Profitability: score(r.Profitability.NetProfitMargin, netMarginSteps) + score(r.Profitability.ReturnOnEquity, roeSteps),
		Leverage:      leverageScore(r.Leverage.DebtToEquity),
		Efficiency:    score(r.Efficiency.AssetTurnover, assetTurnoverSteps),
	}
	overall := decimal.NewFromInt(int64(s.Total())).Div(decimal.NewFromInt(4))

	a := Assessment{Score: overall, Components: s}
	switch {
	case overall.GreaterThanOrEqual(decimal.NewFromInt(80)):
		a.Health, a.Recommendation = HealthExcellent, "Company is in strong financial position"
	case overall.GreaterThanOrEqual(decimal.NewFromInt(60)):
		a.Health, a.Recommendation = HealthGood, "Company is financially healthy with room for improvement"
	case overall.GreaterThanOrEqual(decimal.NewFromInt(40)):
		a.Health, a.Recommendation = HealthFair, "Company has some financial concerns that need attention"
	default:
		a.Health, a.Recommendation = HealthPoor, "Company faces significant financial challenges"
	}
	return a
}
