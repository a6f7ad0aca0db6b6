package main

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// Vectorized Monte Carlo simulation for the buy-vs-rent analysis.
//
// Runs N trajectories with year-by-year correlated random shocks to
// property appreciation, investment returns, rent increases, inflation
// and mortgage rates. State is laid out structure-of-arrays: one slice
// per state variable, indexed by trajectory, advanced in a single outer
// loop over years. The transition logic is the same as the deterministic
// model's, consuming the pre-generated shock series in place of fixed
// rates.

// MCConfig configures a Monte Carlo run. Zero-value standard deviations
// are honoured (a variable can be frozen); a nil correlation falls back
// to the default matrix.
type MCConfig struct {
	Runs int
	Seed int64

	// Per-variable annual volatility (standard deviation).
	StdPropertyAppreciation float64
	StdInvestmentReturn     float64
	StdRentIncrease         float64
	StdInflation            float64
	StdMortgageRate         float64

	// Optional overrides; nil = defaults.
	CorrelationOverride [][]float64
	FloorsOverride      []float64
	CeilingsOverride    []float64

	Percentiles []int
}

// DefaultMCConfig returns the standard Monte Carlo settings.
func DefaultMCConfig() MCConfig {
	return MCConfig{
		Runs:                    5_000,
		Seed:                    42,
		StdPropertyAppreciation: 0.10,
		StdInvestmentReturn:     0.15,
		StdRentIncrease:         0.02,
		StdInflation:            0.015,
		StdMortgageRate:         0.01,
		Percentiles:             []int{10, 25, 50, 75, 90},
	}
}

func (c *MCConfig) stdVector() [numShockVars]float64 {
	return [numShockVars]float64{
		c.StdPropertyAppreciation,
		c.StdInvestmentReturn,
		c.StdRentIncrease,
		c.StdInflation,
		c.StdMortgageRate,
	}
}

func (c *MCConfig) correlationMatrix() [][]float64 {
	if c.CorrelationOverride != nil {
		return c.CorrelationOverride
	}
	return DefaultCorrelation()
}

func (c *MCConfig) floors() [numShockVars]float64 {
	if len(c.FloorsOverride) == numShockVars {
		var f [numShockVars]float64
		copy(f[:], c.FloorsOverride)
		return f
	}
	return DefaultShockFloors
}

func (c *MCConfig) ceilings() [numShockVars]float64 {
	if len(c.CeilingsOverride) == numShockVars {
		var f [numShockVars]float64
		copy(f[:], c.CeilingsOverride)
		return f
	}
	return DefaultShockCeilings
}

func (c *MCConfig) percentiles() []int {
	if len(c.Percentiles) == 0 {
		return []int{10, 25, 50, 75, 90}
	}
	return c.Percentiles
}

// Validate checks the Monte Carlo settings.
func (c *MCConfig) Validate() error {
	if c.Runs < 1 {
		return &ConfigError{Field: "monte_carlo.runs", Reason: "must be at least 1"}
	}
	for _, s := range c.stdVector() {
		if s < 0 {
			return &ConfigError{Field: "monte_carlo.std", Reason: "standard deviations must not be negative"}
		}
	}
	for _, p := range c.percentiles() {
		if p < 1 || p > 99 {
			return &ConfigError{Field: "monte_carlo.percentiles", Reason: fmt.Sprintf("percentile %d out of range 1-99", p)}
		}
	}
	if c.FloorsOverride != nil && len(c.FloorsOverride) != numShockVars {
		return &ConfigError{Field: "monte_carlo.floors", Reason: fmt.Sprintf("must have %d values", numShockVars)}
	}
	if c.CeilingsOverride != nil && len(c.CeilingsOverride) != numShockVars {
		return &ConfigError{Field: "monte_carlo.ceilings", Reason: fmt.Sprintf("must have %d values", numShockVars)}
	}
	return validateCorrelation(c.correlationMatrix())
}

// MCTimeSeries is the raw Monte Carlo output. All matrices are shape
// (years+1) × runs, year 0 first.
type MCTimeSeries struct {
	Years []int

	BuyNetWorth      [][]float64 // paper, nominal
	RentNetWorth     [][]float64
	BuyLiquidated    [][]float64
	RentLiquidated   [][]float64
	PropertyValues   [][]float64
	MortgageBalances [][]float64
	Deflators        [][]float64 // cumulative Π(1+inflation) per run
}

// MCSimulate runs the vectorized Monte Carlo simulation. Results are
// bit-for-bit reproducible for a given seed.
func MCSimulate(params ScenarioParams, cfg MCConfig) (*MCTimeSeries, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	shocks, err := GenerateShocks(&params, &cfg)
	if err != nil {
		return nil, err
	}

	n := cfg.Runs
	horizon := params.TimeHorizonYears
	buy := &params.Buy
	rent := &params.Rent
	inv := &params.Investment

	marginalRate := params.Tax.MarginalRate()
	effDivRate := EffectiveDividendTaxRate(inv.FrankingRate, marginalRate, CompanyTaxRate)

	stampDuty, err := buy.GetStampDuty()
	if err != nil {
		return nil, err
	}
	grant := FirstHomeGrant(buy.PurchasePrice, buy.State, buy.FirstHomeBuyer, buy.NewBuild)
	upfrontBuyCosts := buy.Deposit() + stampDuty + buy.UpfrontLMI() - grant

	// --- Per-trajectory state, structure-of-arrays ---
	fill := func(v float64) []float64 {
		s := make([]float64, n)
		for i := range s {
			s[i] = v
		}
		return s
	}
	mortgageBal := fill(buy.LoanAmount())
	currentRate := fill(buy.RateForYear(1))
	monthlyPmt := fill(MonthlyRepayment(buy.LoanAmount(), buy.RateForYear(1), float64(buy.MortgageTermYears)))
	propertyValue := fill(buy.PurchasePrice)
	buyInvestments := fill(math.Max(params.ExistingSavings-upfrontBuyCosts, 0))
	buyContributions := fill(buyInvestments[0])
	rentInvestments := fill(params.ExistingSavings)
	rentContributions := fill(params.ExistingSavings)
	weeklyRent := fill(rent.StartingWeeklyRent())
	deflator := fill(1.0)

	ts := &MCTimeSeries{
		Years:            make([]int, horizon+1),
		BuyNetWorth:      newShockMatrix(horizon+1, n),
		RentNetWorth:     newShockMatrix(horizon+1, n),
		BuyLiquidated:    newShockMatrix(horizon+1, n),
		RentLiquidated:   newShockMatrix(horizon+1, n),
		PropertyValues:   newShockMatrix(horizon+1, n),
		MortgageBalances: newShockMatrix(horizon+1, n),
		Deflators:        newShockMatrix(horizon+1, n),
	}
	for y := range ts.Years {
		ts.Years[y] = y
	}

	record := func(year int) {
		for i := 0; i < n; i++ {
			ts.BuyNetWorth[year][i] = propertyValue[i] - mortgageBal[i] + buyInvestments[i]
			ts.RentNetWorth[year][i] = rentInvestments[i]
			ts.BuyLiquidated[year][i] = liquidatedBuy(propertyValue[i], mortgageBal[i],
				buyInvestments[i], buyContributions[i],
				buy.SellingLegal*deflator[i], buy.SellingAgentPct, marginalRate)
			ts.RentLiquidated[year][i] = liquidatedRent(rentInvestments[i], rentContributions[i], marginalRate)
			ts.PropertyValues[year][i] = propertyValue[i]
			ts.MortgageBalances[year][i] = mortgageBal[i]
			ts.Deflators[year][i] = deflator[i]
		}
	}
	record(0)

	for year := 1; year <= horizon; year++ {
		propAppr := shocks.PropertyAppreciation[year-1]
		invReturn := shocks.InvestmentReturn[year-1]
		rentInc := shocks.RentIncrease[year-1]
		inflation := shocks.Inflation[year-1]
		mortRate := shocks.MortgageRate[year-1]

		for i := 0; i < n; i++ {
			deflator[i] *= 1 + inflation[i]

			// Rates move every year; re-amortize over the remaining term
			// whenever this trajectory's rate changed.
			if mortRate[i] != currentRate[i] && mortgageBal[i] > 0 {
				currentRate[i] = mortRate[i]
				if pmt := ReamortizedPayment(mortgageBal[i], currentRate[i], buy.MortgageTermYears, year-1); pmt > 0 {
					monthlyPmt[i] = pmt
				}
			}

			var annualMortgage float64
			if mortgageBal[i] > 0 {
				newBal, principal, interest := AmortizeYear(mortgageBal[i], currentRate[i], monthlyPmt[i])
				mortgageBal[i] = newBal
				annualMortgage = principal + interest
			}

			propertyValue[i] *= 1 + propAppr[i]

			ongoing := propertyValue[i]*buy.CouncilRatesPct +
				propertyValue[i]*buy.InsurancePct +
				propertyValue[i]*buy.MaintenancePct +
				buy.WaterRatesAnnual*deflator[i] +
				buy.StrataAnnual*deflator[i]
			buyYearCosts := annualMortgage + ongoing

			buyInvestments[i], buyContributions[i], _ = growPool(
				buyInvestments[i], buyContributions[i], invReturn[i], inv.DividendYield, effDivRate)

			annualRentCost := weeklyRent[i] * 52
			rentYearCosts := annualRentCost + rent.RentersInsuranceAnnual*deflator[i]

			rentInvestments[i], rentContributions[i], _ = growPool(
				rentInvestments[i], rentContributions[i], invReturn[i], inv.DividendYield, effDivRate)

			if buyYearCosts > rentYearCosts {
				surplus := buyYearCosts - rentYearCosts
				rentInvestments[i] += surplus * (1 + invReturn[i]/2)
				rentContributions[i] += surplus
			} else if rentYearCosts > buyYearCosts {
				surplus := rentYearCosts - buyYearCosts
				buyInvestments[i] += surplus * (1 + invReturn[i]/2)
				buyContributions[i] += surplus
			}

			weeklyRent[i] *= 1 + rentInc[i]
		}

		// Rent was already raised for next year; record uses this year's
		// closing state, matching the deterministic snapshot order.
		record(year)
	}

	return ts, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Percentile summaries
// ═══════════════════════════════════════════════════════════════════════════

// PercentileSeries maps a percentile (e.g. 50) to its per-year values.
type PercentileSeries map[int][]float64

// MCBands holds the nominal and inflation-adjusted percentile bands of
// one measure.
type MCBands struct {
	Nominal PercentileSeries
	Real    PercentileSeries
}

// MCSummary is the percentile-band view of a Monte Carlo run: five
// percentiles × two scenarios × paper/liquidated × nominal/real, plus
// the per-year probability that buying ends ahead.
type MCSummary struct {
	Years       []int
	Percentiles []int

	BuyPaper       MCBands
	RentPaper      MCBands
	BuyLiquidated  MCBands
	RentLiquidated MCBands
	DiffPaper      MCBands // buy − rent, paper

	ProbBuyWins     []float64 // fraction of trajectories with paper buy > rent
	MedianCrossover int       // first year the median paper difference turns positive; -1 if never
}

// percentileBands reduces a (years+1)×runs matrix to per-year percentile
// series, nominal and deflated.
func percentileBands(series, deflators [][]float64, pcts []int) (MCBands, error) {
	years := len(series)
	bands := MCBands{Nominal: make(PercentileSeries), Real: make(PercentileSeries)}
	for _, p := range pcts {
		bands.Nominal[p] = make([]float64, years)
		bands.Real[p] = make([]float64, years)
	}
	realRow := make([]float64, 0)
	for y := 0; y < years; y++ {
		row := series[y]
		realRow = realRow[:0]
		for i, v := range row {
			realRow = append(realRow, v/deflators[y][i])
		}
		for _, p := range pcts {
			nom, err := stats.Percentile(stats.Float64Data(row), float64(p))
			if err != nil {
				return MCBands{}, &NumericalError{Op: "percentile", Reason: err.Error()}
			}
			rl, err := stats.Percentile(stats.Float64Data(realRow), float64(p))
			if err != nil {
				return MCBands{}, &NumericalError{Op: "percentile", Reason: err.Error()}
			}
			bands.Nominal[p][y] = nom
			bands.Real[p][y] = rl
		}
	}
	return bands, nil
}

// Summarize computes percentile bands and probability statistics from a
// Monte Carlo time series.
func Summarize(ts *MCTimeSeries, pcts []int) (*MCSummary, error) {
	if len(pcts) == 0 {
		pcts = []int{10, 25, 50, 75, 90}
	}
	years := len(ts.Years)
	runs := len(ts.BuyNetWorth[0])

	diff := newShockMatrix(years, runs)
	prob := make([]float64, years)
	for y := 0; y < years; y++ {
		wins := 0
		for i := 0; i < runs; i++ {
			diff[y][i] = ts.BuyNetWorth[y][i] - ts.RentNetWorth[y][i]
			if diff[y][i] > 0 {
				wins++
			}
		}
		prob[y] = float64(wins) / float64(runs)
	}

	summary := &MCSummary{
		Years:           append([]int(nil), ts.Years...),
		Percentiles:     append([]int(nil), pcts...),
		ProbBuyWins:     prob,
		MedianCrossover: -1,
	}

	var err error
	if summary.BuyPaper, err = percentileBands(ts.BuyNetWorth, ts.Deflators, pcts); err != nil {
		return nil, err
	}
	if summary.RentPaper, err = percentileBands(ts.RentNetWorth, ts.Deflators, pcts); err != nil {
		return nil, err
	}
	if summary.BuyLiquidated, err = percentileBands(ts.BuyLiquidated, ts.Deflators, pcts); err != nil {
		return nil, err
	}
	if summary.RentLiquidated, err = percentileBands(ts.RentLiquidated, ts.Deflators, pcts); err != nil {
		return nil, err
	}
	if summary.DiffPaper, err = percentileBands(diff, ts.Deflators, pcts); err != nil {
		return nil, err
	}

	if median, ok := summary.DiffPaper.Nominal[50]; ok {
		for y := 1; y < len(median); y++ {
			if median[y-1] <= 0 && median[y] > 0 {
				summary.MedianCrossover = ts.Years[y]
				break
			}
		}
	}

	return summary, nil
}
