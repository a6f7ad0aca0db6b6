package main

import (
	"errors"
	"math"
	"testing"
)

func relClose(t *testing.T, got, want, rtol float64, what string) {
	t.Helper()
	scale := math.Max(math.Abs(want), 1)
	if math.Abs(got-want) > rtol*scale {
		t.Errorf("%s = %.6f, want %.6f", what, got, want)
	}
}

func TestMCConfig_Validate(t *testing.T) {
	cfg := DefaultMCConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	testCases := []struct {
		name   string
		mutate func(*MCConfig)
	}{
		{"zero runs", func(c *MCConfig) { c.Runs = 0 }},
		{"negative std", func(c *MCConfig) { c.StdInflation = -0.01 }},
		{"percentile too high", func(c *MCConfig) { c.Percentiles = []int{50, 100} }},
		{"percentile too low", func(c *MCConfig) { c.Percentiles = []int{0} }},
		{"short floors", func(c *MCConfig) { c.FloorsOverride = []float64{-1, -1} }},
		{"bad correlation", func(c *MCConfig) { c.CorrelationOverride = [][]float64{{1}} }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := DefaultMCConfig()
			tc.mutate(&c)
			err := c.Validate()
			if err == nil {
				t.Fatal("expected a validation error")
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %T", err)
			}
		})
	}
}

func TestMCSimulate_ZeroVolatilityMatchesDeterministic(t *testing.T) {
	// With every standard deviation at zero the Monte Carlo trajectories
	// collapse onto the deterministic path.
	params := DefaultScenarioParams()
	params.TimeHorizonYears = 30
	cfg := MCConfig{Runs: 3, Seed: 1}

	snapshots, err := Simulate(params)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	ts, err := MCSimulate(params, cfg)
	if err != nil {
		t.Fatalf("MCSimulate: %v", err)
	}

	for year := 0; year <= params.TimeHorizonYears; year++ {
		s := snapshots[year]
		for run := 0; run < cfg.Runs; run++ {
			relClose(t, ts.BuyNetWorth[year][run], s.BuyNetWorth, 1e-9, "buy net worth")
			relClose(t, ts.RentNetWorth[year][run], s.RentNetWorth, 1e-9, "rent net worth")
			relClose(t, ts.BuyLiquidated[year][run], s.BuyLiquidated, 1e-9, "buy liquidated")
			relClose(t, ts.RentLiquidated[year][run], s.RentLiquidated, 1e-9, "rent liquidated")
			relClose(t, ts.PropertyValues[year][run], s.PropertyValue, 1e-9, "property value")
			relClose(t, ts.MortgageBalances[year][run], s.MortgageBalance, 1e-6, "mortgage balance")
		}
	}
}

func TestMCSimulate_ZeroVolatilityWithRateSchedule(t *testing.T) {
	// Re-amortization on a scheduled rate change must line up between
	// the two paths as well.
	params := DefaultScenarioParams()
	params.TimeHorizonYears = 15
	params.Buy.RateSchedule = []RateChange{{FromYear: 6, Rate: 0.048}}
	cfg := MCConfig{Runs: 2, Seed: 1}

	snapshots, err := Simulate(params)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	ts, err := MCSimulate(params, cfg)
	if err != nil {
		t.Fatalf("MCSimulate: %v", err)
	}
	for year := 0; year <= params.TimeHorizonYears; year++ {
		relClose(t, ts.BuyNetWorth[year][0], snapshots[year].BuyNetWorth, 1e-6, "buy net worth with schedule")
		relClose(t, ts.MortgageBalances[year][0], snapshots[year].MortgageBalance, 1e-6, "balance with schedule")
	}
}

func TestMCSimulate_Shapes(t *testing.T) {
	params := DefaultScenarioParams()
	params.TimeHorizonYears = 12
	cfg := mcTestConfig(40, 3)

	ts, err := MCSimulate(params, cfg)
	if err != nil {
		t.Fatalf("MCSimulate: %v", err)
	}
	if len(ts.Years) != 13 {
		t.Fatalf("got %d years, want 13", len(ts.Years))
	}
	for _, m := range [][][]float64{ts.BuyNetWorth, ts.RentNetWorth, ts.BuyLiquidated, ts.RentLiquidated, ts.Deflators} {
		if len(m) != 13 || len(m[0]) != 40 {
			t.Fatalf("matrix shape %dx%d, want 13x40", len(m), len(m[0]))
		}
	}
	for run := 0; run < 40; run++ {
		if ts.Deflators[0][run] != 1 {
			t.Errorf("year-0 deflator = %.6f, want 1", ts.Deflators[0][run])
		}
		if ts.Deflators[12][run] <= 1 {
			t.Errorf("final deflator = %.6f, want > 1", ts.Deflators[12][run])
		}
	}
}

func TestMCSimulate_Reproducible(t *testing.T) {
	params := DefaultScenarioParams()
	params.TimeHorizonYears = 10
	cfg := mcTestConfig(60, 99)

	a, err := MCSimulate(params, cfg)
	if err != nil {
		t.Fatalf("MCSimulate: %v", err)
	}
	b, err := MCSimulate(params, cfg)
	if err != nil {
		t.Fatalf("MCSimulate: %v", err)
	}
	for year := range a.BuyNetWorth {
		for run := range a.BuyNetWorth[year] {
			if a.BuyNetWorth[year][run] != b.BuyNetWorth[year][run] {
				t.Fatalf("same seed diverged at year %d run %d", year, run)
			}
		}
	}
}

func TestSummarize_PercentileOrdering(t *testing.T) {
	params := DefaultScenarioParams()
	params.TimeHorizonYears = 15
	cfg := mcTestConfig(500, 42)

	ts, err := MCSimulate(params, cfg)
	if err != nil {
		t.Fatalf("MCSimulate: %v", err)
	}
	summary, err := Summarize(ts, cfg.percentiles())
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	pcts := summary.Percentiles
	bands := map[string]MCBands{
		"buy paper":       summary.BuyPaper,
		"rent paper":      summary.RentPaper,
		"buy liquidated":  summary.BuyLiquidated,
		"rent liquidated": summary.RentLiquidated,
	}
	for name, b := range bands {
		for year := range summary.Years {
			for i := 1; i < len(pcts); i++ {
				lo, hi := b.Nominal[pcts[i-1]][year], b.Nominal[pcts[i]][year]
				if lo > hi+1e-6 {
					t.Fatalf("%s year %d: p%d (%.2f) above p%d (%.2f)", name, year, pcts[i-1], lo, pcts[i], hi)
				}
				lo, hi = b.Real[pcts[i-1]][year], b.Real[pcts[i]][year]
				if lo > hi+1e-6 {
					t.Fatalf("%s real year %d: p%d above p%d", name, year, pcts[i-1], pcts[i])
				}
			}
		}
	}
}

func TestSummarize_ProbBuyWins(t *testing.T) {
	params := DefaultScenarioParams()
	params.TimeHorizonYears = 10
	cfg := mcTestConfig(300, 5)

	ts, err := MCSimulate(params, cfg)
	if err != nil {
		t.Fatalf("MCSimulate: %v", err)
	}
	summary, err := Summarize(ts, nil)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	if len(summary.ProbBuyWins) != 11 {
		t.Fatalf("got %d probability entries, want 11", len(summary.ProbBuyWins))
	}
	for year, p := range summary.ProbBuyWins {
		if p < 0 || p > 1 {
			t.Fatalf("probability at year %d = %.4f outside [0,1]", year, p)
		}
	}
	// Buying starts behind by the purchase costs in every trajectory.
	if summary.ProbBuyWins[0] != 0 {
		t.Errorf("year-0 probability = %.4f, want 0", summary.ProbBuyWins[0])
	}
}

func TestSummarize_MedianCrossover(t *testing.T) {
	// Zero volatility pins the median to the deterministic path, so the
	// median crossover must equal the deterministic crossover.
	params := DefaultScenarioParams()
	params.Buy.PropertyAppreciationRate = 0.08
	params.Investment.ReturnRate = 0.03
	cfg := MCConfig{Runs: 3, Seed: 1}

	snapshots, err := Simulate(params)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	ts, err := MCSimulate(params, cfg)
	if err != nil {
		t.Fatalf("MCSimulate: %v", err)
	}
	summary, err := Summarize(ts, nil)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	want := CrossoverYear(snapshots)
	if want < 1 {
		t.Fatalf("scenario should cross over, got %d", want)
	}
	if summary.MedianCrossover != want {
		t.Errorf("median crossover = %d, want %d", summary.MedianCrossover, want)
	}
}

func TestSummarize_RealDeflatesNominal(t *testing.T) {
	params := DefaultScenarioParams()
	params.TimeHorizonYears = 10
	cfg := mcTestConfig(200, 11)

	ts, err := MCSimulate(params, cfg)
	if err != nil {
		t.Fatalf("MCSimulate: %v", err)
	}
	summary, err := Summarize(ts, []int{50})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	// With positive inflation and positive median wealth, the real
	// median sits below the nominal one in later years.
	last := len(summary.Years) - 1
	nominal := summary.RentPaper.Nominal[50][last]
	real := summary.RentPaper.Real[50][last]
	if nominal <= 0 {
		t.Fatalf("expected positive median rent wealth, got %.2f", nominal)
	}
	if real >= nominal {
		t.Errorf("real median %.2f should sit below nominal %.2f", real, nominal)
	}
}
