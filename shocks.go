package main

import (
	"fmt"
	"math"
	"math/rand"
)

// Correlated economic shock generation for the Monte Carlo simulator.
//
// Five variables are shocked each year, in this fixed order:
//
//	0 property appreciation   (mean-reverting around the base rate)
//	1 investment return       (mean-reverting)
//	2 rent increase           (mean-reverting)
//	3 inflation               (mean-reverting)
//	4 mortgage rate           (random walk from the year-1 rate)
//
// A covariance matrix is built from per-variable standard deviations and
// a correlation matrix, factored once by Cholesky decomposition, and the
// complete (runs × years) series per variable is drawn up front so the
// simulator stays purely vectorized. Every draw is clipped to its
// [floor, ceiling] band.

// Shock variable indices.
const (
	ShockPropertyAppreciation = iota
	ShockInvestmentReturn
	ShockRentIncrease
	ShockInflation
	ShockMortgageRate
	numShockVars
)

// ShockVarNames lists the shock variables in index order.
var ShockVarNames = [numShockVars]string{
	"property_appreciation",
	"investment_return",
	"rent_increase",
	"inflation",
	"mortgage_rate",
}

// Default floors and ceilings for each variable, in index order.
var (
	DefaultShockFloors   = [numShockVars]float64{-0.20, -0.40, 0.00, 0.00, 0.01}
	DefaultShockCeilings = [numShockVars]float64{0.30, 0.50, 0.15, 0.12, 0.15}
)

// DefaultCorrelation returns the default 5×5 correlation matrix
// (symmetric, positive definite).
func DefaultCorrelation() [][]float64 {
	return [][]float64{
		//  propAppr invRet rentInc inflation mortRate
		{1.00, 0.20, 0.30, 0.40, -0.25},
		{0.20, 1.00, 0.05, -0.10, -0.15},
		{0.30, 0.05, 1.00, 0.60, 0.30},
		{0.40, -0.10, 0.60, 1.00, 0.65},
		{-0.25, -0.15, 0.30, 0.65, 1.00},
	}
}

// validateCorrelation checks shape, symmetry and unit diagonal. Positive
// semi-definiteness is established by the Cholesky factorization itself.
func validateCorrelation(corr [][]float64) error {
	if len(corr) != numShockVars {
		return &ConfigError{Field: "monte_carlo.correlation", Reason: fmt.Sprintf("must be %d×%d", numShockVars, numShockVars)}
	}
	const tol = 1e-9
	for i, row := range corr {
		if len(row) != numShockVars {
			return &ConfigError{Field: "monte_carlo.correlation", Reason: fmt.Sprintf("row %d has %d columns, want %d", i, len(row), numShockVars)}
		}
		if math.Abs(row[i]-1) > tol {
			return &ConfigError{Field: "monte_carlo.correlation", Reason: fmt.Sprintf("diagonal element [%d][%d] must be 1", i, i)}
		}
		for j := 0; j < i; j++ {
			if math.Abs(row[j]-corr[j][i]) > tol {
				return &ConfigError{Field: "monte_carlo.correlation", Reason: fmt.Sprintf("not symmetric at [%d][%d]", i, j)}
			}
		}
	}
	return nil
}

// buildCovariance builds cov[i][j] = corr[i][j] · std[i] · std[j].
func buildCovariance(stds [numShockVars]float64, corr [][]float64) [][]float64 {
	cov := make([][]float64, numShockVars)
	for i := range cov {
		cov[i] = make([]float64, numShockVars)
		for j := range cov[i] {
			cov[i][j] = corr[i][j] * stds[i] * stds[j]
		}
	}
	return cov
}

// cholesky factors a symmetric matrix into lower-triangular L with
// A = L·Lᵀ. A tiny diagonal jitter keeps zero-variance variables (std 0)
// factorable. Returns a NumericalError when the matrix is not positive
// semi-definite.
func cholesky(a [][]float64) ([][]float64, error) {
	n := len(a)
	const jitter = 1e-10
	l := make([][]float64, n)
	for i := range l {
		l[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			sum := a[i][j]
			if i == j {
				sum += jitter
			}
			for k := 0; k < j; k++ {
				sum -= l[i][k] * l[j][k]
			}
			if i == j {
				if sum <= 0 {
					return nil, &NumericalError{
						Op:     "cholesky",
						Reason: fmt.Sprintf("matrix is not positive semi-definite (pivot %d)", i),
					}
				}
				l[i][j] = math.Sqrt(sum)
			} else {
				l[i][j] = sum / l[j][j]
			}
		}
	}
	return l, nil
}

// EconomicShocks holds the full pre-generated shock series: one
// [year-1][run] matrix per variable, already clipped to bounds. Owned by
// a single Monte Carlo run and discarded afterwards.
type EconomicShocks struct {
	Years int
	Runs  int

	PropertyAppreciation [][]float64
	InvestmentReturn     [][]float64
	RentIncrease         [][]float64
	Inflation            [][]float64
	MortgageRate         [][]float64
}

func clip(v, floor, ceiling float64) float64 {
	if v < floor {
		return floor
	}
	if v > ceiling {
		return ceiling
	}
	return v
}

func newShockMatrix(years, runs int) [][]float64 {
	m := make([][]float64, years)
	for i := range m {
		m[i] = make([]float64, runs)
	}
	return m
}

// GenerateShocks draws the complete correlated shock series for a run:
// runs × years draws of the five variables. Mean-reverting variables are
// base + shock each year; the mortgage rate walks from the year-1
// scheduled rate, shifted by any deterministic schedule change.
func GenerateShocks(params *ScenarioParams, cfg *MCConfig) (*EconomicShocks, error) {
	corr := cfg.correlationMatrix()
	if err := validateCorrelation(corr); err != nil {
		return nil, err
	}
	stds := cfg.stdVector()
	l, err := cholesky(buildCovariance(stds, corr))
	if err != nil {
		return nil, err
	}

	runs := cfg.Runs
	years := params.TimeHorizonYears
	base := [numShockVars]float64{
		params.Buy.PropertyAppreciationRate,
		params.Investment.ReturnRate,
		params.Rent.RentIncreaseRate,
		params.InflationRate,
		params.Buy.RateForYear(1),
	}
	floors := cfg.floors()
	ceilings := cfg.ceilings()

	shocks := &EconomicShocks{
		Years:                years,
		Runs:                 runs,
		PropertyAppreciation: newShockMatrix(years, runs),
		InvestmentReturn:     newShockMatrix(years, runs),
		RentIncrease:         newShockMatrix(years, runs),
		Inflation:            newShockMatrix(years, runs),
		MortgageRate:         newShockMatrix(years, runs),
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	// The mortgage rate is a random walk: each year's shock accumulates
	// onto the prior year's value per run.
	prevMortRate := make([]float64, runs)
	for i := range prevMortRate {
		prevMortRate[i] = base[ShockMortgageRate]
	}
	prevSchedRate := params.Buy.RateForYear(1)

	var z, c [numShockVars]float64
	for year := 1; year <= years; year++ {
		schedDelta := params.Buy.RateForYear(year) - prevSchedRate
		prevSchedRate = params.Buy.RateForYear(year)

		for run := 0; run < runs; run++ {
			for k := range z {
				z[k] = rng.NormFloat64()
			}
			// Correlate: c = L·z (L is lower triangular). A zero-std
			// variable is deterministic; the factorization jitter must
			// not leak noise into it.
			for i := 0; i < numShockVars; i++ {
				if stds[i] == 0 {
					c[i] = 0
					continue
				}
				sum := 0.0
				for k := 0; k <= i; k++ {
					sum += l[i][k] * z[k]
				}
				c[i] = sum
			}

			shocks.PropertyAppreciation[year-1][run] = clip(base[0]+c[0], floors[0], ceilings[0])
			shocks.InvestmentReturn[year-1][run] = clip(base[1]+c[1], floors[1], ceilings[1])
			shocks.RentIncrease[year-1][run] = clip(base[2]+c[2], floors[2], ceilings[2])
			shocks.Inflation[year-1][run] = clip(base[3]+c[3], floors[3], ceilings[3])

			walk := clip(prevMortRate[run]+schedDelta+c[4], floors[4], ceilings[4])
			shocks.MortgageRate[year-1][run] = walk
			prevMortRate[run] = walk
		}
	}

	return shocks, nil
}
