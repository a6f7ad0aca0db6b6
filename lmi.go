package main

import "math"

// Lenders Mortgage Insurance (LMI) estimation.
//
// Rates follow published Helia-style schedules and are approximate;
// actual premiums vary by insurer and lender. The table is indexed by
// 1%-wide LVR bands (80-95%) and four loan-size tiers.

// lmiBand holds the premium rates (as fractions of the loan amount) for
// one LVR band across the four loan tiers:
// tier 0 ≤ $300k, tier 1 ≤ $500k, tier 2 ≤ $1M, tier 3 > $1M.
type lmiBand struct {
	upperLVR float64
	rates    [4]float64
}

var lmiRateTable = []lmiBand{
	{0.81, [4]float64{0.0050, 0.0064, 0.00896, 0.00992}},
	{0.82, [4]float64{0.0050, 0.0067, 0.00938, 0.01039}},
	{0.83, [4]float64{0.0055, 0.0071, 0.00994, 0.01101}},
	{0.84, [4]float64{0.0073, 0.0090, 0.01260, 0.01395}},
	{0.85, [4]float64{0.0078, 0.0098, 0.01372, 0.01519}},
	{0.86, [4]float64{0.0092, 0.0121, 0.01694, 0.01876}},
	{0.87, [4]float64{0.0098, 0.0127, 0.01778, 0.01969}},
	{0.88, [4]float64{0.0112, 0.0136, 0.01904, 0.02108}},
	{0.89, [4]float64{0.0118, 0.0142, 0.01988, 0.02201}},
	{0.90, [4]float64{0.0127, 0.0168, 0.02352, 0.02604}},
	{0.91, [4]float64{0.0197, 0.0258, 0.03612, 0.03999}},
	{0.92, [4]float64{0.0197, 0.0258, 0.03612, 0.03999}},
	{0.93, [4]float64{0.0221, 0.0292, 0.04088, 0.04526}},
	{0.94, [4]float64{0.0221, 0.0292, 0.04088, 0.04526}},
	{0.95, [4]float64{0.0243, 0.0321, 0.04494, 0.04976}},
}

// lmiLoanTier returns the loan amount tier index (0-3).
func lmiLoanTier(loanAmount float64) int {
	switch {
	case loanAmount <= 300_000:
		return 0
	case loanAmount <= 500_000:
		return 1
	case loanAmount <= 1_000_000:
		return 2
	default:
		return 3
	}
}

// EstimateLMI estimates the one-off LMI premium in dollars, rounded to
// the nearest dollar. LVR at or below 80% needs no insurance and returns
// 0; LVR above the table's top band clips to the 95% band rates so the
// lookup is total and deterministic.
func EstimateLMI(loanAmount, lvr float64) float64 {
	if lvr <= 0.80 {
		return 0
	}
	tier := lmiLoanTier(loanAmount)
	for _, band := range lmiRateTable {
		if lvr <= band.upperLVR {
			return math.Round(loanAmount * band.rates[tier])
		}
	}
	top := lmiRateTable[len(lmiRateTable)-1]
	return math.Round(loanAmount * top.rates[tier])
}
