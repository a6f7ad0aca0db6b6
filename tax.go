package main

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Australian tax calculations: income tax, stamp duty, CGT, franking
// credits and the First Home Owner Grant.
//
// Income tax brackets default to the 2025-26 resident schedule but are
// carried as data so future-year schedules can be configured without code
// changes. All rates are fractions (0.30 = 30%).

// TaxBracket is one marginal income tax bracket. UpTo is the upper bound
// of the bracket; the final bracket uses math.Inf(1).
type TaxBracket struct {
	UpTo float64
	Rate float64
}

// DefaultTaxBrackets returns the 2025-26 resident income tax schedule.
func DefaultTaxBrackets() []TaxBracket {
	return []TaxBracket{
		{UpTo: 18_200, Rate: 0.00},
		{UpTo: 45_000, Rate: 0.16},
		{UpTo: 135_000, Rate: 0.30},
		{UpTo: 190_000, Rate: 0.37},
		{UpTo: math.Inf(1), Rate: 0.45},
	}
}

// DefaultMedicareLevy is the flat levy applied to the full gross income.
const DefaultMedicareLevy = 0.02

// CompanyTaxRate is the corporate rate used to gross up franked dividends.
const CompanyTaxRate = 0.30

// IncomeTax calculates total income tax on a gross income, including the
// levy applied to the full income. Monotonic and continuous at bracket
// boundaries.
func IncomeTax(grossIncome float64, brackets []TaxBracket, levy float64) float64 {
	if grossIncome <= 0 {
		return 0
	}
	tax := 0.0
	prev := 0.0
	for _, b := range brackets {
		band := math.Min(grossIncome, b.UpTo) - prev
		if band <= 0 {
			break
		}
		tax += band * b.Rate
		prev = b.UpTo
	}
	return tax + grossIncome*levy
}

// MarginalRate returns the marginal tax rate (including the levy) that
// applies to the last dollar of a gross income.
func MarginalRate(grossIncome float64, brackets []TaxBracket, levy float64) float64 {
	rate := 0.0
	for _, b := range brackets {
		rate = b.Rate
		if grossIncome <= b.UpTo {
			break
		}
	}
	return rate + levy
}

// ═══════════════════════════════════════════════════════════════════════════
// Stamp duty (transfer duty) by state
// ═══════════════════════════════════════════════════════════════════════════

// dutyBracket is one marginal stamp duty bracket.
type dutyBracket struct {
	upTo float64
	rate float64
}

// progressiveDuty applies marginal duty brackets to a price.
func progressiveDuty(price float64, brackets []dutyBracket) float64 {
	duty := 0.0
	prev := 0.0
	for _, b := range brackets {
		band := math.Min(price, b.upTo) - prev
		if band <= 0 {
			break
		}
		duty += band * b.rate
		prev = b.upTo
	}
	return duty
}

var nswDutyBrackets = []dutyBracket{
	{17_000, 0.0125},
	{36_000, 0.015},
	{97_000, 0.0175},
	{364_000, 0.035},
	{1_212_000, 0.045},
	{3_636_000, 0.055},
	{math.Inf(1), 0.065},
}

// nswStampDuty calculates NSW transfer duty. First home buyers are exempt
// up to $800k with a linear concession phase-out to $1M.
func nswStampDuty(price float64, firstHomeBuyer, newBuild bool) float64 {
	if firstHomeBuyer && price <= 800_000 {
		return 0
	}
	duty := progressiveDuty(price, nswDutyBrackets)
	if firstHomeBuyer && price <= 1_000_000 {
		discount := 1.0 - (price-800_000)/200_000
		duty *= 1 - discount
	}
	return duty
}

var vicDutyBrackets = []dutyBracket{
	{25_000, 0.014},
	{130_000, 0.024},
	{440_000, 0.05},
	{960_000, 0.06},
}

// vicStampDuty calculates VIC land transfer duty at owner-occupier (PPR)
// rates: progressive below $960k, flat 5.5% of the full price above.
// First home buyers are exempt up to $600k, concessional to $750k.
func vicStampDuty(price float64, firstHomeBuyer, newBuild bool) float64 {
	if firstHomeBuyer && price <= 600_000 {
		return 0
	}
	var duty float64
	if price <= 960_000 {
		duty = progressiveDuty(price, vicDutyBrackets)
	} else {
		duty = price * 0.055
	}
	if firstHomeBuyer && price <= 750_000 {
		discount := 1.0 - (price-600_000)/150_000
		duty *= 1 - discount
	}
	return duty
}

var qldDutyBrackets = []dutyBracket{
	{75_000, 0.015},
	{540_000, 0.035},
	{1_000_000, 0.045},
	{math.Inf(1), 0.0575},
}

// qldStampDuty calculates QLD transfer duty at home concession
// (owner-occupier) rates. First home buyers are exempt up to $700k for
// existing dwellings or $800k for new builds, with a $100k concession
// band above the exemption cap.
func qldStampDuty(price float64, firstHomeBuyer, newBuild bool) float64 {
	if firstHomeBuyer {
		exemptCap := 700_000.0
		if newBuild {
			exemptCap = 800_000.0
		}
		if price <= exemptCap {
			return 0
		}
		if price <= exemptCap+100_000 {
			fullDuty := progressiveDuty(price, qldDutyBrackets)
			discount := 1.0 - (price-exemptCap)/100_000
			return fullDuty * (1 - discount)
		}
	}
	return progressiveDuty(price, qldDutyBrackets)
}

// stampDutyCalculators dispatches by state code.
var stampDutyCalculators = map[string]func(price float64, firstHomeBuyer, newBuild bool) float64{
	"NSW": nswStampDuty,
	"VIC": vicStampDuty,
	"QLD": qldStampDuty,
}

// SupportedStates returns the state codes with a stamp duty schedule.
func SupportedStates() []string {
	states := make([]string, 0, len(stampDutyCalculators))
	for s := range stampDutyCalculators {
		states = append(states, s)
	}
	sort.Strings(states)
	return states
}

// StampDuty calculates stamp duty for a purchase in the given state.
// Unsupported states return a ConfigError.
func StampDuty(price float64, state string, firstHomeBuyer, newBuild bool) (float64, error) {
	calc, ok := stampDutyCalculators[strings.ToUpper(state)]
	if !ok {
		return 0, &ConfigError{
			Field:  "buy.state",
			Reason: fmt.Sprintf("unknown state %q, supported: %s", state, strings.Join(SupportedStates(), ", ")),
		}
	}
	return calc(price, firstHomeBuyer, newBuild), nil
}

// ═══════════════════════════════════════════════════════════════════════════
// First Home Owner Grant
// ═══════════════════════════════════════════════════════════════════════════

// fhogAmounts lists the grant per state. All states restrict the grant to
// new builds; QLD additionally caps the purchase price.
var fhogAmounts = map[string]float64{
	"NSW": 10_000,
	"VIC": 10_000,
	"QLD": 30_000,
}

const qldFHOGPriceCap = 750_000

// FirstHomeGrant returns the First Home Owner Grant for a purchase, or 0
// when the buyer or dwelling does not qualify. The grant requires both a
// first home buyer and a new build.
func FirstHomeGrant(price float64, state string, firstHomeBuyer, newBuild bool) float64 {
	if !firstHomeBuyer || !newBuild {
		return 0
	}
	st := strings.ToUpper(state)
	amount := fhogAmounts[st]
	if st == "QLD" && price > qldFHOGPriceCap {
		return 0
	}
	return amount
}

// ═══════════════════════════════════════════════════════════════════════════
// Capital gains tax
// ═══════════════════════════════════════════════════════════════════════════

// CapitalGainsTax calculates CGT on a realized gain at the investor's
// marginal rate. Losses produce no refund (gain floors at 0) and the 50%
// discount applies when the holding period qualifies (>12 months).
func CapitalGainsTax(gain, marginalRate float64, heldOver12Months bool) float64 {
	if gain <= 0 {
		return 0
	}
	taxable := gain
	if heldOver12Months {
		taxable *= 0.50
	}
	return taxable * marginalRate
}

// ═══════════════════════════════════════════════════════════════════════════
// Franking credits
// ═══════════════════════════════════════════════════════════════════════════

// EffectiveDividendTaxRate returns the tax rate on dividend income given
// the portion of dividends carrying franking credits. The franked portion
// is taxed only at the investor's rate above the company rate; the credit
// never produces a net refund (no refundable excess imputation in this
// model).
func EffectiveDividendTaxRate(frankingRate, marginalRate, companyRate float64) float64 {
	frankedRate := 0.0
	if marginalRate > companyRate {
		frankedRate = (marginalRate - companyRate) / (1 - companyRate)
	}
	return frankingRate*frankedRate + (1-frankingRate)*marginalRate
}

// FrankingAdjustedTax returns the tax payable on a year's dividend income
// after netting franking credits against tax at the marginal rate.
func FrankingAdjustedTax(dividendIncome, frankingRate, marginalRate, companyRate float64) float64 {
	if dividendIncome <= 0 {
		return 0
	}
	return dividendIncome * EffectiveDividendTaxRate(frankingRate, marginalRate, companyRate)
}
