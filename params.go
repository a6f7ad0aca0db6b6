package main

import (
	"fmt"
	"sort"
)

// Scenario parameters for the buy-vs-rent simulation. All rates are
// annual fractions (0.062 = 6.2% p.a.).

// RateChange is one entry in a variable mortgage rate schedule: the new
// rate applies from FromYear (1-based) onwards.
type RateChange struct {
	FromYear int
	Rate     float64
}

// BuyParams holds the purchase-side parameters.
type BuyParams struct {
	PurchasePrice     float64
	DepositPct        float64 // fraction of price; ignored when DepositAmount > 0
	DepositAmount     float64 // fixed deposit in dollars (optional)
	MortgageRate      float64
	MortgageTermYears int

	PropertyAppreciationRate float64

	StampDutyOverride *float64 // set to skip the schedule calculation
	LMI               float64  // 0 = auto-estimate from the rate table when LVR > 80%
	State             string
	FirstHomeBuyer    bool
	NewBuild          bool

	// Variable rate schedule, e.g. {{1, 0.062}, {4, 0.055}} = 6.2% for
	// years 1-3, 5.5% from year 4. Empty = MortgageRate for the full term.
	RateSchedule []RateChange

	// Ongoing ownership costs: percentages apply to the current property
	// value, fixed amounts inflate with CPI.
	CouncilRatesPct  float64
	InsurancePct     float64
	MaintenancePct   float64
	WaterRatesAnnual float64
	StrataAnnual     float64

	// Transaction costs assumed for an eventual sale.
	SellingAgentPct float64
	SellingLegal    float64
}

// Deposit returns the deposit in dollars.
func (b *BuyParams) Deposit() float64 {
	if b.DepositAmount > 0 {
		return b.DepositAmount
	}
	return b.PurchasePrice * b.DepositPct
}

// LoanAmount returns the initial mortgage principal.
func (b *BuyParams) LoanAmount() float64 {
	return b.PurchasePrice - b.Deposit()
}

// LVR returns the loan-to-value ratio at purchase.
func (b *BuyParams) LVR() float64 {
	if b.PurchasePrice <= 0 {
		return 0
	}
	return b.LoanAmount() / b.PurchasePrice
}

// GetStampDuty returns the stamp duty for this purchase, honouring any
// override.
func (b *BuyParams) GetStampDuty() (float64, error) {
	if b.StampDutyOverride != nil {
		return *b.StampDutyOverride, nil
	}
	return StampDuty(b.PurchasePrice, b.State, b.FirstHomeBuyer, b.NewBuild)
}

// UpfrontLMI returns the LMI premium due at purchase: the configured
// amount, or an estimate from the rate table when left at 0 and the LVR
// exceeds 80%.
func (b *BuyParams) UpfrontLMI() float64 {
	if b.LMI > 0 {
		return b.LMI
	}
	return EstimateLMI(b.LoanAmount(), b.LVR())
}

// RateForYear returns the mortgage rate applicable in a given 1-based
// simulation year, resolving the schedule if present.
func (b *BuyParams) RateForYear(year int) float64 {
	if len(b.RateSchedule) == 0 {
		return b.MortgageRate
	}
	schedule := make([]RateChange, len(b.RateSchedule))
	copy(schedule, b.RateSchedule)
	sort.Slice(schedule, func(i, j int) bool { return schedule[i].FromYear < schedule[j].FromYear })
	rate := b.MortgageRate
	for _, rc := range schedule {
		if rc.FromYear <= year {
			rate = rc.Rate
		} else {
			break
		}
	}
	return rate
}

// ResolveRates expands the (scalar or scheduled) mortgage rate into a
// per-year sequence for years 1..horizon.
func (b *BuyParams) ResolveRates(horizonYears int) []float64 {
	rates := make([]float64, horizonYears)
	for year := 1; year <= horizonYears; year++ {
		rates[year-1] = b.RateForYear(year)
	}
	return rates
}

// RentParams holds the rental-side parameters. Rent may be given weekly
// or annually; weekly takes precedence when both are set.
type RentParams struct {
	WeeklyRent             float64
	AnnualRent             float64
	RentIncreaseRate       float64
	RentersInsuranceAnnual float64
}

// StartingWeeklyRent normalizes the configured rent to a weekly amount.
func (r *RentParams) StartingWeeklyRent() float64 {
	if r.WeeklyRent > 0 {
		return r.WeeklyRent
	}
	return r.AnnualRent / 52
}

// InvestmentParams describes how surplus savings are invested.
type InvestmentParams struct {
	ReturnRate    float64 // total nominal return p.a.
	DividendYield float64 // portion of value paid as dividends (taxed annually)
	FrankingRate  float64 // proportion of dividends carrying franking credits (0-1)
}

// TaxParams holds the income tax settings. Brackets and levy are
// configuration so future-year schedules can be swapped in; nil brackets
// fall back to the 2025-26 defaults.
type TaxParams struct {
	GrossIncome  float64
	Brackets     []TaxBracket
	MedicareLevy float64
}

func (t *TaxParams) brackets() []TaxBracket {
	if len(t.Brackets) == 0 {
		return DefaultTaxBrackets()
	}
	return t.Brackets
}

func (t *TaxParams) levy() float64 {
	if t.MedicareLevy == 0 {
		return DefaultMedicareLevy
	}
	return t.MedicareLevy
}

// MarginalRate returns the marginal rate (including levy) on the
// configured gross income.
func (t *TaxParams) MarginalRate() float64 {
	return MarginalRate(t.GrossIncome, t.brackets(), t.levy())
}

// AnnualIncomeTax returns the total income tax (including levy) on the
// configured gross income.
func (t *TaxParams) AnnualIncomeTax() float64 {
	return IncomeTax(t.GrossIncome, t.brackets(), t.levy())
}

// ScenarioParams is the complete immutable input bundle for one
// simulation run.
type ScenarioParams struct {
	Buy        BuyParams
	Rent       RentParams
	Investment InvestmentParams
	Tax        TaxParams

	InflationRate    float64
	TimeHorizonYears int
	ExistingSavings  float64
}

// DefaultScenarioParams returns the "Sydney house" scenario used as the
// embedded default configuration.
func DefaultScenarioParams() ScenarioParams {
	return ScenarioParams{
		Buy: BuyParams{
			PurchasePrice:            1_550_000,
			DepositPct:               0.20,
			MortgageRate:             0.062,
			MortgageTermYears:        30,
			PropertyAppreciationRate: 0.05,
			State:                    "NSW",
			CouncilRatesPct:          0.003,
			InsurancePct:             0.002,
			MaintenancePct:           0.01,
			WaterRatesAnnual:         1_200,
			StrataAnnual:             0,
			SellingAgentPct:          0.02,
			SellingLegal:             2_000,
		},
		Rent: RentParams{
			WeeklyRent:             750,
			RentIncreaseRate:       0.04,
			RentersInsuranceAnnual: 300,
		},
		Investment: InvestmentParams{
			ReturnRate:    0.07,
			DividendYield: 0.02,
			FrankingRate:  0.0,
		},
		Tax: TaxParams{
			GrossIncome: 180_000,
		},
		InflationRate:    0.03,
		TimeHorizonYears: 30,
		ExistingSavings:  350_000,
	}
}

// Validate checks the parameter bundle before any simulation starts.
func (p *ScenarioParams) Validate() error {
	if p.Buy.PurchasePrice <= 0 {
		return &ConfigError{Field: "buy.purchase_price", Reason: "must be positive"}
	}
	if p.TimeHorizonYears < 1 {
		return &ConfigError{Field: "time_horizon_years", Reason: "must be at least 1"}
	}
	if p.Buy.MortgageTermYears < 1 {
		return &ConfigError{Field: "buy.mortgage_term_years", Reason: "must be at least 1"}
	}
	if p.Buy.DepositAmount == 0 && (p.Buy.DepositPct < 0 || p.Buy.DepositPct > 1) {
		return &ConfigError{Field: "buy.deposit_pct", Reason: "must be between 0 and 1"}
	}
	if d := p.Buy.Deposit(); d < 0 || d > p.Buy.PurchasePrice {
		return &ConfigError{Field: "buy.deposit", Reason: "must be between 0 and the purchase price"}
	}
	if p.Buy.MortgageRate < 0 {
		return &ConfigError{Field: "buy.mortgage_rate", Reason: "must not be negative"}
	}
	for i, rc := range p.Buy.RateSchedule {
		if rc.FromYear < 1 {
			return &ConfigError{
				Field:  fmt.Sprintf("buy.rate_schedule[%d].year", i),
				Reason: "must be at least 1",
			}
		}
		if rc.Rate < 0 {
			return &ConfigError{
				Field:  fmt.Sprintf("buy.rate_schedule[%d].rate", i),
				Reason: "must not be negative",
			}
		}
	}
	if p.Rent.StartingWeeklyRent() < 0 {
		return &ConfigError{Field: "rent.weekly_rent", Reason: "must not be negative"}
	}
	if p.ExistingSavings < 0 {
		return &ConfigError{Field: "existing_savings", Reason: "must not be negative"}
	}
	if p.Tax.GrossIncome < 0 {
		return &ConfigError{Field: "tax.gross_income", Reason: "must not be negative"}
	}
	// Probe the duty schedule so unsupported states fail up front.
	if p.Buy.StampDutyOverride == nil {
		if _, err := StampDuty(p.Buy.PurchasePrice, p.Buy.State, p.Buy.FirstHomeBuyer, p.Buy.NewBuild); err != nil {
			return err
		}
	}
	return nil
}
