package main

import (
	_ "embed"
	"math"
	"os"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed default-config.yaml
var defaultConfigYAML string

// BuyConfig represents the purchase-side configuration from YAML
type BuyConfig struct {
	PurchasePrice     float64 `yaml:"purchase_price" json:"purchase_price"`
	DepositPct        float64 `yaml:"deposit_pct" json:"deposit_pct"`                     // Fraction of price (0.20 = 20%); ignored when deposit_amount set
	DepositAmount     float64 `yaml:"deposit_amount,omitempty" json:"deposit_amount"`     // Fixed dollar deposit (overrides deposit_pct)
	MortgageRate      float64 `yaml:"mortgage_rate" json:"mortgage_rate"`                 // Annual rate (0.062 = 6.2%)
	MortgageTermYears int     `yaml:"mortgage_term_years" json:"mortgage_term_years"`

	PropertyAppreciationRate float64 `yaml:"property_appreciation_rate" json:"property_appreciation_rate"`

	StampDuty      *float64 `yaml:"stamp_duty,omitempty" json:"stamp_duty,omitempty"` // Override; omit to calculate from the state schedule
	LMI            float64  `yaml:"lmi,omitempty" json:"lmi"`                         // Override; omit to estimate when LVR > 80%
	State          string   `yaml:"state" json:"state"`                               // NSW, VIC or QLD
	FirstHomeBuyer bool     `yaml:"first_home_buyer" json:"first_home_buyer"`
	NewBuild       bool     `yaml:"new_build" json:"new_build"`

	// Variable rate schedule: each entry applies from its year onwards.
	RateSchedule []RateChangeConfig `yaml:"rate_schedule,omitempty" json:"rate_schedule,omitempty"`

	CouncilRatesPct  float64 `yaml:"council_rates_pct" json:"council_rates_pct"`   // Of current property value
	InsurancePct     float64 `yaml:"insurance_pct" json:"insurance_pct"`           // Of current property value
	MaintenancePct   float64 `yaml:"maintenance_pct" json:"maintenance_pct"`       // Of current property value
	WaterRatesAnnual float64 `yaml:"water_rates_annual" json:"water_rates_annual"` // Dollars, CPI-indexed
	StrataAnnual     float64 `yaml:"strata_annual" json:"strata_annual"`           // Dollars, CPI-indexed (0 for houses)

	SellingAgentPct float64 `yaml:"selling_agent_pct" json:"selling_agent_pct"` // Agent commission on eventual sale
	SellingLegal    float64 `yaml:"selling_legal" json:"selling_legal"`         // Conveyancing on eventual sale, CPI-indexed
}

// RateChangeConfig is one entry in the mortgage rate schedule
type RateChangeConfig struct {
	Year int     `yaml:"year" json:"year"` // 1-based simulation year the rate takes effect
	Rate float64 `yaml:"rate" json:"rate"`
}

// RentConfig represents the rental-side configuration from YAML
type RentConfig struct {
	WeeklyRent             float64 `yaml:"weekly_rent,omitempty" json:"weekly_rent"` // Takes precedence over annual_rent
	AnnualRent             float64 `yaml:"annual_rent,omitempty" json:"annual_rent"`
	RentIncreaseRate       float64 `yaml:"rent_increase_rate" json:"rent_increase_rate"`
	RentersInsuranceAnnual float64 `yaml:"renters_insurance_annual" json:"renters_insurance_annual"`
}

// InvestmentConfig describes how surplus savings are invested
type InvestmentConfig struct {
	ReturnRate    float64 `yaml:"return_rate" json:"return_rate"`       // Total nominal return p.a.
	DividendYield float64 `yaml:"dividend_yield" json:"dividend_yield"` // Taxed annually, reinvested after tax
	FrankingRate  float64 `yaml:"franking_rate" json:"franking_rate"`   // Proportion of dividends franked (0-1)
}

// TaxBracketConfig is one income tax bracket from configuration. Omit
// up_to (or set it to 0) on the final bracket for an open upper bound.
type TaxBracketConfig struct {
	UpTo float64 `yaml:"up_to,omitempty" json:"up_to,omitempty"`
	Rate float64 `yaml:"rate" json:"rate"`
}

// TaxConfig holds the income tax configuration. Brackets default to the
// 2025-26 resident schedule when omitted.
type TaxConfig struct {
	GrossIncome  float64            `yaml:"gross_income" json:"gross_income"`
	Brackets     []TaxBracketConfig `yaml:"brackets,omitempty" json:"brackets,omitempty"`
	MedicareLevy float64            `yaml:"medicare_levy,omitempty" json:"medicare_levy"`
}

// MonteCarloYAML holds the Monte Carlo configuration from YAML
type MonteCarloYAML struct {
	Runs int   `yaml:"runs" json:"runs"`
	Seed int64 `yaml:"seed" json:"seed"`

	StdPropertyAppreciation float64 `yaml:"std_property_appreciation" json:"std_property_appreciation"`
	StdInvestmentReturn     float64 `yaml:"std_investment_return" json:"std_investment_return"`
	StdRentIncrease         float64 `yaml:"std_rent_increase" json:"std_rent_increase"`
	StdInflation            float64 `yaml:"std_inflation" json:"std_inflation"`
	StdMortgageRate         float64 `yaml:"std_mortgage_rate" json:"std_mortgage_rate"`

	Correlation [][]float64 `yaml:"correlation,omitempty" json:"correlation,omitempty"` // 5×5; omit for the default matrix
	Percentiles []int       `yaml:"percentiles,omitempty" json:"percentiles,omitempty"`
}

// SensitivityYAML holds the default sweep settings for -sensitivity runs
type SensitivityYAML struct {
	Parameter string  `yaml:"parameter" json:"parameter"` // e.g. buy.mortgage_rate
	From      float64 `yaml:"from" json:"from"`
	To        float64 `yaml:"to" json:"to"`
	Step      float64 `yaml:"step" json:"step"`
}

// Config holds the complete configuration
type Config struct {
	Buy        BuyConfig        `yaml:"buy" json:"buy"`
	Rent       RentConfig       `yaml:"rent" json:"rent"`
	Investment InvestmentConfig `yaml:"investment" json:"investment"`
	Tax        TaxConfig        `yaml:"tax" json:"tax"`

	InflationRate    float64 `yaml:"inflation_rate" json:"inflation_rate"`
	TimeHorizonYears int     `yaml:"time_horizon_years" json:"time_horizon_years"`
	ExistingSavings  float64 `yaml:"existing_savings" json:"existing_savings"`

	MonteCarlo  MonteCarloYAML  `yaml:"monte_carlo" json:"monte_carlo"`
	Sensitivity SensitivityYAML `yaml:"sensitivity" json:"sensitivity"`
}

// ToScenarioParams converts the YAML configuration to simulation
// parameters.
func (c *Config) ToScenarioParams() ScenarioParams {
	schedule := make([]RateChange, 0, len(c.Buy.RateSchedule))
	for _, rc := range c.Buy.RateSchedule {
		schedule = append(schedule, RateChange{FromYear: rc.Year, Rate: rc.Rate})
	}
	brackets := make([]TaxBracket, 0, len(c.Tax.Brackets))
	for _, b := range c.Tax.Brackets {
		upTo := b.UpTo
		if upTo == 0 {
			upTo = math.Inf(1)
		}
		brackets = append(brackets, TaxBracket{UpTo: upTo, Rate: b.Rate})
	}
	return ScenarioParams{
		Buy: BuyParams{
			PurchasePrice:            c.Buy.PurchasePrice,
			DepositPct:               c.Buy.DepositPct,
			DepositAmount:            c.Buy.DepositAmount,
			MortgageRate:             c.Buy.MortgageRate,
			MortgageTermYears:        c.Buy.MortgageTermYears,
			PropertyAppreciationRate: c.Buy.PropertyAppreciationRate,
			StampDutyOverride:        c.Buy.StampDuty,
			LMI:                      c.Buy.LMI,
			State:                    c.Buy.State,
			FirstHomeBuyer:           c.Buy.FirstHomeBuyer,
			NewBuild:                 c.Buy.NewBuild,
			RateSchedule:             schedule,
			CouncilRatesPct:          c.Buy.CouncilRatesPct,
			InsurancePct:             c.Buy.InsurancePct,
			MaintenancePct:           c.Buy.MaintenancePct,
			WaterRatesAnnual:         c.Buy.WaterRatesAnnual,
			StrataAnnual:             c.Buy.StrataAnnual,
			SellingAgentPct:          c.Buy.SellingAgentPct,
			SellingLegal:             c.Buy.SellingLegal,
		},
		Rent: RentParams{
			WeeklyRent:             c.Rent.WeeklyRent,
			AnnualRent:             c.Rent.AnnualRent,
			RentIncreaseRate:       c.Rent.RentIncreaseRate,
			RentersInsuranceAnnual: c.Rent.RentersInsuranceAnnual,
		},
		Investment: InvestmentParams{
			ReturnRate:    c.Investment.ReturnRate,
			DividendYield: c.Investment.DividendYield,
			FrankingRate:  c.Investment.FrankingRate,
		},
		Tax: TaxParams{
			GrossIncome:  c.Tax.GrossIncome,
			Brackets:     brackets,
			MedicareLevy: c.Tax.MedicareLevy,
		},
		InflationRate:    c.InflationRate,
		TimeHorizonYears: c.TimeHorizonYears,
		ExistingSavings:  c.ExistingSavings,
	}
}

// ToMCConfig converts the YAML Monte Carlo section to run settings,
// filling defaults for anything omitted.
func (c *Config) ToMCConfig() MCConfig {
	cfg := DefaultMCConfig()
	mc := &c.MonteCarlo
	if mc.Runs > 0 {
		cfg.Runs = mc.Runs
	}
	if mc.Seed != 0 {
		cfg.Seed = mc.Seed
	}
	if mc.StdPropertyAppreciation > 0 {
		cfg.StdPropertyAppreciation = mc.StdPropertyAppreciation
	}
	if mc.StdInvestmentReturn > 0 {
		cfg.StdInvestmentReturn = mc.StdInvestmentReturn
	}
	if mc.StdRentIncrease > 0 {
		cfg.StdRentIncrease = mc.StdRentIncrease
	}
	if mc.StdInflation > 0 {
		cfg.StdInflation = mc.StdInflation
	}
	if mc.StdMortgageRate > 0 {
		cfg.StdMortgageRate = mc.StdMortgageRate
	}
	if mc.Correlation != nil {
		cfg.CorrelationOverride = mc.Correlation
	}
	if len(mc.Percentiles) > 0 {
		cfg.Percentiles = mc.Percentiles
	}
	return cfg
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	content := preprocessPercentages(string(data))

	var config Config
	err = yaml.Unmarshal([]byte(content), &config)
	if err != nil {
		return nil, err
	}

	return &config, nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	// Add a header comment with instructions
	header := []byte(`# Buy vs Rent Configuration
# Feel free to edit manually
#
# ═══════════════════════════════════════════════════════════════════════════════
# VALUE FORMATS
# ═══════════════════════════════════════════════════════════════════════════════
#   Percentages: 0.05 = 5% (decimal), or write 5% directly
#   Money: values are in AUD (e.g., 1550000 = $1.55m)
#   Rent: weekly_rent takes precedence over annual_rent when both are set
#
# ═══════════════════════════════════════════════════════════════════════════════
# RUN COMMANDS
# ═══════════════════════════════════════════════════════════════════════════════
#   ./housing-model                          Deterministic projection (summary)
#   ./housing-model -details                 Full year-by-year table
#   ./housing-model -liquidation             After-sale, after-tax view
#   ./housing-model -mc                      Monte Carlo percentile bands
#   ./housing-model -sensitivity buy.mortgage_rate -from 0.04 -to 0.09 -step 0.005
#   ./housing-model -csv out.csv             Export the projection as CSV
#   ./housing-model -pdf report.pdf          Generate a PDF report
#   ./housing-model -help                    Show all options

`)
	content := append(header, data...)
	return os.WriteFile(filename, content, 0644)
}

// LoadDefaultConfig loads the default configuration from embedded
// default-config.yaml. It handles percentage format (e.g., "5%" -> 0.05)
func LoadDefaultConfig() (*Config, error) {
	content := preprocessPercentages(defaultConfigYAML)

	var config Config
	err := yaml.Unmarshal([]byte(content), &config)
	if err != nil {
		return nil, err
	}

	return &config, nil
}

// preprocessPercentages converts percentage values like "5%" to decimal "0.05"
func preprocessPercentages(content string) string {
	re := regexp.MustCompile(`(:\s*)(-?\d+\.?\d*)%`)
	return re.ReplaceAllStringFunc(content, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) >= 3 {
			num, err := strconv.ParseFloat(parts[2], 64)
			if err == nil {
				return parts[1] + strconv.FormatFloat(num/100.0, 'f', -1, 64)
			}
		}
		return match
	})
}
