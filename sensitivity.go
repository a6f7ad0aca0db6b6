package main

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// One-dimensional sensitivity analysis: sweep a single parameter across
// a range, re-run the deterministic simulation at each value, and report
// the terminal outcomes. Parameters are addressed by the same dotted
// paths the YAML configuration uses.

// sensitivitySetters maps a parameter path to a setter on a parameter
// bundle copy.
var sensitivitySetters = map[string]func(p *ScenarioParams, v float64){
	"buy.purchase_price":             func(p *ScenarioParams, v float64) { p.Buy.PurchasePrice = v },
	"buy.deposit_pct":                func(p *ScenarioParams, v float64) { p.Buy.DepositPct = v },
	"buy.mortgage_rate":              func(p *ScenarioParams, v float64) { p.Buy.MortgageRate = v },
	"buy.property_appreciation_rate": func(p *ScenarioParams, v float64) { p.Buy.PropertyAppreciationRate = v },
	"rent.weekly_rent":               func(p *ScenarioParams, v float64) { p.Rent.WeeklyRent = v },
	"rent.rent_increase_rate":        func(p *ScenarioParams, v float64) { p.Rent.RentIncreaseRate = v },
	"investment.return_rate":         func(p *ScenarioParams, v float64) { p.Investment.ReturnRate = v },
	"inflation_rate":                 func(p *ScenarioParams, v float64) { p.InflationRate = v },
	"existing_savings":               func(p *ScenarioParams, v float64) { p.ExistingSavings = v },
}

// SweepableParameters returns the parameter paths available for
// sensitivity sweeps.
func SweepableParameters() []string {
	paths := make([]string, 0, len(sensitivitySetters))
	for p := range sensitivitySetters {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// FRange returns the inclusive sequence from, from+step, ... up to and
// including to (within half a step of floating point slack).
func FRange(from, to, step float64) []float64 {
	if step <= 0 {
		return nil
	}
	var values []float64
	for v := from; v <= to+step/2; v += step {
		values = append(values, v)
	}
	// Snap the last value onto the bound if accumulation overshot it.
	if n := len(values); n > 0 && math.Abs(values[n-1]-to) < step/2 {
		values[n-1] = to
	}
	return values
}

// SweepPoint is the terminal outcome of one simulation in a sweep.
type SweepPoint struct {
	Value float64 // the swept parameter's value

	BuyNetWorth    float64 // terminal, nominal, paper
	RentNetWorth   float64
	Difference     float64 // buy − rent
	BuyLiquidated  float64
	RentLiquidated float64
	CrossoverYear  int // -1 if buying never overtakes renting
}

// SweepResult holds a complete sensitivity sweep.
type SweepResult struct {
	Parameter string
	Points    []SweepPoint
}

// BreakEven returns the first swept value at which buying ends ahead of
// renting on terminal paper net worth, and whether one exists.
func (r *SweepResult) BreakEven() (float64, bool) {
	for _, pt := range r.Points {
		if pt.Difference > 0 {
			return pt.Value, true
		}
	}
	return 0, false
}

// Sweep runs the deterministic simulation once per value of the named
// parameter. The base parameters are copied for each run; an unknown
// parameter path is a ConfigError listing the valid paths.
func Sweep(base ScenarioParams, parameter string, values []float64) (*SweepResult, error) {
	setter, ok := sensitivitySetters[parameter]
	if !ok {
		return nil, &ConfigError{
			Field:  "sensitivity.parameter",
			Reason: fmt.Sprintf("unknown parameter %q, supported: %s", parameter, strings.Join(SweepableParameters(), ", ")),
		}
	}
	if len(values) == 0 {
		return nil, &ConfigError{Field: "sensitivity.range", Reason: "produces no values"}
	}

	result := &SweepResult{Parameter: parameter, Points: make([]SweepPoint, 0, len(values))}
	for _, v := range values {
		params := base
		// The struct copy shares the schedule and bracket slices; the
		// setters only touch scalar fields so that is safe.
		setter(&params, v)
		snapshots, err := Simulate(params)
		if err != nil {
			return nil, err
		}
		final := snapshots[len(snapshots)-1]
		result.Points = append(result.Points, SweepPoint{
			Value:          v,
			BuyNetWorth:    final.BuyNetWorth,
			RentNetWorth:   final.RentNetWorth,
			Difference:     final.NetWorthDifference,
			BuyLiquidated:  final.BuyLiquidated,
			RentLiquidated: final.RentLiquidated,
			CrossoverYear:  CrossoverYear(snapshots),
		})
	}
	return result, nil
}
