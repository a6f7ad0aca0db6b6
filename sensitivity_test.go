package main

import (
	"errors"
	"math"
	"testing"
)

func TestFRange_Inclusive(t *testing.T) {
	got := FRange(0.04, 0.09, 0.005)
	if len(got) != 11 {
		t.Fatalf("got %d values, want 11", len(got))
	}
	almostEqual(t, got[0], 0.04, 1e-12, "first value")
	almostEqual(t, got[len(got)-1], 0.09, 1e-12, "last value")
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("values not strictly increasing at %d", i)
		}
	}
}

func TestFRange_SingleValue(t *testing.T) {
	got := FRange(0.05, 0.05, 0.01)
	if len(got) != 1 || math.Abs(got[0]-0.05) > 1e-12 {
		t.Fatalf("FRange(0.05, 0.05) = %v, want [0.05]", got)
	}
}

func TestFRange_Degenerate(t *testing.T) {
	if got := FRange(0.05, 0.04, 0.01); got != nil {
		t.Errorf("reversed range = %v, want nil", got)
	}
	if got := FRange(0.04, 0.09, 0); got != nil {
		t.Errorf("zero step = %v, want nil", got)
	}
}

func TestSweep_UnknownParameter(t *testing.T) {
	_, err := Sweep(DefaultScenarioParams(), "buy.nonexistent", []float64{1})
	if err == nil {
		t.Fatal("expected an error for an unknown parameter")
	}
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %T", err)
	}
}

func TestSweep_EmptyRange(t *testing.T) {
	_, err := Sweep(DefaultScenarioParams(), "buy.mortgage_rate", nil)
	if err == nil {
		t.Fatal("expected an error for an empty range")
	}
}

func TestSweep_MortgageRate(t *testing.T) {
	// A higher mortgage rate can only hurt the buy scenario.
	result, err := Sweep(DefaultScenarioParams(), "buy.mortgage_rate", FRange(0.04, 0.09, 0.01))
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if len(result.Points) != 6 {
		t.Fatalf("got %d points, want 6", len(result.Points))
	}
	for i := 1; i < len(result.Points); i++ {
		if result.Points[i].Difference >= result.Points[i-1].Difference {
			t.Errorf("difference did not fall as the rate rose: %.2f -> %.2f at %.2f",
				result.Points[i-1].Difference, result.Points[i].Difference, result.Points[i].Value)
		}
		if result.Points[i].BuyNetWorth >= result.Points[i-1].BuyNetWorth {
			t.Errorf("buy net worth did not fall as the rate rose")
		}
	}
}

func TestSweep_ReturnRateFavorsRenting(t *testing.T) {
	result, err := Sweep(DefaultScenarioParams(), "investment.return_rate", FRange(0.03, 0.11, 0.02))
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	for i := 1; i < len(result.Points); i++ {
		if result.Points[i].RentNetWorth <= result.Points[i-1].RentNetWorth {
			t.Errorf("rent net worth did not rise with the return rate")
		}
	}
}

func TestSweep_DoesNotMutateBase(t *testing.T) {
	base := DefaultScenarioParams()
	before := base.Buy.MortgageRate
	if _, err := Sweep(base, "buy.mortgage_rate", []float64{0.10}); err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if base.Buy.MortgageRate != before {
		t.Errorf("sweep mutated the base parameters: %.4f", base.Buy.MortgageRate)
	}
}

func TestSweep_BreakEven(t *testing.T) {
	// Sweeping appreciation from weak to strong crosses break-even
	// somewhere in the middle.
	result, err := Sweep(DefaultScenarioParams(), "buy.property_appreciation_rate", FRange(0.00, 0.10, 0.01))
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	v, ok := result.BreakEven()
	if !ok {
		t.Fatal("expected a break-even point in 0-10% appreciation")
	}
	if v <= 0 || v >= 0.10 {
		t.Errorf("break-even at %.2f, expected inside the range", v)
	}
}

func TestSweepableParameters_AllResolve(t *testing.T) {
	// Every advertised path must run a sweep without error.
	for _, path := range SweepableParameters() {
		base := DefaultScenarioParams()
		value := 0.05
		if path == "buy.purchase_price" {
			value = 900_000
		}
		if path == "rent.weekly_rent" {
			value = 600
		}
		if path == "existing_savings" {
			value = 200_000
		}
		if _, err := Sweep(base, path, []float64{value}); err != nil {
			t.Errorf("sweep over %s: %v", path, err)
		}
	}
}
