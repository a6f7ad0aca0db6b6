package main

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(t *testing.T, got, want, tol float64, what string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %.4f, want %.4f", what, got, want)
	}
}

// =============================================================================
// Income Tax
// =============================================================================

func TestIncomeTax_2025_26Schedule(t *testing.T) {
	brackets := DefaultTaxBrackets()

	testCases := []struct {
		income float64
		want   float64
	}{
		{0, 0},
		{18_200, 364},      // all in the tax-free bracket, levy only
		{45_000, 5_188},    // 4288 + 900 levy
		{100_000, 22_788},  // 4288 + 16500 + 2000 levy
		{135_000, 33_988},  // 4288 + 27000 + 2700 levy
		{180_000, 51_538},  // 4288 + 27000 + 16650 + 3600 levy
		{190_000, 55_438},  // top of the 37% bracket
		{250_000, 83_638},  // into the 45% bracket
	}

	for _, tc := range testCases {
		got := IncomeTax(tc.income, brackets, DefaultMedicareLevy)
		almostEqual(t, got, tc.want, 0.01, "IncomeTax")
	}
}

func TestIncomeTax_NegativeIncomeIsZero(t *testing.T) {
	if got := IncomeTax(-50_000, DefaultTaxBrackets(), DefaultMedicareLevy); got != 0 {
		t.Errorf("IncomeTax(-50000) = %.2f, want 0", got)
	}
}

func TestInvariant_IncomeTaxMonotonic(t *testing.T) {
	// Property: tax never decreases as income increases, and never
	// exceeds income.
	brackets := DefaultTaxBrackets()
	prev := 0.0
	for income := 0.0; income <= 500_000; income += 1_000 {
		tax := IncomeTax(income, brackets, DefaultMedicareLevy)
		if tax < prev {
			t.Fatalf("tax decreased from %.2f to %.2f at income %.0f", prev, tax, income)
		}
		if tax > income {
			t.Fatalf("tax %.2f exceeds income %.0f", tax, income)
		}
		prev = tax
	}
}

func TestInvariant_IncomeTaxContinuousAtBoundaries(t *testing.T) {
	// Property: no jump at bracket boundaries.
	brackets := DefaultTaxBrackets()
	for _, b := range brackets[:len(brackets)-1] {
		below := IncomeTax(b.UpTo-0.01, brackets, DefaultMedicareLevy)
		above := IncomeTax(b.UpTo+0.01, brackets, DefaultMedicareLevy)
		if math.Abs(above-below) > 0.05 {
			t.Errorf("tax jumps from %.4f to %.4f at boundary %.0f", below, above, b.UpTo)
		}
	}
}

func TestMarginalRate(t *testing.T) {
	brackets := DefaultTaxBrackets()

	testCases := []struct {
		income float64
		want   float64
	}{
		{10_000, 0.02},  // tax-free bracket, levy only
		{40_000, 0.18},  // 16% + levy
		{100_000, 0.32}, // 30% + levy
		{180_000, 0.39}, // 37% + levy
		{300_000, 0.47}, // 45% + levy
	}

	for _, tc := range testCases {
		got := MarginalRate(tc.income, brackets, DefaultMedicareLevy)
		almostEqual(t, got, tc.want, 1e-9, "MarginalRate")
	}
}

// =============================================================================
// Stamp Duty
// =============================================================================

func TestStampDuty_QLDFirstHomeBuyer(t *testing.T) {
	// A $600k first home in QLD is fully exempt; the same purchase
	// without the concession pays duty.
	duty, err := StampDuty(600_000, "QLD", true, false)
	if err != nil {
		t.Fatalf("StampDuty: %v", err)
	}
	if duty != 0 {
		t.Errorf("QLD $600k FHB duty = %.2f, want 0", duty)
	}

	duty, err = StampDuty(600_000, "QLD", false, false)
	if err != nil {
		t.Fatalf("StampDuty: %v", err)
	}
	almostEqual(t, duty, 20_100, 0.01, "QLD $600k duty")
}

func TestStampDuty_NSWFirstHomeBuyer(t *testing.T) {
	// Exempt to $800k, linear phase-out to $1M, full duty above.
	exempt, _ := StampDuty(799_000, "NSW", true, false)
	if exempt != 0 {
		t.Errorf("NSW $799k FHB duty = %.2f, want 0", exempt)
	}

	partial, _ := StampDuty(900_000, "NSW", true, false)
	full, _ := StampDuty(900_000, "NSW", false, false)
	if partial <= 0 || partial >= full {
		t.Errorf("NSW $900k FHB duty %.2f should be between 0 and full duty %.2f", partial, full)
	}

	atCap, _ := StampDuty(1_000_000, "NSW", true, false)
	fullAtCap, _ := StampDuty(1_000_000, "NSW", false, false)
	almostEqual(t, atCap, fullAtCap, 0.01, "NSW $1M FHB duty")
}

func TestStampDuty_VICAboveThresholdIsFlat(t *testing.T) {
	// Above $960k VIC duty is a flat 5.5% of the full price.
	duty, _ := StampDuty(1_550_000, "VIC", false, false)
	almostEqual(t, duty, 1_550_000*0.055, 0.01, "VIC $1.55M duty")
}

func TestStampDuty_UnknownState(t *testing.T) {
	_, err := StampDuty(500_000, "WA", false, false)
	if err == nil {
		t.Fatal("expected error for unsupported state")
	}
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %T", err)
	}
}

func TestStampDuty_CaseInsensitiveState(t *testing.T) {
	upper, _ := StampDuty(800_000, "NSW", false, false)
	lower, err := StampDuty(800_000, "nsw", false, false)
	if err != nil {
		t.Fatalf("StampDuty lowercase: %v", err)
	}
	if upper != lower {
		t.Errorf("duty differs by case: %.2f vs %.2f", upper, lower)
	}
}

func TestInvariant_StampDutyMonotonicInPrice(t *testing.T) {
	for _, state := range SupportedStates() {
		prev := 0.0
		for price := 100_000.0; price <= 3_000_000; price += 50_000 {
			duty, err := StampDuty(price, state, false, false)
			if err != nil {
				t.Fatalf("StampDuty(%s): %v", state, err)
			}
			if duty < prev {
				t.Fatalf("%s duty decreased from %.2f to %.2f at price %.0f", state, prev, duty, price)
			}
			prev = duty
		}
	}
}

// =============================================================================
// First Home Owner Grant
// =============================================================================

func TestFirstHomeGrant(t *testing.T) {
	testCases := []struct {
		name           string
		price          float64
		state          string
		firstHomeBuyer bool
		newBuild       bool
		want           float64
	}{
		{"NSW new build FHB", 700_000, "NSW", true, true, 10_000},
		{"NSW existing dwelling", 700_000, "NSW", true, false, 0},
		{"NSW not FHB", 700_000, "NSW", false, true, 0},
		{"VIC new build FHB", 600_000, "VIC", true, true, 10_000},
		{"QLD new build FHB", 700_000, "QLD", true, true, 30_000},
		{"QLD above price cap", 800_000, "QLD", true, true, 0},
		{"QLD at price cap", 750_000, "QLD", true, true, 30_000},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := FirstHomeGrant(tc.price, tc.state, tc.firstHomeBuyer, tc.newBuild)
			if got != tc.want {
				t.Errorf("FirstHomeGrant = %.0f, want %.0f", got, tc.want)
			}
		})
	}
}

// =============================================================================
// Capital Gains Tax
// =============================================================================

func TestCapitalGainsTax(t *testing.T) {
	// 50% discount for holdings over 12 months, full rate otherwise,
	// losses produce no refund.
	almostEqual(t, CapitalGainsTax(10_000, 0.39, true), 1_950, 0.01, "discounted CGT")
	almostEqual(t, CapitalGainsTax(10_000, 0.39, false), 3_900, 0.01, "full CGT")

	if got := CapitalGainsTax(-5_000, 0.39, true); got != 0 {
		t.Errorf("CGT on a loss = %.2f, want 0", got)
	}
	if got := CapitalGainsTax(0, 0.39, true); got != 0 {
		t.Errorf("CGT on zero gain = %.2f, want 0", got)
	}
}

// =============================================================================
// Franking Credits
// =============================================================================

func TestEffectiveDividendTaxRate(t *testing.T) {
	// Unfranked dividends pay the full marginal rate; fully franked pay
	// only the top-up above the company rate.
	almostEqual(t, EffectiveDividendTaxRate(0, 0.39, CompanyTaxRate), 0.39, 1e-9, "unfranked")
	almostEqual(t, EffectiveDividendTaxRate(1, 0.39, CompanyTaxRate), (0.39-0.30)/0.70, 1e-9, "fully franked")

	// Half franked sits exactly between.
	half := EffectiveDividendTaxRate(0.5, 0.39, CompanyTaxRate)
	almostEqual(t, half, (0.39+(0.39-0.30)/0.70)/2, 1e-9, "half franked")
}

func TestEffectiveDividendTaxRate_BelowCompanyRate(t *testing.T) {
	// A marginal rate below the company rate never produces a negative
	// effective rate (no refundable excess credits in this model).
	got := EffectiveDividendTaxRate(1, 0.18, CompanyTaxRate)
	if got != 0 {
		t.Errorf("fully franked below company rate = %.4f, want 0", got)
	}
	unfranked := EffectiveDividendTaxRate(0, 0.18, CompanyTaxRate)
	almostEqual(t, unfranked, 0.18, 1e-9, "unfranked below company rate")
}

func TestFrankingAdjustedTax(t *testing.T) {
	almostEqual(t, FrankingAdjustedTax(10_000, 0, 0.39, CompanyTaxRate), 3_900, 0.01, "unfranked tax")
	if got := FrankingAdjustedTax(-100, 0, 0.39, CompanyTaxRate); got != 0 {
		t.Errorf("tax on negative dividends = %.2f, want 0", got)
	}
}

func TestInvariant_FrankingNeverIncreasesTax(t *testing.T) {
	// Property: more franking never raises the effective dividend rate.
	for _, marginal := range []float64{0.02, 0.18, 0.32, 0.39, 0.47} {
		prev := math.Inf(1)
		for franking := 0.0; franking <= 1.0; franking += 0.1 {
			rate := EffectiveDividendTaxRate(franking, marginal, CompanyTaxRate)
			if rate > prev+1e-12 {
				t.Fatalf("effective rate rose from %.4f to %.4f at franking %.1f (marginal %.2f)",
					prev, rate, franking, marginal)
			}
			if rate < 0 {
				t.Fatalf("negative effective rate %.4f at franking %.1f (marginal %.2f)", rate, franking, marginal)
			}
			prev = rate
		}
	}
}
