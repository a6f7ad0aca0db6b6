package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Console and CSV output for simulation results.

// FormatMoney formats a float as a currency string
func FormatMoney(amount float64) string {
	neg := ""
	if amount < 0 {
		neg = "-"
		amount = -amount
	}
	if amount >= 1000000 {
		return fmt.Sprintf("%s$%.2fM", neg, amount/1000000)
	}
	if amount >= 1000 {
		return fmt.Sprintf("%s$%.0fk", neg, amount/1000)
	}
	return fmt.Sprintf("%s$%.0f", neg, amount)
}

// FormatMoneyFull formats a float as full currency with thousands
// separators, rounded to whole dollars.
func FormatMoneyFull(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(0)
	neg := ""
	if d.IsNegative() {
		neg = "-"
		d = d.Abs()
	}
	s := d.String()
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return neg + "$" + b.String()
}

// FormatPercent formats a rate fraction as a percentage
func FormatPercent(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate*100)
}

// PrintHeader prints the scenario header
func PrintHeader(params *ScenarioParams) {
	fmt.Println("╔══════════════════════════════════════════════════════════════════════════════╗")
	fmt.Println("║                    BUY vs RENT NET WORTH PROJECTION                          ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════════════════════╝")
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println("──────────────")

	buy := &params.Buy
	stampDuty, _ := buy.GetStampDuty()
	fmt.Printf("  Buy:  %s in %s, %s deposit (%s), %s loan @ %s over %d years\n",
		FormatMoney(buy.PurchasePrice), buy.State,
		FormatMoney(buy.Deposit()), FormatPercent(buy.Deposit()/buy.PurchasePrice),
		FormatMoney(buy.LoanAmount()), FormatPercent(buy.MortgageRate), buy.MortgageTermYears)
	fmt.Printf("        Stamp duty %s", FormatMoney(stampDuty))
	if lmi := buy.UpfrontLMI(); lmi > 0 {
		fmt.Printf(", LMI %s (LVR %s)", FormatMoney(lmi), FormatPercent(buy.LVR()))
	}
	if grant := FirstHomeGrant(buy.PurchasePrice, buy.State, buy.FirstHomeBuyer, buy.NewBuild); grant > 0 {
		fmt.Printf(", FHOG %s", FormatMoney(grant))
	}
	fmt.Println()
	for _, rc := range buy.RateSchedule {
		fmt.Printf("        Rate %s from year %d\n", FormatPercent(rc.Rate), rc.FromYear)
	}
	fmt.Printf("        Appreciation %s p.a.\n", FormatPercent(buy.PropertyAppreciationRate))

	fmt.Printf("  Rent: %s/week, increasing %s p.a.\n",
		FormatMoney(params.Rent.StartingWeeklyRent()), FormatPercent(params.Rent.RentIncreaseRate))
	fmt.Printf("  Invest: %s return, %s dividend yield",
		FormatPercent(params.Investment.ReturnRate), FormatPercent(params.Investment.DividendYield))
	if params.Investment.FrankingRate > 0 {
		fmt.Printf(", %s franked", FormatPercent(params.Investment.FrankingRate))
	}
	fmt.Println()
	fmt.Printf("  Income %s (marginal rate %s) | Savings %s | Inflation %s | Horizon %d years\n",
		FormatMoney(params.Tax.GrossIncome), FormatPercent(params.Tax.MarginalRate()),
		FormatMoney(params.ExistingSavings), FormatPercent(params.InflationRate),
		params.TimeHorizonYears)
	fmt.Println()
}

// keyYear reports whether a snapshot row belongs in the condensed table:
// first, last, every 5th, and the crossover year.
func keyYear(i, total, year, crossover int) bool {
	return i == 0 || i == total-1 || year%5 == 0 || year == crossover
}

// PrintSummary prints the condensed projection table and verdict
func PrintSummary(snapshots []YearSnapshot) {
	crossover := CrossoverYear(snapshots)

	fmt.Printf("%-6s │ %10s %10s %10s │ %10s │ %10s %10s\n",
		"Year", "Property", "Mortgage", "Buy NW", "Rent NW", "Diff", "Diff real")
	fmt.Println(strings.Repeat("─", 84))
	for i, s := range snapshots {
		if !keyYear(i, len(snapshots), s.Year, crossover) {
			continue
		}
		fmt.Printf("%-6d │ %10s %10s %10s │ %10s │ %10s %10s\n",
			s.Year,
			FormatMoney(s.PropertyValue),
			FormatMoney(s.MortgageBalance),
			FormatMoney(s.BuyNetWorth),
			FormatMoney(s.RentNetWorth),
			FormatMoney(s.NetWorthDifference),
			FormatMoney(s.NetWorthDifferenceReal))
	}
	fmt.Println(strings.Repeat("─", 84))

	final := snapshots[len(snapshots)-1]
	fmt.Println()
	fmt.Println("Summary:")
	fmt.Printf("  Final buy net worth:   %s (%s real)\n",
		FormatMoneyFull(final.BuyNetWorth), FormatMoneyFull(final.BuyNetWorthReal))
	fmt.Printf("  Final rent net worth:  %s (%s real)\n",
		FormatMoneyFull(final.RentNetWorth), FormatMoneyFull(final.RentNetWorthReal))
	fmt.Printf("  Difference:            %s (%s real)\n",
		FormatMoneyFull(final.NetWorthDifference), FormatMoneyFull(final.NetWorthDifferenceReal))
	if crossover >= 0 {
		fmt.Printf("  Buying pulls ahead in year %d\n", crossover)
	} else if final.NetWorthDifference > 0 {
		fmt.Println("  Buying is ahead for the whole horizon")
	} else {
		fmt.Println("  Renting stays ahead for the whole horizon")
	}
	fmt.Println()
}

// PrintLiquidation prints the after-sale, after-tax comparison
func PrintLiquidation(snapshots []YearSnapshot) {
	fmt.Println("Liquidated view (sell everything, pay exit costs and CGT):")
	fmt.Printf("%-6s │ %12s %12s │ %12s %12s\n",
		"Year", "Buy liq", "Buy liq real", "Rent liq", "Rent liq real")
	fmt.Println(strings.Repeat("─", 64))
	crossover := CrossoverYear(snapshots)
	for i, s := range snapshots {
		if !keyYear(i, len(snapshots), s.Year, crossover) {
			continue
		}
		fmt.Printf("%-6d │ %12s %12s │ %12s %12s\n",
			s.Year,
			FormatMoney(s.BuyLiquidated), FormatMoney(s.BuyLiquidatedReal),
			FormatMoney(s.RentLiquidated), FormatMoney(s.RentLiquidatedReal))
	}
	fmt.Println(strings.Repeat("─", 64))
	fmt.Println()
}

// PrintDetails prints the full year-by-year table
func PrintDetails(snapshots []YearSnapshot) {
	fmt.Printf("%-4s │ %10s %10s %6s │ %10s %10s │ %10s %10s │ %10s\n",
		"Year", "Property", "Mortgage", "Rate", "Buy costs", "Buy inv", "Rent", "Rent inv", "Diff")
	fmt.Println(strings.Repeat("─", 102))
	for _, s := range snapshots {
		fmt.Printf("%-4d │ %10s %10s %6s │ %10s %10s │ %10s %10s │ %10s\n",
			s.Year,
			FormatMoney(s.PropertyValue),
			FormatMoney(s.MortgageBalance),
			FormatPercent(s.MortgageRateUsed),
			FormatMoney(s.BuyHousingCosts),
			FormatMoney(s.BuyInvestments),
			FormatMoney(s.AnnualRent),
			FormatMoney(s.RentInvestments),
			FormatMoney(s.NetWorthDifference))
	}
	fmt.Println(strings.Repeat("─", 102))
	fmt.Println()
}

// csvFloat renders a float for CSV export.
func csvFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// WriteCSV exports the full projection to a CSV file
func WriteCSV(snapshots []YearSnapshot, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"year",
		"property_value", "mortgage_balance", "mortgage_rate",
		"buy_housing_costs", "buy_cumulative_costs", "buy_equity",
		"buy_investments", "buy_net_worth", "buy_net_worth_real",
		"buy_liquidated", "buy_liquidated_real",
		"annual_rent", "rent_housing_costs", "rent_cumulative_costs",
		"rent_investments", "rent_net_worth", "rent_net_worth_real",
		"rent_liquidated", "rent_liquidated_real",
		"income_tax_paid", "dividend_tax_paid",
		"difference", "difference_real",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, s := range snapshots {
		row := []string{
			strconv.Itoa(s.Year),
			csvFloat(s.PropertyValue), csvFloat(s.MortgageBalance), csvFloat(s.MortgageRateUsed),
			csvFloat(s.BuyHousingCosts), csvFloat(s.BuyCumulativeCosts), csvFloat(s.BuyEquity),
			csvFloat(s.BuyInvestments), csvFloat(s.BuyNetWorth), csvFloat(s.BuyNetWorthReal),
			csvFloat(s.BuyLiquidated), csvFloat(s.BuyLiquidatedReal),
			csvFloat(s.AnnualRent), csvFloat(s.RentHousingCosts), csvFloat(s.RentCumulativeCosts),
			csvFloat(s.RentInvestments), csvFloat(s.RentNetWorth), csvFloat(s.RentNetWorthReal),
			csvFloat(s.RentLiquidated), csvFloat(s.RentLiquidatedReal),
			csvFloat(s.IncomeTaxPaid), csvFloat(s.DividendTaxPaid),
			csvFloat(s.NetWorthDifference), csvFloat(s.NetWorthDifferenceReal),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// PrintMCSummary prints the Monte Carlo percentile bands
func PrintMCSummary(summary *MCSummary, runs int) {
	fmt.Println("╔══════════════════════════════════════════════════════════════════════════════╗")
	fmt.Printf("║ Monte Carlo: %-6d runs %52s ║\n", runs, "")
	fmt.Println("╚══════════════════════════════════════════════════════════════════════════════╝")
	fmt.Println()

	last := len(summary.Years) - 1
	fmt.Printf("Terminal net worth (year %d, nominal, paper):\n", summary.Years[last])
	fmt.Printf("%-6s │ %12s │ %12s │ %12s\n", "Pctl", "Buy", "Rent", "Diff")
	fmt.Println(strings.Repeat("─", 52))
	for _, p := range summary.Percentiles {
		fmt.Printf("p%-5d │ %12s │ %12s │ %12s\n", p,
			FormatMoney(summary.BuyPaper.Nominal[p][last]),
			FormatMoney(summary.RentPaper.Nominal[p][last]),
			FormatMoney(summary.DiffPaper.Nominal[p][last]))
	}
	fmt.Println(strings.Repeat("─", 52))
	fmt.Println()

	fmt.Printf("Terminal liquidated (year %d, real):\n", summary.Years[last])
	fmt.Printf("%-6s │ %12s │ %12s\n", "Pctl", "Buy", "Rent")
	fmt.Println(strings.Repeat("─", 38))
	for _, p := range summary.Percentiles {
		fmt.Printf("p%-5d │ %12s │ %12s\n", p,
			FormatMoney(summary.BuyLiquidated.Real[p][last]),
			FormatMoney(summary.RentLiquidated.Real[p][last]))
	}
	fmt.Println(strings.Repeat("─", 38))
	fmt.Println()

	fmt.Println("Probability buying is ahead (paper):")
	for y := 0; y < len(summary.Years); y += 5 {
		if y == 0 {
			continue
		}
		fmt.Printf("  Year %-3d %5.1f%%\n", summary.Years[y], summary.ProbBuyWins[y]*100)
	}
	if last%5 != 0 {
		fmt.Printf("  Year %-3d %5.1f%%\n", summary.Years[last], summary.ProbBuyWins[last]*100)
	}
	fmt.Println()
	if summary.MedianCrossover >= 0 {
		fmt.Printf("Median trajectory crossover: year %d\n", summary.MedianCrossover)
	} else if summary.ProbBuyWins[last] > 0.5 {
		fmt.Println("Median trajectory: buying ahead for the whole horizon")
	} else {
		fmt.Println("Median trajectory: renting ahead for the whole horizon")
	}
	fmt.Println()
}

// PrintSweep prints a sensitivity sweep table
func PrintSweep(result *SweepResult) {
	fmt.Printf("Sensitivity: %s\n", result.Parameter)
	fmt.Printf("%-12s │ %12s │ %12s │ %12s │ %s\n",
		"Value", "Buy NW", "Rent NW", "Diff", "Crossover")
	fmt.Println(strings.Repeat("─", 72))
	for _, pt := range result.Points {
		crossover := "never"
		if pt.CrossoverYear >= 0 {
			crossover = fmt.Sprintf("year %d", pt.CrossoverYear)
		}
		fmt.Printf("%-12.4f │ %12s │ %12s │ %12s │ %s\n",
			pt.Value,
			FormatMoney(pt.BuyNetWorth),
			FormatMoney(pt.RentNetWorth),
			FormatMoney(pt.Difference),
			crossover)
	}
	fmt.Println(strings.Repeat("─", 72))
	if v, ok := result.BreakEven(); ok {
		fmt.Printf("Buying ends ahead from %s = %.4f\n", result.Parameter, v)
	} else {
		fmt.Println("Renting ends ahead across the whole range")
	}
	fmt.Println()
}
