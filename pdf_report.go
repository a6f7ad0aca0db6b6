package main

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// PDF report: scenario assumptions, the condensed projection table, the
// liquidated view and (when available) Monte Carlo percentile bands.

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
)

// FormatMoneyPDF formats money for PDF output
func FormatMoneyPDF(amount float64) string {
	return FormatMoney(amount)
}

// PDFReport generates the buy-vs-rent PDF report
type PDFReport struct {
	pdf       *fpdf.Fpdf
	params    *ScenarioParams
	snapshots []YearSnapshot
	mcSummary *MCSummary // nil when no Monte Carlo run was requested
	mcRuns    int
}

// GeneratePDFReport renders a complete report for a simulation. Pass a
// nil summary to omit the Monte Carlo section.
func GeneratePDFReport(params *ScenarioParams, snapshots []YearSnapshot, mcSummary *MCSummary, mcRuns int) ([]byte, error) {
	report := &PDFReport{
		pdf:       fpdf.New("P", "mm", "A4", ""),
		params:    params,
		snapshots: snapshots,
		mcSummary: mcSummary,
		mcRuns:    mcRuns,
	}

	report.pdf.SetMargins(marginLeft, marginTop, marginRight)
	report.pdf.SetAutoPageBreak(true, marginBottom)

	report.addTitlePage()
	report.addProjectionPage()
	report.addLiquidationPage()
	if mcSummary != nil {
		report.addMonteCarloPage()
	}

	var buf bytes.Buffer
	err := report.pdf.Output(&buf)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (r *PDFReport) addTitlePage() {
	r.pdf.AddPage()

	r.pdf.SetFont("Arial", "B", 28)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.Ln(40)
	r.pdf.CellFormat(contentWidth, 15, "Buy vs Rent Projection", "", 1, "C", false, 0, "")

	buy := &r.params.Buy
	r.pdf.SetFont("Arial", "", 14)
	r.pdf.SetTextColor(80, 80, 80)
	r.pdf.Ln(5)
	subtitle := fmt.Sprintf("%s purchase in %s over %d years",
		FormatMoneyPDF(buy.PurchasePrice), buy.State, r.params.TimeHorizonYears)
	r.pdf.CellFormat(contentWidth, 10, subtitle, "", 1, "C", false, 0, "")

	r.pdf.SetFont("Arial", "I", 11)
	r.pdf.Ln(10)
	r.pdf.CellFormat(contentWidth, 8, fmt.Sprintf("Generated: %s", time.Now().Format("2 January 2006")), "", 1, "C", false, 0, "")

	// Assumptions box
	r.pdf.Ln(15)
	r.pdf.SetFillColor(245, 247, 250)
	r.pdf.SetDrawColor(200, 200, 200)

	r.pdf.SetFont("Arial", "B", 12)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 8, "Assumptions", "1", 1, "C", true, 0, "")

	stampDuty, _ := buy.GetStampDuty()
	grant := FirstHomeGrant(buy.PurchasePrice, buy.State, buy.FirstHomeBuyer, buy.NewBuild)
	lines := []string{
		fmt.Sprintf("Deposit %s, loan %s at %s over %d years",
			FormatMoneyPDF(buy.Deposit()), FormatMoneyPDF(buy.LoanAmount()),
			FormatPercent(buy.MortgageRate), buy.MortgageTermYears),
		fmt.Sprintf("Stamp duty %s, LMI %s, FHOG %s",
			FormatMoneyPDF(stampDuty), FormatMoneyPDF(buy.UpfrontLMI()), FormatMoneyPDF(grant)),
		fmt.Sprintf("Property appreciation %s p.a., inflation %s p.a.",
			FormatPercent(buy.PropertyAppreciationRate), FormatPercent(r.params.InflationRate)),
		fmt.Sprintf("Rent %s/week, increasing %s p.a.",
			FormatMoneyPDF(r.params.Rent.StartingWeeklyRent()), FormatPercent(r.params.Rent.RentIncreaseRate)),
		fmt.Sprintf("Investment return %s, dividend yield %s, franking %s",
			FormatPercent(r.params.Investment.ReturnRate), FormatPercent(r.params.Investment.DividendYield),
			FormatPercent(r.params.Investment.FrankingRate)),
		fmt.Sprintf("Gross income %s, marginal tax rate %s, starting savings %s",
			FormatMoneyPDF(r.params.Tax.GrossIncome), FormatPercent(r.params.Tax.MarginalRate()),
			FormatMoneyPDF(r.params.ExistingSavings)),
	}
	r.pdf.SetFont("Arial", "", 11)
	r.pdf.SetTextColor(50, 50, 50)
	for _, line := range lines {
		r.pdf.CellFormat(contentWidth, 7, line, "LR", 1, "C", true, 0, "")
	}
	r.pdf.CellFormat(contentWidth, 1, "", "LRB", 1, "C", true, 0, "")

	// Verdict box
	final := r.snapshots[len(r.snapshots)-1]
	crossover := CrossoverYear(r.snapshots)

	r.pdf.Ln(10)
	r.pdf.SetFont("Arial", "B", 12)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 8, "Outcome", "1", 1, "C", true, 0, "")

	verdict := "Renting stays ahead for the whole horizon"
	if crossover >= 0 {
		verdict = fmt.Sprintf("Buying pulls ahead in year %d", crossover)
	} else if final.NetWorthDifference > 0 {
		verdict = "Buying is ahead for the whole horizon"
	}
	outcome := []string{
		fmt.Sprintf("Final buy net worth: %s (%s real)",
			FormatMoneyPDF(final.BuyNetWorth), FormatMoneyPDF(final.BuyNetWorthReal)),
		fmt.Sprintf("Final rent net worth: %s (%s real)",
			FormatMoneyPDF(final.RentNetWorth), FormatMoneyPDF(final.RentNetWorthReal)),
		fmt.Sprintf("Difference: %s (%s real)",
			FormatMoneyPDF(final.NetWorthDifference), FormatMoneyPDF(final.NetWorthDifferenceReal)),
		verdict,
	}
	r.pdf.SetFont("Arial", "", 11)
	r.pdf.SetTextColor(50, 50, 50)
	for i, line := range outcome {
		border := "LR"
		if i == len(outcome)-1 {
			border = "LRB"
		}
		r.pdf.CellFormat(contentWidth, 7, line, border, 1, "C", true, 0, "")
	}

	// Disclaimer
	r.pdf.Ln(15)
	r.pdf.SetFont("Arial", "I", 9)
	r.pdf.SetTextColor(120, 120, 120)
	r.pdf.MultiCell(contentWidth, 4.5,
		"This document is for informational purposes only and does not constitute financial advice. "+
			"Projections are based on the assumptions provided and actual results may vary. "+
			"Tax rules, duty schedules and grants are subject to change.", "", "C", false)
}

func (r *PDFReport) addProjectionPage() {
	r.pdf.AddPage()
	r.drawSectionHeader("Year-by-Year Projection")

	widths := []float64{14, 28, 28, 28, 28, 28, 26}
	r.drawTableHeader([]string{"Year", "Property", "Mortgage", "Buy NW", "Rent NW", "Diff", "Diff real"}, widths)

	crossover := CrossoverYear(r.snapshots)
	row := 0
	for i, s := range r.snapshots {
		if !keyYear(i, len(r.snapshots), s.Year, crossover) {
			continue
		}
		if r.pdf.GetY() > 260 {
			r.pdf.AddPage()
			r.drawTableHeader([]string{"Year", "Property", "Mortgage", "Buy NW", "Rent NW", "Diff", "Diff real"}, widths)
		}
		highlight := s.Year == crossover
		r.drawTableRow([]string{
			fmt.Sprintf("%d", s.Year),
			FormatMoneyPDF(s.PropertyValue),
			FormatMoneyPDF(s.MortgageBalance),
			FormatMoneyPDF(s.BuyNetWorth),
			FormatMoneyPDF(s.RentNetWorth),
			FormatMoneyPDF(s.NetWorthDifference),
			FormatMoneyPDF(s.NetWorthDifferenceReal),
		}, widths, highlight)
		row++
	}

	if crossover >= 0 {
		r.pdf.Ln(4)
		r.pdf.SetFont("Arial", "I", 9)
		r.pdf.SetTextColor(0, 100, 50)
		r.pdf.CellFormat(contentWidth, 5,
			fmt.Sprintf("Highlighted row: buying overtakes renting in year %d", crossover), "", 1, "L", false, 0, "")
	}
}

func (r *PDFReport) addLiquidationPage() {
	r.pdf.AddPage()
	r.drawSectionHeader("Liquidated View")

	r.pdf.SetFont("Arial", "", 10)
	r.pdf.SetTextColor(50, 50, 50)
	r.pdf.MultiCell(contentWidth, 5,
		"After-sale, after-tax value each year: the property sells net of agent commission and legal costs, "+
			"the mortgage is repaid in full (shortfalls net against investments), the home is CGT-exempt as the "+
			"principal residence, and the investment portfolios pay CGT on unrealized gains with the 50% discount.",
		"", "L", false)
	r.pdf.Ln(3)

	widths := []float64{16, 41, 41, 41, 41}
	r.drawTableHeader([]string{"Year", "Buy liq", "Buy liq real", "Rent liq", "Rent liq real"}, widths)

	crossover := CrossoverYear(r.snapshots)
	for i, s := range r.snapshots {
		if !keyYear(i, len(r.snapshots), s.Year, crossover) {
			continue
		}
		if r.pdf.GetY() > 260 {
			r.pdf.AddPage()
			r.drawTableHeader([]string{"Year", "Buy liq", "Buy liq real", "Rent liq", "Rent liq real"}, widths)
		}
		r.drawTableRow([]string{
			fmt.Sprintf("%d", s.Year),
			FormatMoneyPDF(s.BuyLiquidated),
			FormatMoneyPDF(s.BuyLiquidatedReal),
			FormatMoneyPDF(s.RentLiquidated),
			FormatMoneyPDF(s.RentLiquidatedReal),
		}, widths, false)
	}
}

func (r *PDFReport) addMonteCarloPage() {
	r.pdf.AddPage()
	r.drawSectionHeader(fmt.Sprintf("Monte Carlo (%d runs)", r.mcRuns))

	summary := r.mcSummary
	last := len(summary.Years) - 1

	r.pdf.SetFont("Arial", "B", 11)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 7,
		fmt.Sprintf("Terminal net worth at year %d (nominal, paper)", summary.Years[last]), "", 1, "L", false, 0, "")

	widths := []float64{30, 50, 50, 50}
	r.drawTableHeader([]string{"Percentile", "Buy", "Rent", "Difference"}, widths)
	for _, p := range summary.Percentiles {
		r.drawTableRow([]string{
			fmt.Sprintf("p%d", p),
			FormatMoneyPDF(summary.BuyPaper.Nominal[p][last]),
			FormatMoneyPDF(summary.RentPaper.Nominal[p][last]),
			FormatMoneyPDF(summary.DiffPaper.Nominal[p][last]),
		}, widths, p == 50)
	}

	r.pdf.Ln(8)
	r.pdf.SetFont("Arial", "B", 11)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 7,
		fmt.Sprintf("Terminal liquidated at year %d (inflation-adjusted)", summary.Years[last]), "", 1, "L", false, 0, "")

	liqWidths := []float64{30, 75, 75}
	r.drawTableHeader([]string{"Percentile", "Buy", "Rent"}, liqWidths)
	for _, p := range summary.Percentiles {
		r.drawTableRow([]string{
			fmt.Sprintf("p%d", p),
			FormatMoneyPDF(summary.BuyLiquidated.Real[p][last]),
			FormatMoneyPDF(summary.RentLiquidated.Real[p][last]),
		}, liqWidths, p == 50)
	}

	r.pdf.Ln(8)
	r.pdf.SetFont("Arial", "B", 11)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 7, "Probability buying is ahead", "", 1, "L", false, 0, "")

	probWidths := []float64{40, 60}
	r.drawTableHeader([]string{"Year", "P(buy ahead)"}, probWidths)
	for y := 5; y < len(summary.Years); y += 5 {
		r.drawTableRow([]string{
			fmt.Sprintf("%d", summary.Years[y]),
			fmt.Sprintf("%.1f%%", summary.ProbBuyWins[y]*100),
		}, probWidths, false)
	}
	if last%5 != 0 {
		r.drawTableRow([]string{
			fmt.Sprintf("%d", summary.Years[last]),
			fmt.Sprintf("%.1f%%", summary.ProbBuyWins[last]*100),
		}, probWidths, true)
	}

	r.pdf.Ln(5)
	r.pdf.SetFont("Arial", "", 10)
	r.pdf.SetTextColor(50, 50, 50)
	if summary.MedianCrossover >= 0 {
		r.pdf.CellFormat(contentWidth, 5,
			fmt.Sprintf("The median trajectory has buying pull ahead in year %d.", summary.MedianCrossover), "", 1, "L", false, 0, "")
	} else {
		r.pdf.CellFormat(contentWidth, 5,
			"The median trajectory never has buying pull ahead within the horizon.", "", 1, "L", false, 0, "")
	}
}

// Helper functions

func (r *PDFReport) drawSectionHeader(title string) {
	r.pdf.SetFont("Arial", "B", 16)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 10, title, "", 1, "L", false, 0, "")
	r.pdf.SetDrawColor(0, 51, 102)
	r.pdf.Line(marginLeft, r.pdf.GetY(), marginLeft+contentWidth, r.pdf.GetY())
	r.pdf.Ln(5)
}

func (r *PDFReport) drawTableHeader(headers []string, widths []float64) {
	r.pdf.SetFillColor(0, 51, 102)
	r.pdf.SetTextColor(255, 255, 255)
	r.pdf.SetFont("Arial", "B", 9)

	for i, header := range headers {
		align := "L"
		if i > 0 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], 6, header, "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *PDFReport) drawTableRow(cells []string, widths []float64, isBold bool) {
	r.pdf.SetFillColor(250, 250, 250)
	r.pdf.SetTextColor(50, 50, 50)

	if isBold {
		r.pdf.SetFont("Arial", "B", 9)
		r.pdf.SetFillColor(240, 240, 240)
	} else {
		r.pdf.SetFont("Arial", "", 9)
	}

	for i, cell := range cells {
		align := "L"
		if i > 0 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], 5, cell, "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}
