package main

import "math"

// Core buy-vs-rent model.
//
// Simulates year-by-year net worth for the BUY and RENT scenarios.
//
// Buy scenario:
//   - Upfront: deposit + stamp duty + LMI − first home grant (reduces
//     starting cash)
//   - Ongoing: mortgage P&I, council rates, insurance, maintenance,
//     water, strata
//   - Asset: property appreciates; mortgage balance amortizes down
//
// Rent scenario:
//   - Upfront: nothing (full savings go to investments)
//   - Ongoing: rent + renters insurance
//
// Both scenarios assume the same income; whichever scenario is cheaper in
// a given year invests the difference. Two liquidity views are projected
// from the same state every year: paper (mark-to-market) and liquidated
// (sell everything, pay exit costs and CGT, full recourse on the loan).

// YearSnapshot is the immutable state record at the end of one simulated
// year. Produced once per year and never mutated afterwards.
type YearSnapshot struct {
	Year int

	// Buy scenario
	PropertyValue      float64
	MortgageBalance    float64
	MortgageRateUsed   float64 // rate in effect this year
	BuyHousingCosts    float64 // total housing spend this year (mortgage + ongoing)
	BuyCumulativeCosts float64
	BuyEquity          float64 // property value − mortgage balance
	BuyInvestments     float64 // invested surplus
	BuyContributions   float64 // cost base of the buy-side pool
	BuyNetWorth        float64 // paper: equity + investments
	BuyNetWorthReal    float64
	BuyLiquidated      float64 // after-sale, after-tax net cash
	BuyLiquidatedReal  float64

	// Rent scenario
	AnnualRent          float64
	RentHousingCosts    float64
	RentCumulativeCosts float64
	RentInvestments     float64 // portfolio value
	RentContributions   float64 // cost base of the rent-side pool
	RentNetWorth        float64
	RentNetWorthReal    float64
	RentLiquidated      float64
	RentLiquidatedReal  float64

	// Taxes recorded this year. Income tax is identical across the two
	// scenarios (it cancels in the comparison) but is kept for absolute
	// net-income reporting.
	IncomeTaxPaid   float64
	DividendTaxPaid float64

	// Comparison (paper, buy − rent; positive = buy wins)
	NetWorthDifference     float64
	NetWorthDifferenceReal float64
}

// growPool advances an investment pool by one year: total return accrues,
// dividends are taxed at the franking-adjusted effective rate and the
// after-tax dividend is reinvested, which adds to the cost base.
func growPool(pool, costBase, returnRate, dividendYield, effDivRate float64) (newPool, newCostBase, dividendTax float64) {
	gross := pool * returnRate
	dividends := pool * dividendYield
	dividendTax = dividends * effDivRate
	newPool = pool + gross - dividendTax
	newCostBase = costBase + (dividends - dividendTax)
	return newPool, newCostBase, dividendTax
}

// liquidatedBuy projects the after-sale, after-tax value of the buy
// scenario. Sale proceeds net of agent commission and CPI-inflated legal
// costs repay the mortgage with full recourse: negative equity is not
// floored at zero, it nets against the invested surplus. The dwelling is
// PPOR so its own gain is CGT-exempt; the surplus pool pays CGT on its
// unrealized gain with the 50% discount.
func liquidatedBuy(propertyValue, mortgageBalance, investments, costBase, legalCost, agentPct, marginalRate float64) float64 {
	saleProceeds := propertyValue*(1-agentPct) - legalCost
	equity := saleProceeds - mortgageBalance
	gain := math.Max(investments-costBase, 0)
	cgt := CapitalGainsTax(gain, marginalRate, true)
	return equity + investments - cgt
}

// liquidatedRent projects the after-tax value of selling down the rent
// scenario's portfolio.
func liquidatedRent(investments, costBase, marginalRate float64) float64 {
	gain := math.Max(investments-costBase, 0)
	cgt := CapitalGainsTax(gain, marginalRate, true)
	return investments - cgt
}

// Simulate runs the deterministic year-by-year simulation and returns one
// snapshot per year, year 0 through the time horizon. It is a pure
// function of its inputs: the only failure mode is invalid configuration.
func Simulate(params ScenarioParams) ([]YearSnapshot, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	buy := &params.Buy
	rent := &params.Rent
	inv := &params.Investment

	marginalRate := params.Tax.MarginalRate()
	annualIncomeTax := params.Tax.AnnualIncomeTax()
	effDivRate := EffectiveDividendTaxRate(inv.FrankingRate, marginalRate, CompanyTaxRate)

	// --- Initial state (year 0) ---
	stampDuty, err := buy.GetStampDuty()
	if err != nil {
		return nil, err
	}
	grant := FirstHomeGrant(buy.PurchasePrice, buy.State, buy.FirstHomeBuyer, buy.NewBuild)
	lmi := buy.UpfrontLMI()
	upfrontBuyCosts := buy.Deposit() + stampDuty + lmi - grant

	rates := buy.ResolveRates(params.TimeHorizonYears)
	currentRate := rates[0]
	mortgageBal := buy.LoanAmount()
	monthlyPmt := MonthlyRepayment(mortgageBal, currentRate, float64(buy.MortgageTermYears))

	propertyValue := buy.PurchasePrice
	buyInvestments := math.Max(params.ExistingSavings-upfrontBuyCosts, 0)
	buyContributions := buyInvestments
	buyCumulative := upfrontBuyCosts

	rentInvestments := params.ExistingSavings
	rentContributions := params.ExistingSavings
	weeklyRent := rent.StartingWeeklyRent()
	rentCumulative := 0.0

	snapshots := make([]YearSnapshot, 0, params.TimeHorizonYears+1)

	// Year 0 snapshot: no growth applied yet, deflator is 1.
	s0 := YearSnapshot{
		Year:               0,
		PropertyValue:      propertyValue,
		MortgageBalance:    mortgageBal,
		MortgageRateUsed:   currentRate,
		BuyHousingCosts:    upfrontBuyCosts,
		BuyCumulativeCosts: buyCumulative,
		BuyEquity:          propertyValue - mortgageBal,
		BuyInvestments:     buyInvestments,
		BuyContributions:   buyContributions,
		RentInvestments:    rentInvestments,
		RentContributions:  rentContributions,
	}
	s0.BuyNetWorth = s0.BuyEquity + buyInvestments
	s0.BuyNetWorthReal = s0.BuyNetWorth
	s0.RentNetWorth = rentInvestments
	s0.RentNetWorthReal = s0.RentNetWorth
	s0.BuyLiquidated = liquidatedBuy(propertyValue, mortgageBal, buyInvestments, buyContributions,
		buy.SellingLegal, buy.SellingAgentPct, marginalRate)
	s0.BuyLiquidatedReal = s0.BuyLiquidated
	s0.RentLiquidated = liquidatedRent(rentInvestments, rentContributions, marginalRate)
	s0.RentLiquidatedReal = s0.RentLiquidated
	s0.NetWorthDifference = s0.BuyNetWorth - s0.RentNetWorth
	s0.NetWorthDifferenceReal = s0.NetWorthDifference
	snapshots = append(snapshots, s0)

	for year := 1; year <= params.TimeHorizonYears; year++ {
		deflator := math.Pow(1+params.InflationRate, float64(year))

		// Re-amortize on schedule change: remaining balance over the
		// remaining term, not a fresh full term.
		yearRate := rates[year-1]
		if yearRate != currentRate && mortgageBal > 0 {
			currentRate = yearRate
			if pmt := ReamortizedPayment(mortgageBal, currentRate, buy.MortgageTermYears, year-1); pmt > 0 {
				monthlyPmt = pmt
			}
		}

		// --- Buy scenario ---
		var principalPaid, interestPaid, annualMortgage float64
		if mortgageBal > 0 {
			mortgageBal, principalPaid, interestPaid = AmortizeYear(mortgageBal, currentRate, monthlyPmt)
			annualMortgage = principalPaid + interestPaid
		}

		propertyValue *= 1 + buy.PropertyAppreciationRate

		waterCost := buy.WaterRatesAnnual * deflator
		strataCost := buy.StrataAnnual * deflator
		ongoing := propertyValue*buy.CouncilRatesPct +
			propertyValue*buy.InsurancePct +
			propertyValue*buy.MaintenancePct +
			waterCost + strataCost

		buyYearCosts := annualMortgage + ongoing
		buyCumulative += buyYearCosts

		var buyDivTax float64
		buyInvestments, buyContributions, buyDivTax = growPool(
			buyInvestments, buyContributions, inv.ReturnRate, inv.DividendYield, effDivRate)

		// --- Rent scenario ---
		annualRentCost := weeklyRent * 52
		rentersIns := rent.RentersInsuranceAnnual * deflator
		rentYearCosts := annualRentCost + rentersIns
		rentCumulative += rentYearCosts

		var rentDivTax float64
		rentInvestments, rentContributions, rentDivTax = growPool(
			rentInvestments, rentContributions, inv.ReturnRate, inv.DividendYield, effDivRate)

		// --- Surplus: whoever pays less invests the difference ---
		// Mid-year approximation: the contribution earns half a year of
		// returns; only the contribution itself enters the cost base.
		if buyYearCosts > rentYearCosts {
			surplus := buyYearCosts - rentYearCosts
			rentInvestments += surplus * (1 + inv.ReturnRate/2)
			rentContributions += surplus
		} else if rentYearCosts > buyYearCosts {
			surplus := rentYearCosts - buyYearCosts
			buyInvestments += surplus * (1 + inv.ReturnRate/2)
			buyContributions += surplus
		}

		buyEquity := propertyValue - mortgageBal
		buyNW := buyEquity + buyInvestments
		rentNW := rentInvestments

		buyLiq := liquidatedBuy(propertyValue, mortgageBal, buyInvestments, buyContributions,
			buy.SellingLegal*deflator, buy.SellingAgentPct, marginalRate)
		rentLiq := liquidatedRent(rentInvestments, rentContributions, marginalRate)

		// Increase rent for next year.
		weeklyRent *= 1 + rent.RentIncreaseRate

		snapshots = append(snapshots, YearSnapshot{
			Year:                   year,
			PropertyValue:          propertyValue,
			MortgageBalance:        mortgageBal,
			MortgageRateUsed:       currentRate,
			BuyHousingCosts:        buyYearCosts,
			BuyCumulativeCosts:     buyCumulative,
			BuyEquity:              buyEquity,
			BuyInvestments:         buyInvestments,
			BuyContributions:       buyContributions,
			BuyNetWorth:            buyNW,
			BuyNetWorthReal:        buyNW / deflator,
			BuyLiquidated:          buyLiq,
			BuyLiquidatedReal:      buyLiq / deflator,
			AnnualRent:             annualRentCost,
			RentHousingCosts:       rentYearCosts,
			RentCumulativeCosts:    rentCumulative,
			RentInvestments:        rentInvestments,
			RentContributions:      rentContributions,
			RentNetWorth:           rentNW,
			RentNetWorthReal:       rentNW / deflator,
			RentLiquidated:         rentLiq,
			RentLiquidatedReal:     rentLiq / deflator,
			IncomeTaxPaid:          annualIncomeTax,
			DividendTaxPaid:        buyDivTax + rentDivTax,
			NetWorthDifference:     buyNW - rentNW,
			NetWorthDifferenceReal: (buyNW - rentNW) / deflator,
		})
	}

	return snapshots, nil
}

// CrossoverYear returns the first year where the paper net worth
// difference turns positive (buying starts winning), or -1 if it never
// does within the horizon.
func CrossoverYear(snapshots []YearSnapshot) int {
	for i := 1; i < len(snapshots); i++ {
		if snapshots[i-1].NetWorthDifference <= 0 && snapshots[i].NetWorthDifference > 0 {
			return snapshots[i].Year
		}
	}
	return -1
}
