package main

import "math"

// Mortgage amortization. A year of repayments is applied analytically
// with the closed-form 12-payment compounding formula rather than a
// month-by-month loop, so the deterministic and Monte Carlo paths share
// one exact formulation.

// MonthlyRepayment calculates the monthly P&I repayment from the standard
// annuity formula. A zero rate degrades to straight-line principal
// reduction.
func MonthlyRepayment(principal, annualRate, years float64) float64 {
	if principal <= 0 || years <= 0 {
		return 0
	}
	n := years * 12
	if annualRate == 0 {
		return principal / n
	}
	r := annualRate / 12
	return principal * (r * math.Pow(1+r, n)) / (math.Pow(1+r, n) - 1)
}

// AmortizeYear applies 12 monthly payments to a mortgage balance using
// the closed form
//
//	B' = B(1+r)^12 − PMT·((1+r)^12 − 1)/r
//
// with r the monthly rate. Returns the new balance and the year's
// principal and interest split. The identity
// principalPaid + interestPaid == payments made holds exactly; in the
// payoff year payments are truncated to what is owed.
func AmortizeYear(balance, annualRate, monthlyPayment float64) (newBalance, principalPaid, interestPaid float64) {
	if balance <= 0 {
		return 0, 0, 0
	}
	r := annualRate / 12
	var newBal float64
	if r > 0 {
		compound := math.Pow(1+r, 12)
		annuity := (compound - 1) / r
		newBal = balance*compound - monthlyPayment*annuity
	} else {
		newBal = balance - monthlyPayment*12
	}
	payments := monthlyPayment * 12
	if newBal < 0 {
		// Final year: the last payments only cover what is owed.
		payments += newBal
		newBal = 0
	}
	principalPaid = balance - newBal
	interestPaid = payments - principalPaid
	if interestPaid < 0 {
		interestPaid = 0
	}
	return newBal, principalPaid, interestPaid
}

// ReamortizedPayment recomputes the monthly payment after a rate change,
// using the remaining balance and the remaining term rather than a fresh
// full term. Avoids payment shock and term extension artifacts.
func ReamortizedPayment(balance, annualRate float64, termYears, elapsedYears int) float64 {
	remainingMonths := (termYears - elapsedYears) * 12
	if remainingMonths <= 0 || balance <= 0 {
		return 0
	}
	return MonthlyRepayment(balance, annualRate, float64(remainingMonths)/12)
}
