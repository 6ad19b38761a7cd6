// Package amortization generates fixed-payment loan schedules.
package amortization

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Row holds the values for one month of an amortization schedule. All
// monetary fields are exact decimals to avoid cent-level drift across long
// terms.
type Row struct {
	Month          int
	OpeningBalance decimal.Decimal
	Payment        decimal.Decimal
	Principal      decimal.Decimal
	Interest       decimal.Decimal
	ClosingBalance decimal.Decimal
}

// ScheduleGenerator produces loan amortization schedules.
type ScheduleGenerator struct {
	logger *zap.Logger
}

// NewScheduleGenerator creates a new generator instance.
func NewScheduleGenerator(logger *zap.Logger) *ScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGenerator{logger: logger}
}

var (
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// MonthlyRate converts a nominal annual percentage rate to a monthly decimal
// rate: rate / 100 / 12.
func MonthlyRate(annualRate decimal.Decimal) decimal.Decimal {
	return annualRate.Div(hundred).Div(twelve)
}

// MonthlyPayment computes the fixed payment for a loan using the standard
// amortizing annuity formula P * (r * (1+r)^n) / ((1+r)^n - 1). A zero rate
// degenerates to a straight-line principal split.
func MonthlyPayment(principal, annualRate decimal.Decimal, termMonths int) decimal.Decimal {
	r := MonthlyRate(annualRate)
	if r.IsZero() {
		return principal.Div(decimal.NewFromInt(int64(termMonths)))
	}
	factor := decimal.NewFromInt(1).Add(r).Pow(decimal.NewFromInt(int64(termMonths)))
	return principal.Mul(r.Mul(factor)).Div(factor.Sub(decimal.NewFromInt(1)))
}

// Generate creates the complete schedule for a loan. It returns no rows when
// principal or term is non-positive. Each row's closing balance is the next
// row's opening balance; the closing balance floors at zero and the schedule
// stops early once the balance is exhausted, so the result may be shorter
// than the nominal term.
func (g *ScheduleGenerator) Generate(principal, annualRate decimal.Decimal, termMonths int) []Row {
	if termMonths <= 0 || principal.LessThanOrEqual(decimal.Zero) {
		g.logger.Debug("skipping schedule generation for non-positive principal or term",
			zap.String("op", "amortization.Generate"),
			zap.String("principal", principal.String()),
			zap.Int("termMonths", termMonths),
		)
		return nil
	}

	r := MonthlyRate(annualRate)
	payment := MonthlyPayment(principal, annualRate, termMonths)

	g.logger.Debug(fmt.Sprintf("amortizing %s over %d months at %s%%",
		principal.StringFixed(2), termMonths, annualRate.String()),
		zap.String("op", "amortization.Generate"),
	)

	rows := make([]Row, 0, termMonths)
	balance := principal

	for month := 1; month <= termMonths; month++ {
		interest := balance.Mul(r)
		principalPaid := payment.Sub(interest)
		// The final month absorbs the accumulated division residual so the
		// balance lands exactly at zero; the same cap prevents an overshooting
		// payment from driving the balance negative.
		if month == termMonths || principalPaid.GreaterThan(balance) {
			principalPaid = balance
		}
		closing := balance.Sub(principalPaid)

		rows = append(rows, Row{
			Month:          month,
			OpeningBalance: balance,
			Payment:        payment,
			Principal:      principalPaid,
			Interest:       interest,
			ClosingBalance: closing,
		})

		balance = closing
		if balance.LessThanOrEqual(decimal.Zero) {
			break
		}
	}

	return rows
}
