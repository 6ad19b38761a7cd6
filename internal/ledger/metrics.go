package ledger

import (
	"fmt"
	"time"

	"github.com/iwvelando/capital-advisor/pkg/datetime"
	"github.com/shopspring/decimal"
)

// Risk levels for collection of a receivable.
const (
	RiskNone     = "sin_riesgo"
	RiskNoData   = "sin_datos"
	RiskLow      = "bajo"
	RiskMedium   = "medio"
	RiskHigh     = "alto"
	RiskCritical = "critico"
)

// RiskAssessment is the outcome of classifying a receivable's collection risk.
type RiskAssessment struct {
	Level   string
	Message string
}

// CollectionRisk classifies how likely the receivable is to become a
// collection problem as of the anchor date.
func (l *Ledger) CollectionRisk(anchor time.Time) RiskAssessment {
	if l.CollectionDueDate.IsZero() {
		return RiskAssessment{Level: RiskNoData, Message: "no collection due date set"}
	}

	if l.OutstandingToCollect().LessThanOrEqual(decimal.Zero) {
		return RiskAssessment{Level: RiskNone, Message: "fully collected"}
	}

	daysToDue := l.DaysToDue(anchor)
	switch {
	case daysToDue < -30:
		return RiskAssessment{Level: RiskCritical, Message: "overdue by more than 30 days"}
	case daysToDue < 0:
		return RiskAssessment{Level: RiskHigh, Message: fmt.Sprintf("overdue by %d days", -daysToDue)}
	case daysToDue <= 7:
		return RiskAssessment{Level: RiskMedium, Message: fmt.Sprintf("due in %d days", daysToDue)}
	default:
		return RiskAssessment{Level: RiskLow, Message: fmt.Sprintf("due in %d days", daysToDue)}
	}
}

// GrossMargin is the billed amount less the original value of all
// obligations, regardless of what has been paid so far.
func (l *Ledger) GrossMargin() decimal.Decimal {
	committed := decimal.Zero
	for _, o := range l.Obligations {
		committed = committed.Add(o.Amount)
	}
	return l.BilledAmount.Sub(committed)
}

// EstimatedProfitability is the gross margin as a percentage of the billed
// amount; zero when nothing is billed.
func (l *Ledger) EstimatedProfitability() decimal.Decimal {
	if l.BilledAmount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return l.GrossMargin().Div(l.BilledAmount).Mul(decimal.NewFromInt(100))
}

// PercentCollected is the share of the billed amount already received.
func (l *Ledger) PercentCollected() decimal.Decimal {
	if l.BilledAmount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return l.TotalCollected().Div(l.BilledAmount).Mul(decimal.NewFromInt(100))
}

// PercentPaidToSuppliers is the share of total obligations already paid out.
func (l *Ledger) PercentPaidToSuppliers() decimal.Decimal {
	committed := decimal.Zero
	for _, o := range l.Obligations {
		committed = committed.Add(o.Amount)
	}
	if committed.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	paid := decimal.Zero
	for _, p := range l.SupplierPayments {
		paid = paid.Add(p.Amount)
	}
	return paid.Div(committed).Mul(decimal.NewFromInt(100))
}

// AverageCollectionDays is the amount-weighted average number of days
// between delivery and each client payment. Nil when there are no payments.
func (l *Ledger) AverageCollectionDays() *float64 {
	if len(l.ClientPayments) == 0 {
		return nil
	}

	totalDays := 0.0
	totalPaid := 0.0
	for _, p := range l.ClientPayments {
		elapsed := datetime.DaysBetween(l.DeliveryDate, p.Date)
		amount := p.Amount.InexactFloat64()
		totalDays += float64(elapsed) * amount
		totalPaid += amount
	}

	if totalPaid <= 0 {
		return nil
	}
	avg := totalDays / totalPaid
	return &avg
}

// UpdateAverageDaysToPay recomputes the client's average payment delay over
// all of its ledgers, counting each payment's days since delivery. Payments
// dated before delivery are excluded; with no countable payments the
// average falls back to 1.
func (c *Client) UpdateAverageDaysToPay(ledgers []*Ledger) {
	totalDays := 0
	totalPayments := 0

	for _, l := range ledgers {
		if l.ClientID != c.ID {
			continue
		}
		for _, p := range l.ClientPayments {
			days := datetime.DaysBetween(l.DeliveryDate, p.Date)
			if days >= 0 {
				totalDays += days
				totalPayments++
			}
		}
	}

	if totalPayments > 0 {
		c.AverageDaysToPay = totalDays / totalPayments
	} else {
		c.AverageDaysToPay = 1
	}
}
