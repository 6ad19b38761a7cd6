package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Cash-flow event directions.
const (
	DirectionInflow  = "inflow"
	DirectionOutflow = "outflow"
)

// CashFlowEvent is one projected movement of cash: the receivable falling
// due, or an obligation falling due.
type CashFlowEvent struct {
	Date         time.Time
	Direction    string
	Amount       decimal.Decimal
	Counterparty string
	Description  string
	LedgerID     string
	// ObligationID is set for outflows only.
	ObligationID int
}

// ProjectCashFlow emits the expected cash movements between start and end
// inclusive: one inflow if the receivable's due date falls in range with a
// positive outstanding balance, and one outflow per obligation due in range
// with a positive outstanding balance. Obligations without a due date are
// skipped.
func (l *Ledger) ProjectCashFlow(start, end time.Time) []CashFlowEvent {
	var events []CashFlowEvent

	if !l.CollectionDueDate.IsZero() &&
		!l.CollectionDueDate.Before(start) && !l.CollectionDueDate.After(end) {
		outstanding := l.OutstandingToCollect()
		if outstanding.GreaterThan(decimal.Zero) {
			events = append(events, CashFlowEvent{
				Date:         l.CollectionDueDate,
				Direction:    DirectionInflow,
				Amount:       outstanding,
				Counterparty: l.ClientName,
				Description:  fmt.Sprintf("Cobro a %s", l.ClientName),
				LedgerID:     l.ID,
			})
		}
	}

	for _, o := range l.Obligations {
		if o.DueDate.IsZero() || o.DueDate.Before(start) || o.DueDate.After(end) {
			continue
		}
		outstanding := l.ObligationOutstanding(o.ID)
		if outstanding.GreaterThan(decimal.Zero) {
			events = append(events, CashFlowEvent{
				Date:         o.DueDate,
				Direction:    DirectionOutflow,
				Amount:       outstanding,
				Counterparty: o.SupplierName,
				Description:  fmt.Sprintf("Pago a %s", o.SupplierName),
				LedgerID:     l.ID,
				ObligationID: o.ID,
			})
		}
	}

	return events
}

// DailyFlow aggregates the events of one calendar day.
type DailyFlow struct {
	Date            time.Time
	ExpectedInflow  decimal.Decimal
	ExpectedOutflow decimal.Decimal
	Net             decimal.Decimal
	Running         decimal.Decimal
	Inflows         []CashFlowEvent
	Outflows        []CashFlowEvent
}

// FlowSummary holds aggregate statistics over a projected period.
type FlowSummary struct {
	TotalInflow      decimal.Decimal
	TotalOutflow     decimal.Decimal
	NetFlow          decimal.Decimal
	MinRunning       decimal.Decimal
	MaxRunning       decimal.Decimal
	NegativeFlowDays int
	PeriodDays       int
}

// GroupByDay folds projected events from any number of ledgers into a
// date-ordered daily series with a running balance, plus summary statistics
// for the period.
func GroupByDay(events []CashFlowEvent, start, end time.Time) ([]DailyFlow, FlowSummary) {
	byDate := make(map[time.Time]*DailyFlow)
	for _, event := range events {
		day, ok := byDate[event.Date]
		if !ok {
			day = &DailyFlow{
				Date:            event.Date,
				ExpectedInflow:  decimal.Zero,
				ExpectedOutflow: decimal.Zero,
			}
			byDate[event.Date] = day
		}
		if event.Direction == DirectionInflow {
			day.ExpectedInflow = day.ExpectedInflow.Add(event.Amount)
			day.Inflows = append(day.Inflows, event)
		} else {
			day.ExpectedOutflow = day.ExpectedOutflow.Add(event.Amount)
			day.Outflows = append(day.Outflows, event)
		}
	}

	dates := make([]time.Time, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	summary := FlowSummary{
		TotalInflow:  decimal.Zero,
		TotalOutflow: decimal.Zero,
		NetFlow:      decimal.Zero,
		MinRunning:   decimal.Zero,
		MaxRunning:   decimal.Zero,
		PeriodDays:   int(end.Sub(start).Hours()/24) + 1,
	}

	days := make([]DailyFlow, 0, len(dates))
	running := decimal.Zero
	for i, date := range dates {
		day := byDate[date]
		day.Net = day.ExpectedInflow.Sub(day.ExpectedOutflow)
		running = running.Add(day.Net)
		day.Running = running

		if running.LessThan(decimal.Zero) {
			summary.NegativeFlowDays++
		}
		if i == 0 {
			summary.MinRunning = running
			summary.MaxRunning = running
		} else {
			if running.LessThan(summary.MinRunning) {
				summary.MinRunning = running
			}
			if running.GreaterThan(summary.MaxRunning) {
				summary.MaxRunning = running
			}
		}

		summary.TotalInflow = summary.TotalInflow.Add(day.ExpectedInflow)
		summary.TotalOutflow = summary.TotalOutflow.Add(day.ExpectedOutflow)
		summary.NetFlow = summary.NetFlow.Add(day.Net)

		days = append(days, *day)
	}

	return days, summary
}
