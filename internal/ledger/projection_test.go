package ledger

import (
	"testing"

	"github.com/iwvelando/capital-advisor/pkg/datetime"
	"github.com/shopspring/decimal"
)

func projectionLedger(t *testing.T) *Ledger {
	t.Helper()

	l := New("REG-010", testClient(), datetime.MustParseDate("2025-05-01"), decimal.NewFromInt(5000))

	if _, err := l.AppendObligation(Obligation{
		SupplierName: "Steel Co",
		Amount:       decimal.NewFromInt(2000),
		DueDate:      datetime.MustParseDate("2025-05-20"),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := l.AppendObligation(Obligation{
		SupplierName: "Bolt Co",
		Amount:       decimal.NewFromInt(1000),
		DueDate:      datetime.MustParseDate("2025-07-01"),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return l
}

func TestProjectCashFlow(t *testing.T) {
	l := projectionLedger(t)

	start := datetime.MustParseDate("2025-05-01")
	end := datetime.MustParseDate("2025-06-15")
	events := l.ProjectCashFlow(start, end)

	// The receivable falls due on 2025-05-31 (30-day terms) and the first
	// obligation on 2025-05-20; the second obligation is out of range.
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	var inflows, outflows int
	for _, event := range events {
		switch event.Direction {
		case DirectionInflow:
			inflows++
			if !event.Amount.Equal(decimal.NewFromInt(5000)) {
				t.Errorf("inflow amount = %s, expected 5000", event.Amount.String())
			}
			if event.Description != "Cobro a Acme Industrial" {
				t.Errorf("inflow description = %q", event.Description)
			}
		case DirectionOutflow:
			outflows++
			if event.ObligationID != 1 {
				t.Errorf("outflow obligation id = %d, expected 1", event.ObligationID)
			}
			if event.Description != "Pago a Steel Co" {
				t.Errorf("outflow description = %q", event.Description)
			}
		}
	}
	if inflows != 1 || outflows != 1 {
		t.Errorf("expected 1 inflow and 1 outflow, got %d/%d", inflows, outflows)
	}
}

func TestProjectCashFlowSkipsSettledBalances(t *testing.T) {
	l := projectionLedger(t)

	if _, err := l.AppendClientPayment(Payment{Amount: decimal.NewFromInt(5000)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := l.AppendSupplierPayment(SupplierPayment{
		Payment:      Payment{Amount: decimal.NewFromInt(2000)},
		ObligationID: 1,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	events := l.ProjectCashFlow(datetime.MustParseDate("2025-05-01"), datetime.MustParseDate("2025-12-31"))

	// Only the unpaid second obligation should remain.
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Direction != DirectionOutflow || events[0].ObligationID != 2 {
		t.Errorf("unexpected surviving event: %+v", events[0])
	}
}

func TestProjectCashFlowSkipsZeroDueDates(t *testing.T) {
	l := New("REG-011", testClient(), datetime.MustParseDate("2025-05-01"), decimal.NewFromInt(5000))
	l.Obligations = append(l.Obligations, Obligation{
		ID:           1,
		SupplierName: "Steel Co",
		Amount:       decimal.NewFromInt(2000),
	})

	events := l.ProjectCashFlow(datetime.MustParseDate("2025-01-01"), datetime.MustParseDate("2025-12-31"))
	for _, event := range events {
		if event.Direction == DirectionOutflow {
			t.Errorf("obligation without a due date must not project an outflow")
		}
	}
}

func TestGroupByDay(t *testing.T) {
	l := projectionLedger(t)

	start := datetime.MustParseDate("2025-05-01")
	end := datetime.MustParseDate("2025-07-31")
	days, summary := GroupByDay(l.ProjectCashFlow(start, end), start, end)

	// Three event dates: 2025-05-20 outflow 2000, 2025-05-31 inflow 5000,
	// 2025-07-01 outflow 1000.
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}

	if datetime.FormatDate(days[0].Date) != "2025-05-20" {
		t.Errorf("days not sorted: first is %s", datetime.FormatDate(days[0].Date))
	}

	// Running balance: -2000, then +3000, then +2000.
	if !days[0].Running.Equal(decimal.NewFromInt(-2000)) {
		t.Errorf("day 1 running = %s, expected -2000", days[0].Running.String())
	}
	if !days[1].Running.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("day 2 running = %s, expected 3000", days[1].Running.String())
	}
	if !days[2].Running.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("day 3 running = %s, expected 2000", days[2].Running.String())
	}

	if !summary.TotalInflow.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("total inflow = %s, expected 5000", summary.TotalInflow.String())
	}
	if !summary.TotalOutflow.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("total outflow = %s, expected 3000", summary.TotalOutflow.String())
	}
	if !summary.NetFlow.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("net flow = %s, expected 2000", summary.NetFlow.String())
	}
	if !summary.MinRunning.Equal(decimal.NewFromInt(-2000)) {
		t.Errorf("min running = %s, expected -2000", summary.MinRunning.String())
	}
	if !summary.MaxRunning.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("max running = %s, expected 3000", summary.MaxRunning.String())
	}
	if summary.NegativeFlowDays != 1 {
		t.Errorf("negative flow days = %d, expected 1", summary.NegativeFlowDays)
	}
	if summary.PeriodDays != 92 {
		t.Errorf("period days = %d, expected 92", summary.PeriodDays)
	}
}

func TestGroupByDayAllPositiveRunning(t *testing.T) {
	l := New("REG-012", testClient(), datetime.MustParseDate("2025-05-01"), decimal.NewFromInt(5000))

	start := datetime.MustParseDate("2025-05-01")
	end := datetime.MustParseDate("2025-06-30")
	_, summary := GroupByDay(l.ProjectCashFlow(start, end), start, end)

	// A single inflow leaves the minimum running balance positive, not zero.
	if !summary.MinRunning.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("min running = %s, expected 5000", summary.MinRunning.String())
	}
	if !summary.MaxRunning.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("max running = %s, expected 5000", summary.MaxRunning.String())
	}
}
