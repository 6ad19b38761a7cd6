package amortization

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMonthlyRate(t *testing.T) {
	tests := []struct {
		name       string
		annualRate string
		expected   string
	}{
		{name: "Twelve percent", annualRate: "12", expected: "0.01"},
		{name: "Zero", annualRate: "0", expected: "0"},
		{name: "Six percent", annualRate: "6", expected: "0.005"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate := MonthlyRate(decimal.RequireFromString(tt.annualRate))
			if !rate.Equal(decimal.RequireFromString(tt.expected)) {
				t.Errorf("MonthlyRate(%s) = %s, expected %s", tt.annualRate, rate.String(), tt.expected)
			}
		})
	}
}

func TestMonthlyPaymentZeroRate(t *testing.T) {
	payment := MonthlyPayment(decimal.NewFromInt(1200), decimal.Zero, 12)
	if !payment.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected straight-line payment of 100, got %s", payment.String())
	}
}

func TestMonthlyPaymentStandardLoan(t *testing.T) {
	// 10,000 at 12% nominal over 12 months amortizes at 888.49/month.
	payment := MonthlyPayment(decimal.NewFromInt(10000), decimal.NewFromInt(12), 12)
	if payment.StringFixed(2) != "888.49" {
		t.Errorf("expected payment of 888.49, got %s", payment.StringFixed(2))
	}
}

func TestGenerateZeroRate(t *testing.T) {
	g := NewScheduleGenerator(nil)
	rows := g.Generate(decimal.NewFromInt(1200), decimal.Zero, 12)

	if len(rows) != 12 {
		t.Fatalf("expected 12 rows, got %d", len(rows))
	}
	for _, row := range rows {
		if !row.Payment.Equal(decimal.NewFromInt(100)) {
			t.Errorf("month %d: expected payment 100, got %s", row.Month, row.Payment.String())
		}
		if !row.Interest.IsZero() {
			t.Errorf("month %d: expected zero interest, got %s", row.Month, row.Interest.String())
		}
	}
	if !rows[len(rows)-1].ClosingBalance.IsZero() {
		t.Errorf("expected final closing balance of zero, got %s", rows[len(rows)-1].ClosingBalance.String())
	}
}

func TestGenerateStandardLoan(t *testing.T) {
	g := NewScheduleGenerator(nil)
	principal := decimal.NewFromInt(10000)
	rows := g.Generate(principal, decimal.NewFromInt(12), 12)

	if len(rows) == 0 {
		t.Fatal("expected a schedule, got none")
	}
	if len(rows) > 12 {
		t.Fatalf("schedule has %d rows, expected at most the 12-month term", len(rows))
	}

	first := rows[0]
	if first.Interest.StringFixed(2) != "100.00" {
		t.Errorf("expected first month interest of 100.00, got %s", first.Interest.StringFixed(2))
	}
	if first.Principal.StringFixed(2) != "788.49" {
		t.Errorf("expected first month principal of 788.49, got %s", first.Principal.StringFixed(2))
	}

	// The closing balance of each row must chain into the next opening balance.
	for i := 1; i < len(rows); i++ {
		if !rows[i].OpeningBalance.Equal(rows[i-1].ClosingBalance) {
			t.Errorf("month %d: opening balance %s does not chain from prior closing %s",
				rows[i].Month, rows[i].OpeningBalance.String(), rows[i-1].ClosingBalance.String())
		}
	}

	// Principal repaid across the schedule sums exactly to the loan amount.
	repaid := decimal.Zero
	for _, row := range rows {
		repaid = repaid.Add(row.Principal)
	}
	if !repaid.Equal(principal) {
		t.Errorf("principal repaid sums to %s, expected exactly %s", repaid.String(), principal.String())
	}

	if !rows[len(rows)-1].ClosingBalance.IsZero() {
		t.Errorf("expected final closing balance of zero, got %s", rows[len(rows)-1].ClosingBalance.String())
	}
}

func TestGenerateInvalidInputs(t *testing.T) {
	g := NewScheduleGenerator(nil)

	tests := []struct {
		name      string
		principal decimal.Decimal
		term      int
	}{
		{name: "Zero principal", principal: decimal.Zero, term: 12},
		{name: "Negative principal", principal: decimal.NewFromInt(-1000), term: 12},
		{name: "Zero term", principal: decimal.NewFromInt(1000), term: 0},
		{name: "Negative term", principal: decimal.NewFromInt(1000), term: -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rows := g.Generate(tt.principal, decimal.NewFromInt(12), tt.term); rows != nil {
				t.Errorf("expected no schedule, got %d rows", len(rows))
			}
		})
	}
}
