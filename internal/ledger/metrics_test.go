package ledger

import (
	"testing"
	"time"

	"github.com/iwvelando/capital-advisor/pkg/datetime"
	"github.com/shopspring/decimal"
)

func TestCollectionRisk(t *testing.T) {
	tests := []struct {
		name     string
		anchor   string
		expected string
	}{
		// The ledger's collection due date is 2025-02-14.
		{name: "Far from due", anchor: "2025-01-20", expected: RiskLow},
		{name: "Due within a week", anchor: "2025-02-10", expected: RiskMedium},
		{name: "Due today", anchor: "2025-02-14", expected: RiskMedium},
		{name: "Recently overdue", anchor: "2025-02-20", expected: RiskHigh},
		{name: "Overdue thirty days exactly", anchor: "2025-03-16", expected: RiskHigh},
		{name: "Overdue more than thirty days", anchor: "2025-03-17", expected: RiskCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := testLedger()
			risk := l.CollectionRisk(datetime.MustParseDate(tt.anchor))
			if risk.Level != tt.expected {
				t.Errorf("risk at %s = %s, expected %s", tt.anchor, risk.Level, tt.expected)
			}
		})
	}
}

func TestCollectionRiskFullyCollected(t *testing.T) {
	l := testLedger()
	if _, err := l.AppendClientPayment(Payment{Amount: decimal.NewFromInt(10000)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	risk := l.CollectionRisk(datetime.MustParseDate("2025-06-01"))
	if risk.Level != RiskNone {
		t.Errorf("risk = %s, expected %s", risk.Level, RiskNone)
	}
}

func TestCollectionRiskNoDueDate(t *testing.T) {
	l := testLedger()
	l.CollectionDueDate = time.Time{}

	risk := l.CollectionRisk(datetime.MustParseDate("2025-06-01"))
	if risk.Level != RiskNoData {
		t.Errorf("risk = %s, expected %s", risk.Level, RiskNoData)
	}
}

func TestGrossMarginAndProfitability(t *testing.T) {
	l := testLedger()
	if _, err := l.AppendObligation(Obligation{SupplierName: "Steel Co", Amount: decimal.NewFromInt(6000)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := l.AppendObligation(Obligation{SupplierName: "Bolt Co", Amount: decimal.NewFromInt(1000)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := l.GrossMargin(); !got.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("gross margin = %s, expected 3000", got.String())
	}
	if got := l.EstimatedProfitability(); !got.Equal(decimal.NewFromInt(30)) {
		t.Errorf("profitability = %s, expected 30", got.String())
	}
}

func TestPercentCollected(t *testing.T) {
	l := testLedger()
	if _, err := l.AppendClientPayment(Payment{Amount: decimal.NewFromInt(2500)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := l.PercentCollected(); !got.Equal(decimal.NewFromInt(25)) {
		t.Errorf("percent collected = %s, expected 25", got.String())
	}
}

func TestPercentPaidToSuppliers(t *testing.T) {
	l := testLedger()
	o, _ := l.AppendObligation(Obligation{SupplierName: "Steel Co", Amount: decimal.NewFromInt(4000)})
	if _, err := l.AppendSupplierPayment(SupplierPayment{
		Payment:      Payment{Amount: decimal.NewFromInt(1000)},
		ObligationID: o.ID,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := l.PercentPaidToSuppliers(); !got.Equal(decimal.NewFromInt(25)) {
		t.Errorf("percent paid to suppliers = %s, expected 25", got.String())
	}
}

func TestPercentPaidToSuppliersNoObligations(t *testing.T) {
	l := testLedger()
	if got := l.PercentPaidToSuppliers(); !got.IsZero() {
		t.Errorf("percent paid with no obligations = %s, expected 0", got.String())
	}
}

func TestAverageCollectionDays(t *testing.T) {
	l := testLedger()
	if l.AverageCollectionDays() != nil {
		t.Errorf("expected nil average with no payments")
	}

	if _, err := l.AppendClientPayment(Payment{
		Amount: decimal.NewFromInt(3000),
		Date:   datetime.MustParseDate("2025-01-25"), // 10 days after delivery
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := l.AppendClientPayment(Payment{
		Amount: decimal.NewFromInt(1000),
		Date:   datetime.MustParseDate("2025-02-14"), // 30 days after delivery
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	avg := l.AverageCollectionDays()
	if avg == nil {
		t.Fatal("expected an average")
	}
	// Amount-weighted: (10*3000 + 30*1000) / 4000 = 15.
	if *avg != 15 {
		t.Errorf("average collection days = %v, expected 15", *avg)
	}
}

func TestUpdateAverageDaysToPay(t *testing.T) {
	client := testClient()
	l := testLedger()

	if _, err := l.AppendClientPayment(Payment{
		Amount: decimal.NewFromInt(1000),
		Date:   datetime.MustParseDate("2025-01-25"),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := l.AppendClientPayment(Payment{
		Amount: decimal.NewFromInt(1000),
		Date:   datetime.MustParseDate("2025-02-09"),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Dated before delivery: excluded from the average.
	l.ClientPayments = append(l.ClientPayments, Payment{
		ID:     99,
		Amount: decimal.NewFromInt(1000),
		Date:   datetime.MustParseDate("2025-01-01"),
	})

	client.UpdateAverageDaysToPay([]*Ledger{l})
	// (10 + 25) / 2 payments, integer division.
	if client.AverageDaysToPay != 17 {
		t.Errorf("average days to pay = %d, expected 17", client.AverageDaysToPay)
	}
}

func TestUpdateAverageDaysToPayNoPayments(t *testing.T) {
	client := testClient()
	client.UpdateAverageDaysToPay([]*Ledger{testLedger()})
	if client.AverageDaysToPay != 1 {
		t.Errorf("average days to pay with no payments = %d, expected fallback 1", client.AverageDaysToPay)
	}
}
