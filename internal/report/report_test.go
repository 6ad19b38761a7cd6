package report

import (
	"testing"

	"github.com/iwvelando/capital-advisor/internal/ledger"
	"github.com/iwvelando/capital-advisor/pkg/datetime"
	"github.com/shopspring/decimal"
)

func testClients() map[string]ledger.Client {
	return map[string]ledger.Client{
		"C001": {ID: "C001", Name: "Acme Industrial", ContractTermsDays: 30},
	}
}

func testLedger(t *testing.T) *ledger.Ledger {
	t.Helper()

	l := ledger.New("REG-001", testClients()["C001"],
		datetime.MustParseDate("2025-01-15"), decimal.NewFromInt(10000))

	if _, err := l.AppendObligation(ledger.Obligation{
		SupplierName: "Steel Co",
		Amount:       decimal.NewFromInt(4000),
		DueDate:      datetime.MustParseDate("2025-02-10"),
		CreatedDate:  datetime.MustParseDate("2025-01-16"),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := l.AppendClientPayment(ledger.Payment{
		Amount: decimal.NewFromInt(2500),
		Date:   datetime.MustParseDate("2025-02-01"),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := l.AppendSupplierPayment(ledger.SupplierPayment{
		Payment: ledger.Payment{
			Amount: decimal.NewFromInt(1000),
			Date:   datetime.MustParseDate("2025-02-05"),
		},
		ObligationID: 1,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return l
}

func TestBuildReceivables(t *testing.T) {
	anchor := datetime.MustParseDate("2025-03-30")
	rows, summary := BuildReceivables([]*ledger.Ledger{testLedger(t)}, testClients(), anchor)

	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]

	if row.Customer != "C001" || row.DocumentNumber != "REG-001" {
		t.Errorf("row identity = %s/%s", row.Customer, row.DocumentNumber)
	}
	if row.CompanyCode != "1000" || row.DocumentType != "ZF" {
		t.Errorf("fixed document codes = %s/%s", row.CompanyCode, row.DocumentType)
	}
	if row.NetDueDate != "2025-02-14" {
		t.Errorf("net due date = %s, expected 2025-02-14", row.NetDueDate)
	}
	// 44 days past the 2025-02-14 due date.
	if row.OverdueDays != 44 {
		t.Errorf("overdue days = %d, expected 44", row.OverdueDays)
	}
	if !row.NetBalance.Equal(decimal.NewFromInt(7500)) {
		t.Errorf("net balance = %s, expected 7500", row.NetBalance.String())
	}
	if !row.Days31To60.Equal(decimal.NewFromInt(7500)) {
		t.Errorf("31-60 bucket = %s, expected the open balance", row.Days31To60.String())
	}
	if !row.IsOverdue {
		t.Errorf("expected row to be overdue")
	}
	if row.CollectionState != string(ledger.CollectionPartiallyPaid) {
		t.Errorf("collection state = %s", row.CollectionState)
	}
	if row.PaymentTerms != "30 días" {
		t.Errorf("payment terms = %q", row.PaymentTerms)
	}

	if !summary.TotalNetBalance.Equal(decimal.NewFromInt(7500)) {
		t.Errorf("summary net balance = %s", summary.TotalNetBalance.String())
	}
	if !summary.Total31To60.Equal(decimal.NewFromInt(7500)) {
		t.Errorf("summary 31-60 = %s", summary.Total31To60.String())
	}
	if !summary.PercentCollected.Equal(decimal.NewFromInt(25)) {
		t.Errorf("summary percent collected = %s, expected 25", summary.PercentCollected.String())
	}
	if summary.RecordCount != 1 {
		t.Errorf("record count = %d, expected 1", summary.RecordCount)
	}
}

func TestBuildReceivablesBucketsPartitionBalance(t *testing.T) {
	anchor := datetime.MustParseDate("2025-03-30")
	rows, _ := BuildReceivables([]*ledger.Ledger{testLedger(t)}, testClients(), anchor)

	row := rows[0]
	total := row.NotDue.
		Add(row.Days0To30).
		Add(row.Days31To60).
		Add(row.Days61To90).
		Add(row.Days91To120).
		Add(row.Days120Plus)
	if !total.Equal(row.NetBalance) {
		t.Errorf("buckets sum to %s, expected the net balance %s", total.String(), row.NetBalance.String())
	}
}

func TestBuildCollectionAging(t *testing.T) {
	anchor := datetime.MustParseDate("2025-03-30")
	rows := BuildCollectionAging([]*ledger.Ledger{testLedger(t)}, anchor)

	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]

	// The 2025-02-01 payment came 17 days after the 2025-01-15 delivery.
	if row.Collections["cobros_0_30"] != 2500 {
		t.Errorf("cobros_0_30 = %v, expected 2500", row.Collections["cobros_0_30"])
	}
	if row.TotalCollected != 2500 {
		t.Errorf("total collected = %v, expected 2500", row.TotalCollected)
	}
}

func TestBuildCollectionAgingSkipsSettledLedgers(t *testing.T) {
	l := testLedger(t)
	if _, err := l.AppendClientPayment(ledger.Payment{
		Amount: l.OutstandingToCollect(),
		Date:   datetime.MustParseDate("2025-03-01"),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows := BuildCollectionAging([]*ledger.Ledger{l}, datetime.MustParseDate("2025-03-30"))
	if len(rows) != 0 {
		t.Errorf("expected no rows for fully collected ledgers, got %d", len(rows))
	}
}

func TestBuildPayables(t *testing.T) {
	anchor := datetime.MustParseDate("2025-03-30")
	rows := BuildPayables([]*ledger.Ledger{testLedger(t)}, anchor)

	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]

	if row.ID != "REG-001-1" || row.DocumentNumber != "FAC-REG-001-1" {
		t.Errorf("row identity = %s/%s", row.ID, row.DocumentNumber)
	}
	if row.VendorName != "Steel Co" {
		t.Errorf("vendor = %s", row.VendorName)
	}
	if row.OriginalAmount != 4000 || row.NetBalance != 3000 || row.PaidAmount != 1000 {
		t.Errorf("amounts = %v/%v/%v, expected 4000/3000/1000", row.OriginalAmount, row.NetBalance, row.PaidAmount)
	}
	// 48 days past the 2025-02-10 due date.
	if row.OverdueDays != 48 || !row.IsOverdue {
		t.Errorf("overdue = %d/%v, expected 48/true", row.OverdueDays, row.IsOverdue)
	}
	if row.Description != "N/A" {
		t.Errorf("empty description should render as N/A, got %q", row.Description)
	}
	// The 2025-02-05 payment came 20 days after the obligation was created.
	if row.Payments["pagos_0_30"] != 1000 {
		t.Errorf("pagos_0_30 = %v, expected 1000", row.Payments["pagos_0_30"])
	}
}

func TestBuildPayablesSkipsSettledObligations(t *testing.T) {
	l := testLedger(t)
	if _, err := l.AppendSupplierPayment(ledger.SupplierPayment{
		Payment: ledger.Payment{
			Amount: decimal.NewFromInt(3000),
			Date:   datetime.MustParseDate("2025-03-01"),
		},
		ObligationID: 1,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows := BuildPayables([]*ledger.Ledger{l}, datetime.MustParseDate("2025-03-30"))
	if len(rows) != 0 {
		t.Errorf("expected no rows for fully paid obligations, got %d", len(rows))
	}
}

func TestBuildFlowReport(t *testing.T) {
	anchor := datetime.MustParseDate("2025-03-30")
	flow := BuildFlowReport(testLedger(t), anchor)

	if flow.LedgerID != "REG-001" || flow.ClientName != "Acme Industrial" {
		t.Errorf("identity = %s/%s", flow.LedgerID, flow.ClientName)
	}
	if flow.BilledAmount != 10000 || flow.OutstandingToCollect != 7500 {
		t.Errorf("amounts = %v/%v", flow.BilledAmount, flow.OutstandingToCollect)
	}
	if flow.GrossMargin != 6000 {
		t.Errorf("gross margin = %v, expected 6000", flow.GrossMargin)
	}
	if flow.EstimatedProfitability != 60 {
		t.Errorf("profitability = %v, expected 60", flow.EstimatedProfitability)
	}
	if flow.RiskLevel != ledger.RiskCritical {
		t.Errorf("risk level = %s, expected %s", flow.RiskLevel, ledger.RiskCritical)
	}
	if flow.DaysToDue != -44 {
		t.Errorf("days to due = %d, expected -44", flow.DaysToDue)
	}
	if flow.ObligationCount != 1 || flow.ClientPaymentCount != 1 || flow.SupplierPaymentCount != 1 {
		t.Errorf("counts = %d/%d/%d", flow.ObligationCount, flow.ClientPaymentCount, flow.SupplierPaymentCount)
	}
}
