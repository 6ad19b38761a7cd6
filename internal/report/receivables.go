// Package report builds the accounts-receivable and accounts-payable
// reports consumed by external dashboards. Key names in the rendered maps
// and JSON fields are a reporting contract and must stay stable.
package report

import (
	"fmt"
	"time"

	"github.com/iwvelando/capital-advisor/internal/aging"
	"github.com/iwvelando/capital-advisor/internal/ledger"
	"github.com/iwvelando/capital-advisor/pkg/datetime"
	"github.com/shopspring/decimal"
)

// Fixed document codes carried on every receivable row.
const (
	companyCode  = "1000"
	documentType = "ZF"
)

// ReceivableRow is one billing record's line in the aging report.
type ReceivableRow struct {
	Customer          string          `json:"customer"`
	CustomerName      string          `json:"customer_name"`
	CompanyCode       string          `json:"company_code"`
	DocumentType      string          `json:"document_type"`
	DocumentNumber    string          `json:"document_number"`
	PostingDate       string          `json:"posting_date"`
	DocumentDate      string          `json:"document_date"`
	NetDueDate        string          `json:"net_due_date"`
	InvoiceDays       int             `json:"invoice_days"`
	OverdueDays       int             `json:"overdue_days"`
	OriginalAmount    decimal.Decimal `json:"original_amount"`
	NetBalance        decimal.Decimal `json:"net_balance"`
	PaymentTerms      string          `json:"payment_terms"`
	Reference         string          `json:"reference"`
	CustomerReference string          `json:"customer_reference"`
	NotDue            decimal.Decimal `json:"not_due"`
	Days0To30         decimal.Decimal `json:"days_0_30"`
	Days31To60        decimal.Decimal `json:"days_31_60"`
	Days61To90        decimal.Decimal `json:"days_61_90"`
	Days91To120       decimal.Decimal `json:"days_91_120"`
	Days120Plus       decimal.Decimal `json:"days_120_plus"`
	CollectionState   string          `json:"estado_cobro"`
	IsOverdue         bool            `json:"esta_vencido"`
	AmountCollected   decimal.Decimal `json:"pagos_realizados"`
}

// ReceivablesSummary totals the report.
type ReceivablesSummary struct {
	TotalOriginalAmount decimal.Decimal `json:"total_original_amount"`
	TotalNetBalance     decimal.Decimal `json:"total_net_balance"`
	TotalCollected      decimal.Decimal `json:"total_pagado"`
	TotalNotDue         decimal.Decimal `json:"total_not_due"`
	Total0To30          decimal.Decimal `json:"total_0_30"`
	Total31To60         decimal.Decimal `json:"total_31_60"`
	Total61To90         decimal.Decimal `json:"total_61_90"`
	Total91To120        decimal.Decimal `json:"total_91_120"`
	Total120Plus        decimal.Decimal `json:"total_120_plus"`
	PercentCollected    decimal.Decimal `json:"porcentaje_cobrado"`
	RecordCount         int             `json:"total_registros"`
}

// BuildReceivables produces the outstanding-balance aging report for a set
// of ledgers as of the anchor date. Every ledger contributes a row; the
// aging buckets partition each row's net balance exactly.
func BuildReceivables(ledgers []*ledger.Ledger, clients map[string]ledger.Client, anchor time.Time) ([]ReceivableRow, ReceivablesSummary) {
	rows := make([]ReceivableRow, 0, len(ledgers))
	summary := ReceivablesSummary{
		TotalOriginalAmount: decimal.Zero,
		TotalNetBalance:     decimal.Zero,
		TotalCollected:      decimal.Zero,
		TotalNotDue:         decimal.Zero,
		Total0To30:          decimal.Zero,
		Total31To60:         decimal.Zero,
		Total61To90:         decimal.Zero,
		Total91To120:        decimal.Zero,
		Total120Plus:        decimal.Zero,
		PercentCollected:    decimal.Zero,
	}

	for _, l := range ledgers {
		outstanding := l.OutstandingToCollect()
		collected := l.TotalCollected()
		buckets := aging.ClassifyOutstanding(outstanding, l.CollectionDueDate, anchor)

		paymentTerms := "N/A"
		if client, ok := clients[l.ClientID]; ok {
			paymentTerms = fmt.Sprintf("%d días", client.ContractTermsDays)
		}

		rows = append(rows, ReceivableRow{
			Customer:        l.ClientID,
			CustomerName:    l.ClientName,
			CompanyCode:     companyCode,
			DocumentType:    documentType,
			DocumentNumber:  l.ID,
			PostingDate:     datetime.FormatDate(l.DeliveryDate),
			DocumentDate:    datetime.FormatDate(l.DeliveryDate),
			NetDueDate:      datetime.FormatDate(l.CollectionDueDate),
			InvoiceDays:     datetime.DaysBetween(l.DeliveryDate, anchor),
			OverdueDays:     aging.OverdueDays(l.CollectionDueDate, anchor),
			OriginalAmount:  l.BilledAmount,
			NetBalance:      outstanding,
			PaymentTerms:    paymentTerms,
			Reference:       l.ID,
			NotDue:          buckets.NotDue,
			Days0To30:       buckets.Days0To30,
			Days31To60:      buckets.Days31To60,
			Days61To90:      buckets.Days61To90,
			Days91To120:     buckets.Days91To120,
			Days120Plus:     buckets.Days120Plus,
			CollectionState: string(l.State),
			IsOverdue:       l.IsOverdue(anchor),
			AmountCollected: collected,
		})

		summary.TotalOriginalAmount = summary.TotalOriginalAmount.Add(l.BilledAmount)
		summary.TotalNetBalance = summary.TotalNetBalance.Add(outstanding)
		summary.TotalCollected = summary.TotalCollected.Add(collected)
		summary.TotalNotDue = summary.TotalNotDue.Add(buckets.NotDue)
		summary.Total0To30 = summary.Total0To30.Add(buckets.Days0To30)
		summary.Total31To60 = summary.Total31To60.Add(buckets.Days31To60)
		summary.Total61To90 = summary.Total61To90.Add(buckets.Days61To90)
		summary.Total91To120 = summary.Total91To120.Add(buckets.Days91To120)
		summary.Total120Plus = summary.Total120Plus.Add(buckets.Days120Plus)
	}

	if summary.TotalOriginalAmount.GreaterThan(decimal.Zero) {
		summary.PercentCollected = summary.TotalCollected.
			Div(summary.TotalOriginalAmount).Mul(decimal.NewFromInt(100))
	}
	summary.RecordCount = len(rows)

	return rows, summary
}

// CollectionAgingRow is one open receivable with its historical collections
// bucketed by days elapsed since delivery (day 0 is the delivery date).
type CollectionAgingRow struct {
	LedgerID        string             `json:"registro_id"`
	ClientName      string             `json:"cliente_nombre"`
	DeliveryDate    string             `json:"fecha_entrega"`
	DueDate         string             `json:"fecha_vencimiento"`
	OverdueDays     int                `json:"dias_vencidos"`
	IsOverdue       bool               `json:"esta_vencido"`
	OriginalAmount  float64            `json:"valor_original"`
	NetBalance      float64            `json:"saldo_pendiente"`
	TotalCollected  float64            `json:"total_cobrado"`
	CollectionState string             `json:"estado_cobro"`
	Collections     map[string]float64 `json:"cobros"`
}

// BuildCollectionAging produces the payment-history view of receivables:
// only ledgers with an open balance, each with its client payments bucketed
// by collection delay. Ledger rows keep the cobros_* bucket keys.
func BuildCollectionAging(ledgers []*ledger.Ledger, anchor time.Time) []CollectionAgingRow {
	var rows []CollectionAgingRow

	for _, l := range ledgers {
		outstanding := l.OutstandingToCollect()
		if outstanding.LessThanOrEqual(decimal.Zero) {
			continue
		}

		entries := make([]aging.Entry, 0, len(l.ClientPayments))
		for _, p := range l.ClientPayments {
			entries = append(entries, aging.Entry{Amount: p.Amount, Date: p.Date})
		}
		buckets := aging.ClassifyPayments(entries, l.DeliveryDate)

		overdueDays := 0
		if l.IsOverdue(anchor) {
			overdueDays = aging.OverdueDays(l.CollectionDueDate, anchor)
		}

		rows = append(rows, CollectionAgingRow{
			LedgerID:        l.ID,
			ClientName:      l.ClientName,
			DeliveryDate:    datetime.FormatDate(l.DeliveryDate),
			DueDate:         datetime.FormatDate(l.CollectionDueDate),
			OverdueDays:     overdueDays,
			IsOverdue:       l.IsOverdue(anchor),
			OriginalAmount:  l.BilledAmount.InexactFloat64(),
			NetBalance:      outstanding.InexactFloat64(),
			TotalCollected:  l.TotalCollected().InexactFloat64(),
			CollectionState: string(l.State),
			Collections:     buckets.Map(aging.PrefixClientPayments),
		})
	}

	return rows
}
