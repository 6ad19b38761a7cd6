package report

import (
	"fmt"
	"time"

	"github.com/iwvelando/capital-advisor/internal/aging"
	"github.com/iwvelando/capital-advisor/internal/ledger"
	"github.com/iwvelando/capital-advisor/pkg/datetime"
	"github.com/shopspring/decimal"
)

// PayableRow is one open obligation in the payables report, with its
// payment history bucketed by days elapsed since the obligation was created.
type PayableRow struct {
	ID             string             `json:"id"`
	VendorName     string             `json:"vendorName"`
	DocumentNumber string             `json:"documentNumber"`
	PostingDate    string             `json:"postingDate"`
	NetDueDate     string             `json:"netDueDate"`
	OriginalAmount float64            `json:"originalAmount"`
	NetBalance     float64            `json:"netBalance"`
	PaidAmount     float64            `json:"paidAmount"`
	OverdueDays    int                `json:"overdueDays"`
	IsOverdue      bool               `json:"isOverdue"`
	Description    string             `json:"description"`
	Payments       map[string]float64 `json:"pagos"`
}

// BuildPayables produces the payables report as of the anchor date: one row
// per obligation with a positive outstanding balance, across all ledgers.
// Fully-paid obligations are omitted. Bucket keys use the pagos_* prefix.
func BuildPayables(ledgers []*ledger.Ledger, anchor time.Time) []PayableRow {
	var rows []PayableRow

	for _, l := range ledgers {
		for _, o := range l.Obligations {
			outstanding := l.ObligationOutstanding(o.ID)
			if outstanding.LessThanOrEqual(decimal.Zero) {
				continue
			}

			payments := l.PaymentsFor(o.ID)
			paid := decimal.Zero
			entries := make([]aging.Entry, 0, len(payments))
			for _, p := range payments {
				paid = paid.Add(p.Amount)
				entries = append(entries, aging.Entry{Amount: p.Amount, Date: p.Date})
			}
			buckets := aging.ClassifyPayments(entries, o.CreatedDate)

			overdueDays := 0
			netDueDate := ""
			if !o.DueDate.IsZero() {
				netDueDate = datetime.FormatDate(o.DueDate)
				overdueDays = aging.OverdueDays(o.DueDate, anchor)
			}

			postingDate := ""
			if !o.CreatedDate.IsZero() {
				postingDate = datetime.FormatDate(o.CreatedDate)
			}

			description := o.Description
			if description == "" {
				description = "N/A"
			}

			rows = append(rows, PayableRow{
				ID:             fmt.Sprintf("%s-%d", l.ID, o.ID),
				VendorName:     o.SupplierName,
				DocumentNumber: fmt.Sprintf("FAC-%s-%d", l.ID, o.ID),
				PostingDate:    postingDate,
				NetDueDate:     netDueDate,
				OriginalAmount: o.Amount.InexactFloat64(),
				NetBalance:     outstanding.InexactFloat64(),
				PaidAmount:     paid.InexactFloat64(),
				OverdueDays:    overdueDays,
				IsOverdue:      overdueDays > 0,
				Description:    description,
				Payments:       buckets.Map(aging.PrefixSupplierPayments),
			})
		}
	}

	return rows
}

// FlowReport is a self-contained snapshot of one ledger's financial
// position, suitable for export.
type FlowReport struct {
	LedgerID                string  `json:"registro_id"`
	ClientName              string  `json:"cliente"`
	DeliveryDate            string  `json:"fecha_entrega"`
	CollectionDueDate       string  `json:"fecha_limite_cobro"`
	BilledAmount            float64 `json:"valor_total"`
	OutstandingToCollect    float64 `json:"saldo_pendiente_cliente"`
	TotalPayableOutstanding float64 `json:"total_obligaciones"`
	GrossMargin             float64 `json:"margen_bruto"`
	EstimatedProfitability  float64 `json:"rentabilidad_estimada"`
	PercentCollected        float64 `json:"porcentaje_cobrado"`
	PercentPaidToSuppliers  float64 `json:"porcentaje_pagado_proveedores"`
	DaysToDue               int     `json:"dias_vencimiento"`
	RiskLevel               string  `json:"riesgo_nivel"`
	RiskMessage             string  `json:"riesgo_mensaje"`
	CollectionState         string  `json:"estado_cobro"`
	ClientPaymentCount      int     `json:"total_pagos_cliente"`
	SupplierPaymentCount    int     `json:"total_pagos_proveedor"`
	ObligationCount         int     `json:"total_obligaciones_count"`
}

// BuildFlowReport snapshots one ledger as of the anchor date.
func BuildFlowReport(l *ledger.Ledger, anchor time.Time) FlowReport {
	risk := l.CollectionRisk(anchor)
	return FlowReport{
		LedgerID:                l.ID,
		ClientName:              l.ClientName,
		DeliveryDate:            datetime.FormatDate(l.DeliveryDate),
		CollectionDueDate:       datetime.FormatDate(l.CollectionDueDate),
		BilledAmount:            l.BilledAmount.InexactFloat64(),
		OutstandingToCollect:    l.OutstandingToCollect().InexactFloat64(),
		TotalPayableOutstanding: l.TotalPayableOutstanding().InexactFloat64(),
		GrossMargin:             l.GrossMargin().InexactFloat64(),
		EstimatedProfitability:  l.EstimatedProfitability().InexactFloat64(),
		PercentCollected:        l.PercentCollected().InexactFloat64(),
		PercentPaidToSuppliers:  l.PercentPaidToSuppliers().InexactFloat64(),
		DaysToDue:               l.DaysToDue(anchor),
		RiskLevel:               risk.Level,
		RiskMessage:             risk.Message,
		CollectionState:         string(l.State),
		ClientPaymentCount:      len(l.ClientPayments),
		SupplierPaymentCount:    len(l.SupplierPayments),
		ObligationCount:         len(l.Obligations),
	}
}
