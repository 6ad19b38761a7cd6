// Package ledger implements the billing-record ledger: typed obligations and
// payments owned by one record, balance aggregation, collection state, and
// cash-flow projection. All computation is over explicit in-memory values;
// persistence belongs to the caller.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/capital-advisor/pkg/constants"
	"github.com/iwvelando/capital-advisor/pkg/datetime"
	"github.com/shopspring/decimal"
)

// CollectionState is the denormalized status flag kept consistent after
// every mutation. The values are the persisted wire values.
type CollectionState string

const (
	CollectionPending       CollectionState = "pendiente"
	CollectionPartiallyPaid CollectionState = "pagado_parcial"
	CollectionFullyPaid     CollectionState = "pagado_total"
)

// Payment method wire values.
const (
	MethodCash     = "efectivo"
	MethodTransfer = "transferencia"
	MethodCheck    = "cheque"
	MethodCard     = "tarjeta"
	MethodOther    = "otro"
)

// Validation errors surfaced at the mutation boundary.
var (
	ErrMissingSupplierName = errors.New("obligation requires a supplier name")
	ErrNonPositiveAmount   = errors.New("amount must be positive")
	ErrObligationNotFound  = errors.New("obligation not found")
	ErrExceedsReceivable   = errors.New("payment exceeds the outstanding receivable balance")
	ErrExceedsObligation   = errors.New("payment exceeds the obligation's outstanding balance")
)

// Obligation is an amount owed to a supplier, due on a date. Immutable once
// payments reference it; removable only via explicit deletion, which orphans
// its payments.
type Obligation struct {
	ID           int
	SupplierID   string
	SupplierName string
	Amount       decimal.Decimal
	DueDate      time.Time
	Description  string
	Reference    string
	CreatedDate  time.Time
}

// Payment is money received from the client.
type Payment struct {
	ID           int
	Amount       decimal.Decimal
	Date         time.Time
	Method       string
	Reference    string
	Notes        string
	RecordedDate time.Time
}

// SupplierPayment is money paid out against one obligation.
type SupplierPayment struct {
	Payment
	ObligationID int
}

// Client is the counterparty a ledger bills.
type Client struct {
	ID                string
	Name              string
	City              string
	Email             string
	Phone             string
	ContractTermsDays int
	AverageDaysToPay  int
	Notes             string
}

// Supplier is a counterparty obligations are owed to.
type Supplier struct {
	ID               string
	Name             string
	Contact          string
	Email            string
	Phone            string
	PaymentTermsDays int
}

// Ledger is one billing record and the obligation/payment lists it owns.
// Entry ids are unique within their owning list only, never globally.
//
// Concurrent appends to the same ledger must be serialized by the caller
// (single-writer discipline); the id-assignment invariant assumes an
// external transactional boundary.
type Ledger struct {
	ID                string
	ClientID          string
	ClientName        string
	DeliveryDate      time.Time
	BilledAmount      decimal.Decimal
	CollectionDueDate time.Time
	State             CollectionState
	Obligations       []Obligation
	ClientPayments    []Payment
	SupplierPayments  []SupplierPayment
	Notes             string
}

// New creates a ledger for a client billing. The collection due date is the
// delivery date plus the client's contractual terms.
func New(id string, client Client, deliveryDate time.Time, billedAmount decimal.Decimal) *Ledger {
	return &Ledger{
		ID:                id,
		ClientID:          client.ID,
		ClientName:        client.Name,
		DeliveryDate:      deliveryDate,
		BilledAmount:      billedAmount,
		CollectionDueDate: datetime.OffsetDays(deliveryDate, client.ContractTermsDays),
		State:             CollectionPending,
	}
}

// ObligationDueDate derives an obligation's due date from its reception date
// and the supplier's payment terms, falling back to 30 days when the
// supplier is unknown.
func ObligationDueDate(receptionDate time.Time, supplier *Supplier) time.Time {
	days := constants.DefaultSupplierTermsDays
	if supplier != nil && supplier.PaymentTermsDays > 0 {
		days = supplier.PaymentTermsDays
	}
	return datetime.OffsetDays(receptionDate, days)
}

// OutstandingToCollect is the billed amount less all client payments.
func (l *Ledger) OutstandingToCollect() decimal.Decimal {
	paid := decimal.Zero
	for _, p := range l.ClientPayments {
		paid = paid.Add(p.Amount)
	}
	return l.BilledAmount.Sub(paid)
}

// TotalCollected is the sum of all client payments.
func (l *Ledger) TotalCollected() decimal.Decimal {
	return l.BilledAmount.Sub(l.OutstandingToCollect())
}

// PaymentsFor returns the supplier payments referencing one obligation.
func (l *Ledger) PaymentsFor(obligationID int) []SupplierPayment {
	var payments []SupplierPayment
	for _, p := range l.SupplierPayments {
		if p.ObligationID == obligationID {
			payments = append(payments, p)
		}
	}
	return payments
}

// ObligationByID returns the obligation with the given id, or nil.
func (l *Ledger) ObligationByID(obligationID int) *Obligation {
	for i := range l.Obligations {
		if l.Obligations[i].ID == obligationID {
			return &l.Obligations[i]
		}
	}
	return nil
}

// ObligationOutstanding is the obligation's amount less the payments made
// against it. Zero when the obligation does not exist.
func (l *Ledger) ObligationOutstanding(obligationID int) decimal.Decimal {
	obligation := l.ObligationByID(obligationID)
	if obligation == nil {
		return decimal.Zero
	}
	paid := decimal.Zero
	for _, p := range l.PaymentsFor(obligationID) {
		paid = paid.Add(p.Amount)
	}
	return obligation.Amount.Sub(paid)
}

// TotalPayableOutstanding sums the positive outstanding balances across all
// obligations. Overpaid lines contribute zero, never a credit.
func (l *Ledger) TotalPayableOutstanding() decimal.Decimal {
	total := decimal.Zero
	for _, o := range l.Obligations {
		outstanding := l.ObligationOutstanding(o.ID)
		if outstanding.GreaterThan(decimal.Zero) {
			total = total.Add(outstanding)
		}
	}
	return total
}

// NextObligationID assigns the next obligation id: one past the highest id
// ever assigned that remains in the list, never reusing an id after
// deletions leave gaps.
func (l *Ledger) NextObligationID() int {
	max := 0
	for _, o := range l.Obligations {
		if o.ID > max {
			max = o.ID
		}
	}
	return max + 1
}

// NextClientPaymentID follows the same max-plus-one rule for client payments.
func (l *Ledger) NextClientPaymentID() int {
	max := 0
	for _, p := range l.ClientPayments {
		if p.ID > max {
			max = p.ID
		}
	}
	return max + 1
}

// NextSupplierPaymentID follows the same max-plus-one rule for supplier payments.
func (l *Ledger) NextSupplierPaymentID() int {
	max := 0
	for _, p := range l.SupplierPayments {
		if p.ID > max {
			max = p.ID
		}
	}
	return max + 1
}

// AppendObligation validates and appends a new obligation, assigning its id.
func (l *Ledger) AppendObligation(o Obligation) (Obligation, error) {
	if o.SupplierName == "" {
		return Obligation{}, ErrMissingSupplierName
	}
	if o.Amount.LessThanOrEqual(decimal.Zero) {
		return Obligation{}, fmt.Errorf("obligation for %s: %w", o.SupplierName, ErrNonPositiveAmount)
	}

	o.ID = l.NextObligationID()
	l.Obligations = append(l.Obligations, o)
	return o, nil
}

// AppendClientPayment validates and appends a payment received from the
// client. A payment that would drive the receivable negative is rejected
// before any state changes.
func (l *Ledger) AppendClientPayment(p Payment) (Payment, error) {
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return Payment{}, ErrNonPositiveAmount
	}
	if p.Amount.GreaterThan(l.OutstandingToCollect()) {
		return Payment{}, fmt.Errorf("payment of %s against receivable balance %s: %w",
			p.Amount.StringFixed(2), l.OutstandingToCollect().StringFixed(2), ErrExceedsReceivable)
	}
	if p.Method == "" {
		p.Method = MethodTransfer
	}

	p.ID = l.NextClientPaymentID()
	l.ClientPayments = append(l.ClientPayments, p)
	l.RefreshCollectionState()
	return p, nil
}

// AppendSupplierPayment validates and appends a payment against an
// obligation. The referenced obligation must exist and the payment must not
// exceed its outstanding balance.
func (l *Ledger) AppendSupplierPayment(p SupplierPayment) (SupplierPayment, error) {
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return SupplierPayment{}, ErrNonPositiveAmount
	}
	obligation := l.ObligationByID(p.ObligationID)
	if obligation == nil {
		return SupplierPayment{}, fmt.Errorf("obligation %d: %w", p.ObligationID, ErrObligationNotFound)
	}
	if p.Amount.GreaterThan(l.ObligationOutstanding(p.ObligationID)) {
		return SupplierPayment{}, fmt.Errorf("payment of %s against obligation %d balance %s: %w",
			p.Amount.StringFixed(2), p.ObligationID,
			l.ObligationOutstanding(p.ObligationID).StringFixed(2), ErrExceedsObligation)
	}
	if p.Method == "" {
		p.Method = MethodTransfer
	}

	p.ID = l.NextSupplierPaymentID()
	l.SupplierPayments = append(l.SupplierPayments, p)
	return p, nil
}

// RemoveObligation deletes an obligation. Payments referencing it are left
// in place, orphaned. Returns false when no obligation matched.
func (l *Ledger) RemoveObligation(obligationID int) bool {
	kept := l.Obligations[:0]
	removed := false
	for _, o := range l.Obligations {
		if o.ID == obligationID {
			removed = true
			continue
		}
		kept = append(kept, o)
	}
	l.Obligations = kept
	return removed
}

// RemoveClientPayment deletes a client payment and refreshes the collection
// state. Returns false when no payment matched.
func (l *Ledger) RemoveClientPayment(paymentID int) bool {
	kept := l.ClientPayments[:0]
	removed := false
	for _, p := range l.ClientPayments {
		if p.ID == paymentID {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	l.ClientPayments = kept
	if removed {
		l.RefreshCollectionState()
	}
	return removed
}

// RemoveSupplierPayment deletes a supplier payment. Returns false when no
// payment matched.
func (l *Ledger) RemoveSupplierPayment(paymentID int) bool {
	kept := l.SupplierPayments[:0]
	removed := false
	for _, p := range l.SupplierPayments {
		if p.ID == paymentID {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	l.SupplierPayments = kept
	return removed
}

// RefreshCollectionState recomputes the denormalized status flag from the
// payment list. It is cached state, not a source of truth.
func (l *Ledger) RefreshCollectionState() {
	outstanding := l.OutstandingToCollect()
	switch {
	case outstanding.LessThanOrEqual(decimal.Zero):
		l.State = CollectionFullyPaid
	case outstanding.LessThan(l.BilledAmount):
		l.State = CollectionPartiallyPaid
	default:
		l.State = CollectionPending
	}
}

// DaysToDue is the number of days from anchor until the collection due date;
// negative once overdue.
func (l *Ledger) DaysToDue(anchor time.Time) int {
	return datetime.DaysBetween(anchor, l.CollectionDueDate)
}

// IsOverdue reports whether the receivable is past due and not fully paid.
func (l *Ledger) IsOverdue(anchor time.Time) bool {
	return l.DaysToDue(anchor) < 0 && l.State != CollectionFullyPaid
}
