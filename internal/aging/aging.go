// Package aging classifies balances and historical payments into day-range
// buckets for receivable/payable reporting. Two distinct policies live here:
// outstanding-balance aging (what is still owed, bucketed by how overdue it
// is) and payment-history aging (cash already moved, bucketed by how long
// after a reference date it moved). They share the bucket bounds but must
// not be merged; they answer different questions over different date pairs.
package aging

import (
	"time"

	"github.com/iwvelando/capital-advisor/pkg/constants"
	"github.com/iwvelando/capital-advisor/pkg/datetime"
	"github.com/shopspring/decimal"
)

// Fixed report keys for outstanding-balance buckets. External dashboards
// consume these names; do not change them.
const (
	KeyNotDue      = "not_due"
	KeyDays0To30   = "days_0_30"
	KeyDays31To60  = "days_31_60"
	KeyDays61To90  = "days_61_90"
	KeyDays91To120 = "days_91_120"
	KeyDays120Plus = "days_120_plus"
)

// Key prefixes for payment-history buckets: supplier payments report as
// pagos_*, client collections as cobros_*.
const (
	PrefixSupplierPayments = "pagos"
	PrefixClientPayments   = "cobros"
)

// Entry is one dated amount to classify.
type Entry struct {
	Amount decimal.Decimal
	Date   time.Time
}

// BalanceBuckets partitions outstanding balances by days overdue. The five
// overdue buckets plus NotDue always sum to the total classified balance.
type BalanceBuckets struct {
	NotDue      decimal.Decimal
	Days0To30   decimal.Decimal
	Days31To60  decimal.Decimal
	Days61To90  decimal.Decimal
	Days91To120 decimal.Decimal
	Days120Plus decimal.Decimal
}

// NewBalanceBuckets returns an empty, fully-initialized bucket set.
func NewBalanceBuckets() BalanceBuckets {
	return BalanceBuckets{
		NotDue:      decimal.Zero,
		Days0To30:   decimal.Zero,
		Days31To60:  decimal.Zero,
		Days61To90:  decimal.Zero,
		Days91To120: decimal.Zero,
		Days120Plus: decimal.Zero,
	}
}

// OverdueDays is the positive number of days the due date lies behind the
// anchor; zero when due today or still in the future.
func OverdueDays(dueDate, anchor time.Time) int {
	days := datetime.DaysBetween(dueDate, anchor)
	if days < 0 {
		return 0
	}
	return days
}

// ClassifyOutstanding places one outstanding balance in its aging bucket as
// of the anchor date. Balances due strictly after the anchor are not yet
// due; a balance due on the anchor date itself lands in the 0-30 bucket.
// Non-positive balances and zero due dates classify to nothing.
func ClassifyOutstanding(balance decimal.Decimal, dueDate, anchor time.Time) BalanceBuckets {
	buckets := NewBalanceBuckets()
	if balance.LessThanOrEqual(decimal.Zero) || dueDate.IsZero() {
		return buckets
	}

	daysToDue := datetime.DaysBetween(anchor, dueDate)
	if daysToDue > 0 {
		buckets.NotDue = balance
		return buckets
	}

	overdue := -daysToDue
	switch {
	case overdue <= constants.AgingBound30:
		buckets.Days0To30 = balance
	case overdue <= constants.AgingBound60:
		buckets.Days31To60 = balance
	case overdue <= constants.AgingBound90:
		buckets.Days61To90 = balance
	case overdue <= constants.AgingBound120:
		buckets.Days91To120 = balance
	default:
		buckets.Days120Plus = balance
	}
	return buckets
}

// Add accumulates another bucket set into this one.
func (b BalanceBuckets) Add(other BalanceBuckets) BalanceBuckets {
	return BalanceBuckets{
		NotDue:      b.NotDue.Add(other.NotDue),
		Days0To30:   b.Days0To30.Add(other.Days0To30),
		Days31To60:  b.Days31To60.Add(other.Days31To60),
		Days61To90:  b.Days61To90.Add(other.Days61To90),
		Days91To120: b.Days91To120.Add(other.Days91To120),
		Days120Plus: b.Days120Plus.Add(other.Days120Plus),
	}
}

// Total sums every bucket including NotDue.
func (b BalanceBuckets) Total() decimal.Decimal {
	return b.NotDue.
		Add(b.Days0To30).
		Add(b.Days31To60).
		Add(b.Days61To90).
		Add(b.Days91To120).
		Add(b.Days120Plus)
}

// Map renders the buckets under their fixed report keys.
func (b BalanceBuckets) Map() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		KeyNotDue:      b.NotDue,
		KeyDays0To30:   b.Days0To30,
		KeyDays31To60:  b.Days31To60,
		KeyDays61To90:  b.Days61To90,
		KeyDays91To120: b.Days91To120,
		KeyDays120Plus: b.Days120Plus,
	}
}

// PaymentBuckets partitions historical payments by days elapsed since a
// reference date. There is no not-due bucket; a payment recorded before the
// reference date (negative elapsed days) is excluded from every bucket.
type PaymentBuckets struct {
	Days0To30   decimal.Decimal
	Days31To60  decimal.Decimal
	Days61To90  decimal.Decimal
	Days91To120 decimal.Decimal
	Days120Plus decimal.Decimal
}

// ClassifyPayments buckets each entry by days elapsed from the reference
// date to the entry date. Entries with a zero date, and entries dated
// before the reference, are silently excluded. A zero reference date yields
// empty buckets.
func ClassifyPayments(entries []Entry, reference time.Time) PaymentBuckets {
	buckets := PaymentBuckets{
		Days0To30:   decimal.Zero,
		Days31To60:  decimal.Zero,
		Days61To90:  decimal.Zero,
		Days91To120: decimal.Zero,
		Days120Plus: decimal.Zero,
	}
	if reference.IsZero() {
		return buckets
	}

	for _, entry := range entries {
		if entry.Date.IsZero() {
			continue
		}
		elapsed := datetime.DaysBetween(reference, entry.Date)
		switch {
		case elapsed < 0:
			// Excluded: paid before the reference date.
		case elapsed <= constants.AgingBound30:
			buckets.Days0To30 = buckets.Days0To30.Add(entry.Amount)
		case elapsed <= constants.AgingBound60:
			buckets.Days31To60 = buckets.Days31To60.Add(entry.Amount)
		case elapsed <= constants.AgingBound90:
			buckets.Days61To90 = buckets.Days61To90.Add(entry.Amount)
		case elapsed <= constants.AgingBound120:
			buckets.Days91To120 = buckets.Days91To120.Add(entry.Amount)
		default:
			buckets.Days120Plus = buckets.Days120Plus.Add(entry.Amount)
		}
	}
	return buckets
}

// Total sums every bucket.
func (b PaymentBuckets) Total() decimal.Decimal {
	return b.Days0To30.
		Add(b.Days31To60).
		Add(b.Days61To90).
		Add(b.Days91To120).
		Add(b.Days120Plus)
}

// Map renders the buckets under the fixed report keys for the given prefix
// (PrefixSupplierPayments or PrefixClientPayments). Values are floats,
// matching the consuming dashboards.
func (b PaymentBuckets) Map(prefix string) map[string]float64 {
	return map[string]float64{
		prefix + "_0_30":     b.Days0To30.InexactFloat64(),
		prefix + "_31_60":    b.Days31To60.InexactFloat64(),
		prefix + "_61_90":    b.Days61To90.InexactFloat64(),
		prefix + "_91_120":   b.Days91To120.InexactFloat64(),
		prefix + "_120_plus": b.Days120Plus.InexactFloat64(),
	}
}
