package ledger

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/capital-advisor/pkg/datetime"
	"github.com/iwvelando/capital-advisor/pkg/moneyutil"
)

// The wire format is the persisted semi-structured form of a ledger's three
// lists: JSON dicts with string-typed decimal amounts and YYYY-MM-DD dates.
// Field names and the textual encoding are a storage contract and round-trip
// exactly. Ids are normally integers but digit strings occur in older data;
// entries with malformed dates or amounts are skipped rather than failing
// the whole decode.

// WireID carries an entry id across the wire. Ids are normally JSON
// numbers but digit strings occur in older data; both are accepted, and
// numeric ids are re-emitted as numbers.
type WireID string

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (w *WireID) UnmarshalJSON(data []byte) error {
	*w = WireID(strings.Trim(string(data), `"`))
	return nil
}

// MarshalJSON emits numeric ids as JSON numbers and anything else as a
// string.
func (w WireID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.Atoi(string(w)); err == nil {
		return []byte(w), nil
	}
	return json.Marshal(string(w))
}

// ObligationRecord is the wire form of an Obligation.
type ObligationRecord struct {
	ID           WireID `json:"id"`
	SupplierID   string `json:"proveedor_id,omitempty"`
	SupplierName string `json:"proveedor_nombre"`
	Amount       string `json:"valor_pagar"`
	DueDate      string `json:"fecha_vencimiento"`
	Description  string `json:"descripcion"`
	Reference    string `json:"referencia"`
	CreatedDate  string `json:"fecha_creacion"`
}

// PaymentRecord is the wire form of a client Payment.
type PaymentRecord struct {
	ID           WireID `json:"id"`
	Amount       string `json:"monto"`
	Date         string `json:"fecha_pago"`
	Method       string `json:"metodo_pago"`
	Reference    string `json:"referencia"`
	Notes        string `json:"observaciones"`
	RecordedDate string `json:"fecha_registro"`
}

// SupplierPaymentRecord is the wire form of a SupplierPayment.
type SupplierPaymentRecord struct {
	PaymentRecord
	ObligationID WireID `json:"obligacion_id"`
}

// numericID accepts integer ids and digit-string ids; anything else is
// treated as absent.
func numericID(w WireID) (int, bool) {
	id, err := strconv.Atoi(string(w))
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}

// lenientDate parses a wire date, yielding the zero time for anything
// malformed or absent. Amounts on such entries still count toward balances;
// only date-dependent computations (projection, aging) skip them.
func lenientDate(s string) time.Time {
	t, err := datetime.ParseDate(s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// EncodeObligation renders an obligation in its wire form.
func EncodeObligation(o Obligation) ObligationRecord {
	return ObligationRecord{
		ID:           WireID(strconv.Itoa(o.ID)),
		SupplierID:   o.SupplierID,
		SupplierName: o.SupplierName,
		Amount:       moneyutil.FormatAmount(o.Amount),
		DueDate:      datetime.FormatDate(o.DueDate),
		Description:  o.Description,
		Reference:    o.Reference,
		CreatedDate:  datetime.FormatDate(o.CreatedDate),
	}
}

// DecodeObligation parses one wire record into a typed Obligation. A
// malformed amount fails the record; malformed dates degrade to the zero
// time.
func DecodeObligation(rec ObligationRecord) (Obligation, error) {
	amount, err := moneyutil.ParseAmount(rec.Amount)
	if err != nil {
		return Obligation{}, err
	}

	id, _ := numericID(rec.ID)
	return Obligation{
		ID:           id,
		SupplierID:   rec.SupplierID,
		SupplierName: rec.SupplierName,
		Amount:       amount,
		DueDate:      lenientDate(rec.DueDate),
		Description:  rec.Description,
		Reference:    rec.Reference,
		CreatedDate:  lenientDate(rec.CreatedDate),
	}, nil
}

// EncodePayment renders a client payment in its wire form.
func EncodePayment(p Payment) PaymentRecord {
	return PaymentRecord{
		ID:           WireID(strconv.Itoa(p.ID)),
		Amount:       moneyutil.FormatAmount(p.Amount),
		Date:         datetime.FormatDate(p.Date),
		Method:       p.Method,
		Reference:    p.Reference,
		Notes:        p.Notes,
		RecordedDate: datetime.FormatDate(p.RecordedDate),
	}
}

// DecodePayment parses one wire record into a typed Payment. A malformed
// amount fails the record; malformed dates degrade to the zero time.
func DecodePayment(rec PaymentRecord) (Payment, error) {
	amount, err := moneyutil.ParseAmount(rec.Amount)
	if err != nil {
		return Payment{}, err
	}

	id, _ := numericID(rec.ID)
	return Payment{
		ID:           id,
		Amount:       amount,
		Date:         lenientDate(rec.Date),
		Method:       rec.Method,
		Reference:    rec.Reference,
		Notes:        rec.Notes,
		RecordedDate: lenientDate(rec.RecordedDate),
	}, nil
}

// EncodeSupplierPayment renders a supplier payment in its wire form.
func EncodeSupplierPayment(p SupplierPayment) SupplierPaymentRecord {
	return SupplierPaymentRecord{
		PaymentRecord: EncodePayment(p.Payment),
		ObligationID:  WireID(strconv.Itoa(p.ObligationID)),
	}
}

// DecodeSupplierPayment parses one wire record into a typed SupplierPayment.
func DecodeSupplierPayment(rec SupplierPaymentRecord) (SupplierPayment, error) {
	payment, err := DecodePayment(rec.PaymentRecord)
	if err != nil {
		return SupplierPayment{}, err
	}
	obligationID, _ := numericID(rec.ObligationID)
	return SupplierPayment{Payment: payment, ObligationID: obligationID}, nil
}

// DecodeObligations parses a wire list, skipping malformed entries.
func DecodeObligations(records []ObligationRecord) []Obligation {
	var obligations []Obligation
	for _, rec := range records {
		o, err := DecodeObligation(rec)
		if err != nil {
			continue
		}
		obligations = append(obligations, o)
	}
	return obligations
}

// DecodePayments parses a wire list, skipping malformed entries.
func DecodePayments(records []PaymentRecord) []Payment {
	var payments []Payment
	for _, rec := range records {
		p, err := DecodePayment(rec)
		if err != nil {
			continue
		}
		payments = append(payments, p)
	}
	return payments
}

// DecodeSupplierPayments parses a wire list, skipping malformed entries.
func DecodeSupplierPayments(records []SupplierPaymentRecord) []SupplierPayment {
	var payments []SupplierPayment
	for _, rec := range records {
		p, err := DecodeSupplierPayment(rec)
		if err != nil {
			continue
		}
		payments = append(payments, p)
	}
	return payments
}
