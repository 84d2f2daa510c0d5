package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Installment is one row of a loan's amortization table, kept as a raw BSON
// document. The broad arrear repair and the payment-links repair write the
// whole table back; decoding these rows into typed floats would re-encode
// every int32/int64 currency field as a double on the way out, which is the
// exact corruption the integer-schema audit exists to catch.
type Installment primitive.M

// Clone returns a shallow copy safe to mutate field-by-field.
func (i Installment) Clone() Installment {
	out := make(Installment, len(i))
	for k, v := range i {
		out[k] = v
	}
	return out
}

// ID returns the installment's own identifier, when present.
func (i Installment) ID() string {
	if v, ok := i["id"].(string); ok {
		return v
	}
	return ""
}

// DaysInArrear returns the days_in_arrear value coerced to an integer. The
// second return is false when the field is missing or not numeric.
func (i Installment) DaysInArrear() (int64, bool) {
	return asInt64(i["days_in_arrear"])
}

// PendingPayment returns the pending_payment value coerced to an integer.
func (i Installment) PendingPayment() (int64, bool) {
	return asInt64(i["pending_payment"])
}

// PaymentInfo returns the transaction identifiers recorded as having paid
// this installment.
func (i Installment) PaymentInfo() []string {
	raw, ok := i["payment_info"].(primitive.A)
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			ids = append(ids, s)
		}
	}
	return ids
}

// SetPaymentInfo replaces the payment_info array in place.
func (i Installment) SetPaymentInfo(ids []string) {
	arr := make(primitive.A, len(ids))
	for n, id := range ids {
		arr[n] = id
	}
	i["payment_info"] = arr
}

// HasIntegerValue reports whether the named field holds an integer BSON value.
// Doubles, missing fields and non-numeric values all fail the check.
func (i Installment) HasIntegerValue(field string) bool {
	switch i[field].(type) {
	case int32, int64:
		return true
	default:
		return false
	}
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

type Loan struct {
	ID                primitive.ObjectID `bson:"_id" json:"_id"`
	FinancialEntityID string             `bson:"financial_entity_id" json:"financial_entity_id"`
	Status            string             `bson:"status" json:"status"`
	UserID            primitive.ObjectID `bson:"user_id,omitempty" json:"user_id"`
	PaymentDate       string             `bson:"payment_date,omitempty" json:"payment_date,omitempty"`
	LimitPaymentDate  string             `bson:"limit_payment_date,omitempty" json:"limit_payment_date,omitempty"`
	Amortization      []Installment      `bson:"amortization,omitempty" json:"amortization,omitempty"`
}

type User struct {
	ID     primitive.ObjectID `bson:"_id" json:"_id"`
	Status string             `bson:"status" json:"status"`
}

type TransactionDetails struct {
	Term int `bson:"term" json:"term"`
}

type Transaction struct {
	ID      string             `bson:"id" json:"id"`
	Details TransactionDetails `bson:"details" json:"details"`
}

type Payment struct {
	ID                primitive.ObjectID `bson:"_id" json:"_id"`
	LoanID            primitive.ObjectID `bson:"loan_id" json:"loan_id"`
	Date              string             `bson:"date" json:"date"`
	FinancialEntityID string             `bson:"financial_entity_id" json:"financial_entity_id"`
	Transactions      []Transaction      `bson:"transactions" json:"transactions"`
}
