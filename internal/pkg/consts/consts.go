package consts

// Collection names in the middleware database.
const (
	LoanCollection    = "loan"
	UserCollection    = "user"
	PaymentCollection = "payment"
)

// Statuses shared by loans and users.
const (
	StatusActive = "active"
	StatusArrear = "arrear"
	StatusPaid   = "paid"
)

// Issue tag carried by unapplied-transaction findings.
const IssuePaymentInfoEmpty = "payment_info_empty"

// Date-range selectors for the payment audit routine.
const (
	RangeRecent    = "recent"
	RangeAugust    = "august"
	RangeSeptember = "september"
	RangeOctober   = "october"
)

// Routine names accepted by the CLI.
const (
	RoutineArrears      = "arrears"
	RoutineZeroBalance  = "zero-balance"
	RoutinePaymentAudit = "payment-audit"
	RoutinePaymentLinks = "payment-links"
)

// AmortizationIntegerFields is the declared schema of installment fields that
// must carry integer BSON values (currency in minor units and day counts).
// Adding a field here is a data change, not a code change.
var AmortizationIntegerFields = []string{
	"principal",
	"total_amount",
	"principal_payment_amount",
	"interest_amount",
	"taxes",
	"days_in_arrear",
	"pending_payment",
	"arrear_interest_amount",
	"pending_principal_payment_amount",
	"pending_interest_amount",
	"pending_interest_taxes_amount",
	"pending_arrear_interest_amount",
	"pending_guarantee_amount",
	"pending_guarantee_taxes_amount",
	"pending_other_expenses_amount",
	"period_days",
	"interest_taxes_amount",
	"guarantee_amount",
	"guarantee_taxes_amount",
	"other_expenses_amount",
	"arrear_interest_paid",
	"arrear_interest_taxes_amount",
	"pending_arrear_interest_taxes_amount",
}
