package models

// ArrearSnapshot captures the arrear state of one installment before or
// after a repair, keyed by its position in the amortization table.
type ArrearSnapshot struct {
	Index        int   `json:"index"`
	DaysInArrear int64 `json:"days_in_arrear"`
}

// ArrearsUpdate records one loan whose amortization table was repaired.
type ArrearsUpdate struct {
	LoanID        string           `json:"loan_id"`
	Before        []ArrearSnapshot `json:"before"`
	After         []ArrearSnapshot `json:"after"`
	MatchedCount  int64            `json:"matched_count,omitempty"`
	ModifiedCount int64            `json:"modified_count,omitempty"`
}

// SchemaViolation flags an amortization field that is missing or stored as
// a floating point value where an integer is declared.
type SchemaViolation struct {
	LoanID string   `json:"loan_id"`
	Index  int      `json:"index"`
	Fields []string `json:"fields"`
}

// UserValidation is the full audit record for one user examined during
// user status reconciliation.
type UserValidation struct {
	UserID        string `json:"user_id"`
	UserStatus    string `json:"user_status"`
	UserFound     bool   `json:"user_found"`
	LoansFound    int    `json:"loans_found"`
	ArrearLoans   int    `json:"arrear_loans"`
	OtherLoans    int    `json:"other_loans"`
	StatusUpdated bool   `json:"status_updated"`
	UpdateReason  string `json:"update_reason,omitempty"`
}

// UserUpdate records one user whose status was changed.
type UserUpdate struct {
	UserID    string `json:"user_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	Reason    string `json:"reason"`
}

// UnappliedFinding is one payment transaction group that is not reflected
// in the loan's amortization table.
type UnappliedFinding struct {
	PaymentID      string `json:"payment_id"`
	LoanID         string `json:"loan_id"`
	TransactionIDs string `json:"transaction_ids"`
	Term           int    `json:"term"`
	Issue          string `json:"issue"`
}

// DateFix records one payment date rewritten to the canonical UTC format.
type DateFix struct {
	LoanID string `json:"loan_id"`
	Field  string `json:"field"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// PaymentLinkFix records one loan whose amortization payment_info arrays
// referenced transactions the payment collection does not back.
type PaymentLinkFix struct {
	LoanID     string   `json:"loan_id"`
	Index      int      `json:"index"`
	RemovedIDs []string `json:"removed_ids"`
}

// ArrearsSummary aggregates one broad arrears reconciliation run.
type ArrearsSummary struct {
	CandidateLoans   int               `json:"candidate_loans"`
	UpdatedLoans     []ArrearsUpdate   `json:"updated_loans"`
	FailedLoans      []string          `json:"failed_loans,omitempty"`
	SchemaViolations []SchemaViolation `json:"schema_violations,omitempty"`
	DateFixes        []DateFix         `json:"date_fixes,omitempty"`
	UsersExamined    []UserValidation  `json:"users_examined,omitempty"`
	UserUpdates      []UserUpdate      `json:"user_updates,omitempty"`
	Artifacts        []string          `json:"artifacts,omitempty"`
}

// ZeroBalanceSummary aggregates one strict zero-balance repair run.
type ZeroBalanceSummary struct {
	CandidateLoans int             `json:"candidate_loans"`
	UpdatedLoans   []ArrearsUpdate `json:"updated_loans"`
	FailedLoans    []string        `json:"failed_loans,omitempty"`
	TotalMatched   int64           `json:"total_matched"`
	TotalModified  int64           `json:"total_modified"`
	Artifacts      []string        `json:"artifacts,omitempty"`
}

// PaymentAuditSummary aggregates one payment application audit run.
type PaymentAuditSummary struct {
	Range             string             `json:"range"`
	Limit             int64              `json:"limit,omitempty"`
	PaymentsExamined  int                `json:"payments_examined"`
	Findings          []UnappliedFinding `json:"findings"`
	InconsistentLoans []string           `json:"inconsistent_loans"`
	Artifacts         []string           `json:"artifacts,omitempty"`
}

// PaymentLinksSummary aggregates one payment-links repair run.
type PaymentLinksSummary struct {
	CandidateLoans int              `json:"candidate_loans"`
	Fixes          []PaymentLinkFix `json:"fixes"`
	UpdatedLoans   int              `json:"updated_loans"`
	FailedLoans    []string         `json:"failed_loans,omitempty"`
	Artifacts      []string         `json:"artifacts,omitempty"`
}
