package reconcile

import (
	"consistencychecker/internal/pkg/consts"
	"consistencychecker/internal/pkg/models"
	storemodels "consistencychecker/internal/pkg/store/models"
)

// ArrearSnapshots captures every installment currently reporting a
// positive days_in_arrear.
func ArrearSnapshots(amortization []storemodels.Installment) []models.ArrearSnapshot {
	var snaps []models.ArrearSnapshot
	for i, inst := range amortization {
		if days, ok := inst.DaysInArrear(); ok && days > 0 {
			snaps = append(snaps, models.ArrearSnapshot{Index: i, DaysInArrear: days})
		}
	}
	return snaps
}

// ClearAllArrears returns a copy of the amortization table with every
// positive days_in_arrear zeroed. Untouched installments are shared, not
// copied, so their stored field types survive the writeback. The returned
// snapshots list what was cleared; changed is false when the table was
// already clean.
func ClearAllArrears(amortization []storemodels.Installment) ([]storemodels.Installment, []models.ArrearSnapshot, bool) {
	out := make([]storemodels.Installment, len(amortization))
	copy(out, amortization)

	var cleared []models.ArrearSnapshot
	for i, inst := range amortization {
		days, ok := inst.DaysInArrear()
		if !ok || days <= 0 {
			continue
		}
		fixed := inst.Clone()
		fixed["days_in_arrear"] = int32(0)
		out[i] = fixed
		cleared = append(cleared, models.ArrearSnapshot{Index: i, DaysInArrear: days})
	}

	return out, cleared, len(cleared) > 0
}

// ZeroBalanceIndices returns the positions of installments that owe
// nothing but still report days in arrear. Installments that owe money
// are left for collection and never touched here.
func ZeroBalanceIndices(amortization []storemodels.Installment) []int {
	var indices []int
	for i, inst := range amortization {
		days, okDays := inst.DaysInArrear()
		pending, okPending := inst.PendingPayment()
		if okDays && okPending && days > 0 && pending == 0 {
			indices = append(indices, i)
		}
	}
	return indices
}

// CheckIntegerSchema audits each installment against the declared integer
// fields. Violations are reported, never repaired; a field stored as a
// double is evidence of an upstream writer decoding and re-encoding the
// table.
func CheckIntegerSchema(loanID string, amortization []storemodels.Installment) []models.SchemaViolation {
	var violations []models.SchemaViolation
	for i, inst := range amortization {
		var bad []string
		for _, field := range consts.AmortizationIntegerFields {
			if !inst.HasIntegerValue(field) {
				bad = append(bad, field)
			}
		}
		if len(bad) > 0 {
			violations = append(violations, models.SchemaViolation{
				LoanID: loanID,
				Index:  i,
				Fields: bad,
			})
		}
	}
	return violations
}
