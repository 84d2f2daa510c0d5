package reconcile

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"consistencychecker/internal/pkg/consts"
	"consistencychecker/internal/pkg/log_messages"
	"consistencychecker/internal/pkg/logger"
	"consistencychecker/internal/pkg/models"
	storemodels "consistencychecker/internal/pkg/store/models"
	"consistencychecker/internal/service/interfaces"

	"go.mongodb.org/mongo-driver/mongo"
)

// TermGroup collects the transactions of one payment that target the same
// installment.
type TermGroup struct {
	Term int
	IDs  []string
}

// GroupTransactionsByTerm groups a payment's transactions by target term,
// preserving first-seen term order and the order of ids within a term.
func GroupTransactionsByTerm(transactions []storemodels.Transaction) []TermGroup {
	index := make(map[int]int, len(transactions))
	var groups []TermGroup
	for _, tx := range transactions {
		term := tx.Details.Term
		if pos, ok := index[term]; ok {
			groups[pos].IDs = append(groups[pos].IDs, tx.ID)
			continue
		}
		index[term] = len(groups)
		groups = append(groups, TermGroup{Term: term, IDs: []string{tx.ID}})
	}
	return groups
}

// SortedUniqueIDs deduplicates loan ids and returns them in lexical order.
func SortedUniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	var out []string
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

type PaymentAuditor struct {
	loanRepo interfaces.LoanRepositoryInterface
}

func NewPaymentAuditor(loanRepo interfaces.LoanRepositoryInterface) *PaymentAuditor {
	return &PaymentAuditor{loanRepo: loanRepo}
}

// AuditPayment verifies that every installment a payment targets has at
// least one applied payment recorded. Payments whose loan was since settled
// are skipped. Structural problems on the loan side, a missing loan
// document, a missing amortization table, or a term the table does not
// have, flag the loan as inconsistent without producing a finding; findings
// feed the unapplied-transactions report and carry only installments whose
// payment_info is empty. The audit only reads, it never mutates.
func (a *PaymentAuditor) AuditPayment(ctx context.Context, payment storemodels.Payment) ([]models.UnappliedFinding, []string, error) {
	loan, err := a.loanRepo.GetUnpaidLoanByID(ctx, payment.LoanID)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil, err
		}

		// Either the loan is already paid or it is gone. A settled loan
		// is fine; a dangling payment flags the loan id it points at.
		if _, lookupErr := a.loanRepo.GetLoanByID(ctx, payment.LoanID); lookupErr != nil {
			if !errors.Is(lookupErr, mongo.ErrNoDocuments) {
				return nil, nil, lookupErr
			}
			logger.CtxWarn(ctx, log_messages.EmptyDocumentFoundFromDb,
				slog.String("payment_id", payment.ID.Hex()),
				slog.String("loan_id", payment.LoanID.Hex()))
			return nil, []string{payment.LoanID.Hex()}, nil
		}
		return nil, nil, nil
	}

	if len(loan.Amortization) == 0 {
		logger.CtxWarn(ctx, log_messages.LoanWithoutAmortizationTable,
			slog.String("loan_id", loan.ID.Hex()))
		return nil, []string{loan.ID.Hex()}, nil
	}

	var findings []models.UnappliedFinding
	var inconsistent []string

	for _, group := range GroupTransactionsByTerm(payment.Transactions) {
		if group.Term < 1 || group.Term > len(loan.Amortization) {
			logger.CtxWarn(ctx, log_messages.InvalidTermInPaymentTransactions,
				slog.String("payment_id", payment.ID.Hex()), slog.Int("term", group.Term))
			inconsistent = append(inconsistent, loan.ID.Hex())
			continue
		}

		// An installment with any applied payment counts as linked, even
		// when none of this payment's transaction ids appear in it.
		if len(loan.Amortization[group.Term-1].PaymentInfo()) == 0 {
			findings = append(findings, newFinding(payment, group, consts.IssuePaymentInfoEmpty))
			inconsistent = append(inconsistent, loan.ID.Hex())
		}
	}

	return findings, inconsistent, nil
}

func newFinding(payment storemodels.Payment, group TermGroup, issue string) models.UnappliedFinding {
	return models.UnappliedFinding{
		PaymentID:      payment.ID.Hex(),
		LoanID:         payment.LoanID.Hex(),
		TransactionIDs: strings.Join(group.IDs, ","),
		Term:           group.Term,
		Issue:          issue,
	}
}
