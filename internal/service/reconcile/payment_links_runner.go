package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"consistencychecker/internal/pkg/config"
	"consistencychecker/internal/pkg/log_messages"
	"consistencychecker/internal/pkg/logger"
	"consistencychecker/internal/pkg/models"
	"consistencychecker/internal/pkg/notification"
	storemodels "consistencychecker/internal/pkg/store/models"
	"consistencychecker/internal/service/interfaces"
)

// PaymentLinksRunner strips payment_info references that no payment
// document backs. It is the inverse check of the payment audit: the audit
// finds payments the tables ignore, this finds tables claiming payments
// that do not exist.
type PaymentLinksRunner struct {
	scope       config.ScopeConfig
	loanRepo    interfaces.LoanRepositoryInterface
	paymentRepo interfaces.PaymentRepositoryInterface
	backup      interfaces.BackupWriterInterface
	notifier    interfaces.NotifierInterface
	mirror      interfaces.ArtifactMirrorInterface
}

func NewPaymentLinksRunner(
	scope config.ScopeConfig,
	loanRepo interfaces.LoanRepositoryInterface,
	paymentRepo interfaces.PaymentRepositoryInterface,
	backup interfaces.BackupWriterInterface,
	notifier interfaces.NotifierInterface,
	mirror interfaces.ArtifactMirrorInterface,
) *PaymentLinksRunner {
	return &PaymentLinksRunner{
		scope:       scope,
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		backup:      backup,
		notifier:    notifier,
		mirror:      mirror,
	}
}

func (r *PaymentLinksRunner) Run(ctx context.Context) (*models.PaymentLinksSummary, error) {
	loans, err := r.loanRepo.FindLoansWithPaymentLinks(ctx, r.scope.EntityIDs())
	if err != nil {
		return nil, err
	}

	summary := &models.PaymentLinksSummary{CandidateLoans: len(loans)}
	ts := r.backup.Timestamp()

	if len(loans) == 0 {
		logger.CtxInfo(ctx, "No loans with payment links to verify")
		return summary, nil
	}

	backupPath, err := r.backup.WriteJSON(fmt.Sprintf("payment_links_documents_%s.json", ts), loans)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorWritingBackupArtifact, err)
		return nil, err
	}
	summary.Artifacts = append(summary.Artifacts, backupPath)

	for _, loan := range loans {
		fixes, fixed, err := r.verifyLoan(ctx, loan)
		if err != nil {
			return nil, err
		}
		if len(fixes) == 0 {
			continue
		}

		if _, err := r.loanRepo.ReplaceAmortization(ctx, loan.ID, fixed); err != nil {
			logger.CtxError(ctx, log_messages.ErrorUpdatingLoanDocument, err,
				slog.String("loan_id", loan.ID.Hex()))
			summary.FailedLoans = append(summary.FailedLoans, loan.ID.Hex())
			continue
		}

		summary.Fixes = append(summary.Fixes, fixes...)
		summary.UpdatedLoans++
		logger.CtxInfo(ctx, "Removed unbacked payment links",
			slog.String("loan_id", loan.ID.Hex()), slog.Int("installments", len(fixes)))
	}

	if len(summary.Fixes) > 0 {
		path, err := r.backup.WriteJSON(fmt.Sprintf("payment_links_fixes_%s.json", ts), summary.Fixes)
		if err != nil {
			logger.CtxError(ctx, log_messages.ErrorWritingBackupArtifact, err)
			return nil, err
		}
		summary.Artifacts = append(summary.Artifacts, path)
	}

	mirrorArtifacts(ctx, r.mirror, summary.Artifacts)

	if subject, html, err := notification.BuildPaymentLinksEmail(*summary, ts); err == nil {
		_ = r.notifier.Send(ctx, subject, html)
	}

	return summary, nil
}

// verifyLoan returns the fixes applied and a copy of the amortization table
// with unbacked transaction ids removed. Untouched installments keep their
// original documents.
func (r *PaymentLinksRunner) verifyLoan(ctx context.Context, loan storemodels.Loan) ([]models.PaymentLinkFix, []storemodels.Installment, error) {
	fixed := make([]storemodels.Installment, len(loan.Amortization))
	copy(fixed, loan.Amortization)

	var fixes []models.PaymentLinkFix
	for i, inst := range loan.Amortization {
		linked := inst.PaymentInfo()
		if len(linked) == 0 {
			continue
		}

		var kept, removed []string
		for _, txID := range linked {
			backed, err := r.paymentRepo.HasTransaction(ctx, loan.ID, txID)
			if err != nil {
				return nil, nil, err
			}
			if backed {
				kept = append(kept, txID)
			} else {
				removed = append(removed, txID)
			}
		}

		if len(removed) == 0 {
			continue
		}

		clean := inst.Clone()
		clean.SetPaymentInfo(kept)
		fixed[i] = clean
		fixes = append(fixes, models.PaymentLinkFix{
			LoanID:     loan.ID.Hex(),
			Index:      i,
			RemovedIDs: removed,
		})
	}

	return fixes, fixed, nil
}
