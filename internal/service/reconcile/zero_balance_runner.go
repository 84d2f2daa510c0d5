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
	"consistencychecker/internal/service/interfaces"
)

// ZeroBalanceRunner clears arrear day counters on installments that owe
// nothing. Each counter is zeroed with a positional update so the rest of
// the installment document is never rewritten.
type ZeroBalanceRunner struct {
	scope    config.ScopeConfig
	loanRepo interfaces.LoanRepositoryInterface
	backup   interfaces.BackupWriterInterface
	notifier interfaces.NotifierInterface
	mirror   interfaces.ArtifactMirrorInterface
}

func NewZeroBalanceRunner(
	scope config.ScopeConfig,
	loanRepo interfaces.LoanRepositoryInterface,
	backup interfaces.BackupWriterInterface,
	notifier interfaces.NotifierInterface,
	mirror interfaces.ArtifactMirrorInterface,
) *ZeroBalanceRunner {
	return &ZeroBalanceRunner{
		scope:    scope,
		loanRepo: loanRepo,
		backup:   backup,
		notifier: notifier,
		mirror:   mirror,
	}
}

func (r *ZeroBalanceRunner) Run(ctx context.Context) (*models.ZeroBalanceSummary, error) {
	loans, err := r.loanRepo.FindZeroBalanceArrearLoans(ctx, r.scope.EntityIDs())
	if err != nil {
		return nil, err
	}

	summary := &models.ZeroBalanceSummary{CandidateLoans: len(loans)}
	ts := r.backup.Timestamp()

	if len(loans) > 0 {
		backupPath, err := r.backup.WriteJSON(fmt.Sprintf("loan_saldo_cero_documents_%s.json", ts), loans)
		if err != nil {
			logger.CtxError(ctx, log_messages.ErrorWritingBackupArtifact, err)
			return nil, err
		}
		summary.Artifacts = append(summary.Artifacts, backupPath)
	}

	for _, loan := range loans {
		indices := ZeroBalanceIndices(loan.Amortization)
		if len(indices) == 0 {
			continue
		}

		update := models.ArrearsUpdate{LoanID: loan.ID.Hex()}
		failed := false
		for _, index := range indices {
			days, _ := loan.Amortization[index].DaysInArrear()

			result, err := r.loanRepo.ClearInstallmentArrears(ctx, loan.ID, index)
			if err != nil {
				logger.CtxError(ctx, log_messages.ErrorUpdatingLoanDocument, err,
					slog.String("loan_id", loan.ID.Hex()), slog.Int("index", index))
				failed = true
				continue
			}
			update.Before = append(update.Before, models.ArrearSnapshot{Index: index, DaysInArrear: days})
			update.After = append(update.After, models.ArrearSnapshot{Index: index, DaysInArrear: 0})
			update.MatchedCount += result.MatchedCount
			update.ModifiedCount += result.ModifiedCount
		}
		if failed {
			summary.FailedLoans = append(summary.FailedLoans, loan.ID.Hex())
		}
		if len(update.Before) == 0 {
			continue
		}

		summary.UpdatedLoans = append(summary.UpdatedLoans, update)
		summary.TotalMatched += update.MatchedCount
		summary.TotalModified += update.ModifiedCount

		logger.CtxInfo(ctx, "Cleared arrear counters on settled installments",
			slog.String("loan_id", loan.ID.Hex()),
			slog.Int("installments", len(indices)),
			slog.Int64("modified", update.ModifiedCount))
	}

	if len(summary.UpdatedLoans) > 0 {
		path, err := r.backup.WriteJSON(fmt.Sprintf("amortization_updates_%s.json", ts), summary.UpdatedLoans)
		if err != nil {
			logger.CtxError(ctx, log_messages.ErrorWritingBackupArtifact, err)
			return nil, err
		}
		summary.Artifacts = append(summary.Artifacts, path)
	}

	mirrorArtifacts(ctx, r.mirror, summary.Artifacts)

	// This repair always reports, even when nothing qualified; silence
	// here would be indistinguishable from a run that never happened.
	if subject, html, err := notification.BuildZeroBalanceEmail(*summary, ts); err == nil {
		_ = r.notifier.Send(ctx, subject, html)
	}

	return summary, nil
}
