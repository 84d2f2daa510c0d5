package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"consistencychecker/internal/pkg/config"
	"consistencychecker/internal/pkg/log_messages"
	"consistencychecker/internal/pkg/logger"
	"consistencychecker/internal/pkg/models"
	"consistencychecker/internal/pkg/notification"
	"consistencychecker/internal/service/interfaces"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var dateFields = []string{"payment_date", "limit_payment_date"}

// todayDatePattern matches payment dates scheduled for today's banking day
// that still carry the local offset instead of the canonical UTC form.
func todayDatePattern(now time.Time) string {
	return fmt.Sprintf(`^%sT.*-05:00$`, now.In(defaultZone).Format("2006-01-02"))
}

// ArrearsRunner repairs paid loans whose amortization tables still report
// days in arrear, normalizes stored dates, and reactivates users whose
// portfolios come out clean.
type ArrearsRunner struct {
	scope    config.ScopeConfig
	loanRepo interfaces.LoanRepositoryInterface
	users    *UserStatusReconciler
	backup   interfaces.BackupWriterInterface
	notifier interfaces.NotifierInterface
	mirror   interfaces.ArtifactMirrorInterface
	now      func() time.Time
}

func NewArrearsRunner(
	scope config.ScopeConfig,
	loanRepo interfaces.LoanRepositoryInterface,
	users *UserStatusReconciler,
	backup interfaces.BackupWriterInterface,
	notifier interfaces.NotifierInterface,
	mirror interfaces.ArtifactMirrorInterface,
) *ArrearsRunner {
	return &ArrearsRunner{
		scope:    scope,
		loanRepo: loanRepo,
		users:    users,
		backup:   backup,
		notifier: notifier,
		mirror:   mirror,
		now:      time.Now,
	}
}

func (r *ArrearsRunner) Run(ctx context.Context) (*models.ArrearsSummary, error) {
	entityIDs := r.scope.EntityIDs()
	ts := r.backup.Timestamp()

	summary := &models.ArrearsSummary{}

	// Dates first: candidate selection and user validation read the very
	// fields being normalized.
	dateFixes, dateArtifact, err := r.normalizeDates(ctx, entityIDs, ts)
	if err != nil {
		return nil, err
	}
	summary.DateFixes = dateFixes
	if dateArtifact != "" {
		summary.Artifacts = append(summary.Artifacts, dateArtifact)
	}

	loans, err := r.loanRepo.FindPaidLoansInArrears(ctx, entityIDs)
	if err != nil {
		return nil, err
	}
	summary.CandidateLoans = len(loans)

	if len(loans) == 0 {
		logger.CtxInfo(ctx, "No paid loans with arrear residue, nothing to repair")
		mirrorArtifacts(ctx, r.mirror, summary.Artifacts)
		return summary, nil
	}

	// Before image first; a repair with no backup is worse than no repair.
	backupPath, err := r.backup.WriteJSON(fmt.Sprintf("loan_documents_%s.json", ts), loans)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorWritingBackupArtifact, err)
		return nil, err
	}
	summary.Artifacts = append(summary.Artifacts, backupPath)

	var userIDs []primitive.ObjectID
	for _, loan := range loans {
		violations := CheckIntegerSchema(loan.ID.Hex(), loan.Amortization)
		if len(violations) > 0 {
			logger.CtxWarn(ctx, log_messages.FloatFieldsInAmortizationTable,
				slog.String("loan_id", loan.ID.Hex()), slog.Int("installments", len(violations)))
			summary.SchemaViolations = append(summary.SchemaViolations, violations...)
		}

		before := ArrearSnapshots(loan.Amortization)
		fixed, cleared, changed := ClearAllArrears(loan.Amortization)
		if !changed {
			continue
		}

		result, err := r.loanRepo.ReplaceAmortization(ctx, loan.ID, fixed)
		if err != nil {
			logger.CtxError(ctx, log_messages.ErrorUpdatingLoanDocument, err,
				slog.String("loan_id", loan.ID.Hex()))
			summary.FailedLoans = append(summary.FailedLoans, loan.ID.Hex())
			continue
		}

		summary.UpdatedLoans = append(summary.UpdatedLoans, models.ArrearsUpdate{
			LoanID:        loan.ID.Hex(),
			Before:        before,
			After:         ArrearSnapshots(fixed),
			MatchedCount:  result.MatchedCount,
			ModifiedCount: result.ModifiedCount,
		})
		logger.CtxInfo(ctx, "Cleared arrear residue on paid loan",
			slog.String("loan_id", loan.ID.Hex()), slog.Int("installments", len(cleared)))

		if !loan.UserID.IsZero() {
			userIDs = append(userIDs, loan.UserID)
		}
	}

	validations, updates, err := r.users.ValidateUsers(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	summary.UsersExamined = validations
	summary.UserUpdates = updates

	artifacts := []struct {
		name string
		data interface{}
	}{
		{fmt.Sprintf("amortization_updates_%s.json", ts), summary.UpdatedLoans},
		{fmt.Sprintf("user_validation_%s.json", ts), validations},
		{fmt.Sprintf("user_updates_%s.json", ts), updates},
	}
	for _, artifact := range artifacts {
		path, err := r.backup.WriteJSON(artifact.name, artifact.data)
		if err != nil {
			logger.CtxError(ctx, log_messages.ErrorWritingBackupArtifact, err, slog.String("name", artifact.name))
			return nil, err
		}
		summary.Artifacts = append(summary.Artifacts, path)
	}

	mirrorArtifacts(ctx, r.mirror, summary.Artifacts)

	if subject, html, err := notification.BuildArrearsEmail(*summary, ts); err == nil {
		_ = r.notifier.Send(ctx, subject, html)
	}

	return summary, nil
}

func (r *ArrearsRunner) normalizeDates(ctx context.Context, entityIDs []string, ts string) ([]models.DateFix, string, error) {
	loans, err := r.loanRepo.FindLoansWithPaymentDatePattern(ctx, entityIDs, todayDatePattern(r.now()))
	if err != nil {
		return nil, "", err
	}
	if len(loans) == 0 {
		return nil, "", nil
	}

	backupPath, err := r.backup.WriteJSON(fmt.Sprintf("payment_loan_documents_%s.json", ts), loans)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorWritingBackupArtifact, err)
		return nil, "", err
	}

	var fixes []models.DateFix
	for _, loan := range loans {
		for _, field := range dateFields {
			value := loan.PaymentDate
			if field == "limit_payment_date" {
				value = loan.LimitPaymentDate
			}
			if value == "" {
				continue
			}

			normalized, changed := NormalizeDate(value)
			if !changed {
				continue
			}

			if _, err := r.loanRepo.UpdateDateField(ctx, loan.ID, field, normalized); err != nil {
				logger.CtxError(ctx, log_messages.ErrorUpdatingLoanDocument, err,
					slog.String("loan_id", loan.ID.Hex()), slog.String("field", field))
				continue
			}
			fixes = append(fixes, models.DateFix{
				LoanID: loan.ID.Hex(),
				Field:  field,
				Before: value,
				After:  normalized,
			})
		}
	}

	if len(fixes) > 0 {
		logger.CtxInfo(ctx, "Normalized stored dates to UTC", slog.Int("count", len(fixes)))
	}
	return fixes, backupPath, nil
}

func mirrorArtifacts(ctx context.Context, mirror interfaces.ArtifactMirrorInterface, paths []string) {
	if mirror == nil {
		return
	}
	for _, path := range paths {
		// Upload logs its own failures; mirroring is best effort.
		_ = mirror.Upload(ctx, path)
	}
}
