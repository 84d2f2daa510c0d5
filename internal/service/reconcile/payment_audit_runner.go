package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"consistencychecker/internal/pkg/config"
	"consistencychecker/internal/pkg/consts"
	"consistencychecker/internal/pkg/log_messages"
	"consistencychecker/internal/pkg/logger"
	"consistencychecker/internal/pkg/models"
	"consistencychecker/internal/pkg/notification"
	storemodels "consistencychecker/internal/pkg/store/models"
	"consistencychecker/internal/service/interfaces"
)

// recentWindowDays is how far back the "recent" range reaches from today.
const recentWindowDays = 2

// PaymentAuditRunner cross-checks payments against amortization tables and
// reports transactions the tables do not acknowledge. It never mutates the
// database.
type PaymentAuditRunner struct {
	scope       config.ScopeConfig
	paymentRepo interfaces.PaymentRepositoryInterface
	auditor     *PaymentAuditor
	backup      interfaces.BackupWriterInterface
	notifier    interfaces.NotifierInterface
	mirror      interfaces.ArtifactMirrorInterface
	now         func() time.Time
}

func NewPaymentAuditRunner(
	scope config.ScopeConfig,
	paymentRepo interfaces.PaymentRepositoryInterface,
	auditor *PaymentAuditor,
	backup interfaces.BackupWriterInterface,
	notifier interfaces.NotifierInterface,
	mirror interfaces.ArtifactMirrorInterface,
) *PaymentAuditRunner {
	return &PaymentAuditRunner{
		scope:       scope,
		paymentRepo: paymentRepo,
		auditor:     auditor,
		backup:      backup,
		notifier:    notifier,
		mirror:      mirror,
		now:         time.Now,
	}
}

func (r *PaymentAuditRunner) Run(ctx context.Context, dateRange string, limit int64) (*models.PaymentAuditSummary, error) {
	payments, err := r.fetchPayments(ctx, dateRange, limit)
	if err != nil {
		return nil, err
	}

	summary := &models.PaymentAuditSummary{
		Range:            dateRange,
		Limit:            limit,
		PaymentsExamined: len(payments),
	}

	ts := r.backup.Timestamp()

	if len(payments) > 0 {
		backupPath, err := r.backup.WriteJSON(fmt.Sprintf("payment_loan_documents_%s.json", ts), payments)
		if err != nil {
			logger.CtxError(ctx, log_messages.ErrorWritingBackupArtifact, err)
			return nil, err
		}
		summary.Artifacts = append(summary.Artifacts, backupPath)
	}

	var inconsistent []string
	for _, payment := range payments {
		findings, flagged, err := r.auditor.AuditPayment(ctx, payment)
		if err != nil {
			return nil, err
		}
		summary.Findings = append(summary.Findings, findings...)
		inconsistent = append(inconsistent, flagged...)
	}
	summary.InconsistentLoans = SortedUniqueIDs(inconsistent)

	logger.CtxInfo(ctx, "Payment application audit finished",
		slog.String("range", dateRange),
		slog.Int("payments", len(payments)),
		slog.Int("findings", len(summary.Findings)),
		slog.Int("loans", len(summary.InconsistentLoans)))

	csvPath, err := r.backup.WriteFindingsCSV(artifactName("unapplied_transactions", dateRange, limit, "csv"), summary.Findings)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorWritingBackupArtifact, err)
		return nil, err
	}
	summary.Artifacts = append(summary.Artifacts, csvPath)

	txtPath, err := r.backup.WriteLoanIDList(
		artifactName("inconsistent_loans", dateRange, limit, "txt"),
		fmt.Sprintf("LOANS WITH UNAPPLIED PAYMENTS (%s)", dateRange),
		summary.InconsistentLoans)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorWritingBackupArtifact, err)
		return nil, err
	}
	summary.Artifacts = append(summary.Artifacts, txtPath)

	mirrorArtifacts(ctx, r.mirror, summary.Artifacts)

	if subject, html, err := notification.BuildPaymentAuditEmail(*summary, ts); err == nil {
		_ = r.notifier.Send(ctx, subject, html)
	}

	return summary, nil
}

func (r *PaymentAuditRunner) fetchPayments(ctx context.Context, dateRange string, limit int64) ([]storemodels.Payment, error) {
	entityIDs := r.scope.EntityIDs()

	switch dateRange {
	case consts.RangeRecent:
		// Recent audits deliberately span every entity.
		from := r.now().UTC().AddDate(0, 0, -recentWindowDays).Format("2006-01-02")
		return r.paymentRepo.FindPaymentsSince(ctx, from, limit)
	case consts.RangeAugust:
		return r.paymentRepo.FindPaymentsBetween(ctx, "2025-08-01", "2025-09-01", entityIDs, limit)
	case consts.RangeSeptember:
		return r.paymentRepo.FindPaymentsBetween(ctx, "2025-09-01", "2025-10-01", entityIDs, limit)
	case consts.RangeOctober:
		// The October window intentionally spans every entity.
		return r.paymentRepo.FindPaymentsSince(ctx, "2025-10-01", limit)
	default:
		return nil, fmt.Errorf("unknown date range %q", dateRange)
	}
}

// artifactName builds <prefix>_<range>[_test_<limit>].<ext>; limited runs
// are labelled so partial reports are never mistaken for full ones.
func artifactName(prefix, dateRange string, limit int64, ext string) string {
	if limit > 0 {
		return fmt.Sprintf("%s_%s_test_%d.%s", prefix, dateRange, limit, ext)
	}
	return fmt.Sprintf("%s_%s.%s", prefix, dateRange, ext)
}
