package notification

import (
	"fmt"
	"html/template"
	"strings"

	"consistencychecker/internal/pkg/models"
)

const summaryTemplate = `<h2>{{.Title}}</h2>
<p>Run {{.Timestamp}}</p>
<ul>
{{- range .Lines}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- if .Artifacts}}
<p>Artifacts:</p>
<ul>
{{- range .Artifacts}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- end}}
`

var summaryTmpl = template.Must(template.New("summary").Parse(summaryTemplate))

type summaryEmail struct {
	Title     string
	Timestamp string
	Lines     []string
	Artifacts []string
}

func render(subject string, email summaryEmail) (string, string, error) {
	var b strings.Builder
	if err := summaryTmpl.Execute(&b, email); err != nil {
		return "", "", err
	}
	return subject, b.String(), nil
}

// BuildArrearsEmail renders the summary for a broad arrears reconciliation.
func BuildArrearsEmail(summary models.ArrearsSummary, timestamp string) (string, string, error) {
	return render(
		fmt.Sprintf("Loan consistency check: arrears repair %s", timestamp),
		summaryEmail{
			Title:     "Arrears repair",
			Timestamp: timestamp,
			Lines: []string{
				fmt.Sprintf("Candidate loans: %d", summary.CandidateLoans),
				fmt.Sprintf("Loans repaired: %d", len(summary.UpdatedLoans)),
				fmt.Sprintf("Dates normalized: %d", len(summary.DateFixes)),
				fmt.Sprintf("Users examined: %d", len(summary.UsersExamined)),
				fmt.Sprintf("Users reactivated: %d", len(summary.UserUpdates)),
				fmt.Sprintf("Schema violations: %d", len(summary.SchemaViolations)),
			},
			Artifacts: summary.Artifacts,
		})
}

// BuildZeroBalanceEmail renders the summary for a zero balance repair.
func BuildZeroBalanceEmail(summary models.ZeroBalanceSummary, timestamp string) (string, string, error) {
	return render(
		fmt.Sprintf("Loan consistency check: zero balance repair %s", timestamp),
		summaryEmail{
			Title:     "Zero balance repair",
			Timestamp: timestamp,
			Lines: []string{
				fmt.Sprintf("Candidate loans: %d", summary.CandidateLoans),
				fmt.Sprintf("Loans repaired: %d", len(summary.UpdatedLoans)),
				fmt.Sprintf("Installments matched: %d", summary.TotalMatched),
				fmt.Sprintf("Installments modified: %d", summary.TotalModified),
			},
			Artifacts: summary.Artifacts,
		})
}

// BuildPaymentAuditEmail renders the summary for a payment application audit.
func BuildPaymentAuditEmail(summary models.PaymentAuditSummary, timestamp string) (string, string, error) {
	lines := []string{
		fmt.Sprintf("Date range: %s", summary.Range),
		fmt.Sprintf("Payments examined: %d", summary.PaymentsExamined),
		fmt.Sprintf("Unapplied transaction groups: %d", len(summary.Findings)),
		fmt.Sprintf("Inconsistent loans: %d", len(summary.InconsistentLoans)),
	}
	if summary.Limit > 0 {
		lines = append(lines, fmt.Sprintf("Test limit: %d", summary.Limit))
	}
	return render(
		fmt.Sprintf("Loan consistency check: payment audit %s", timestamp),
		summaryEmail{
			Title:     "Payment application audit",
			Timestamp: timestamp,
			Lines:     lines,
			Artifacts: summary.Artifacts,
		})
}

// BuildPaymentLinksEmail renders the summary for a payment links repair.
func BuildPaymentLinksEmail(summary models.PaymentLinksSummary, timestamp string) (string, string, error) {
	return render(
		fmt.Sprintf("Loan consistency check: payment links repair %s", timestamp),
		summaryEmail{
			Title:     "Payment links repair",
			Timestamp: timestamp,
			Lines: []string{
				fmt.Sprintf("Candidate loans: %d", summary.CandidateLoans),
				fmt.Sprintf("Installments cleaned: %d", len(summary.Fixes)),
				fmt.Sprintf("Loans updated: %d", summary.UpdatedLoans),
			},
			Artifacts: summary.Artifacts,
		})
}
