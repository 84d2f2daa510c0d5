package backup

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"consistencychecker/internal/pkg/models"
)

const timestampLayout = "20060102_150405"

// Writer persists run artifacts under a local backup directory. Every
// repair writes its before image here before touching the database.
type Writer struct {
	dir string
	now func() time.Time
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, now: time.Now}
}

func NewWriterWithClock(dir string, now func() time.Time) *Writer {
	return &Writer{dir: dir, now: now}
}

// Timestamp returns the run timestamp used to suffix artifact names.
func (w *Writer) Timestamp() string {
	return w.now().Format(timestampLayout)
}

func (w *Writer) ensureDir() error {
	return os.MkdirAll(w.dir, 0o755)
}

// WriteJSON writes v indented to <dir>/<name> and returns the full path.
func (w *Writer) WriteJSON(name string, v interface{}) (string, error) {
	if err := w.ensureDir(); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshalling %s: %w", name, err)
	}

	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// WriteFindingsCSV writes audit findings with a fixed column order so the
// files diff cleanly between runs.
func (w *Writer) WriteFindingsCSV(name string, findings []models.UnappliedFinding) (string, error) {
	if err := w.ensureDir(); err != nil {
		return "", err
	}

	path := filepath.Join(w.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"payment_id", "loan_id", "transaction_ids", "term", "issue"}); err != nil {
		return "", err
	}
	for _, finding := range findings {
		record := []string{
			finding.PaymentID,
			finding.LoanID,
			finding.TransactionIDs,
			strconv.Itoa(finding.Term),
			finding.Issue,
		}
		if err := cw.Write(record); err != nil {
			return "", err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", err
	}
	return path, nil
}

// WriteLoanIDList writes a plain text report: a title, a separator, then
// one loan id per line with a trailing blank line.
func (w *Writer) WriteLoanIDList(name string, title string, loanIDs []string) (string, error) {
	if err := w.ensureDir(); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	for _, id := range loanIDs {
		b.WriteString(id + "\n")
	}
	b.WriteString("\n")

	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
