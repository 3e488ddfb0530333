package cron

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/dkushnir/library-service-api/pkg/db/models"
	"github.com/dkushnir/library-service-api/pkg/logger"
)

const reportDateLayout = "2006-01-02"

// overdueReader lists open borrowings whose expected return date has passed.
type overdueReader interface {
	FindOpenOverdue(ctx context.Context, asOf time.Time) ([]models.Borrowing, error)
}

// OverdueJobParams configure the overdue borrowings scanner.
type OverdueJobParams struct {
	Logger     *logger.Logger
	Borrowings overdueReader
	ReportPath string
	Now        func() time.Time
}

// NewOverdueJob builds the cron job that appends a daily overdue report to a
// plain-text file. Each run adds a dated section; a day with nothing overdue
// still gets an entry.
func NewOverdueJob(params OverdueJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Borrowings == nil {
		return nil, fmt.Errorf("borrowings reader required")
	}
	if params.ReportPath == "" {
		return nil, fmt.Errorf("report path required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &overdueJob{
		logg:       params.Logger,
		borrowings: params.Borrowings,
		reportPath: params.ReportPath,
		now:        now,
	}, nil
}

type overdueJob struct {
	logg       *logger.Logger
	borrowings overdueReader
	reportPath string
	now        func() time.Time
}

func (j *overdueJob) Name() string { return "overdue-borrowings" }

func (j *overdueJob) Run(ctx context.Context) error {
	today := truncateToDate(j.now().UTC())

	rows, err := j.borrowings.FindOpenOverdue(ctx, today)
	if err != nil {
		return fmt.Errorf("query overdue borrowings: %w", err)
	}

	report := buildReport(today, rows)
	if err := j.appendReport(report); err != nil {
		return fmt.Errorf("write overdue report: %w", err)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{"count": len(rows), "report": j.reportPath})
	j.logg.Info(logCtx, "overdue scan complete")
	return nil
}

func buildReport(today time.Time, rows []models.Borrowing) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Date: %s.\n", today.Format(reportDateLayout))
	if len(rows) == 0 {
		sb.WriteString("No borrowings overdue today!\n\n")
		return sb.String()
	}
	for i := range rows {
		b := &rows[i]
		fmt.Fprintf(&sb, "Borrowing ID is %d.\n", b.ID)
		fmt.Fprintf(&sb, "The return of the borrowed book titled '%s' is overdue.\n", b.Book.Title)
		fmt.Fprintf(&sb, "The expected return date was %s.\n\n", b.ExpectedReturnDate.Format(reportDateLayout))
	}
	return sb.String()
}

func (j *overdueJob) appendReport(report string) error {
	file, err := os.OpenFile(j.reportPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	_, writeErr := file.WriteString(report)
	return multierr.Combine(writeErr, file.Close())
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
