// Package export produces XLSX reports of optimization job history.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/matchiq/matchiq/internal/entity"
	"github.com/matchiq/matchiq/internal/repository"
)

// Service is a tiny façade over the job repository that produces XLSX bytes.
type Service struct {
	repo   repository.JobRepository
	logger *slog.Logger
}

func NewService(repo repository.JobRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// ExportJobsXLSX returns an XLSX workbook (as bytes) listing every job.
func (s *Service) ExportJobsXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	jobs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Optimizations"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Submitted At",
		"Status",
		"ATS Score",
		"Keywords",
		"Error",
		"Job ID",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, j := range jobs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, j.CreatedAt.Format("2006-01-02 15:04:05"))
		write(2, string(j.Status))
		if j.ATSScore != nil {
			write(3, *j.ATSScore)
		}
		write(4, truncate(strings.Join(j.ExtractedKeywords, ", "), 140))
		if j.Status == entity.StatusFailed && j.ErrorMessage != nil {
			write(5, truncate(*j.ErrorMessage, 140))
		}
		write(6, j.ID.String())

		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 20) // timestamp
	_ = f.SetColWidth(sheet, "B", "B", 12) // status
	_ = f.SetColWidth(sheet, "D", "D", 60) // keywords
	_ = f.SetColWidth(sheet, "E", "E", 48) // error
	_ = f.SetColWidth(sheet, "F", "F", 38) // id

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(jobs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
