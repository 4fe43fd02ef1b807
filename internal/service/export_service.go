package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/studio622/booking-api/internal/schedule"
	appErrors "github.com/studio622/booking-api/pkg/errors"
	"github.com/studio622/booking-api/pkg/export"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string, generatedAt time.Time) ([]byte, error)
}

// ExportService renders a month of bookings into downloadable CSV or PDF
// documents.
type ExportService struct {
	repo   calendarRepository
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
	studio string
	loc    *time.Location
}

// NewExportService constructs an ExportService.
func NewExportService(repo calendarRepository, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger, studio string, loc *time.Location) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &ExportService{repo: repo, csv: csv, pdf: pdf, logger: logger, studio: studio, loc: loc}
}

var exportHeaders = []string{"date", "start", "end", "title", "owner", "kind", "flagged"}

// MonthCSV renders the month's bookings as CSV.
func (s *ExportService) MonthCSV(ctx context.Context, year int, month time.Month) ([]byte, error) {
	data, err := s.monthDataset(ctx, year, month)
	if err != nil {
		return nil, err
	}
	out, err := s.csv.Render(*data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
	}
	return out, nil
}

// MonthPDF renders the month's bookings as a PDF table.
func (s *ExportService) MonthPDF(ctx context.Context, year int, month time.Month) ([]byte, error) {
	data, err := s.monthDataset(ctx, year, month)
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("Studio Schedule %04d-%02d", year, int(month))
	out, err := s.pdf.Render(*data, title, time.Now().In(s.loc))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
	}
	return out, nil
}

func (s *ExportService) monthDataset(ctx context.Context, year int, month time.Month) (*export.Dataset, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, s.loc)
	to := from.AddDate(0, 1, 0)

	bookings, err := s.repo.ListStartingBetween(ctx, s.studio, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load month bookings")
	}

	data := &export.Dataset{Headers: exportHeaders, Rows: make([][]string, 0, len(bookings))}
	for _, b := range bookings {
		view := schedule.View(b, s.loc)
		data.Rows = append(data.Rows, []string{
			view.Start.Format("2006-01-02"),
			view.Start.Format("15:04"),
			view.End.Format("15:04"),
			view.Title,
			view.Owner,
			string(view.Kind),
			fmt.Sprintf("%t", view.Flagged),
		})
	}
	return data, nil
}
