package services

import (
	"context"
	"fmt"
	"time"

	"github.com/soaringjerry/Persona/internal/models"
)

const (
	ExportFormatLong    = "long"
	ExportFormatSummary = "summary"
)

type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ExportService struct {
	results ResultLister
	now     func() time.Time
}

func NewExportService(results ResultLister) *ExportService {
	return &ExportService{results: results, now: func() time.Time { return time.Now().UTC() }}
}

// ExportCSV renders every stored result in the requested format. An empty
// format means long.
func (s *ExportService) ExportCSV(ctx context.Context, format string) (*ExportResult, error) {
	if format == "" {
		format = ExportFormatLong
	}
	var render func([]models.TestResult) ([]byte, error)
	switch format {
	case ExportFormatLong:
		render = ExportLongCSV
	case ExportFormatSummary:
		render = ExportSummaryCSV
	default:
		return nil, NewInvalidError("export.unsupported_format")
	}
	rs, err := s.results.Results(ctx)
	if err != nil {
		return nil, err
	}
	b, err := render(rs)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		Filename:    fmt.Sprintf("persona-%s-%s.csv", format, s.now().Format("20060102")),
		ContentType: "text/csv; charset=utf-8",
		Data:        b,
	}, nil
}
