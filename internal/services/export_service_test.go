package services

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestExportServiceFormats(t *testing.T) {
	svc := NewExportService(stubLister{results: exportFixture})
	svc.now = func() time.Time { return time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC) }

	res, err := svc.ExportCSV(context.Background(), "")
	if err != nil {
		t.Fatalf("export default: %v", err)
	}
	if res.Filename != "persona-long-20240630.csv" {
		t.Fatalf("unexpected filename %s", res.Filename)
	}
	if !strings.HasPrefix(res.ContentType, "text/csv") {
		t.Fatalf("unexpected content type %s", res.ContentType)
	}
	if !strings.HasPrefix(string(res.Data), "timestamp,question_no") {
		t.Fatalf("default format should be long, got %q", res.Data)
	}

	res, err = svc.ExportCSV(context.Background(), ExportFormatSummary)
	if err != nil {
		t.Fatalf("export summary: %v", err)
	}
	recs, err := readCSV(res.Data)
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(recs) != 1+len(exportFixture) {
		t.Fatalf("want %d rows, got %d", 1+len(exportFixture), len(recs))
	}
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(stubLister{})
	_, err := svc.ExportCSV(context.Background(), "wide")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorInvalid {
		t.Fatalf("expected invalid error, got %v", err)
	}
}
