package service

import (
	"context"
	"errors"
	"time"

	"library-fines-backend/internal/domain"
	"library-fines-backend/internal/logger"
	"library-fines-backend/internal/metrics"
	"library-fines-backend/internal/report"
	"library-fines-backend/internal/repository"
)

type reportService struct {
	analytics   AnalyticsService
	historyRepo repository.HistoryRepository
	fineRepo    repository.FineRepository
	builder     *report.Builder
	renderer    Renderer
}

func NewReportService(analytics AnalyticsService, historyRepo repository.HistoryRepository, fineRepo repository.FineRepository, builder *report.Builder, renderer Renderer) ReportService {
	return &reportService{
		analytics:   analytics,
		historyRepo: historyRepo,
		fineRepo:    fineRepo,
		builder:     builder,
		renderer:    renderer,
	}
}

func (s *reportService) AnalyticsReport(ctx context.Context, filter domain.FineFilter) (*report.Document, []byte, error) {
	doc := s.builder.Analytics(s.analytics.Snapshot(ctx, filter))
	return s.render(ctx, doc)
}

func (s *reportService) HistoryReport(ctx context.Context, dateFrom, dateTo, action string) (*report.Document, []byte, error) {
	filter, err := report.ParseHistoryFilter(dateFrom, dateTo, action)
	if err != nil {
		return nil, nil, s.fail(ctx, report.KindHistory, err)
	}

	entries, err := s.historyRepo.List(ctx, filter)
	if err != nil {
		return nil, nil, s.fail(ctx, report.KindHistory, err)
	}

	doc, err := s.builder.HistoryExport(entries, filter)
	if err != nil {
		return nil, nil, s.fail(ctx, report.KindHistory, err)
	}
	return s.render(ctx, doc)
}

func (s *reportService) FinesReport(ctx context.Context, dateFrom, dateTo, status string) (*report.Document, []byte, error) {
	filter, err := report.ParseFineFilter(dateFrom, dateTo, status)
	if err != nil {
		return nil, nil, s.fail(ctx, report.KindFines, err)
	}

	fines, err := s.fineRepo.List(ctx, filter)
	if err != nil {
		return nil, nil, s.fail(ctx, report.KindFines, err)
	}

	doc, err := s.builder.FinesExport(fines, filter)
	if err != nil {
		return nil, nil, s.fail(ctx, report.KindFines, err)
	}
	return s.render(ctx, doc)
}

func (s *reportService) render(ctx context.Context, doc *report.Document) (*report.Document, []byte, error) {
	start := time.Now()
	out, err := s.renderer.Render(doc)
	metrics.ObserveRender(string(doc.Kind), start)
	if err != nil {
		return nil, nil, s.fail(ctx, doc.Kind, err)
	}

	metrics.ReportsGenerated.WithLabelValues(string(doc.Kind), metrics.ResultOK).Inc()
	logger.InfoContext(ctx, "Report generated", "kind", doc.Kind, "docID", doc.ID, "bytes", len(out))
	return doc, out, nil
}

func (s *reportService) fail(ctx context.Context, kind report.Kind, err error) error {
	result := metrics.ResultError
	switch {
	case errors.Is(err, domain.ErrNoData):
		result = metrics.ResultNoData
	case errors.Is(err, domain.ErrInvalidFilter):
		result = metrics.ResultInvalid
	}
	metrics.ReportsGenerated.WithLabelValues(string(kind), result).Inc()

	if result == metrics.ResultError {
		logger.ErrorContext(ctx, "Report generation failed", "kind", kind, "error", err)
	} else {
		logger.InfoContext(ctx, "Report not generated", "kind", kind, "reason", err)
	}
	return err
}
