package service

import (
	"context"
	"fmt"

	"library-fines-backend/internal/domain"
	"library-fines-backend/internal/logger"
	"library-fines-backend/internal/repository"
)

type circulationService struct {
	historyRepo repository.HistoryRepository
}

func NewCirculationService(historyRepo repository.HistoryRepository) CirculationService {
	return &circulationService{historyRepo: historyRepo}
}

func (s *circulationService) Borrow(ctx context.Context, memberID, bookID int32) (*domain.History, error) {
	return s.record(ctx, memberID, bookID, domain.HistoryActionBorrow)
}

func (s *circulationService) Return(ctx context.Context, memberID, bookID int32) (*domain.History, error) {
	return s.record(ctx, memberID, bookID, domain.HistoryActionReturn)
}

func (s *circulationService) record(ctx context.Context, memberID, bookID int32, action domain.HistoryAction) (*domain.History, error) {
	if memberID <= 0 || bookID <= 0 {
		return nil, fmt.Errorf("%w: member_id and book_id are required", domain.ErrInvalidInput)
	}
	entry := &domain.History{MemberID: memberID, BookID: bookID, Action: action}
	if err := s.historyRepo.Record(ctx, entry); err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Circulation recorded", "historyID", entry.ID, "action", action, "memberID", memberID, "bookID", bookID)
	return entry, nil
}

func (s *circulationService) ListHistory(ctx context.Context, filter domain.HistoryFilter) ([]domain.History, error) {
	return s.historyRepo.List(ctx, filter)
}
