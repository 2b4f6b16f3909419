package service

import (
	"context"
	"fmt"

	"library-fines-backend/internal/domain"
	"library-fines-backend/internal/logger"
	"library-fines-backend/internal/repository"

	"github.com/shopspring/decimal"
)

type fineService struct {
	fineRepo   repository.FineRepository
	memberRepo repository.MemberRepository
}

func NewFineService(fineRepo repository.FineRepository, memberRepo repository.MemberRepository) FineService {
	return &fineService{fineRepo: fineRepo, memberRepo: memberRepo}
}

// CreateFine records a manual fine. Paid state is driven by payments, so
// only a zero-amount fine starts out paid.
func (s *fineService) CreateFine(ctx context.Context, f *domain.Fine) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if _, err := s.memberRepo.GetByID(ctx, f.MemberID); err != nil {
		return err
	}
	f.Paid = f.Amount.IsZero()
	f.SourceHistoryID = nil
	if err := s.fineRepo.Create(ctx, f); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Fine created", "fineID", f.ID, "memberID", f.MemberID, "amount", f.Amount.StringFixed(2))
	return nil
}

func (s *fineService) GetFine(ctx context.Context, id int32) (*domain.Fine, []domain.Payment, error) {
	fine, err := s.fineRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	payments, err := s.fineRepo.ListPayments(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return fine, payments, nil
}

func (s *fineService) ListFines(ctx context.Context, filter domain.FineFilter) ([]domain.Fine, error) {
	return s.fineRepo.List(ctx, filter)
}

func (s *fineService) RecordPayment(ctx context.Context, fineID int32, amount *decimal.Decimal) (*domain.Fine, *domain.Payment, error) {
	logger.EnterMethod("fineService.RecordPayment", "fineID", fineID)

	payment := &domain.Payment{FineID: fineID}
	if amount != nil {
		payment.Amount = *amount
	} else {
		fine, err := s.fineRepo.GetByID(ctx, fineID)
		if err != nil {
			logger.ExitMethodWithError("fineService.RecordPayment", err, "fineID", fineID)
			return nil, nil, err
		}
		if fine.Paid {
			return nil, nil, fmt.Errorf("%w: fine %d is already paid", domain.ErrConflict, fineID)
		}
		payment.Amount = fine.Outstanding()
	}

	if err := payment.Validate(); err != nil {
		return nil, nil, err
	}

	fine, err := s.fineRepo.RecordPayment(ctx, payment)
	if err != nil {
		logger.ExitMethodWithError("fineService.RecordPayment", err, "fineID", fineID)
		return nil, nil, err
	}

	logger.InfoContext(ctx, "Payment recorded", "fineID", fineID, "paymentID", payment.ID,
		"amount", payment.Amount.StringFixed(2), "settled", fine.Paid)
	logger.ExitMethod("fineService.RecordPayment", "fineID", fineID)
	return fine, payment, nil
}
