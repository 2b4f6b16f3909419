package service

import (
	"context"

	"library-fines-backend/internal/domain"
	"library-fines-backend/internal/logger"
	"library-fines-backend/internal/repository"
)

type memberService struct {
	memberRepo repository.MemberRepository
}

func NewMemberService(memberRepo repository.MemberRepository) MemberService {
	return &memberService{memberRepo: memberRepo}
}

func (s *memberService) CreateMember(ctx context.Context, m *domain.Member) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if err := s.memberRepo.Create(ctx, m); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Member created", "memberID", m.ID)
	return nil
}

func (s *memberService) GetMember(ctx context.Context, id int32) (*domain.Member, error) {
	return s.memberRepo.GetByID(ctx, id)
}

func (s *memberService) ListMembers(ctx context.Context) ([]domain.Member, error) {
	return s.memberRepo.List(ctx)
}

func (s *memberService) UpdateMember(ctx context.Context, m *domain.Member) error {
	if err := m.Validate(); err != nil {
		return err
	}
	return s.memberRepo.Update(ctx, m)
}

func (s *memberService) DeleteMember(ctx context.Context, id int32) error {
	if err := s.memberRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Member deleted", "memberID", id)
	return nil
}
