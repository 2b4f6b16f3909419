package service

import (
	"context"

	"library-fines-backend/internal/domain"
	"library-fines-backend/internal/logger"
	"library-fines-backend/internal/repository"
)

type bookService struct {
	bookRepo repository.BookRepository
}

func NewBookService(bookRepo repository.BookRepository) BookService {
	return &bookService{bookRepo: bookRepo}
}

// CreateBook adds a copy to the catalogue; new copies are on the shelf.
func (s *bookService) CreateBook(ctx context.Context, b *domain.Book) error {
	if err := b.Validate(); err != nil {
		return err
	}
	b.Available = true
	if err := s.bookRepo.Create(ctx, b); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Book created", "bookID", b.ID)
	return nil
}

func (s *bookService) GetBook(ctx context.Context, id int32) (*domain.Book, error) {
	return s.bookRepo.GetByID(ctx, id)
}

func (s *bookService) ListBooks(ctx context.Context) ([]domain.Book, error) {
	return s.bookRepo.List(ctx)
}

func (s *bookService) UpdateBook(ctx context.Context, b *domain.Book) error {
	if err := b.Validate(); err != nil {
		return err
	}
	return s.bookRepo.Update(ctx, b)
}

func (s *bookService) DeleteBook(ctx context.Context, id int32) error {
	return s.bookRepo.Delete(ctx, id)
}
