package domain

import (
	"fmt"
	"strings"
)

type Book struct {
	ID        int32  `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	ISBN      string `json:"isbn"`
	Available bool   `json:"available"`
}

// Validate checks the fields a librarian must supply
func (b *Book) Validate() error {
	b.Title = strings.TrimSpace(b.Title)
	b.ISBN = strings.TrimSpace(b.ISBN)
	if b.Title == "" {
		return fmt.Errorf("%w: book title is required", ErrInvalidInput)
	}
	if len(b.Title) > 200 {
		return fmt.Errorf("%w: book title exceeds 200 characters", ErrInvalidInput)
	}
	if len(b.ISBN) > 50 {
		return fmt.Errorf("%w: isbn exceeds 50 characters", ErrInvalidInput)
	}
	return nil
}
