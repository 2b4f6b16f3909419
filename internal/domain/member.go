package domain

import (
	"fmt"
	"strings"
	"time"
)

type Member struct {
	ID       int32     `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone"`
	JoinedAt time.Time `json:"joined_at"`
}

// Validate checks the fields a librarian must supply
func (m *Member) Validate() error {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	if m.Name == "" {
		return fmt.Errorf("%w: member name is required", ErrInvalidInput)
	}
	if len(m.Name) > 120 {
		return fmt.Errorf("%w: member name exceeds 120 characters", ErrInvalidInput)
	}
	if m.Email != "" && !strings.Contains(m.Email, "@") {
		return fmt.Errorf("%w: invalid email %q", ErrInvalidInput, m.Email)
	}
	if len(m.Phone) > 20 {
		return fmt.Errorf("%w: phone exceeds 20 characters", ErrInvalidInput)
	}
	return nil
}
