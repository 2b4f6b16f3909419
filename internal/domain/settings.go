package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	SettingFineRate      = "fine_rate"
	SettingMaxBorrowDays = "max_borrow_days"
	SettingAppVersion    = "app_version"
)

// Settings are the circulation rules editable from the settings page
type Settings struct {
	FineRate      decimal.Decimal `json:"fine_rate"`
	MaxBorrowDays int             `json:"max_borrow_days"`
	AppVersion    string          `json:"app_version"`
}

// SettingsUpdate carries a partial settings change; nil fields are kept
type SettingsUpdate struct {
	FineRate      *decimal.Decimal `json:"fine_rate,omitempty"`
	MaxBorrowDays *int             `json:"max_borrow_days,omitempty"`
}

// Validate checks the requested values
func (u SettingsUpdate) Validate() error {
	if u.FineRate != nil && u.FineRate.IsNegative() {
		return fmt.Errorf("%w: fine rate must not be negative", ErrInvalidInput)
	}
	if u.MaxBorrowDays != nil && (*u.MaxBorrowDays < 1 || *u.MaxBorrowDays > 365) {
		return fmt.Errorf("%w: max borrow days must be between 1 and 365", ErrInvalidInput)
	}
	return nil
}
