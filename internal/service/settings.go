package service

import (
	"context"
	"strconv"

	"library-fines-backend/internal/domain"
	"library-fines-backend/internal/logger"
	"library-fines-backend/internal/repository"

	"github.com/shopspring/decimal"
)

type settingsService struct {
	repo     repository.SettingsRepository
	defaults domain.Settings
}

func NewSettingsService(repo repository.SettingsRepository, defaults domain.Settings) SettingsService {
	return &settingsService{repo: repo, defaults: defaults}
}

func (s *settingsService) GetSettings(ctx context.Context) (*domain.Settings, error) {
	values, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	out := s.defaults
	if v, ok := values[domain.SettingFineRate]; ok {
		if rate, err := decimal.NewFromString(v); err == nil && !rate.IsNegative() {
			out.FineRate = rate
		} else {
			logger.WarnContext(ctx, "Ignoring malformed stored setting", "key", domain.SettingFineRate, "value", v)
		}
	}
	if v, ok := values[domain.SettingMaxBorrowDays]; ok {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			out.MaxBorrowDays = days
		} else {
			logger.WarnContext(ctx, "Ignoring malformed stored setting", "key", domain.SettingMaxBorrowDays, "value", v)
		}
	}
	if v, ok := values[domain.SettingAppVersion]; ok && v != "" {
		out.AppVersion = v
	}
	return &out, nil
}

func (s *settingsService) UpdateSettings(ctx context.Context, update domain.SettingsUpdate) (*domain.Settings, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}

	values := map[string]string{}
	if update.FineRate != nil {
		values[domain.SettingFineRate] = update.FineRate.StringFixed(2)
	}
	if update.MaxBorrowDays != nil {
		values[domain.SettingMaxBorrowDays] = strconv.Itoa(*update.MaxBorrowDays)
	}
	if len(values) > 0 {
		if err := s.repo.Save(ctx, values); err != nil {
			return nil, err
		}
		logger.InfoContext(ctx, "Library settings updated", "keys", len(values))
	}
	return s.GetSettings(ctx)
}

func (s *settingsService) SeedDefaults(ctx context.Context) error {
	values, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}

	missing := map[string]string{domain.SettingAppVersion: s.defaults.AppVersion}
	if _, ok := values[domain.SettingFineRate]; !ok {
		missing[domain.SettingFineRate] = s.defaults.FineRate.StringFixed(2)
	}
	if _, ok := values[domain.SettingMaxBorrowDays]; !ok {
		missing[domain.SettingMaxBorrowDays] = strconv.Itoa(s.defaults.MaxBorrowDays)
	}
	return s.repo.Save(ctx, missing)
}
