package repository

import (
	"context"

	"gamecodeshop/internal/domain/entity"
)

type BankVerificationRepository interface {
	Create(ctx context.Context, verification *entity.BankVerification) error
	GetByID(ctx context.Context, id string) (*entity.BankVerification, error)
	// RecordAttempt reads, mutates and writes the verification atomically.
	// An error from mutate aborts the write and is returned as is.
	RecordAttempt(ctx context.Context, id string, mutate func(*entity.BankVerification) error) (*entity.BankVerification, error)
}

type SettingsRepository interface {
	// GetOmiseSettings returns nil, nil when settings/omise does not exist.
	GetOmiseSettings(ctx context.Context) (*entity.OmiseSettings, error)
}
