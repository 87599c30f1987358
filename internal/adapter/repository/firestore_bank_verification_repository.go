package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gamecodeshop/internal/domain/entity"
	"gamecodeshop/internal/domain/repository"
	"gamecodeshop/pkg/errors"
)

type firestoreBankVerificationRepository struct {
	client *firestore.Client
}

func NewFirestoreBankVerificationRepository(client *firestore.Client) repository.BankVerificationRepository {
	return &firestoreBankVerificationRepository{
		client: client,
	}
}

func (r *firestoreBankVerificationRepository) Create(ctx context.Context, verification *entity.BankVerification) error {
	if verification.ID == "" {
		verification.ID = uuid.New().String()
	}
	now := time.Now()
	verification.CreatedAt = now
	verification.UpdatedAt = now

	if err := entity.ValidateDocument(verification); err != nil {
		return errors.BadRequest("Invalid bank verification", err)
	}
	if _, err := r.client.Collection("bankVerifications").Doc(verification.ID).Set(ctx, verification); err != nil {
		return errors.Internal("Failed to create bank verification", err)
	}
	return nil
}

func (r *firestoreBankVerificationRepository) GetByID(ctx context.Context, id string) (*entity.BankVerification, error) {
	doc, err := r.client.Collection("bankVerifications").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("ไม่พบรายการยืนยันบัญชี", err)
		}
		return nil, errors.Internal("Failed to get bank verification", err)
	}

	var verification entity.BankVerification
	if err := doc.DataTo(&verification); err != nil {
		return nil, errors.Internal("Failed to parse bank verification data", err)
	}
	if err := entity.ValidateDocument(&verification); err != nil {
		return nil, errors.Internal("Malformed bank verification document", err)
	}
	return &verification, nil
}

func (r *firestoreBankVerificationRepository) RecordAttempt(ctx context.Context, id string, mutate func(*entity.BankVerification) error) (*entity.BankVerification, error) {
	ref := r.client.Collection("bankVerifications").Doc(id)
	var updated *entity.BankVerification

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("ไม่พบรายการยืนยันบัญชี", err)
			}
			return err
		}

		var verification entity.BankVerification
		if err := doc.DataTo(&verification); err != nil {
			return errors.Internal("Failed to parse bank verification data", err)
		}
		if err := mutate(&verification); err != nil {
			return err
		}
		if err := entity.ValidateDocument(&verification); err != nil {
			return errors.Internal("Malformed bank verification document", err)
		}

		verification.UpdatedAt = time.Now()
		updated = &verification
		return tx.Set(ref, &verification)
	})
	if err != nil {
		if _, ok := errors.AsAppError(err); ok {
			return nil, err
		}
		return nil, errors.Internal("Failed to record verification attempt", err)
	}

	return updated, nil
}
