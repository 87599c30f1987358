package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gamecodeshop/internal/domain/entity"
	"gamecodeshop/internal/domain/repository"
	"gamecodeshop/pkg/errors"
)

type firestoreSettingsRepository struct {
	client *firestore.Client
}

func NewFirestoreSettingsRepository(client *firestore.Client) repository.SettingsRepository {
	return &firestoreSettingsRepository{
		client: client,
	}
}

func (r *firestoreSettingsRepository) GetOmiseSettings(ctx context.Context) (*entity.OmiseSettings, error) {
	doc, err := r.client.Collection("settings").Doc("omise").Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, errors.Internal("Failed to get omise settings", err)
	}

	var settings entity.OmiseSettings
	if err := doc.DataTo(&settings); err != nil {
		return nil, errors.Internal("Failed to parse omise settings", err)
	}
	return &settings, nil
}
