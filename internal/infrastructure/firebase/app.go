package firebase

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"gamecodeshop/pkg/logger"
)

// Clients are the Firebase services the API talks to.
type Clients struct {
	Auth      *auth.Client
	Firestore *firestore.Client
	// Option carries the same credentials for other Google clients (storage).
	Option option.ClientOption
}

// CredentialsOption prefers inline service-account JSON (production) and
// falls back to a key file (local development).
func CredentialsOption(serviceAccountJSON, serviceAccountPath string) (option.ClientOption, error) {
	if serviceAccountJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		return option.WithCredentialsJSON([]byte(serviceAccountJSON)), nil
	}

	if serviceAccountPath == "" {
		return nil, fmt.Errorf("no Firebase service account configured")
	}
	if _, err := os.Stat(serviceAccountPath); err != nil {
		return nil, fmt.Errorf("service account file %s: %w", serviceAccountPath, err)
	}

	logger.Info("Using Firebase service account from file: %s", serviceAccountPath)
	return option.WithCredentialsFile(serviceAccountPath), nil
}

func NewClients(ctx context.Context, projectID string, opt option.ClientOption) (*Clients, error) {
	app, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: projectID}, opt)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase auth: %w", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, projectID, opt)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}

	return &Clients{
		Auth:      authClient,
		Firestore: firestoreClient,
		Option:    opt,
	}, nil
}

func (c *Clients) Close() error {
	return c.Firestore.Close()
}
