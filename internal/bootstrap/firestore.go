package bootstrap

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"github.com/aeromov/movements-backend/config"
)

const firestoreScope = "https://www.googleapis.com/auth/datastore"

// OpenFirestore initializes the Firebase Admin SDK and returns a Firestore
// client. Credentials resolve in order: inline JSON from the environment, a
// key file on disk, then Application Default Credentials.
func OpenFirestore(ctx context.Context, cfg *config.FirebaseConfig) (*firestore.Client, error) {
	var opts []option.ClientOption

	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsPath != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	default:
		creds, err := google.FindDefaultCredentials(ctx, firestoreScope)
		if err != nil {
			return nil, fmt.Errorf("no firebase credentials configured and ADC lookup failed: %w", err)
		}
		opts = append(opts, option.WithCredentials(creds))
	}

	var fbCfg *firebase.Config
	if cfg.ProjectID != "" {
		fbCfg = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, fbCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Firestore client: %w", err)
	}

	return client, nil
}
