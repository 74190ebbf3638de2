package store

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// NewFirebaseApp initializes the Firebase Admin app shared by Firestore, Auth and FCM.
// Base64 encoded credentials win over the local service account file.
func NewFirebaseApp(ctx context.Context, projectID, encodedCreds, localFilePath string) (*firebase.App, error) {
	var opts []option.ClientOption

	if encodedCreds != "" {
		decoded, err := base64.StdEncoding.DecodeString(encodedCreds)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 firebase credentials: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(decoded))
		zap.S().Info("Firebase: initializing from FIREBASE_SERVICE_ACCOUNT_JSON")
	} else if localFilePath != "" {
		if _, err := os.Stat(localFilePath); os.IsNotExist(err) {
			return nil, fmt.Errorf("local firebase file not found: %s, and FIREBASE_SERVICE_ACCOUNT_JSON is not set", localFilePath)
		}
		opts = append(opts, option.WithCredentialsFile(localFilePath))
		zap.S().Infof("Firebase: initializing from local file %s", localFilePath)
	} else {
		zap.S().Info("Firebase: no explicit credentials, using application default credentials")
	}

	var conf *firebase.Config
	if projectID != "" {
		conf = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	return app, nil
}
