package gcs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"consistencychecker/internal/pkg/config"
	"consistencychecker/internal/pkg/log_messages"
	"consistencychecker/internal/pkg/logger"

	"cloud.google.com/go/storage"
)

type GCSClient struct {
	Client     *storage.Client
	BucketName string
	FolderName string
}

func NewGCSClient(ctx context.Context, cfg config.GCSConfig) (*GCSClient, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GCSClient{
		Client:     client,
		BucketName: cfg.Bucket,
		FolderName: cfg.Folder,
	}, nil
}

func (g *GCSClient) Close() error {
	if g.Client == nil {
		return nil
	}
	return g.Client.Close()
}

// Upload mirrors one local artifact into the bucket under the configured
// folder. Objects are immutable; a rerun within the same second would
// produce the same name, so the existing object wins.
func (g *GCSClient) Upload(ctx context.Context, localPath string) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorWritingBackupArtifact, err, slog.String("path", localPath))
		return err
	}

	objectName := fmt.Sprintf("%s/%s", g.FolderName, filepath.Base(localPath))
	object := g.Client.Bucket(g.BucketName).Object(objectName)

	writer := object.If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	writer.ContentType = contentTypeFor(localPath)
	if _, err := writer.Write(data); err != nil {
		logger.CtxError(ctx, log_messages.ErrorUploadingToGCSBucket, err, slog.String("objectName", objectName))
		return err
	}
	if err := writer.Close(); err != nil {
		logger.CtxError(ctx, log_messages.ErrorClosingGCSWriter, err, slog.String("objectName", objectName))
		return err
	}

	logger.CtxInfo(ctx, "Uploaded artifact to GCS bucket", slog.String("objectName", objectName))
	return nil
}

func contentTypeFor(path string) string {
	switch filepath.Ext(path) {
	case ".json":
		return "application/json"
	case ".csv":
		return "text/csv"
	default:
		return "text/plain"
	}
}
