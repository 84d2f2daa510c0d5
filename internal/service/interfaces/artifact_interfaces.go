package interfaces

import (
	"context"

	"consistencychecker/internal/pkg/models"
)

// BackupWriterInterface persists run artifacts to the local backup directory
// and returns the path of each file written.
type BackupWriterInterface interface {
	WriteJSON(name string, v interface{}) (string, error)
	WriteFindingsCSV(name string, findings []models.UnappliedFinding) (string, error)
	WriteLoanIDList(name string, title string, loanIDs []string) (string, error)
	Timestamp() string
}

// ArtifactMirrorInterface copies local artifacts to an external object store.
type ArtifactMirrorInterface interface {
	Upload(ctx context.Context, localPath string) error
	Close() error
}
